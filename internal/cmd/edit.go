package cmd

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gravitrone/paramedit/internal/record"
	"github.com/gravitrone/paramedit/internal/schema"
	"github.com/gravitrone/paramedit/internal/ui"
)

var errNotInteractive = errors.New("edit needs an interactive terminal")

// EditCmd returns the `paramedit edit` command.
func EditCmd() *cobra.Command {
	var schemaPath, component string
	cmd := &cobra.Command{
		Use:   "edit <record>",
		Short: "Edit a record's array parameters in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := args[0]

			res, err := schema.Load(schemaPath, component)
			if err != nil {
				return fmt.Errorf("load schema: %w", err)
			}
			rec, err := record.Load(path)
			if err != nil {
				return fmt.Errorf("load record: %w", err)
			}
			if !isInteractiveTerminal(os.Stdin) || !isInteractiveTerminal(os.Stdout) {
				return errNotInteractive
			}

			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.close()

			ui.ApplyTheme(e.cfg.Theme)
			e.logger.Info("editing record",
				zap.String("path", path),
				zap.String("resource", res.Name),
				zap.Int("arrays", len(res.ArrayProperties())),
			)

			app := ui.NewApp(path, rec, res, e.cfg, e.logger)
			if e.cfg.WatchRecords {
				watcher, err := ui.WatchRecord(path, ui.DefaultWatchDebounce, e.logger)
				if err != nil {
					e.logger.Warn("record watcher disabled", zap.Error(err))
				} else {
					defer func() { _ = watcher.Close() }()
					app = app.WithWatcher(watcher)
				}
			}

			p := tea.NewProgram(app, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("tui error: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "resource schema (YAML or OpenAPI document)")
	cmd.Flags().StringVarP(&component, "component", "c", "", "OpenAPI component schema to edit")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
