package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gravitrone/paramedit/internal/record"
)

// NewCmd returns the `paramedit new` command.
func NewCmd() *cobra.Command {
	var title string
	var force bool
	cmd := &cobra.Command{
		Use:   "new <record>",
		Short: "Create an empty record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := record.FormatFor(path); err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("stat record: %w", err)
			}

			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.close()

			rec := record.New(title)
			if err := record.Save(path, rec); err != nil {
				return fmt.Errorf("save record: %w", err)
			}
			e.logger.Info("record created", zap.String("path", path), zap.String("id", rec.ID))
			fmt.Fprintln(cmd.OutOrStdout(), rec.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "record title")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}
