package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gravitrone/paramedit/internal/cmd"
)

func main() {
	if err := newRoot().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:   "paramedit",
		Short: "paramedit - record parameter editor",
		Long:  "paramedit edits array parameters of flat key/value records, in a terminal UI or from scripts.",
		RunE: func(c *cobra.Command, _ []string) error {
			return c.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(cmd.EditCmd())
	root.AddCommand(cmd.ParamsCmd())
	root.AddCommand(cmd.NewCmd())
	root.AddCommand(cmd.ConfigCmd())
	return root
}
