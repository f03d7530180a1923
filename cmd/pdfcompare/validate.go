package main

import (
	"fmt"
	"os"

	"pdf-compare/internal/schemas"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <report.json>",
	Short: "Validate a JSON comparison report",
	Long:  "Validates a JSON comparison report, as written by compare --json, against the report schema.",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}
	if err := schemas.ValidateReport(data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", args[0])
	return nil
}
