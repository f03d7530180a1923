// Package main provides the pdfcompare command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pdfcompare",
	Short: "Compare two versions of a PDF document",
	Long:  "pdfcompare compares two PDF files visually, by extracted text, or both, and reports per-page similarity and differing regions.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
