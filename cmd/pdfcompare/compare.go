package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"pdf-compare/internal/compare"
	"pdf-compare/internal/domain"
	"pdf-compare/internal/renderer"
	"pdf-compare/internal/schemas"
	"pdf-compare/pkg/logger"

	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <first.pdf> <second.pdf>",
	Short: "Compare two PDF files",
	Long:  "Compares two PDF files page by page and prints a text summary or the JSON report.",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompare,
}

var (
	compareMode         string
	compareDPI          int
	compareThreshold    float64
	compareGridSize     int
	compareDetailed     bool
	compareStrategy     string
	compareDiffImages   string
	compareDiffPDF      string
	compareWorkers      int
	compareMemory       int64
	compareJSON         bool
	compareOutput       string
	compareUnifiedDiff  bool
	compareValidate     bool
	compareLogLevel     string
	compareSkipAdded    bool
	compareSkipDeleted  bool
	compareSkipModified bool
)

func init() {
	compareCmd.Flags().StringVarP(&compareMode, "mode", "m", string(domain.ModeVisual), "Comparison mode: visual, text or hybrid")
	compareCmd.Flags().IntVar(&compareDPI, "dpi", compare.DefaultDPI, "Rendering resolution")
	compareCmd.Flags().Float64VarP(&compareThreshold, "threshold", "t", compare.DefaultThreshold, "Similarity percentage below which a page is flagged")
	compareCmd.Flags().IntVar(&compareGridSize, "grid-size", compare.DefaultGridSize, "Cell size of the grid region localizer")
	compareCmd.Flags().BoolVarP(&compareDetailed, "detailed", "d", false, "Locate differing regions on changed pages")
	compareCmd.Flags().StringVar(&compareStrategy, "strategy", string(compare.StrategyGrid), "Region localizer: grid or floodfill")
	compareCmd.Flags().StringVar(&compareDiffImages, "diff-images", "", "Directory to write diff images of flagged pages to")
	compareCmd.Flags().StringVar(&compareDiffPDF, "diff-pdf", "", "Write a PDF report of the differences to this file")
	compareCmd.Flags().IntVarP(&compareWorkers, "workers", "w", compare.DefaultWorkers, "Pages compared concurrently")
	compareCmd.Flags().Int64Var(&compareMemory, "memory-ceiling", 0, "Maximum bytes of resident page rasters (0 disables the check)")
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "Print the JSON report instead of the text summary")
	compareCmd.Flags().StringVarP(&compareOutput, "out", "o", "", "Write the report to this file instead of stdout")
	compareCmd.Flags().BoolVar(&compareUnifiedDiff, "unified-diff", false, "Include a unified diff of the extracted text")
	compareCmd.Flags().BoolVar(&compareValidate, "validate", false, "Validate the JSON report against its schema")
	compareCmd.Flags().StringVar(&compareLogLevel, "log-level", "warn", "Log level")
	compareCmd.Flags().BoolVar(&compareSkipAdded, "hide-additions", false, "Omit added lines from text differences")
	compareCmd.Flags().BoolVar(&compareSkipDeleted, "hide-deletions", false, "Omit deleted lines from text differences")
	compareCmd.Flags().BoolVar(&compareSkipModified, "hide-modifications", false, "Omit modified lines from text differences")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	log := logger.NewLogger(compareLogLevel)

	doc1, err := renderer.OpenFile(args[0], log)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer doc1.Close()
	doc2, err := renderer.OpenFile(args[1], log)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[1], err)
	}
	defer doc2.Close()

	opts := compare.Options{
		Mode:                domain.CompareMode(compareMode),
		DPI:                 compareDPI,
		GridSize:            compareGridSize,
		DetailedAnalysis:    compareDetailed,
		RegionStrategy:      compare.RegionStrategy(compareStrategy),
		CreateDiffArtifacts: compareDiffImages != "" || compareDiffPDF != "",
		CreateDiffPDF:       compareDiffPDF != "",
		Workers:             compareWorkers,
		MemoryCeilingBytes:  compareMemory,
		IncludeUnifiedDiff:  compareUnifiedDiff,
		Lines: compare.LineFilter{
			SkipAdditions:     compareSkipAdded,
			SkipDeletions:     compareSkipDeleted,
			SkipModifications: compareSkipModified,
		},
	}.WithThreshold(compareThreshold)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := compare.NewEngine(log, compare.NewMemoryGuard(compareMemory))
	report, err := engine.Compare(ctx,
		documentFor(args[0], doc1),
		documentFor(args[1], doc2),
		opts)
	if err != nil {
		var partial *domain.PartialError
		if errors.As(err, &partial) {
			return fmt.Errorf("comparison stopped after %d of %d pages: %w", partial.PagesCompleted, partial.PagesTotal, partial.Cause)
		}
		return err
	}

	if compareDiffPDF != "" {
		if err := writeDiffPDF(compareDiffPDF, report); err != nil {
			return err
		}
	}
	if compareDiffImages != "" {
		if err := writeDiffImages(compareDiffImages, report); err != nil {
			return err
		}
	}
	clearInlineArtifacts(report)
	return writeReport(report)
}

func documentFor(path string, doc *renderer.FitzDocument) compare.Document {
	name := doc.Title()
	if name == "" {
		name = filepath.Base(path)
	}
	return compare.Document{ID: path, Name: name, Renderer: doc, Extractor: doc}
}

func writeDiffImages(dir string, report *domain.ComparisonReport) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create diff image directory: %w", err)
	}
	for _, a := range report.Artifacts() {
		path := filepath.Join(dir, fmt.Sprintf("page-%d.png", a.PageNumber))
		if err := os.WriteFile(path, a.Data, 0644); err != nil {
			return fmt.Errorf("failed to write diff image: %w", err)
		}
		a.Path = path
	}
	return nil
}

func writeDiffPDF(path string, report *domain.ComparisonReport) error {
	doc := report.DiffDocument
	if doc == nil {
		return errors.New("diff PDF could not be generated")
	}
	if err := os.WriteFile(path, doc.Data, 0644); err != nil {
		return fmt.Errorf("failed to write diff PDF: %w", err)
	}
	doc.Path = path
	return nil
}

// clearInlineArtifacts drops payloads from the printed report. Only the files
// written to disk are kept.
func clearInlineArtifacts(report *domain.ComparisonReport) {
	for _, a := range report.Artifacts() {
		a.Data = nil
	}
	if report.DiffDocument != nil {
		report.DiffDocument.Data = nil
	}
}

func writeReport(report *domain.ComparisonReport) error {
	var out []byte
	if compareJSON || compareValidate {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report to JSON: %w", err)
		}
		if compareValidate {
			if err := schemas.ValidateReport(data); err != nil {
				return fmt.Errorf("report does not match schema: %w", err)
			}
		}
		out = append(data, '\n')
	}
	if !compareJSON {
		out = []byte(compare.FormatReport(report))
	}

	if compareOutput == "" {
		_, err := os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(compareOutput, out, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
