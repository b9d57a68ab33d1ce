package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
	"vsib-scorecard/lib/serviceutil"
	"vsib-scorecard/services/extractor"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const (
	defaultInputDir  = "data"
	defaultOutputDir = "dashboard/suppliers"
)

func init() {
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract [inputDir] [outputDir]",
	Short: "Converts saved scorecard HTML files into per-supplier JSON records plus an index.",
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		inputDir := defaultInputDir
		outputDir := defaultOutputDir
		if len(args) > 0 {
			inputDir = args[0]
		}
		if len(args) > 1 {
			outputDir = args[1]
		}
		slog.Info("extracting scorecards", "input", inputDir, "output", outputDir)

		t1 := time.Now()
		result, err := extractor.RunBatch(cmd.Context(), inputDir, outputDir)
		if errors.Is(err, extractor.ErrNoInputFiles) {
			fmt.Printf("no HTML files found in %s\n", inputDir)
			return
		}
		if err != nil {
			serviceutil.Fatal("extraction batch failed", err)
		}
		slog.Info("extraction time", "seconds", time.Since(t1).Seconds())

		t := newTable()
		t.AppendHeader(table.Row{"Supplier", "Name"})
		for _, s := range result.Index {
			t.AppendRow(table.Row{s.ID, s.Name})
		}
		t.AppendFooter(table.Row{
			fmt.Sprintf("%d extracted", result.Processed),
			fmt.Sprintf("%d skipped", result.Failed),
		})
		t.Render()
	},
}
