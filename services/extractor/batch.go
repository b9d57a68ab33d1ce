package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var ErrNoInputFiles = errors.New("no html files found in input directory")

// BatchResult summarizes one extraction pass over a directory of saved
// pages.
type BatchResult struct {
	Processed int
	Failed    int
	Index     []SupplierSummary
	IndexFile string
}

// RunBatch extracts every .html file under inputDir into per-supplier JSON
// files under outputDir, then writes the aggregate suppliers_index.json.
// file-level failures are logged and skipped, the batch always continues to
// the next file.
func RunBatch(ctx context.Context, inputDir, outputDir string) (BatchResult, error) {
	ctx, span := tracer.Start(ctx, "RunBatch", trace.WithAttributes(
		attribute.String("input_dir", inputDir),
		attribute.String("output_dir", outputDir),
	))
	defer span.End()

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return BatchResult{}, fmt.Errorf("read input directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".html") {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return BatchResult{}, ErrNoInputFiles
	}

	err = os.MkdirAll(outputDir, 0755)
	if err != nil {
		return BatchResult{}, fmt.Errorf("create output directory: %w", err)
	}

	now := time.Now()
	var result BatchResult
	for _, name := range files {
		rec, err := extractFile(ctx, filepath.Join(inputDir, name), now)
		if err != nil {
			slog.Error("failed to parse page, skipping", "file", name, "err", err)
			span.RecordError(err)
			result.Failed++
			continue
		}

		result.Index = append(result.Index, SupplierSummary{
			ID:      rec.ID,
			ParmaID: rec.ParmaID,
			Name:    rec.Name,
		})

		out := filepath.Join(outputDir, fmt.Sprintf("supplier_%s.json", rec.ID))
		err = writeJSON(out, rec)
		if err != nil {
			slog.Error("failed to write supplier record", "file", out, "err", err)
			span.RecordError(err)
			result.Failed++
			continue
		}
		result.Processed++
		slog.Info("extracted supplier",
			"supplier_id", rec.ID,
			"name", rec.Name,
			"audits", len(rec.Audits),
			"out", out,
		)
	}

	if len(result.Index) > 0 {
		result.IndexFile = filepath.Join(outputDir, "suppliers_index.json")
		err = writeJSON(result.IndexFile, result.Index)
		if err != nil {
			span.SetStatus(codes.Error, "failed to write index")
			return result, fmt.Errorf("write suppliers index: %w", err)
		}
	}

	return result, nil
}

func extractFile(ctx context.Context, path string, now time.Time) (SupplierRecord, error) {
	_, span := tracer.Start(ctx, "extractFile", trace.WithAttributes(
		attribute.String("path", path),
	))
	defer span.End()

	contents, err := os.ReadFile(path)
	if err != nil {
		return SupplierRecord{}, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(contents))
	if err != nil {
		return SupplierRecord{}, fmt.Errorf("parse html: %w", err)
	}

	return Extract(doc, now), nil
}

func writeJSON(path string, v any) error {
	contents, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, contents, 0644)
}
