// Package collector drives the sequential scrape batch: one supplier at a
// time, one browser session for the whole run, raw HTML persisted per
// supplier plus per-run batch metadata.
package collector

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"vsib-scorecard/lib/scrapers/vsib"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("vsib-scorecard.services.collector")

type Options struct {
	// where HTML files, screenshots and batch metadata land
	DataDir string
	// plain-text error log path, empty disables it
	ErrorLogPath string
	// pause between suppliers so the source server is not hammered
	RequestDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.DataDir == "" {
		o.DataDir = "data"
	}
	if o.RequestDelay <= 0 {
		o.RequestDelay = time.Second * 2
	}
	return o
}

// Run processes the supplier IDs strictly sequentially against one browser
// session. every failure is recorded and the batch moves on, there are no
// retries. the returned metadata has one outcome per supplier.
func Run(ctx context.Context, session *vsib.Session, supplierIDs []string, opts Options) (BatchMetadata, error) {
	ctx, span := tracer.Start(ctx, "Run", trace.WithAttributes(
		attribute.Int("suppliers", len(supplierIDs)),
	))
	defer span.End()

	opts = opts.withDefaults()

	err := os.MkdirAll(opts.DataDir, 0755)
	if err != nil {
		return BatchMetadata{}, fmt.Errorf("create data directory: %w", err)
	}

	var errlog *ErrorLog
	if opts.ErrorLogPath != "" {
		errlog, err = OpenErrorLog(opts.ErrorLogPath)
		if err != nil {
			return BatchMetadata{}, err
		}
		defer errlog.Close()
	}

	results := make([]SupplierOutcome, 0, len(supplierIDs))
	for i, id := range supplierIDs {
		slog.Info("processing supplier",
			"supplier_id", id,
			"progress", fmt.Sprintf("%d/%d", i+1, len(supplierIDs)),
		)

		results = append(results, collectOne(ctx, session, id, opts.DataDir, errlog))

		if i < len(supplierIDs)-1 {
			time.Sleep(opts.RequestDelay)
		}
	}

	meta := newBatchMetadata(results)
	path, err := meta.Save(opts.DataDir)
	if err != nil {
		return meta, err
	}
	slog.Info("batch completed",
		"successful", meta.Successful,
		"failed", meta.Failed,
		"success_rate", meta.SuccessRate,
		"metadata", path,
	)
	return meta, nil
}

func collectOne(ctx context.Context, session *vsib.Session, supplierID, dataDir string, errlog *ErrorLog) SupplierOutcome {
	page, err := session.FetchScorecard(ctx, supplierID)
	if err != nil {
		// automation-level failure: grab a screenshot for debugging,
		// best effort only
		shot := filepath.Join(dataDir, fmt.Sprintf(
			"error_screenshot_%s_%s.png",
			supplierID, time.Now().Format("20060102_150405"),
		))
		shotErr := session.Screenshot(shot)
		if shotErr != nil {
			slog.Warn("could not save screenshot", "err", shotErr)
		} else {
			slog.Info("screenshot saved", "path", shot)
		}
		return failedOutcome(supplierID, err, errlog)
	}

	if outcomeErr := page.Outcome.Err(supplierID); outcomeErr != nil {
		return failedOutcome(supplierID, outcomeErr, errlog)
	}
	if page.Outcome == vsib.OutcomeIncomplete {
		slog.Warn("page content looks incomplete, saving anyway",
			"supplier_id", supplierID,
			"key_elements", page.KeyElements,
		)
	}

	filename := filepath.Join(dataDir, supplierID+".html")
	err = os.WriteFile(filename, []byte(page.HTML), 0644)
	if err != nil {
		return failedOutcome(supplierID, fmt.Errorf("save html for supplier %s: %w", supplierID, err), errlog)
	}

	slog.Info("supplier page saved",
		"supplier_id", supplierID,
		"file", filename,
		"title", page.Title,
		"content_length", page.ContentLength,
		"key_elements", page.KeyElements,
	)
	return SupplierOutcome{
		SupplierID:    supplierID,
		Status:        "success",
		Filename:      filename,
		PageTitle:     page.Title,
		ContentLength: page.ContentLength,
		KeyElements:   page.KeyElements,
		Timestamp:     page.FetchedAt.Format(time.RFC3339),
	}
}

func failedOutcome(supplierID string, err error, errlog *ErrorLog) SupplierOutcome {
	slog.Error("failed to process supplier", "supplier_id", supplierID, "err", err)
	errlog.Errorf("%s", err.Error())
	return SupplierOutcome{
		SupplierID: supplierID,
		Status:     "failed",
		Error:      err.Error(),
		Timestamp:  time.Now().Format(time.RFC3339),
	}
}
