package vsib

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Page is one fetched scorecard page, classification included.
type Page struct {
	SupplierID    string
	Title         string
	URL           string
	HTML          string
	Outcome       Outcome
	KeyElements   int
	ContentLength int
	FetchedAt     time.Time
}

// FetchScorecard navigates to the supplier's scorecard page, applies the
// page-readiness heuristic and returns the raw page body with its outcome
// classification. navigation/automation errors are returned as errors,
// content-level problems (login page, access denied...) come back as
// outcomes on the page.
func (s *Session) FetchScorecard(ctx context.Context, supplierID string) (Page, error) {
	ctx, span := tracer.Start(ctx, "session:FetchScorecard", trace.WithAttributes(
		attribute.String("supplier_id", supplierID),
	))
	defer span.End()

	link := s.scorecardURL(supplierID)
	slog.Info("navigating", "supplier_id", supplierID, "url", link)

	err := chromedp.Run(s.ctx, chromedp.Navigate(link))
	if err != nil {
		return Page{}, fmt.Errorf("navigate to %s: %w", link, err)
	}

	s.waitForReady()

	var title, current, content string
	err = chromedp.Run(s.ctx,
		chromedp.Title(&title),
		chromedp.Location(&current),
		chromedp.OuterHTML("html", &content, chromedp.ByQuery),
	)
	if err != nil {
		return Page{}, fmt.Errorf("read page for supplier %s: %w", supplierID, err)
	}

	p := Page{
		SupplierID:    supplierID,
		Title:         title,
		URL:           current,
		HTML:          content,
		Outcome:       Classify(title, content),
		KeyElements:   KeyElementCount(content),
		ContentLength: len(content),
		FetchedAt:     time.Now(),
	}
	span.SetAttributes(
		attribute.String("outcome", p.Outcome.String()),
		attribute.Int("content_length", p.ContentLength),
		attribute.Int("key_elements", p.KeyElements),
	)
	return p, nil
}

// best-effort readiness: document.readyState, then the search form and the
// ASP.NET viewstate token, then a fixed settle delay. every wait is bounded
// and non-fatal, downstream classification re-validates the page text
// instead of trusting this.
func (s *Session) waitForReady() {
	deadline := time.Now().Add(s.opts.LoadTimeout)
	for time.Now().Before(deadline) {
		var state string
		err := chromedp.Run(s.ctx, chromedp.Evaluate(`document.readyState`, &state))
		if err == nil && state == "complete" {
			break
		}
		time.Sleep(time.Second)
	}

	err := s.waitPresent(`#frmSearch`, time.Second*10)
	if err != nil {
		slog.Warn("form element not found, might be a login page", "err", err)
	}

	err = s.waitPresent(`#__VIEWSTATE`, time.Second*5)
	if err != nil {
		slog.Warn("viewstate not found", "err", err)
	}

	// async scorecard widgets fill in after readyState fires
	time.Sleep(s.opts.SettleDelay)
}

// waitPresent waits for the element to exist in the DOM. the viewstate
// input is hidden, so visibility is the wrong condition here.
func (s *Session) waitPresent(selector string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(waitCtx, chromedp.WaitReady(selector, chromedp.ByQuery))
}
