// Package vsib drives an authenticated browser session against the Volvo
// VSIB supplier portal and fetches raw scorecard pages.
package vsib

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("vsib-scorecard.lib.scrapers.vsib")

const DefaultBaseURL = "https://vsib.srv.volvo.com"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// the portal only checks navigator.webdriver on document creation, masking
// it there is enough to look like a regular browser.
const maskWebdriverScript = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`

type Options struct {
	BaseURL string
	// false keeps the browser visible so an operator can log in by hand
	Headless bool
	// chrome profile directory used to persist cookies across runs
	UserDataDir string
	// upper bound on waiting for document.readyState == "complete"
	LoadTimeout time.Duration
	// fixed delay after readiness for async content, a heuristic not a
	// guarantee
	SettleDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.LoadTimeout <= 0 {
		o.LoadTimeout = time.Minute
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = time.Second * 5
	}
	return o
}

// Session owns one browser for the duration of a batch run. it is not safe
// for concurrent use, suppliers are fetched strictly one at a time.
type Session struct {
	opts        Options
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	cookies     []*network.Cookie
}

func NewSession(parent context.Context, opts Options) (*Session, error) {
	opts = opts.withDefaults()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(userAgent),
		chromedp.WindowSize(1920, 1080),
	)
	if opts.UserDataDir != "" {
		allocOpts = append(allocOpts,
			chromedp.UserDataDir(opts.UserDataDir),
			chromedp.Flag("profile-directory", "Default"),
		)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocOpts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(maskWebdriverScript).Do(ctx)
		return err
	}))
	if err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &Session{
		opts:        opts,
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
	}, nil
}

func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
}

// ManualLogin opens the portal root and blocks until the operator confirms
// they have logged in. the pause is unbounded, a human is in the loop.
func (s *Session) ManualLogin(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "session:ManualLogin")
	defer span.End()

	err := chromedp.Run(s.ctx,
		chromedp.Navigate(s.opts.BaseURL),
		chromedp.WaitReady("body"),
	)
	if err != nil {
		return fmt.Errorf("open login page: %w", err)
	}

	fmt.Printf("please login manually at %s\n", s.opts.BaseURL)
	fmt.Print("press Enter after you have logged in successfully... ")
	_, err = bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return fmt.Errorf("wait for operator: %w", err)
	}

	cookies, err := s.exportCookies()
	if err != nil {
		return err
	}
	s.cookies = cookies
	slog.Info("saved session cookies", "count", len(cookies))
	return nil
}

func (s *Session) exportCookies() ([]*network.Cookie, error) {
	var cookies []*network.Cookie
	err := chromedp.Run(s.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = storage.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("export cookies: %w", err)
	}
	return cookies, nil
}

// Cookies returns the cookies captured after manual login, nil before then.
func (s *Session) Cookies() []*network.Cookie {
	return s.cookies
}

func (s *Session) scorecardURL(supplierID string) string {
	return fmt.Sprintf(
		"%s/vsib/Content/sus/SupplierScorecard.aspx?SupplierId=%s",
		s.opts.BaseURL, url.QueryEscape(supplierID),
	)
}

// Screenshot captures the current tab, used for debugging failed suppliers.
func (s *Session) Screenshot(path string) error {
	var buf []byte
	err := chromedp.Run(s.ctx, chromedp.CaptureScreenshot(&buf))
	if err != nil {
		return fmt.Errorf("capture screenshot: %w", err)
	}
	return os.WriteFile(path, buf, 0644)
}
