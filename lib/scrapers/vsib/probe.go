package vsib

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/go-resty/resty/v2"
)

// VerifySession replays the browser's cookies over a plain HTTP GET of the
// portal root and checks that the response is not a login page. cheaper than
// a full navigation, run once after manual login before the batch starts.
func VerifySession(ctx context.Context, baseURL string, cookies []*network.Cookie) error {
	ctx, span := tracer.Start(ctx, "VerifySession")
	defer span.End()

	client := resty.New()
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(time.Second * 30)
	for _, c := range cookies {
		client.SetCookie(&http.Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: c.Domain,
			Path:   c.Path,
		})
	}

	res, err := client.R().
		SetContext(ctx).
		Get(baseURL)
	if err != nil {
		return fmt.Errorf("probe portal: %w", err)
	}

	if Classify("", string(res.Body())) == OutcomeLoginRequired {
		return fmt.Errorf("session probe still lands on a login page")
	}
	return nil
}
