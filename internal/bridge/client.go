package bridge

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// browserUA is sent on every request. Several of the publishers we scrape
// block generic bot user agents.
const browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// fetchTimeout bounds every network retrieval so one unresponsive source
// cannot stall a whole aggregation run.
const fetchTimeout = 15 * time.Second

// maxResponseBytes caps how much of a response body a bridge will read.
const maxResponseBytes = 10 << 20

// NewClient returns the HTTP client bridges share.
func NewClient() *http.Client {
	return &http.Client{Timeout: fetchTimeout}
}

// get performs a single GET and returns the body. Extra headers override the
// defaults. Non-2xx statuses and connection failures are transport errors.
func get(ctx context.Context, client *http.Client, url string, extra map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, transportErr("create request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for k, v := range extra {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, transportErr("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, transportErr("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, transportErr("read %s: %w", url, err)
	}
	return body, nil
}

// stripMarkup removes anything between angle brackets and collapses
// whitespace, leaving plain text. Sources routinely embed HTML fragments in
// description fields.
func stripMarkup(s string) string {
	if s == "" {
		return ""
	}
	tok := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		tt := tok.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(tok.Text())
		}
	}
	return collapseSpace(b.String())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
