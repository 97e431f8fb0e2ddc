package bridge

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/RobinCoderZhao/feedbridge/internal/dates"
)

// anthropicSource harvests research links from the Anthropic research index.
// The page has no feed and no stable item markup, so the bridge walks every
// research anchor and probes a priority list of selectors for a title and a
// nearby date. Anchors where either cannot be resolved are dropped.
type anthropicSource struct {
	id     string
	url    string
	origin string
	client *http.Client
}

// Title selectors, most specific first: real headings, then an explicit
// headline class, then anything whose class mentions "title".
var anthropicTitleSelectors = []string{
	"h3", "h2", "h1", `[class*="headline"]`, `[class*="title"]`,
}

// Date selectors tried on the anchor itself, its parent, and its grandparent.
var anthropicDateSelectors = []string{
	"p.detail-m", ".detail-m", "time", `[class*="timestamp"]`, `[class*="date"]`, ".text-label",
}

func newAnthropic(d Descriptor, client *http.Client) Source {
	return &anthropicSource{
		id:     d.ID,
		url:    "https://www.anthropic.com/research",
		origin: "https://www.anthropic.com",
		client: client,
	}
}

func (a *anthropicSource) ID() string   { return a.id }
func (a *anthropicSource) Name() string { return "Anthropic" }

func (a *anthropicSource) Fetch(ctx context.Context) ([]Article, error) {
	body, err := get(ctx, a.client, a.url, map[string]string{
		"Cache-Control": "no-cache",
	})
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, decodeErr("parse research page: %w", err)
	}

	links := doc.Find(`a[href*="/research/"]`)
	if links.Length() == 0 {
		return nil, extractErr("no research links found, markup may have changed")
	}

	var articles []Article
	seen := make(map[string]bool)

	links.Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "/research" || href == "/research/" {
			return
		}

		var fullURL string
		switch {
		case strings.HasPrefix(href, "https://"):
			fullURL = href
		case strings.HasPrefix(href, "/"):
			fullURL = a.origin + href
		default:
			return
		}

		if seen[fullURL] {
			return
		}
		seen[fullURL] = true

		title := a.extractTitle(s)
		if title == "" {
			return
		}
		date, ok := a.extractDate(s)
		if !ok {
			return
		}

		articles = append(articles, Article{
			Title:       title,
			Link:        fullURL,
			Date:        date,
			SourceID:    a.id,
			SourceName:  a.Name(),
			Description: "",
		})
	})

	return articles, nil
}

func (a *anthropicSource) extractTitle(s *goquery.Selection) string {
	for _, sel := range anthropicTitleSelectors {
		elem := s.Find(sel).First()
		if elem.Length() == 0 {
			continue
		}
		title := collapseSpace(elem.Text())
		if len(title) >= 5 {
			return title
		}
	}

	// No heading inside the anchor; fall back to the anchor's own text when
	// it is short enough to be a plausible title.
	text := collapseSpace(s.Text())
	if len(text) >= 5 && len(text) < 200 {
		return text
	}
	return ""
}

func (a *anthropicSource) extractDate(s *goquery.Selection) (time.Time, bool) {
	candidates := []*goquery.Selection{s, s.Parent(), s.Parent().Parent()}
	for _, el := range candidates {
		for _, sel := range anthropicDateSelectors {
			elem := el.Find(sel).First()
			if elem.Length() == 0 {
				continue
			}
			if t, ok := dates.Parse(elem.Text()); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
