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

// resendSource scrapes the Resend blog index. Each post is a list item with a
// blog link, usually a machine-readable <time datetime> attribute, and a
// heading. Card-style entries carry only an image whose alt text holds the
// title.
type resendSource struct {
	id     string
	url    string
	origin string
	client *http.Client
}

func newResend(d Descriptor, client *http.Client) Source {
	return &resendSource{
		id:     d.ID,
		url:    "https://resend.com/blog",
		origin: "https://resend.com",
		client: client,
	}
}

func (r *resendSource) ID() string   { return r.id }
func (r *resendSource) Name() string { return "Resend" }

func (r *resendSource) Fetch(ctx context.Context) ([]Article, error) {
	body, err := get(ctx, r.client, r.url, nil)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, decodeErr("parse blog page: %w", err)
	}

	var articles []Article
	seen := make(map[string]bool)

	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		link := li.Find(`a[href^="/blog/"]`).First()
		href, ok := link.Attr("href")
		if !ok || href == "/blog" || seen[href] {
			return
		}
		seen[href] = true

		// The datetime attribute is authoritative when present.
		var date time.Time
		if dt, ok := li.Find("time[datetime]").First().Attr("datetime"); ok {
			date, _ = dates.Parse(dt)
		}

		title := collapseSpace(li.Find("h2, h3").First().Text())
		if title == "" {
			title = strings.TrimSpace(link.Find("img").AttrOr("alt", ""))
		}
		if len(title) < 5 {
			return
		}

		articles = append(articles, Article{
			Title:       title,
			Link:        r.origin + href,
			Date:        date,
			SourceID:    r.id,
			SourceName:  r.Name(),
			Description: "",
		})
	})

	return articles, nil
}
