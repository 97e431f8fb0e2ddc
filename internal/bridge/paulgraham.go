package bridge

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// paulGrahamSource harvests essay links from the paulgraham.com index. The
// page shows no dates at all, so the bridge assigns synthetic descending
// monthly offsets from the current time in encounter order: the index lists
// essays newest first, and the offsets preserve that relative recency
// without claiming real publication dates.
type paulGrahamSource struct {
	id     string
	url    string
	client *http.Client
	now    func() time.Time
}

// Non-essay pages linked from the index.
var pgExcluded = []string{
	"index.html", "articles.html", "books.html", "arc.html", "bel.html",
	"lisp.html", "antispam.html", "faq.html", "raq.html", "quo.html",
	"rss.html", "bio.html", "kedrosky.html",
}

const pgMaxArticles = 30

func newPaulGraham(d Descriptor, client *http.Client) Source {
	return &paulGrahamSource{
		id:     d.ID,
		url:    "https://paulgraham.com/articles.html",
		client: client,
		now:    time.Now,
	}
}

func (p *paulGrahamSource) ID() string   { return p.id }
func (p *paulGrahamSource) Name() string { return "Paul Graham" }

func (p *paulGrahamSource) Fetch(ctx context.Context) ([]Article, error) {
	body, err := get(ctx, p.client, p.url, nil)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, decodeErr("parse articles page: %w", err)
	}

	var articles []Article
	seen := make(map[string]bool)

	doc.Find(`a[href$=".html"]`).Each(func(_ int, s *goquery.Selection) {
		if len(articles) >= pgMaxArticles {
			return
		}

		href, ok := s.Attr("href")
		title := strings.TrimSpace(s.Text())
		if !ok || href == "" || title == "" {
			return
		}
		if strings.HasPrefix(href, "http") {
			return
		}
		for _, excluded := range pgExcluded {
			if strings.Contains(href, excluded) {
				return
			}
		}
		if seen[href] {
			return
		}
		if len(title) < 3 || len(title) > 150 {
			return
		}
		seen[href] = true

		articles = append(articles, Article{
			Title:       title,
			Link:        "https://paulgraham.com/" + href,
			SourceID:    p.id,
			SourceName:  p.Name(),
			Description: "",
		})
	})

	if len(articles) == 0 {
		return nil, extractErr("no essay links found, markup may have changed")
	}

	now := p.now()
	for i := range articles {
		articles[i].Date = now.AddDate(0, -i, 0).UTC()
	}
	return articles, nil
}
