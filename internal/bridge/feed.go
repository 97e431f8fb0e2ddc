package bridge

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/RobinCoderZhao/feedbridge/internal/dates"
	"github.com/mmcdole/gofeed"
)

// feedSource is the generic bridge for any standard RSS/Atom/JSON feed.
type feedSource struct {
	id     string
	name   string
	url    string
	parser *gofeed.Parser
}

func newFeedSource(d Descriptor, client *http.Client) Source {
	p := gofeed.NewParser()
	p.UserAgent = browserUA
	p.Client = client
	return &feedSource{id: d.ID, name: d.Name, url: d.URL, parser: p}
}

func (f *feedSource) ID() string   { return f.id }
func (f *feedSource) Name() string { return f.name }

func (f *feedSource) Fetch(ctx context.Context) ([]Article, error) {
	feed, err := f.parser.ParseURLWithContext(f.url, ctx)
	if err != nil {
		return nil, classifyFeedErr(f.url, err)
	}

	articles := make([]Article, 0, len(feed.Items))
	seen := make(map[string]bool)
	for _, item := range feed.Items {
		if item == nil || item.Title == "" || item.Link == "" {
			continue
		}
		if seen[item.Link] {
			continue
		}
		seen[item.Link] = true

		var date time.Time
		switch {
		case item.PublishedParsed != nil:
			date = item.PublishedParsed.UTC()
		case item.UpdatedParsed != nil:
			date = item.UpdatedParsed.UTC()
		default:
			date, _ = dates.Parse(item.Published)
		}

		desc := item.Description
		if desc == "" {
			desc = item.Content
		}

		articles = append(articles, Article{
			Title:       collapseSpace(item.Title),
			Link:        item.Link,
			Date:        date,
			SourceID:    f.id,
			SourceName:  f.name,
			Description: stripMarkup(desc),
		})
	}
	return articles, nil
}

func classifyFeedErr(feedURL string, err error) error {
	var httpErr gofeed.HTTPError
	if errors.As(err, &httpErr) {
		return transportErr("fetch %s: %w", feedURL, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return transportErr("fetch %s: %w", feedURL, err)
	}
	return decodeErr("parse feed %s: %w", feedURL, err)
}
