package bridge

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/RobinCoderZhao/feedbridge/internal/dates"
)

// uberSource reads the Uber engineering blog feed. The feed is RSS in shape
// but served with quirks that trip strict XML parsers, and every field is
// CDATA-wrapped, so the bridge matches the repeating item blocks directly
// instead of parsing the document.
type uberSource struct {
	id     string
	url    string
	client *http.Client
}

var (
	uberItemRe  = regexp.MustCompile(`(?s)<item>(.*?)</item>`)
	uberTitleRe = regexp.MustCompile(`(?s)<title>\s*<!\[CDATA\[(.*?)\]\]>\s*</title>`)
	uberLinkRe  = regexp.MustCompile(`(?s)<link>\s*<!\[CDATA\[(.*?)\]\]>\s*</link>`)
	uberDateRe  = regexp.MustCompile(`(?s)<pubDate>\s*<!\[CDATA\[(.*?)\]\]>\s*</pubDate>`)
	uberDescRe  = regexp.MustCompile(`(?s)<description>\s*<!\[CDATA\[(.*?)\]\]>\s*</description>`)
)

func newUber(d Descriptor, client *http.Client) Source {
	return &uberSource{
		id:     d.ID,
		url:    "https://www.uber.com/blog/engineering/rss/",
		client: client,
	}
}

func (u *uberSource) ID() string   { return u.id }
func (u *uberSource) Name() string { return "Uber" }

func (u *uberSource) Fetch(ctx context.Context) ([]Article, error) {
	body, err := get(ctx, u.client, u.url, nil)
	if err != nil {
		return nil, err
	}

	items := uberItemRe.FindAllStringSubmatch(string(body), -1)
	if items == nil {
		return nil, extractErr("no feed items found")
	}

	var articles []Article
	seen := make(map[string]bool)
	for _, m := range items {
		item := m[1]

		title := strings.TrimSpace(firstGroup(uberTitleRe, item))
		link := strings.TrimSpace(firstGroup(uberLinkRe, item))
		if title == "" || link == "" {
			continue
		}
		if seen[link] {
			continue
		}
		seen[link] = true

		date, _ := dates.Parse(firstGroup(uberDateRe, item))

		articles = append(articles, Article{
			Title:       title,
			Link:        link,
			Date:        date,
			SourceID:    u.id,
			SourceName:  u.Name(),
			Description: stripMarkup(firstGroup(uberDescRe, item)),
		})
	}
	return articles, nil
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}
