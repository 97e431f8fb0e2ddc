package bridge

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/RobinCoderZhao/feedbridge/internal/dates"
)

// openaiSource scrapes the OpenAI research index. The page exposes no API;
// its article data is inlined into a script payload as escaped JSON
// fragments. Rather than reconstructing the whole payload, the bridge scans
// for the one repeating object shape it needs, anchored on stable field
// names. The anchors and the bounded character classes keep a markup change
// from matching garbage: a drifted page yields zero matches, not bad records.
type openaiSource struct {
	id     string
	url    string
	client *http.Client
}

// Item fragments look like
// \"id\":\"...\",\"slug\":\"index/...\",\"categories\":[...],\"title\":\"...\",\"publicationDate\":\"...\"
// inside the escaped payload. Title text may itself carry escape sequences
// (\u003e, \"), so its atom admits backslash escapes and relies on the
// publicationDate anchor to terminate.
var openaiItemRe = regexp.MustCompile(`\\"id\\":\\"[^"\\]+\\",\\"slug\\":\\"(index/[^"\\]+)\\",\\"categories\\":\[[^\]]*\],\\"title\\":\\"((?:\\.|[^"\\])+?)\\",\\"publicationDate\\":\\"([^"\\]+)\\"`)

// Meta descriptions live in a separate fragment correlated by slug.
var openaiDescRe = regexp.MustCompile(`\\"slug\\":\\"(index/[^"\\]+)\\"(?s:.*?)\\"seoFields\\":\{[^}]*\\"metaDescription\\":\\"((?:\\.|[^"\\])+?)\\"[,}]`)

// unescapeJSON undoes the escapes the payload applies to text it embeds.
var unescapeJSON = strings.NewReplacer(`\u003e`, ">", `\u003c`, "<", `\"`, `"`)

func newOpenAI(d Descriptor, client *http.Client) Source {
	return &openaiSource{
		id:     d.ID,
		url:    "https://openai.com/research/index/",
		client: client,
	}
}

func (o *openaiSource) ID() string   { return o.id }
func (o *openaiSource) Name() string { return "OpenAI" }

func (o *openaiSource) Fetch(ctx context.Context) ([]Article, error) {
	body, err := get(ctx, o.client, o.url, map[string]string{
		"Cache-Control": "max-age=0",
	})
	if err != nil {
		return nil, err
	}
	page := string(body)

	descriptions := make(map[string]string)
	for _, m := range openaiDescRe.FindAllStringSubmatch(page, -1) {
		slug, desc := m[1], m[2]
		if _, ok := descriptions[slug]; !ok {
			descriptions[slug] = unescapeJSON.Replace(desc)
		}
	}

	matches := openaiItemRe.FindAllStringSubmatch(page, -1)
	if matches == nil {
		return nil, extractErr("no research items found in page payload")
	}

	var articles []Article
	seen := make(map[string]bool)
	for _, m := range matches {
		slug, title, pubDate := m[1], m[2], m[3]
		if seen[slug] {
			continue
		}
		seen[slug] = true

		date, _ := dates.Parse(pubDate)

		cleanTitle := unescapeJSON.Replace(title)
		desc := descriptions[slug]
		if desc == "" {
			desc = cleanTitle
		}

		articles = append(articles, Article{
			Title:       cleanTitle,
			Link:        "https://openai.com/" + slug,
			Date:        date,
			SourceID:    o.id,
			SourceName:  o.Name(),
			Description: desc,
		})
	}

	// Document order on this page does not track recency, unlike the other
	// bridges, so sort locally before returning.
	SortByDateDesc(articles)
	return articles, nil
}
