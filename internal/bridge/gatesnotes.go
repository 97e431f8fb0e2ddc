package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/RobinCoderZhao/feedbridge/internal/dates"
)

// gatesNotesSource reads the Gates Notes content API. The schema is owned by
// the publisher and has changed before; every nested field is treated as
// optional and items missing a title or codename are skipped.
type gatesNotesSource struct {
	id     string
	url    string
	client *http.Client
}

func newGatesNotes(d Descriptor, client *http.Client) Source {
	return &gatesNotesSource{
		id:     d.ID,
		url:    "https://content.gatesnotes.com/12514eb8-7b51-008e-41a9-512542cf683b/items?system.type=article&depth=0&limit=30&order=elements.date[desc]",
		client: client,
	}
}

func (g *gatesNotesSource) ID() string   { return g.id }
func (g *gatesNotesSource) Name() string { return "Gates Notes" }

type gnValue struct {
	Value string `json:"value"`
}

type gnItem struct {
	Elements struct {
		ArticleTitle    gnValue `json:"article_title"`
		ArticleSubtitle gnValue `json:"article_subtitle"`
		Date            gnValue `json:"date"`
	} `json:"elements"`
	System struct {
		Name     string `json:"name"`
		Codename string `json:"codename"`
	} `json:"system"`
}

type gnResponse struct {
	Items []gnItem `json:"items"`
}

func (g *gatesNotesSource) Fetch(ctx context.Context) ([]Article, error) {
	body, err := get(ctx, g.client, g.url, map[string]string{
		"Accept":  "application/json, text/plain, */*",
		"Origin":  "https://www.gatesnotes.com",
		"Referer": "https://www.gatesnotes.com/",
	})
	if err != nil {
		return nil, err
	}

	var resp gnResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, decodeErr("decode items response: %w", err)
	}

	var articles []Article
	seen := make(map[string]bool)
	for _, item := range resp.Items {
		title := item.Elements.ArticleTitle.Value
		if title == "" {
			title = item.System.Name
		}
		codename := item.System.Codename
		if title == "" || codename == "" {
			continue
		}

		slug := strings.ReplaceAll(codename, "_", "-")
		link := "https://www.gatesnotes.com/" + slug
		if seen[link] {
			continue
		}
		seen[link] = true

		// A missing or malformed date is allowed here; the item still has a
		// real title and link.
		date, _ := dates.Parse(item.Elements.Date.Value)

		articles = append(articles, Article{
			Title:       title,
			Link:        link,
			Date:        date,
			SourceID:    g.id,
			SourceName:  g.Name(),
			Description: stripMarkup(item.Elements.ArticleSubtitle.Value),
		})
	}
	return articles, nil
}
