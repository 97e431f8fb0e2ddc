// Package bridge defines the per-source adapters ("bridges") that convert
// unstable external representations (syndication feeds, scraped HTML pages,
// undocumented JSON endpoints) into the common Article record.
package bridge

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"
)

// Article is a single normalized entry produced by a bridge. Title and Link
// are always non-empty for any record that survives normalization; a zero
// Date means the publication date is unknown.
type Article struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Date        time.Time `json:"date"`
	SourceID    string    `json:"sourceId"`
	SourceName  string    `json:"source"`
	Description string    `json:"description"`
}

// Source is the interface every bridge implements. Fetch performs at most one
// network retrieval cycle and returns the articles it could confidently
// parse; items lacking a usable title or link are dropped, and the result
// never contains two articles with the same link.
type Source interface {
	// ID returns the configured source identifier.
	ID() string

	// Name returns the human-readable publisher name.
	Name() string

	// Fetch retrieves and normalizes articles from this source.
	Fetch(ctx context.Context) ([]Article, error)
}

// Descriptor is the slice of the source configuration a bridge needs. The
// orchestration layer owns the full configuration; bridges only read this.
type Descriptor struct {
	ID   string
	Name string
	URL  string
	Kind string
}

// KindFeed selects the generic syndication-feed bridge. Every other kind
// names a hand-tuned per-publisher bridge.
const KindFeed = "feed"

type factory func(d Descriptor, client *http.Client) Source

// registry is the closed set of bridge kinds, resolved at configuration-load
// time rather than via reflection.
var registry = map[string]factory{
	KindFeed:     newFeedSource,
	"anthropic":  newAnthropic,
	"openai":     newOpenAI,
	"gatesnotes": newGatesNotes,
	"paulgraham": newPaulGraham,
	"resend":     newResend,
	"uber":       newUber,
}

// New builds the bridge for a source descriptor. It fails only on an unknown
// kind; everything after construction soft-fails inside Fetch.
func New(d Descriptor, client *http.Client) (Source, error) {
	f, ok := registry[d.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown source kind %q for source %q", d.Kind, d.ID)
	}
	if client == nil {
		client = NewClient()
	}
	return f(d, client), nil
}

// Kinds lists the registered bridge kinds.
func Kinds() []string {
	kinds := make([]string, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// SortByDateDesc orders articles newest first. Undated articles sort after
// all dated ones, keeping their relative order.
func SortByDateDesc(articles []Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		if articles[i].Date.IsZero() {
			return false
		}
		if articles[j].Date.IsZero() {
			return true
		}
		return articles[i].Date.After(articles[j].Date)
	})
}
