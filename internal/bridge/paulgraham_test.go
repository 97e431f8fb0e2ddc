package bridge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const paulGrahamPage = `<html><body>
<a href="index.html">Home</a>
<a href="articles.html">Essays</a>
<a href="greatwork.html">How to Do Great Work</a>
<a href="wealth.html">How to Make Wealth</a>
<a href="greatwork.html">How to Do Great Work (again)</a>
<a href="rss.html">RSS</a>
<a href="https://example.com/external.html">Elsewhere</a>
<a href="ab.html">ab</a>
<a href="users.html">What I Learned from Users</a>
</body></html>`

func newTestPaulGraham(t *testing.T, body string, now time.Time) *paulGrahamSource {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	p := newPaulGraham(Descriptor{ID: "paulgraham"}, srv.Client()).(*paulGrahamSource)
	p.url = srv.URL
	p.now = func() time.Time { return now }
	return p
}

func TestPaulGraham_Fetch(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	p := newTestPaulGraham(t, paulGrahamPage, now)

	articles, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Index pages, external links, duplicates, and too-short titles are all
	// excluded.
	if len(articles) != 3 {
		t.Fatalf("got %d articles, want 3: %+v", len(articles), articles)
	}
	if articles[0].Title != "How to Do Great Work" {
		t.Errorf("first title = %q", articles[0].Title)
	}
	if articles[0].Link != "https://paulgraham.com/greatwork.html" {
		t.Errorf("first link = %q", articles[0].Link)
	}
}

// The essay index shows no dates; the bridge assigns synthetic descending
// monthly offsets in encounter order. These are approximations of recency,
// not real publication dates.
func TestPaulGraham_SyntheticDates(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	p := newTestPaulGraham(t, paulGrahamPage, now)

	articles, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, a := range articles {
		want := now.AddDate(0, -i, 0)
		if !a.Date.Equal(want) {
			t.Errorf("article %d: date = %v, want %v", i, a.Date, want)
		}
	}

	// Encounter order maps to strictly decreasing synthetic dates.
	for i := 1; i < len(articles); i++ {
		if !articles[i].Date.Before(articles[i-1].Date) {
			t.Errorf("article %d date %v not before article %d date %v",
				i, articles[i].Date, i-1, articles[i-1].Date)
		}
	}
}

func TestPaulGraham_MarkupDrift(t *testing.T) {
	p := newTestPaulGraham(t, "<html><body><p>no links here</p></body></html>", time.Now())

	_, err := p.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error when no essay links found")
	}
	if CategoryOf(err) != CategoryExtract {
		t.Errorf("category = %v, want extract", CategoryOf(err))
	}
}
