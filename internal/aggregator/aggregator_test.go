package aggregator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/RobinCoderZhao/feedbridge/internal/bridge"
	"github.com/RobinCoderZhao/feedbridge/internal/cache"
)

type stubSource struct {
	id       string
	articles []bridge.Article
	err      error

	mu    sync.Mutex
	calls int
}

func (s *stubSource) ID() string   { return s.id }
func (s *stubSource) Name() string { return s.id }

func (s *stubSource) Fetch(ctx context.Context) ([]bridge.Article, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.articles, s.err
}

func (s *stubSource) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type memEntry struct {
	articles []bridge.Article
	status   cache.Status
	fresh    bool
}

// memStore is an in-memory Store with explicit freshness flags, standing in
// for the SQLite cache.
type memStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string]memEntry)}
}

func (m *memStore) seed(id string, articles []bridge.Article, status cache.Status, fresh bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = memEntry{articles: articles, status: status, fresh: fresh}
}

func (m *memStore) Get(ctx context.Context, id string, allowExpired bool) ([]bridge.Article, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, false, nil
	}
	if !allowExpired && (!e.fresh || e.status == cache.StatusFailed) {
		return nil, false, nil
	}
	if allowExpired && len(e.articles) == 0 {
		return nil, false, nil
	}
	return e.articles, true, nil
}

func (m *memStore) Put(ctx context.Context, id string, articles []bridge.Article, status cache.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = memEntry{articles: articles, status: status, fresh: true}
	return nil
}

func (m *memStore) entry(id string) (memEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	return e, ok
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dated(title, link, src string, t time.Time) bridge.Article {
	return bridge.Article{Title: title, Link: link, SourceID: src, SourceName: src, Date: t}
}

func TestRun_MergesAndSorts(t *testing.T) {
	old := dated("old", "https://a.example/old", "a", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := dated("new", "https://b.example/new", "b", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))
	undated := bridge.Article{Title: "undated", Link: "https://a.example/undated", SourceID: "a", SourceName: "a"}

	agg := New([]bridge.Source{
		&stubSource{id: "a", articles: []bridge.Article{old, undated}},
		&stubSource{id: "b", articles: []bridge.Article{newer}},
	}, newMemStore(), quietLogger())

	got := agg.Run(context.Background(), []string{"a", "b"})
	if len(got) != 3 {
		t.Fatalf("got %d articles, want 3", len(got))
	}
	if got[0].Title != "new" || got[1].Title != "old" || got[2].Title != "undated" {
		t.Errorf("order = %q, %q, %q", got[0].Title, got[1].Title, got[2].Title)
	}
}

func TestRun_FreshCacheSkipsFetch(t *testing.T) {
	cached := []bridge.Article{dated("cached", "https://a.example/c", "a", time.Now().UTC())}
	store := newMemStore()
	store.seed("a", cached, cache.StatusSuccess, true)

	src := &stubSource{id: "a", articles: []bridge.Article{dated("live", "https://a.example/l", "a", time.Now().UTC())}}
	agg := New([]bridge.Source{src}, store, quietLogger())

	got := agg.Run(context.Background(), []string{"a"})
	if src.fetchCount() != 0 {
		t.Errorf("fetch ran %d times, want 0", src.fetchCount())
	}
	if len(got) != 1 || got[0].Title != "cached" {
		t.Errorf("articles = %+v", got)
	}
}

func TestRun_SuccessWritesThrough(t *testing.T) {
	store := newMemStore()
	live := []bridge.Article{dated("live", "https://a.example/l", "a", time.Now().UTC())}
	agg := New([]bridge.Source{&stubSource{id: "a", articles: live}}, store, quietLogger())

	agg.Run(context.Background(), []string{"a"})

	e, ok := store.entry("a")
	if !ok || e.status != cache.StatusSuccess || len(e.articles) != 1 {
		t.Errorf("cache entry = %+v ok=%v", e, ok)
	}
}

func TestRun_FailureServesStale(t *testing.T) {
	stale := []bridge.Article{dated("stale", "https://a.example/s", "a", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))}
	store := newMemStore()
	store.seed("a", stale, cache.StatusSuccess, false)

	agg := New([]bridge.Source{
		&stubSource{id: "a", err: errors.New("boom")},
	}, store, quietLogger())

	got := agg.Run(context.Background(), []string{"a"})
	if len(got) != 1 || got[0].Title != "stale" {
		t.Fatalf("articles = %+v", got)
	}

	// The stale data survives, re-recorded under failed status.
	e, _ := store.entry("a")
	if e.status != cache.StatusFailed || len(e.articles) != 1 {
		t.Errorf("cache entry = %+v", e)
	}
}

func TestRun_FailureWithoutCacheContributesNothing(t *testing.T) {
	working := &stubSource{id: "b", articles: []bridge.Article{dated("ok", "https://b.example/ok", "b", time.Now().UTC())}}
	agg := New([]bridge.Source{
		&stubSource{id: "a", err: errors.New("boom")},
		working,
	}, newMemStore(), quietLogger())

	got := agg.Run(context.Background(), []string{"a", "b"})
	if len(got) != 1 || got[0].SourceID != "b" {
		t.Errorf("articles = %+v", got)
	}
}

func TestRun_UnknownSourceSkipped(t *testing.T) {
	agg := New(nil, newMemStore(), quietLogger())

	got := agg.Run(context.Background(), []string{"ghost"})
	if len(got) != 0 {
		t.Errorf("articles = %+v", got)
	}
}

func TestRun_NilStoreFetchesLive(t *testing.T) {
	src := &stubSource{id: "a", articles: []bridge.Article{dated("live", "https://a.example/l", "a", time.Now().UTC())}}
	agg := New([]bridge.Source{src}, nil, quietLogger())

	got := agg.Run(context.Background(), []string{"a"})
	if src.fetchCount() != 1 {
		t.Errorf("fetch ran %d times, want 1", src.fetchCount())
	}
	if len(got) != 1 {
		t.Errorf("articles = %+v", got)
	}
}
