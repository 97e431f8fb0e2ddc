package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/RobinCoderZhao/feedbridge/internal/bridge"
)

func newTestCache(t *testing.T) (*Cache, *time.Time) {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	clock := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }
	return c, &clock
}

func sampleArticles() []bridge.Article {
	return []bridge.Article{
		{Title: "One", Link: "https://example.com/one", SourceID: "demo", SourceName: "Demo"},
		{Title: "Two", Link: "https://example.com/two", SourceID: "demo", SourceName: "Demo"},
	}
}

func TestCache_PutGetFresh(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, "demo", sampleArticles(), StatusSuccess); err != nil {
		t.Fatalf("put: %v", err)
	}

	articles, ok, err := c.Get(ctx, "demo", false)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected a fresh hit")
	}
	if len(articles) != 2 || articles[0].Title != "One" {
		t.Errorf("articles = %+v", articles)
	}
}

func TestCache_MissingSource(t *testing.T) {
	c, _ := newTestCache(t)

	_, ok, err := c.Get(context.Background(), "nope", false)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("expected a miss for unknown source")
	}
}

func TestCache_Expiry(t *testing.T) {
	c, clock := newTestCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, "demo", sampleArticles(), StatusSuccess); err != nil {
		t.Fatalf("put: %v", err)
	}

	*clock = clock.Add(TTL + time.Minute)

	if _, ok, _ := c.Get(ctx, "demo", false); ok {
		t.Error("expected a miss after the TTL")
	}

	articles, ok, err := c.Get(ctx, "demo", true)
	if err != nil {
		t.Fatalf("get expired: %v", err)
	}
	if !ok || len(articles) != 2 {
		t.Errorf("expected stale hit with allowExpired, got ok=%v articles=%+v", ok, articles)
	}
}

func TestCache_FailedEntry(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, "demo", sampleArticles(), StatusFailed); err != nil {
		t.Fatalf("put: %v", err)
	}

	if _, ok, _ := c.Get(ctx, "demo", false); ok {
		t.Error("expected a failed entry to miss without allowExpired")
	}
	if _, ok, _ := c.Get(ctx, "demo", true); !ok {
		t.Error("expected a failed entry to hit with allowExpired")
	}
}

func TestCache_EmptyStaleIsMiss(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, "demo", nil, StatusFailed); err != nil {
		t.Fatalf("put: %v", err)
	}

	// An empty list is useless as a fallback even when expired data is allowed.
	if _, ok, _ := c.Get(ctx, "demo", true); ok {
		t.Error("expected empty stale entry to miss")
	}
}

func TestCache_Status(t *testing.T) {
	c, clock := newTestCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, "alpha", sampleArticles(), StatusSuccess); err != nil {
		t.Fatalf("put: %v", err)
	}
	*clock = clock.Add(12 * time.Minute)
	if err := c.Put(ctx, "beta", nil, StatusFailed); err != nil {
		t.Fatalf("put: %v", err)
	}

	statuses, err := c.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("got %d statuses, want 2", len(statuses))
	}
	if statuses[0].SourceID != "alpha" || statuses[0].AgeMinutes != 12 || statuses[0].Status != StatusSuccess {
		t.Errorf("alpha status = %+v", statuses[0])
	}
	if statuses[1].SourceID != "beta" || statuses[1].AgeMinutes != 0 || statuses[1].Status != StatusFailed {
		t.Errorf("beta status = %+v", statuses[1])
	}
}

func TestCache_Clear(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	for _, id := range []string{"alpha", "beta"} {
		if err := c.Put(ctx, id, sampleArticles(), StatusSuccess); err != nil {
			t.Fatalf("put %s: %v", id, err)
		}
	}

	if err := c.Clear(ctx, "alpha"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "alpha", false); ok {
		t.Error("alpha should be gone")
	}
	if _, ok, _ := c.Get(ctx, "beta", false); !ok {
		t.Error("beta should survive a single clear")
	}

	if err := c.ClearAll(ctx); err != nil {
		t.Fatalf("clear all: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "beta", false); ok {
		t.Error("beta should be gone after clear all")
	}
}
