// Package aggregator fans fetches out across all configured sources and
// merges the results into one time-ordered article list. One source's
// slowness or failure never delays or fails another's.
package aggregator

import (
	"context"
	"log/slog"
	"time"

	"github.com/RobinCoderZhao/feedbridge/internal/bridge"
	"github.com/RobinCoderZhao/feedbridge/internal/cache"
)

// fetchTimeout bounds each source's retrieval. A timeout is handled like any
// other fetch failure: empty result, stale fallback if available.
const fetchTimeout = 15 * time.Second

// Store is the slice of the cache repository the aggregator uses. The fetch
// path is read-through with stale fallback and write-through on every
// attempt.
type Store interface {
	Get(ctx context.Context, sourceID string, allowExpired bool) ([]bridge.Article, bool, error)
	Put(ctx context.Context, sourceID string, articles []bridge.Article, status cache.Status) error
}

// Aggregator coordinates the per-source bridges and the cache.
type Aggregator struct {
	sources map[string]bridge.Source
	store   Store
	timeout time.Duration
	logger  *slog.Logger
}

// New creates an Aggregator over the given bridges. The store may be nil, in
// which case every run fetches live.
func New(sources []bridge.Source, store Store, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	byID := make(map[string]bridge.Source, len(sources))
	for _, s := range sources {
		byID[s.ID()] = s
	}
	return &Aggregator{
		sources: byID,
		store:   store,
		timeout: fetchTimeout,
		logger:  logger,
	}
}

// Run fetches all the given sources concurrently and returns the merged
// article list sorted newest first, undated articles last. Sources that fail
// contribute their stale cache entry if one exists, otherwise nothing; a
// failure never aborts the run.
func (a *Aggregator) Run(ctx context.Context, sourceIDs []string) []bridge.Article {
	results := make([][]bridge.Article, len(sourceIDs))

	done := make(chan int, len(sourceIDs))
	for i, id := range sourceIDs {
		go func(i int, id string) {
			results[i] = a.fetchOne(ctx, id)
			done <- i
		}(i, id)
	}
	for range sourceIDs {
		<-done
	}

	var merged []bridge.Article
	for _, r := range results {
		merged = append(merged, r...)
	}
	bridge.SortByDateDesc(merged)
	return merged
}

// fetchOne applies the cache policy for a single source: serve a fresh cache
// entry, otherwise fetch live and write the result through; on failure fall
// back to stale data, re-recording it under failed status so the fallback
// survives while the failure stays visible in the cache status listing.
func (a *Aggregator) fetchOne(ctx context.Context, sourceID string) []bridge.Article {
	src, ok := a.sources[sourceID]
	if !ok {
		a.logger.Warn("unknown source, skipping", "source", sourceID)
		return nil
	}

	if a.store != nil {
		if cached, hit, err := a.store.Get(ctx, sourceID, false); err != nil {
			a.logger.Warn("cache read failed", "source", sourceID, "error", err)
		} else if hit {
			a.logger.Debug("serving fresh cache entry", "source", sourceID, "articles", len(cached))
			return cached
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	a.logger.Info("fetching source", "source", sourceID, "name", src.Name())
	articles, err := src.Fetch(fetchCtx)
	if err != nil {
		a.logger.Error("fetch failed",
			"source", sourceID,
			"category", bridge.CategoryOf(err),
			"error", err,
		)
		return a.fallback(ctx, sourceID)
	}

	if a.store != nil {
		if err := a.store.Put(ctx, sourceID, articles, cache.StatusSuccess); err != nil {
			a.logger.Warn("cache write failed", "source", sourceID, "error", err)
		}
	}
	return articles
}

func (a *Aggregator) fallback(ctx context.Context, sourceID string) []bridge.Article {
	if a.store == nil {
		return nil
	}

	stale, hit, err := a.store.Get(ctx, sourceID, true)
	if err != nil {
		a.logger.Warn("cache read failed", "source", sourceID, "error", err)
	}
	if err := a.store.Put(ctx, sourceID, stale, cache.StatusFailed); err != nil {
		a.logger.Warn("cache write failed", "source", sourceID, "error", err)
	}
	if hit {
		a.logger.Info("serving stale cache entry after failed fetch",
			"source", sourceID, "articles", len(stale))
		return stale
	}
	return nil
}
