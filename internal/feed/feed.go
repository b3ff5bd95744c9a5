// Package feed composes fetching, filtering, classification, diversity
// selection, enrichment, and caching into one refresh operation with an
// observable loading-state machine.
package feed

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"tahofeed/internal/classify"
	"tahofeed/internal/core"
	"tahofeed/internal/diversity"
	"tahofeed/internal/fetch"
	"tahofeed/internal/logger"
	"tahofeed/internal/sources"
	"tahofeed/internal/store"
)

// State is the orchestrator loading state. Once activated the service never
// returns to idle.
type State string

const (
	StateIdle        State = "idle"
	StateFetching    State = "fetching_rss"
	StateSummarizing State = "summarizing"
	StateReady       State = "ready"
	StateError       State = "error"
)

// ErrNoData reports a total aggregation failure: zero validated items for the
// unfiltered All view. Category-specific views may legitimately be empty.
var ErrNoData = errors.New("no articles after aggregation")

// summaryTruncateLimit bounds the extracted summary shown before enrichment.
const summaryTruncateLimit = 500

// Fetcher produces the merged raw items of one aggregation pass.
type Fetcher interface {
	FetchAll(ctx context.Context) []core.RawItem
}

// Enricher merges AI summaries into a display set, publishing intermediate
// states, and returns the final set. The bool reports whether any summaries
// landed; a false return means the set is still raw and must not be cached.
// May be nil when enrichment is disabled.
type Enricher interface {
	Enrich(ctx context.Context, items []core.RawItem, articles []core.Article, publish func([]core.Article)) ([]core.Article, bool)
}

// Cache is the per-category entry store consulted before any network fetch.
type Cache interface {
	Get(category core.Category) (store.Entry, bool, error)
	Put(category core.Category, articles []core.Article) error
	IsFresh(e store.Entry) bool
}

// Limits bounds selection and display.
type Limits struct {
	DisplayLimit int
	SelectionCap int
	MaxDepth     int
}

// Service is the feed orchestrator.
type Service struct {
	fetcher  Fetcher
	enricher Enricher
	cache    Cache
	limits   Limits
	log      *slog.Logger

	mu       sync.Mutex
	state    State
	fetchErr bool
	articles []core.Article
	active   core.Category
	seq      map[core.Category]uint64
	onUpdate func([]core.Article, State)
}

// NewService creates a feed orchestrator. enricher may be nil.
func NewService(fetcher Fetcher, enricher Enricher, cache Cache, limits Limits) *Service {
	return &Service{
		fetcher:  fetcher,
		enricher: enricher,
		cache:    cache,
		limits:   limits,
		log:      logger.Get(),
		state:    StateIdle,
		seq:      make(map[core.Category]uint64),
	}
}

// OnUpdate registers an observer invoked on every published display update.
// Must be called before the first Refresh.
func (s *Service) OnUpdate(fn func([]core.Article, State)) {
	s.onUpdate = fn
}

// Articles returns a snapshot of the current display set.
func (s *Service) Articles() []core.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Article, len(s.articles))
	copy(out, s.articles)
	return out
}

// State returns the current loading state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// FetchError reports whether the last refresh ended in total failure.
func (s *Service) FetchError() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchErr
}

// Refresh runs one aggregation pass for a category. Without force a fresh
// cache entry is served verbatim. Each invocation takes a monotonic sequence
// token for its category; a completing refresh commits its result only while
// its token is still the latest issued, so a superseded refresh can finish
// without clobbering a newer one.
func (s *Service) Refresh(ctx context.Context, category core.Category, force bool) error {
	s.mu.Lock()
	s.seq[category]++
	token := s.seq[category]
	s.active = category
	s.fetchErr = false
	s.mu.Unlock()

	runID := uuid.NewString()
	log := s.log.With("run", runID, "category", string(category))

	if !force {
		entry, ok, err := s.cache.Get(category)
		if err != nil {
			log.Warn("cache read failed, refetching", "error", err.Error())
		} else if ok && s.cache.IsFresh(entry) {
			log.Debug("serving fresh cache entry", "articles", len(entry.Articles))
			s.publish(category, token, entry.Articles, StateReady)
			return nil
		}
	}

	s.setState(category, token, StateFetching)
	if force {
		// A forced refresh clears the visible set while refetching.
		s.publish(category, token, []core.Article{}, StateFetching)
	}

	raw := s.fetcher.FetchAll(ctx)
	validated := validate(raw, category)
	log.Info("aggregation pass", "raw", len(raw), "validated", len(validated))

	if len(validated) == 0 && category == core.CategoryAll {
		s.fail(category, token)
		return ErrNoData
	}

	selected := diversity.Select(validated, s.limits.SelectionCap, s.limits.MaxDepth)
	if len(selected) > s.limits.DisplayLimit {
		selected = selected[:s.limits.DisplayLimit]
	}
	rawArticles := buildArticles(selected)

	if s.enricher == nil {
		s.publish(category, token, rawArticles, StateReady)
		s.commit(category, token, rawArticles, log)
		return nil
	}

	s.publish(category, token, rawArticles, StateSummarizing)
	final, enriched := s.enricher.Enrich(ctx, selected, rawArticles, func(merged []core.Article) {
		s.publish(category, token, merged, StateSummarizing)
	})
	s.publish(category, token, final, StateReady)
	if !enriched {
		// The cache holds enriched sets only. Leaving this one out lets the
		// next refresh retry enrichment instead of serving raw summaries for
		// a full TTL.
		log.Warn("enrichment produced no summaries, skipping cache write")
		return nil
	}
	s.commit(category, token, final, log)
	return nil
}

// Aggregate runs a single filtered, classified pass without diversity
// selection, enrichment, or caching. The syndication endpoint uses it for a
// wider slice than the display feed.
func (s *Service) Aggregate(ctx context.Context, category core.Category, limit int) ([]core.Article, error) {
	raw := s.fetcher.FetchAll(ctx)
	validated := validate(raw, category)
	if len(validated) == 0 && category == core.CategoryAll {
		return nil, ErrNoData
	}
	if len(validated) > limit {
		validated = validated[:limit]
	}
	return buildArticles(validated), nil
}

// validate applies per-item hygiene: path consistency, category match, then a
// newest-first sort. Link normalization and the short-content filter already
// happened at fetch time.
func validate(raw []core.RawItem, category core.Category) []core.RawItem {
	var out []core.RawItem
	for _, item := range raw {
		if !sources.IsPathConsistent(item.Title, item.Link) {
			continue
		}
		if !classify.Matches(item.Title, item.Description, category) {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Published.After(out[j].Published)
	})
	return out
}

// buildArticles converts selected raw items into the display shape with
// extracted summaries and enrichment placeholders.
func buildArticles(items []core.RawItem) []core.Article {
	articles := make([]core.Article, 0, len(items))
	for _, item := range items {
		clean := fetch.StripHTML(item.Description)
		articles = append(articles, core.Article{
			ID:              core.ArticleID(item.Title, item.SourceName),
			Slug:            core.Slug(item.Title),
			Title:           item.Title,
			Source:          core.Source{Name: item.SourceName},
			Category:        classify.Classify(item.Title, clean),
			PublishTime:     fetch.FormatDisplayDate(item.PubDate),
			PubDate:         item.PubDate,
			ReadTime:        "Reading...",
			ImageURL:        item.ImageURL,
			SummaryShort:    truncate(clean, summaryTruncateLimit),
			SummaryEnglish:  truncate(clean, summaryTruncateLimit),
			SummaryFilipino: "Isinasalin...",
			URL:             item.Link,
		})
	}
	return articles
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// publish installs a display update if the token is still the latest for its
// category and the category is still the active view.
func (s *Service) publish(category core.Category, token uint64, articles []core.Article, state State) {
	s.mu.Lock()
	if s.seq[category] != token || s.active != category {
		s.mu.Unlock()
		return
	}
	if articles != nil {
		s.articles = articles
	}
	s.state = state
	fn := s.onUpdate
	snapshot := s.articles
	s.mu.Unlock()

	if fn != nil {
		fn(snapshot, state)
	}
}

func (s *Service) setState(category core.Category, token uint64, state State) {
	s.publish(category, token, nil, state)
}

// commit writes the final set to the cache, unless a newer refresh for the
// category has been issued in the meantime.
func (s *Service) commit(category core.Category, token uint64, articles []core.Article, log *slog.Logger) {
	s.mu.Lock()
	latest := s.seq[category] == token
	s.mu.Unlock()
	if !latest {
		log.Debug("refresh superseded, discarding result")
		return
	}
	if err := s.cache.Put(category, articles); err != nil {
		log.Warn("cache write failed", "error", err.Error())
	}
}

// fail records a total aggregation failure. The previous cache entry is left
// untouched so a later unforced refresh can still serve it if fresh.
func (s *Service) fail(category core.Category, token uint64) {
	s.mu.Lock()
	if s.seq[category] == token && s.active == category {
		s.state = StateError
		s.fetchErr = true
	}
	s.mu.Unlock()
}
