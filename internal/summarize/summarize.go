// Package summarize upgrades extracted feed summaries into AI bilingual
// summaries without blocking the initial render. Batch mode serves the feed
// list; streaming mode serves the article detail view.
package summarize

import (
	"context"
	"log/slog"
	"sync"

	"tahofeed/internal/core"
	"tahofeed/internal/fetch"
	"tahofeed/internal/llm"
	"tahofeed/internal/logger"
)

// BatchClient is the slice of the Gemini client the batch pipeline needs.
type BatchClient interface {
	SummarizeBatch(ctx context.Context, items []llm.BatchItem) ([]llm.BatchResult, error)
}

// StreamingClient is the slice of the Gemini client the detail view needs.
type StreamingClient interface {
	StreamSummary(ctx context.Context, title, content string) <-chan llm.SummaryEvent
	StreamTranslation(ctx context.Context, english string) <-chan llm.SummaryEvent
}

// FilipinoPlaceholder marks an article still waiting for its translation.
const FilipinoPlaceholder = "Isinasalin..."

// Pipeline merges batch enrichment results into a display set. A nil client
// means no credential is configured; enrichment then completes immediately
// with the extracted summaries.
type Pipeline struct {
	client    BatchClient
	priorityN int
	log       *slog.Logger
}

// NewPipeline creates a batch enrichment pipeline. priorityN is the size of
// the priority batch rendered first.
func NewPipeline(client BatchClient, priorityN int) *Pipeline {
	return &Pipeline{client: client, priorityN: priorityN, log: logger.Get()}
}

// Enrich summarizes the selected items in a priority batch and a background
// batch, issued concurrently. publish is invoked once when priority results
// land (priority enriched, remainder still raw) and once with the final set,
// which is also returned for caching. A batch that fails keeps its raw
// summaries; that is never surfaced as an error. The second return reports
// whether any batch produced results — with none, the set is unchanged and
// callers must not cache it, so enrichment is retried on the next refresh.
func (p *Pipeline) Enrich(ctx context.Context, items []core.RawItem, articles []core.Article, publish func([]core.Article)) ([]core.Article, bool) {
	if p.client == nil || len(items) == 0 {
		return articles, false
	}

	n := p.priorityN
	if n > len(items) {
		n = len(items)
	}

	var (
		wg                   sync.WaitGroup
		priority, background []llm.BatchResult
	)
	wg.Add(1)
	priorityDone := make(chan struct{})
	go func() {
		defer wg.Done()
		defer close(priorityDone)
		priority = p.runBatch(ctx, "priority", items[:n])
	}()

	if len(items) > n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			background = p.runBatch(ctx, "background", items[n:])
		}()
	}

	<-priorityDone
	if len(priority) > 0 {
		merged := applyResults(articles, items, priority)
		publish(merged)
	}

	wg.Wait()
	if len(priority) == 0 && len(background) == 0 {
		return articles, false
	}

	final := applyResults(articles, items, append(priority, background...))
	publish(final)
	return final, true
}

func (p *Pipeline) runBatch(ctx context.Context, name string, items []core.RawItem) []llm.BatchResult {
	payload := make([]llm.BatchItem, len(items))
	for i, item := range items {
		payload[i] = llm.BatchItem{
			Title:       item.Title,
			Source:      item.SourceName,
			PubDate:     item.PubDate,
			URL:         item.Link,
			Description: fetch.StripHTML(item.Description),
		}
	}

	results, err := p.client.SummarizeBatch(ctx, payload)
	if err != nil {
		p.log.Warn("enrichment batch failed, keeping extracted summaries",
			"batch", name, "items", len(items), "error", err.Error())
		return nil
	}
	p.log.Debug("enrichment batch complete", "batch", name, "results", len(results))
	return results
}

// applyResults merges batch results onto a copy of the display set, matching
// by URL first and falling back to position for results the model rewrote.
func applyResults(articles []core.Article, items []core.RawItem, results []llm.BatchResult) []core.Article {
	merged := make([]core.Article, len(articles))
	copy(merged, articles)

	byURL := make(map[string]int, len(articles))
	for i, a := range merged {
		byURL[a.URL] = i
	}

	for ri, res := range results {
		idx, ok := byURL[res.URL]
		if !ok {
			if ri >= len(merged) {
				continue
			}
			idx = ri
		}
		merged[idx].SummaryEnglish = res.SummaryEN
		merged[idx].SummaryFilipino = res.SummaryTL
		merged[idx].ReadTime = "4 min read"
		if res.Date != "" {
			merged[idx].PublishTime = fetch.FormatDisplayDate(res.Date)
		} else if idx < len(items) {
			merged[idx].PublishTime = fetch.FormatDisplayDate(items[idx].PubDate)
		}
	}
	return merged
}
