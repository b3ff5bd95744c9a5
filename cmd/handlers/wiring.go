package handlers

import (
	"context"
	"errors"
	"fmt"

	"tahofeed/internal/config"
	"tahofeed/internal/feed"
	"tahofeed/internal/fetch"
	"tahofeed/internal/llm"
	"tahofeed/internal/logger"
	"tahofeed/internal/sources"
	"tahofeed/internal/store"
	"tahofeed/internal/summarize"
)

// buildService assembles the full pipeline from configuration. The returned
// cleanup closes the cache database and the AI client. Enrichment is optional:
// without a Gemini key the service serves extracted summaries only and the
// streamer reports the missing capability per request.
func buildService(ctx context.Context, cfg *config.Config) (*feed.Service, *summarize.Streamer, func(), error) {
	log := logger.Get()

	publishers, err := sources.Publishers(cfg.Feeds.OverrideFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load source registry: %w", err)
	}

	cache, err := store.New(cfg.Cache.Path, store.WithTTL(cfg.Cache.TTL))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open feed cache: %w", err)
	}

	fetcher := fetch.NewClient(cfg.Feeds.BridgeURL, cfg.Feeds.RequestTimeout, cfg.Feeds.CacheBust, publishers)

	var (
		enricher     feed.Enricher
		streamClient summarize.StreamingClient
		aiClient     *llm.Client
	)
	aiClient, err = llm.NewClient(ctx, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.StreamingModel)
	switch {
	case errors.Is(err, llm.ErrNoCredential):
		log.Warn("no Gemini API key configured, enrichment disabled")
		aiClient = nil
	case err != nil:
		cache.Close()
		return nil, nil, nil, fmt.Errorf("failed to create AI client: %w", err)
	default:
		enricher = summarize.NewPipeline(aiClient, cfg.Limits.PriorityBatch)
		streamClient = aiClient
	}

	svc := feed.NewService(fetcher, enricher, cache, feed.Limits{
		DisplayLimit: cfg.Limits.DisplayLimit,
		SelectionCap: cfg.Limits.SelectionCap,
		MaxDepth:     cfg.Limits.MaxDepth,
	})
	streamer := summarize.NewStreamer(streamClient)

	cleanup := func() {
		if aiClient != nil {
			aiClient.Close()
		}
		if err := cache.Close(); err != nil {
			log.Warn("failed to close feed cache", "error", err.Error())
		}
	}
	return svc, streamer, cleanup, nil
}
