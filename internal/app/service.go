package app

import (
	"github.com/rs/zerolog"

	"horse.fit/verity/internal/config"
	"horse.fit/verity/internal/embedding"
	"horse.fit/verity/internal/pipeline"
	"horse.fit/verity/internal/search"
)

// buildService wires the process-wide collaborators: one embedding
// client and one search client shared by every request.
func buildService(cfg *config.Config, logger zerolog.Logger) *pipeline.Service {
	encoder := embedding.NewClient(embedding.Options{
		Endpoint:       cfg.EmbeddingEndpoint,
		ModelName:      cfg.EmbeddingModelName,
		MaxLength:      cfg.EmbeddingMaxLength,
		RequestTimeout: cfg.EmbeddingTimeout,
	})

	searchOpts := search.Options{
		APIKey:   cfg.SerperAPIKey,
		Endpoint: cfg.SerperEndpoint,
		Timeout:  cfg.SearchTimeout,
		RPS:      cfg.SearchRPS,
		Burst:    cfg.SearchBurst,
		Workers:  cfg.SearchWorkers,
	}
	if cfg.SnippetEnrichment {
		searchOpts.Fetcher = search.NewPageFetcher(search.FetchOptions{})
	}
	searcher := search.NewClient(logger, searchOpts)

	return pipeline.NewService(encoder, searcher, logger, cfg.SpanThreshold)
}
