package cli

import (
	"fmt"

	"github.com/campuskit/solrag/internal/adapters/driven/cache/sqlite"
	"github.com/campuskit/solrag/internal/adapters/driven/config/file"
	"github.com/campuskit/solrag/internal/adapters/driven/embedding/ollama"
	"github.com/campuskit/solrag/internal/adapters/driven/embedding/openai"
	"github.com/campuskit/solrag/internal/adapters/driven/extraction/tika"
	"github.com/campuskit/solrag/internal/adapters/driven/solr"
	"github.com/campuskit/solrag/internal/core/domain"
	"github.com/campuskit/solrag/internal/core/ports/driven"
	"github.com/campuskit/solrag/internal/core/services"
	"github.com/campuskit/solrag/internal/logger"
)

// initServices wires the services from configuration. A no-op when the
// services are already set (tests inject their own).
func initServices() error {
	if indexService != nil && queryService != nil && schemaService != nil {
		return nil
	}

	cfg, err := file.Load(configPath)
	if err != nil {
		return err
	}

	client, err := solr.NewClient(solr.Config{
		Host:     cfg.Solr.Hostname,
		Port:     cfg.Solr.Port,
		Secure:   cfg.Solr.Secure,
		Index:    cfg.Solr.Index,
		Username: cfg.Solr.Username,
		Password: cfg.Solr.Password,
		Timeout:  cfg.Solr.Timeout(),
	})
	if err != nil {
		return err
	}
	backend := solr.NewIndex(client)

	var embedder driven.EmbeddingService
	switch cfg.Provider.Kind {
	case file.ProviderOpenAI:
		embedder, err = openai.NewEmbeddingService(openai.Config{
			APIKey:            cfg.Provider.APIKey,
			BaseURL:           cfg.Provider.BaseURL,
			Model:             cfg.Provider.Model,
			Dimensions:        cfg.Provider.Dimensions,
			RequestsPerSecond: cfg.Provider.RequestsPerSecond,
		})
		if err != nil {
			return fmt.Errorf("configuring embedding provider: %w", err)
		}
	case file.ProviderOllama:
		embedder = ollama.NewEmbeddingService(ollama.Config{
			BaseURL: cfg.Provider.BaseURL,
			Model:   cfg.Provider.Model,
		})
	}

	var extractor driven.ContentExtractor
	switch cfg.Extractor.Kind {
	case file.ExtractorSolrTika:
		extractor = solr.NewExtractor(client)
	case file.ExtractorTika:
		extractor = tika.NewExtractor(tika.Config{BaseURL: cfg.Extractor.URL})
	}

	var cache driven.EmbeddingCache
	if cfg.Cache.Enabled {
		sqliteCache, err := sqlite.NewCache(cfg.Cache.Path)
		if err != nil {
			// Indexing works without the cache, just slower.
			logger.Warn("Embedding cache unavailable: %v", err)
		} else {
			cache = sqliteCache
		}
	}

	resolver := domain.NewVectorFieldResolver()

	if indexService == nil {
		indexService = services.NewIndexer(backend, embedder, extractor, cache, resolver, services.IndexerOptions{
			ChunkSize:    cfg.Chunking.Size,
			MaxContext:   cfg.Provider.MaxContext,
			FileIndexing: cfg.FileIndexing.Enabled,
			MaxFileBytes: cfg.FileIndexing.MaxFileBytes(),
		})
	}
	if queryService == nil {
		queryService = services.NewQueryEngine(backend, embedder, resolver, services.QueryEngineOptions{
			MaxContext:   cfg.Provider.MaxContext,
			FileIndexing: cfg.FileIndexing.Enabled,
		})
	}
	if schemaService == nil {
		schemaService = services.NewSchemaManager(solr.NewSchema(client))
	}
	return nil
}
