package services

import (
	"context"
	"errors"

	"github.com/campuskit/solrag/internal/chunker"
	"github.com/campuskit/solrag/internal/core/domain"
	"github.com/campuskit/solrag/internal/core/ports/driven"
	"github.com/campuskit/solrag/internal/core/ports/driving"
	"github.com/campuskit/solrag/internal/logger"
)

// Ensure Indexer implements the interface.
var _ driving.IndexingService = (*Indexer)(nil)

// IndexerOptions carries the tunable parts of the indexing pipeline.
type IndexerOptions struct {
	// ChunkSize is the maximum chunk length in runes.
	// Zero means chunker.DefaultChunkSize.
	ChunkSize int

	// MaxContext is the embedding provider's context window. Content
	// longer than this is still indexed, with a warning.
	MaxContext int

	// FileIndexing enables indexing of attached files.
	FileIndexing bool

	// MaxFileBytes is the per-file eligibility ceiling. Files larger
	// than this are indexed as reference-only records.
	MaxFileBytes int64
}

// Indexer drives single-document and batch indexing: assemble, embed,
// write, plus file extraction and reconciliation for attachments.
//
// The embedder, extractor and cache are optional. Without an embedder
// content is indexed for lexical search only; without an extractor
// files become reference-only records.
type Indexer struct {
	backend   driven.IndexBackend
	embedder  driven.EmbeddingService
	extractor driven.ContentExtractor
	cache     driven.EmbeddingCache
	resolver  domain.VectorFieldResolver
	opts      IndexerOptions
}

// NewIndexer creates the indexing pipeline.
func NewIndexer(
	backend driven.IndexBackend,
	embedder driven.EmbeddingService,
	extractor driven.ContentExtractor,
	cache driven.EmbeddingCache,
	resolver domain.VectorFieldResolver,
	opts IndexerOptions,
) *Indexer {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = chunker.DefaultChunkSize
	}
	return &Indexer{
		backend:   backend,
		embedder:  embedder,
		extractor: extractor,
		cache:     cache,
		resolver:  resolver,
		opts:      opts,
	}
}

// AddDocument indexes one document: assemble, embed, write each
// resulting record, then reconcile attached files when file indexing
// is enabled. Record write failures are logged; the return value is
// false only when the document's core record could not be written.
func (ix *Indexer) AddDocument(ctx context.Context, doc *domain.Document) bool {
	logger.Info("Adding document %s to search engine", doc.ID)

	records := ix.embedAndAttach(ctx, doc.Fields(), doc.Content)

	ok := true
	for i, rec := range records {
		if err := ix.backend.AddDocument(ctx, rec); err != nil {
			logger.Error("Failed to add record %s: %v", rec.ID(), err)
			if i == 0 {
				// The core record carries the document itself.
				ok = false
			}
		}
	}

	if ix.opts.FileIndexing {
		ix.ProcessDocumentFiles(ctx, doc)
	}
	return ok
}

// AddBatch expands every document into its records, writes them in one
// batch, and falls back to per-record writes when the batch write
// fails at the transport or server level. File attachments are
// processed per document afterwards. Cancellation is checked between
// documents; partial progress stands.
func (ix *Indexer) AddBatch(ctx context.Context, docs []*domain.Document) domain.BatchResult {
	var batch []domain.FieldMap
	for _, doc := range docs {
		if ctx.Err() != nil {
			logger.Warn("Batch indexing cancelled after %d records", len(batch))
			break
		}
		if doc.Content == "" {
			logger.Info("Empty doc %s - %s, indexing metadata only", doc.ID, doc.Title)
		}
		batch = append(batch, ix.embedAndAttach(ctx, doc.Fields(), doc.Content)...)
	}

	result := ix.writeBatch(ctx, batch)

	// Files are processed one document at a time; if there are files
	// it is slow anyway.
	if ix.opts.FileIndexing {
		for _, doc := range docs {
			if ctx.Err() != nil {
				break
			}
			ix.ProcessDocumentFiles(ctx, doc)
		}
	}
	return result
}

// writeBatch attempts one batch write and reports all records as
// successful. On batch failure it retries every record individually:
// the index overwrites by id, so re-adding records the batch may have
// written is harmless, and the fallback recovers per-item visibility a
// pure batch API cannot give.
func (ix *Indexer) writeBatch(ctx context.Context, batch []domain.FieldMap) domain.BatchResult {
	if len(batch) == 0 {
		logger.Warn("No records to write")
		return domain.BatchResult{}
	}

	err := ix.backend.AddBatch(ctx, batch)
	if err == nil {
		return domain.BatchResult{Success: len(batch), Batches: 1}
	}
	logger.Warn("Batch write of %d records failed, retrying individually: %v", len(batch), err)

	var result domain.BatchResult
	for _, rec := range batch {
		result.Batches++
		if err := ix.backend.AddDocument(ctx, rec); err != nil {
			logger.Error("Failed to add record %s: %v", rec.ID(), err)
			result.Failure++
		} else {
			result.Success++
		}
	}
	return result
}

// embedAndAttach turns one assembled field map into the records to
// write. Short content gets its vector attached in place. Longer
// content fans out into chunk records carrying the vectors, after the
// original record, which keeps the full body for lexical search. With
// no embedder, or empty content, the input passes through unchanged.
func (ix *Indexer) embedAndAttach(ctx context.Context, fields domain.FieldMap, content string) []domain.FieldMap {
	if ix.embedder == nil {
		logger.Warn("No embedding service; indexing %s for lexical search only", fields.ID())
		return []domain.FieldMap{fields}
	}
	if content == "" {
		return []domain.FieldMap{fields}
	}
	if ix.opts.MaxContext > 0 && len(content) > ix.opts.MaxContext {
		logger.Warn("%s is longer (%d) than the context window (%d)",
			fields["title"].Str(), len(content), ix.opts.MaxContext)
	}

	chunks := chunker.Split(content, ix.opts.ChunkSize)
	logger.Info("%d chunks generated for %s", len(chunks), fields["title"].Str())

	if len(chunks) == 1 {
		vector, err := ix.embed(ctx, content)
		if err != nil {
			logger.Error("Embedding failed for %s: %v", fields.ID(), err)
			return []domain.FieldMap{fields}
		}
		field, err := ix.resolver.FieldFor(vector)
		if err != nil {
			logger.Error("Cannot attach vector for %s: %v", fields.ID(), err)
			return []domain.FieldMap{fields}
		}
		logger.Info("Generated vector length: %d, field: %s", len(vector), field)
		fields[field] = domain.Vector(vector)
		return []domain.FieldMap{fields}
	}

	parentID := fields.ID()
	records := []domain.FieldMap{fields}
	for i, chunk := range chunks {
		logger.Info("Getting vector for chunk %d/%d", i+1, len(chunks))
		vector, err := ix.embed(ctx, chunk)
		if err != nil {
			// One failed chunk must not abort the document.
			logger.Warn("Skipping chunk %d/%d of %s: %v", i+1, len(chunks), parentID, err)
			continue
		}
		field, err := ix.resolver.FieldFor(vector)
		if err != nil {
			logger.Warn("Skipping chunk %d/%d of %s: %v", i+1, len(chunks), parentID, err)
			continue
		}
		rec := fields.Clone()
		rec["id"] = domain.String(domain.ChunkRecordID(parentID, i+1))
		rec["content"] = domain.String(domain.ReplaceUnderlines(chunk))
		rec[field] = domain.Vector(vector)
		records = append(records, rec)
	}
	return records
}

// embed fetches one embedding, going through the cache when one is
// configured. Cache failures are reported at debug level only; the
// cache is an optimisation, never a gate.
func (ix *Indexer) embed(ctx context.Context, text string) ([]float32, error) {
	if ix.cache == nil {
		return ix.embedder.Embed(ctx, text)
	}

	model := ix.embedder.Model()
	hash := domain.ContentHash(text)

	vector, err := ix.cache.Get(ctx, model, hash)
	if err == nil {
		logger.Debug("Embedding cache hit for %s", hash[:12])
		return vector, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		logger.Debug("Embedding cache read failed: %v", err)
	}

	vector, err = ix.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := ix.cache.Put(ctx, model, hash, vector); err != nil {
		logger.Debug("Embedding cache write failed: %v", err)
	}
	return vector, nil
}
