package services

import (
	"context"

	"github.com/campuskit/solrag/internal/core/domain"
	"github.com/campuskit/solrag/internal/logger"
)

// reconcilePageSize bounds how many indexed file records are fetched
// per page during reconciliation.
const reconcilePageSize = 500

// fileIndexable reports whether a file is eligible for content
// indexing. Ineligible files still get a reference record with status
// FALSE, which reconciliation retries if the rules change.
func (ix *Indexer) fileIndexable(f domain.FileRef) bool {
	if ix.extractor == nil {
		return false
	}
	if f.Filename == "" {
		return false
	}
	if ix.opts.MaxFileBytes > 0 && f.Size > ix.opts.MaxFileBytes {
		return false
	}
	return true
}

// AddStoredFile indexes one attached file: extract text and metadata,
// embed, write. Every failure mode degrades to a metadata-only record
// so the file is never silently missing from the index; no error
// escapes to the caller.
func (ix *Indexer) AddStoredFile(ctx context.Context, doc *domain.Document, file domain.FileRef) {
	logger.Info("Adding stored file %s to document %s", file.Filename, doc.ID)
	fields := doc.FileFields(file)

	if !ix.fileIndexable(file) {
		logger.Warn("File %s is not indexable", file.Filename)
		ix.writeFileRecord(ctx, fields, domain.FileIndexedFalse)
		return
	}

	data, err := file.Reader()
	if err != nil {
		logger.Error("Reading file %s: %v", file.Filename, err)
		ix.writeFileRecord(ctx, fields, domain.FileIndexedError)
		return
	}

	extraction, err := ix.extractor.Extract(ctx, file.Filename, data)
	if err != nil {
		logger.Error("Extracting file %s: %v", file.Filename, err)
		ix.writeFileRecord(ctx, fields, domain.FileIndexedError)
		return
	}
	logger.Info("Successfully extracted content from file %s", file.Filename)

	fields.MergeMetadata(extraction.Metadata)
	if extraction.Text == "" {
		logger.Info("File %s had no content", file.Filename)
		ix.writeFileRecord(ctx, fields, domain.FileIndexedTrue)
		return
	}
	fields["content"] = domain.String(domain.ReplaceUnderlines(extraction.Text))

	// The original record is always written, even when chunk records
	// were produced, so the file's metadata and reference survive
	// partial chunk write failures.
	for _, rec := range ix.embedAndAttach(ctx, fields, extraction.Text) {
		if err := ix.backend.AddDocument(ctx, rec); err != nil {
			logger.Error("Failed to add file record %s: %v", rec.ID(), err)
		}
	}
}

// writeFileRecord writes a reference-only file record with the given
// index status, dropping any content field.
func (ix *Indexer) writeFileRecord(ctx context.Context, fields domain.FieldMap, status int64) {
	delete(fields, "content")
	fields["solr_fileindexstatus"] = domain.Int(status)
	if err := ix.backend.AddDocument(ctx, fields); err != nil {
		logger.Error("Failed to add file record %s: %v", fields.ID(), err)
	}
}

// ProcessDocumentFiles indexes the files attached to the document,
// ensuring the index matches the current attachments.
//
// For documents that aren't known to be new, the current index is
// checked first:
//   - new files are added,
//   - existing unchanged files are skipped,
//   - files in the index but no longer attached are deleted,
//   - changed files are re-indexed.
func (ix *Indexer) ProcessDocumentFiles(ctx context.Context, doc *domain.Document) {
	if !ix.opts.FileIndexing {
		return
	}

	pending := make(map[string]domain.FileRef, len(doc.Files))
	for _, f := range doc.Files {
		pending[f.ID] = f
	}

	if !doc.New {
		// Page through existing records, deferring deletions to the
		// end so the scan never mutates the collection it is paging.
		var stale []string
		offset := 0
		for {
			total, page, err := ix.backend.IndexedFiles(ctx, doc.ID, offset, reconcilePageSize)
			if err != nil {
				// Without the diff we re-index everything still
				// pending; overwrite-by-id keeps that safe.
				logger.Error("Listing indexed files for %s: %v", doc.ID, err)
				break
			}
			for _, indexed := range page {
				ref, attached := pending[indexed.FileID]
				if !attached {
					stale = append(stale, indexed.ID)
					continue
				}
				// The source does not guarantee the modified time is
				// updated, so every change-detection value is checked.
				if !indexed.Modified.Equal(ref.Modified) {
					continue
				}
				if indexed.Title != ref.Filename {
					continue
				}
				if indexed.ContentHash != ref.ContentHash {
					continue
				}
				if indexed.Status == domain.FileIndexedFalse && ix.fileIndexable(ref) {
					// Filtering blocked this file last time; current
					// settings allow it, so index it now.
					continue
				}
				delete(pending, indexed.FileID)
			}

			offset += reconcilePageSize
			if offset >= total {
				break
			}
			if ctx.Err() != nil {
				return
			}
		}

		for _, id := range stale {
			// Delete directly by record id; the document-level delete
			// does not reach file sub-records.
			if err := ix.backend.DeleteByID(ctx, id); err != nil {
				logger.Error("Deleting stale file record %s: %v", id, err)
			}
		}
	}

	for _, f := range doc.Files {
		if _, ok := pending[f.ID]; !ok {
			continue
		}
		if ctx.Err() != nil {
			return
		}
		ix.AddStoredFile(ctx, doc, f)
	}
}
