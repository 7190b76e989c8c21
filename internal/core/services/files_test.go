package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/solrag/internal/core/domain"
)

var fileModified = time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)

func testFile(id, name, content string) domain.FileRef {
	return domain.FileRef{
		ID:          id,
		Filename:    name,
		ContentHash: domain.ContentHash(content),
		Modified:    fileModified,
		Size:        int64(len(content)),
		Reader:      func() ([]byte, error) { return []byte(content), nil },
	}
}

func fileIndexer(backend *mockBackend, embedder *mockEmbedder, extractor *mockExtractor, opts IndexerOptions) *Indexer {
	opts.FileIndexing = true
	resolver := domain.NewVectorFieldResolver(3)
	if embedder == nil && extractor == nil {
		return NewIndexer(backend, nil, nil, nil, resolver, opts)
	}
	if embedder == nil {
		return NewIndexer(backend, nil, extractor, nil, resolver, opts)
	}
	return NewIndexer(backend, embedder, extractor, nil, resolver, opts)
}

func TestAddStoredFile_Success(t *testing.T) {
	backend := &mockBackend{}
	embedder := &mockEmbedder{vector: []float32{1, 2, 3}}
	extractor := &mockExtractor{
		text: "extracted report_text",
		metadata: map[string]string{
			"dc_title":       "Quarterly report",
			"ignored_xparse": "tika noise",
		},
	}
	ix := fileIndexer(backend, embedder, extractor, IndexerOptions{})

	doc := testDoc("doc1", "body")
	ix.AddStoredFile(context.Background(), doc, testFile("f7", "report.pdf", "raw bytes"))

	require.Len(t, backend.added, 1)
	rec := backend.added[0]
	assert.Equal(t, "doc1-solrfilef7", rec.ID())
	assert.Equal(t, int64(domain.TypeFile), rec["type"].IntVal())
	assert.Equal(t, "report.pdf", rec["title"].Str())
	assert.Equal(t, "extracted report text", rec["content"].Str())
	assert.Equal(t, int64(domain.FileIndexedTrue), rec["solr_fileindexstatus"].IntVal())
	assert.Equal(t, "Quarterly report", rec["dc_title"].Str())
	assert.Equal(t, []float32{1, 2, 3}, rec[domain.VectorFieldName(3)].Vec())

	_, hasNoise := rec["ignored_xparse"]
	assert.False(t, hasNoise, "ignored_ metadata must not be indexed")
	assert.Equal(t, []string{"report.pdf"}, extractor.filenames)
}

func TestAddStoredFile_ExtractionFailure(t *testing.T) {
	backend := &mockBackend{}
	extractor := &mockExtractor{err: errors.New("tika 500")}
	ix := fileIndexer(backend, &mockEmbedder{vector: []float32{1, 2, 3}}, extractor, IndexerOptions{})

	ix.AddStoredFile(context.Background(), testDoc("doc1", ""), testFile("f7", "report.pdf", "raw"))

	require.Len(t, backend.added, 1)
	rec := backend.added[0]
	assert.Equal(t, int64(domain.FileIndexedError), rec["solr_fileindexstatus"].IntVal())
	_, hasContent := rec["content"]
	assert.False(t, hasContent)
}

func TestAddStoredFile_ReaderFailure(t *testing.T) {
	backend := &mockBackend{}
	extractor := &mockExtractor{text: "never reached"}
	ix := fileIndexer(backend, nil, extractor, IndexerOptions{})

	file := testFile("f7", "report.pdf", "raw")
	file.Reader = func() ([]byte, error) { return nil, errors.New("storage gone") }
	ix.AddStoredFile(context.Background(), testDoc("doc1", ""), file)

	require.Len(t, backend.added, 1)
	assert.Equal(t, int64(domain.FileIndexedError), backend.added[0]["solr_fileindexstatus"].IntVal())
	assert.Empty(t, extractor.filenames)
}

func TestAddStoredFile_Ineligible(t *testing.T) {
	tests := []struct {
		name string
		file func() domain.FileRef
		opts IndexerOptions
	}{
		{
			name: "empty filename",
			file: func() domain.FileRef { return testFile("f1", "", "raw") },
		},
		{
			name: "over the size ceiling",
			file: func() domain.FileRef { return testFile("f1", "big.iso", "0123456789") },
			opts: IndexerOptions{MaxFileBytes: 5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &mockBackend{}
			extractor := &mockExtractor{text: "never reached"}
			ix := fileIndexer(backend, nil, extractor, tt.opts)

			ix.AddStoredFile(context.Background(), testDoc("doc1", ""), tt.file())

			require.Len(t, backend.added, 1)
			rec := backend.added[0]
			assert.Equal(t, int64(domain.FileIndexedFalse), rec["solr_fileindexstatus"].IntVal())
			_, hasContent := rec["content"]
			assert.False(t, hasContent)
			assert.Empty(t, extractor.filenames)
		})
	}
}

func TestAddStoredFile_NoExtractor(t *testing.T) {
	backend := &mockBackend{}
	ix := fileIndexer(backend, nil, nil, IndexerOptions{})

	ix.AddStoredFile(context.Background(), testDoc("doc1", ""), testFile("f1", "report.pdf", "raw"))

	require.Len(t, backend.added, 1)
	assert.Equal(t, int64(domain.FileIndexedFalse), backend.added[0]["solr_fileindexstatus"].IntVal())
}

func TestAddStoredFile_EmptyExtractedText(t *testing.T) {
	backend := &mockBackend{}
	extractor := &mockExtractor{metadata: map[string]string{"dc_title": "Scan"}}
	ix := fileIndexer(backend, nil, extractor, IndexerOptions{})

	ix.AddStoredFile(context.Background(), testDoc("doc1", ""), testFile("f1", "scan.pdf", "raw"))

	require.Len(t, backend.added, 1)
	rec := backend.added[0]
	assert.Equal(t, int64(domain.FileIndexedTrue), rec["solr_fileindexstatus"].IntVal())
	assert.Equal(t, "Scan", rec["dc_title"].Str())
	_, hasContent := rec["content"]
	assert.False(t, hasContent)
}

func indexedFor(doc *domain.Document, f domain.FileRef, status int) domain.IndexedFile {
	return domain.IndexedFile{
		ID:          domain.FileRecordID(doc.ID, f.ID),
		FileID:      f.ID,
		Title:       f.Filename,
		ContentHash: f.ContentHash,
		Modified:    f.Modified,
		Status:      status,
	}
}

func TestProcessDocumentFiles_Disabled(t *testing.T) {
	backend := &mockBackend{}
	resolver := domain.NewVectorFieldResolver(3)
	ix := NewIndexer(backend, nil, &mockExtractor{text: "x"}, nil, resolver, IndexerOptions{})

	doc := testDoc("doc1", "")
	doc.Files = []domain.FileRef{testFile("f1", "a.pdf", "raw")}
	ix.ProcessDocumentFiles(context.Background(), doc)

	assert.Empty(t, backend.added)
	assert.Empty(t, backend.filePages)
}

func TestProcessDocumentFiles_NewDocumentSkipsScan(t *testing.T) {
	backend := &mockBackend{}
	ix := fileIndexer(backend, nil, &mockExtractor{text: "body"}, IndexerOptions{})

	doc := testDoc("doc1", "")
	doc.Files = []domain.FileRef{testFile("f1", "a.pdf", "one"), testFile("f2", "b.pdf", "two")}
	ix.ProcessDocumentFiles(context.Background(), doc)

	assert.Empty(t, backend.filePages, "new documents have nothing to diff")
	assert.Equal(t, []string{"doc1-solrfilef1", "doc1-solrfilef2"}, backend.addedIDs())
}

func TestProcessDocumentFiles_UnchangedFileIsSkipped(t *testing.T) {
	backend := &mockBackend{}
	doc := testDoc("doc1", "")
	file := testFile("f1", "a.pdf", "raw")
	doc.New = false
	doc.Files = []domain.FileRef{file}
	backend.files = []domain.IndexedFile{indexedFor(doc, file, domain.FileIndexedTrue)}
	ix := fileIndexer(backend, nil, &mockExtractor{text: "body"}, IndexerOptions{})

	ix.ProcessDocumentFiles(context.Background(), doc)

	assert.Empty(t, backend.added)
	assert.Empty(t, backend.deleted)
	assert.Equal(t, []int{0}, backend.filePages)
}

func TestProcessDocumentFiles_StaleRecordIsDeleted(t *testing.T) {
	backend := &mockBackend{}
	doc := testDoc("doc1", "")
	doc.New = false
	gone := testFile("f9", "gone.pdf", "old")
	backend.files = []domain.IndexedFile{indexedFor(doc, gone, domain.FileIndexedTrue)}
	ix := fileIndexer(backend, nil, &mockExtractor{text: "body"}, IndexerOptions{})

	ix.ProcessDocumentFiles(context.Background(), doc)

	assert.Empty(t, backend.added)
	assert.Equal(t, []string{"doc1-solrfilef9"}, backend.deleted)
}

func TestProcessDocumentFiles_ChangedFileIsReindexed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.IndexedFile)
	}{
		{"content hash changed", func(f *domain.IndexedFile) { f.ContentHash = "stalehash" }},
		{"modified time changed", func(f *domain.IndexedFile) { f.Modified = f.Modified.Add(-time.Hour) }},
		{"renamed", func(f *domain.IndexedFile) { f.Title = "old-name.pdf" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &mockBackend{}
			doc := testDoc("doc1", "")
			file := testFile("f1", "a.pdf", "raw")
			doc.New = false
			doc.Files = []domain.FileRef{file}
			indexed := indexedFor(doc, file, domain.FileIndexedTrue)
			tt.mutate(&indexed)
			backend.files = []domain.IndexedFile{indexed}
			ix := fileIndexer(backend, nil, &mockExtractor{text: "fresh"}, IndexerOptions{})

			ix.ProcessDocumentFiles(context.Background(), doc)

			assert.Equal(t, []string{"doc1-solrfilef1"}, backend.addedIDs())
			assert.Empty(t, backend.deleted, "re-adding overwrites by id")
		})
	}
}

func TestProcessDocumentFiles_SkippedFileRetriedWhenEligible(t *testing.T) {
	backend := &mockBackend{}
	doc := testDoc("doc1", "")
	file := testFile("f1", "a.pdf", "raw")
	doc.New = false
	doc.Files = []domain.FileRef{file}
	backend.files = []domain.IndexedFile{indexedFor(doc, file, domain.FileIndexedFalse)}
	ix := fileIndexer(backend, nil, &mockExtractor{text: "now allowed"}, IndexerOptions{})

	ix.ProcessDocumentFiles(context.Background(), doc)

	require.Len(t, backend.added, 1)
	assert.Equal(t, int64(domain.FileIndexedTrue), backend.added[0]["solr_fileindexstatus"].IntVal())
}

func TestProcessDocumentFiles_PagesThroughLargeSets(t *testing.T) {
	backend := &mockBackend{}
	doc := testDoc("doc1", "")
	doc.New = false
	for i := 0; i < 1200; i++ {
		id := "f" + strconv.Itoa(i)
		backend.files = append(backend.files, domain.IndexedFile{
			ID:     domain.FileRecordID(doc.ID, id),
			FileID: id,
			Title:  fmt.Sprintf("file-%d.pdf", i),
		})
	}
	ix := fileIndexer(backend, nil, &mockExtractor{text: "x"}, IndexerOptions{})

	ix.ProcessDocumentFiles(context.Background(), doc)

	assert.Equal(t, []int{0, 500, 1000}, backend.filePages)
	assert.Len(t, backend.deleted, 1200, "all indexed files are stale")
}

func TestProcessDocumentFiles_ScanFailureFallsBackToReindex(t *testing.T) {
	backend := &mockBackend{filesErr: errors.New("select failed")}
	doc := testDoc("doc1", "")
	doc.New = false
	doc.Files = []domain.FileRef{testFile("f1", "a.pdf", "raw")}
	ix := fileIndexer(backend, nil, &mockExtractor{text: "body"}, IndexerOptions{})

	ix.ProcessDocumentFiles(context.Background(), doc)

	assert.Equal(t, []string{"doc1-solrfilef1"}, backend.addedIDs())
	assert.Empty(t, backend.deleted)
}
