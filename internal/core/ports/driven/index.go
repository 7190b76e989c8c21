package driven

import (
	"context"

	"github.com/campuskit/solrag/internal/core/domain"
)

// IndexBackend is the write/read surface of the text+vector index.
// Implementations must be safe for concurrent use: the pipeline may
// index independent documents from multiple goroutines.
type IndexBackend interface {
	// AddDocument writes one record. Overwrites any record with the
	// same id.
	AddDocument(ctx context.Context, fields domain.FieldMap) error

	// AddBatch writes records in one request. A batch failure reports
	// no per-item detail; callers fall back to AddDocument per record.
	AddBatch(ctx context.Context, batch []domain.FieldMap) error

	// DeleteByID removes one record. This is the only delete that
	// reaches file sub-records.
	DeleteByID(ctx context.Context, id string) error

	// IndexedFiles pages through the file records of one document
	// lineage. total is the overall match count so callers can page
	// sequentially.
	IndexedFiles(ctx context.Context, groupingID string, offset, limit int) (total int, files []domain.IndexedFile, err error)

	// Query issues a structured query and returns raw records.
	Query(ctx context.Context, req QueryRequest) (*QueryResponse, error)
}

// QueryRequest is a structured index query: one main clause plus
// independent filter clauses, field selection and optional grouping.
type QueryRequest struct {
	// Main is the main query clause (KNN or lexical).
	Main string

	// FilterQueries are restriction clauses ANDed onto Main.
	FilterQueries []string

	// Fields selects returned fields ("*,score" by default).
	Fields string

	// Rows bounds the number of returned records (or groups).
	Rows int

	// GroupField, when set, requests server-side grouping with at most
	// GroupLimit records per group.
	GroupField string
	GroupLimit int
}

// QueryResponse holds raw result records in backend ranking order.
// With grouping enabled, group members are flattened in group order.
type QueryResponse struct {
	Records []map[string]any
}

// FieldSchema is the schema contract surface of the index.
type FieldSchema interface {
	// Field fetches the live definition of one field. Returns
	// domain.ErrNotFound when the field does not exist.
	Field(ctx context.Context, name string) (*domain.LiveField, error)

	// AddFields creates the given fields. Creation errors are
	// aggregated into the returned error.
	AddFields(ctx context.Context, fields map[string]domain.FieldDef) error
}
