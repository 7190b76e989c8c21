package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates no embedding service is configured.
	// Similarity search is disabled without embeddings; lexical indexing
	// still works.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrUnsupportedDimension indicates the index has no vector field
	// configured for an embedding's length.
	ErrUnsupportedDimension = errors.New("unsupported vector dimension")

	// ErrNoAccessibleContext indicates the access-control computation
	// yielded zero visible contexts. The query engine maps it to an
	// empty result set before the backend is touched; callers above
	// the engine never see it.
	ErrNoAccessibleContext = errors.New("no accessible context")

	// ErrBackend indicates the index backend responded but signalled
	// failure (non-zero status, error body).
	ErrBackend = errors.New("backend error")

	// ErrSchemaMismatch indicates an index field exists but its live
	// definition disagrees with the required one.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrSchemaProvisioning indicates one or more field creation calls
	// reported errors during schema setup.
	ErrSchemaProvisioning = errors.New("schema provisioning failed")

	// ErrExtractionFailed indicates the content extractor could not
	// produce text for a file. The file is still indexed as a
	// reference-only record.
	ErrExtractionFailed = errors.New("content extraction failed")
)

// InvalidFieldError reports a field whose value cannot be represented
// on a result document, such as a multi-valued scalar field returned
// by the backend.
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// Is makes InvalidFieldError match ErrInvalidInput.
func (e *InvalidFieldError) Is(target error) bool {
	return target == ErrInvalidInput
}
