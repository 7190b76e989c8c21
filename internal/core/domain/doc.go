// Package domain defines the core business entities for solrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An indexable unit from the content source
//   - FileRef: A file attached to a Document
//   - FieldMap: The flattened field representation sent to the index
//   - QueryFilters / AccessInfo: Inputs to the query engine
//   - ResultDocument: A parsed query result
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
