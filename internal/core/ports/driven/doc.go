// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - IndexBackend: The text+vector search index (Solr) reached over HTTP
//   - FieldSchema: Field-definition lookup and creation on the index
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, content
//     is indexed for lexical search only and similarity queries fail.
//   - ContentExtractor: Extracts text from binary files. Without it,
//     attached files are indexed as reference-only records.
//   - EmbeddingCache: Avoids re-embedding unchanged content. Without it,
//     every chunk is embedded on every pass.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
