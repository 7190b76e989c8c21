// Package solr implements the index backend over Solr's HTTP API:
// JSON updates, the JSON request API for queries, the schema API for
// field management and update/extract for Tika content extraction.
package solr
