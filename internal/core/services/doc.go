// Package services implements the driving port interfaces.
// Services contain the core business logic - the indexing pipeline,
// file extraction and reconciliation, the query engine and the schema
// validator - and orchestrate calls to driven ports (adapters).
//
// Services are pure Go with no external dependencies beyond the ports.
package services
