// Package integration provides cross-package tests that run the whole
// pipeline: ingest, workbook, export and history.
//
// Build tag: integration
// Run with: go test -tags integration ./internal/integration/...
package integration
