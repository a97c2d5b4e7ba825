// Package mcp provides an MCP (Model Context Protocol) server adapter for qapairs.
// It lets AI assistants segment messages and search extracted question/answer pairs.
package mcp

import "errors"

// ErrMissingExtractionService is returned when the extraction service is not provided.
var ErrMissingExtractionService = errors.New("mcp: extraction service is required")

// ErrRecordsUnavailable is returned by record tools when no record store is wired.
var ErrRecordsUnavailable = errors.New("mcp: no persisted records available")
