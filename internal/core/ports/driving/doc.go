// Package driving defines the services the CLI, TUI, watcher and MCP
// server call into: extraction, record queries and settings.
//
// Implementations live in internal/core/services.
package driving
