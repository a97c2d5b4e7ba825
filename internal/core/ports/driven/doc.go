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
//   - Segmenter: Splits one message body into quoted and authored runs
//   - SegmenterRegistry: Selects the segmenter for a convention
//   - MessageSource: Loads the forum and email collections
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - OverrideStore: Manual corrections. Without it, no overrides apply.
//   - PairProcessor: Classification heuristics. Without them, only override tags are set.
//   - RecordSink: Output destinations. Without them, records are only returned.
//   - RecordStore: Queries over persisted records for the records, browse and mcp commands.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, segmenter, or post-processor package
package driven
