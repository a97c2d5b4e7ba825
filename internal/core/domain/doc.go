// Package domain defines the core business entities for qapairs.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawMessage: One forum post or email as loaded from a fixture
//   - TextRun: A quoted or authored span of a segmented message
//   - Override: A manual correction keyed by source URL
//   - QAPair: A question/answer pair before ordering and numbering
//   - QARecord: A finished, numbered output record
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
