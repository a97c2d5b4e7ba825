package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedConvention indicates no segmenter handles a message convention.
	ErrUnsupportedConvention = errors.New("unsupported convention")

	// ErrMalformedSegmentation indicates a run list that does not alternate
	// between quoted and authored text. It points at a tokenizer bug and is
	// fatal to the single message being processed.
	ErrMalformedSegmentation = errors.New("malformed segmentation")

	// ErrInvalidTimestamp indicates a message date that matches no known layout.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrNoBody indicates a message without any body text.
	ErrNoBody = errors.New("message has no body")
)
