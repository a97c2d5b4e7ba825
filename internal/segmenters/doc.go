// Package segmenters provides implementations of the Segmenter interface
// for each quoting convention. A segmenter turns one raw message body into
// alternating quoted and authored text runs.
//
// Segmenters are registered with the Registry at startup.
package segmenters
