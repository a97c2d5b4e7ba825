// Package source groups MessageSource adapters.
//
//   - fixtures: JSON exports of the forum and the mailing list
//   - eml: a directory of RFC 822 messages, one per file
package source
