// Package file stores qapairs settings in a TOML file, by default
// ~/.qapairs/config.toml. Keys are dotted paths that map onto nested
// tables, so "email.signature_trim" lives under [email].
package file
