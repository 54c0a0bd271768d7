// Package doublon provides exact duplicate-file detection and the
// operations derived from it.
//
// It walks directory trees using fastwalk for parallel traversal and
// refines duplicate candidates through a staged pipeline (size,
// leading-byte fingerprint, full MD5 checksum) so that full-content
// hashing only happens for files that already match on the cheap
// criteria.
package doublon
