// Package canon provides the canonical encoding used for record identity.
//
// The encoding is JSON-shaped and deterministic for arbitrary Go values:
//   - Object keys sorted by UTF-16 code units (RFC 8785 ordering)
//   - Strings are NFC normalized and never HTML escaped
//   - Structs encode every field, exported or not, tagged with "@type"
//   - Pointers and interfaces encode what they point to; nil encodes as null
//   - Depth is bounded by MaxDepth so cyclic values fail instead of looping
//
// canon imports nothing internal. The root package builds record digests
// on top of it; values that know how to encode themselves implement
// Canonicaler.
package canon
