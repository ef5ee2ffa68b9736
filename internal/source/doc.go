// Package source turns documents and command-line arguments into ordered
// source collections for dynstruct.New.
//
// Supported inputs:
//   - YAML (.yaml, .yml): top-level mapping, key order preserved
//   - JSON (.json): top-level object, key order preserved; integral
//     numbers decode as int64, others as float64
//   - CUE (.cue): top-level struct, fields in declaration order
//   - key=value arguments: values parsed as YAML scalars, so n=3 is an int
//
// Loaders only shape input. Whether the result is acceptable (non-empty)
// is decided by dynstruct.New.
package source
