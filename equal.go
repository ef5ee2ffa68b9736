package dynstruct

import (
	"iter"
	"reflect"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/roach88/dynstruct/internal/canon"
)

// DigestDomain separates record digests from any other SHA-256 use and
// carries the type identity. The suffix allows algorithm migration.
const DigestDomain = "dynstruct/record/v1"

// cmpOptions compares stored values deeply, unexported fields included.
// Nested records compare through their Equal method, which stops at pairs
// already being compared.
var cmpOptions = []cmp.Option{
	cmp.Exporter(func(reflect.Type) bool { return true }),
}

// Equal reports whether r and other hold the same fields with equal
// values. Insertion order is ignored. Equal records have equal Hash and
// Digest.
func (r *Record) Equal(other *Record) bool {
	if r == other {
		return true
	}
	if r == nil || other == nil {
		return false
	}
	if r.Len() != other.Len() {
		return false
	}
	if r.Len() == 0 {
		return true
	}

	// A pair met again while comparing it is part of a cycle; the rest of
	// the comparison decides.
	if slices.Contains(r.comparing, other) {
		return true
	}
	r.comparing = append(r.comparing, other)
	defer func() { r.comparing = r.comparing[:len(r.comparing)-1] }()

	return cmp.Equal(r.fields, other.fields, cmpOptions...)
}

// CanonicalFields exposes the fields to the canonical encoder.
func (r *Record) CanonicalFields() iter.Seq2[string, any] {
	return r.All()
}

// MarshalCanonical returns the canonical encoding of the fields: an
// object with sorted keys, independent of insertion order.
func (r *Record) MarshalCanonical() ([]byte, error) {
	return canon.Marshal(r)
}

// Digest returns the hex SHA-256 of the canonical fields under
// DigestDomain. It fails only for values that cannot be encoded, such as
// records that contain themselves.
func (r *Record) Digest() (string, error) {
	return canon.Digest(DigestDomain, r)
}

// separatorByte cannot occur in valid UTF-8.
var separatorByte = []byte{255}

// Hash returns an xxhash of the canonical fields under DigestDomain.
// Equal records hash equally.
//
// When the values cannot be encoded the hash covers the sorted key set
// alone, which still gives equal records equal hashes.
func (r *Record) Hash() uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(DigestDomain)
	_, _ = h.Write(separatorByte)

	if data, err := r.MarshalCanonical(); err == nil {
		_, _ = h.Write(data)
		return h.Sum64()
	}

	keys := r.Keys()
	canon.SortKeys(keys)
	for _, k := range keys {
		_, _ = h.WriteString(k)
		_, _ = h.Write(separatorByte)
	}
	return h.Sum64()
}
