package canon

import (
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// NormalizeString returns s in Unicode normalization form C.
func NormalizeString(s string) string {
	return norm.NFC.String(s)
}

// SortKeys sorts keys in place in RFC 8785 order (UTF-16 code units).
// Go's default string ordering compares UTF-8 bytes, which differs for
// characters outside the BMP.
func SortKeys(keys []string) {
	slices.SortFunc(keys, CompareKeys)
}

// SortedKeys returns the keys of m in RFC 8785 order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	SortKeys(keys)
	return keys
}

// CompareKeys compares a and b by UTF-16 code units.
func CompareKeys(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := min(len(a16), len(b16))
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	// Equal prefix: shorter key first
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}
