package dynstruct

import (
	"strconv"
	"unicode"

	"github.com/roach88/dynstruct/internal/canon"
)

// CanonicalKey returns the form a field name is stored under.
//
// The name is NFC normalized, then literal syntax is removed until none is
// left: a quoted name ("name" or 'name') is unquoted and a symbol-style
// name (:name) loses its colon. A layer whose removal would leave an empty
// name is kept, so '' and "" stay as written. Anything else is kept as is.
// Keys stay case-sensitive, and CanonicalKey(CanonicalKey(k)) equals
// CanonicalKey(k).
func CanonicalKey(name string) string {
	key := canon.NormalizeString(name)
	for {
		inner, ok := stripLiteral(key)
		if !ok || inner == "" || len(inner) >= len(key) {
			return key
		}
		key = inner
	}
}

// stripLiteral removes one layer of literal syntax from key.
func stripLiteral(key string) (string, bool) {
	if len(key) < 2 {
		return "", false
	}

	switch key[0] {
	case '"':
		if s, err := strconv.Unquote(key); err == nil {
			return canon.NormalizeString(s), true
		}
	case '\'':
		if key[len(key)-1] == '\'' {
			return canon.NormalizeString(key[1 : len(key)-1]), true
		}
	case ':':
		if isIdentifier(key[1:]) {
			return canon.NormalizeString(key[1:]), true
		}
	}
	return "", false
}

// isIdentifier reports whether s is a bare identifier: a letter or
// underscore followed by letters, digits or underscores, optionally
// ending in '?' or '!'.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		case i > 0 && i == len(s)-1 && (r == '?' || r == '!'):
		default:
			return false
		}
	}
	return true
}
