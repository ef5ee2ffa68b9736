package dynstruct

import (
	"reflect"

	"github.com/roach88/dynstruct/internal/canon"
)

// Field is one named value, the ordered unit of a source collection.
type Field struct {
	Name  string
	Value any
}

// F is a shorthand for Field.
// Example: dynstruct.Fields{dynstruct.F("first", "first"), dynstruct.F("count", 2)}
func F(name string, value any) Field {
	return Field{Name: name, Value: value}
}

// Fields is an ordered source collection. Construction keeps its order.
type Fields []Field

// Record is a dynamic container of named values.
//
// Fields keep insertion order for display and iteration. Keys are stored
// in canonical form (see CanonicalKey). There is no deletion.
type Record struct {
	keys   []string
	fields map[string]any

	// inspecting guards String against records that contain themselves.
	inspecting bool

	// comparing holds the records Equal is comparing r against.
	comparing []*Record
}

// New constructs a Record from a source collection.
//
// Accepted sources are Fields, []Field, map[string]any, any other map
// whose keys are strings, and *Record. Map sources carry no order, so
// their keys load in canonical sort order. A nil, empty or non-mapping
// source fails with an ArgumentError matching ErrInvalidArgument.
func New(src any) (*Record, error) {
	if err := verify(src); err != nil {
		return nil, err
	}

	r := newRecord()
	r.assign(src)
	return r, nil
}

// MustNew is like New but panics on error.
// Use only in tests or when the source is known to be valid.
func MustNew(src any) *Record {
	r, err := New(src)
	if err != nil {
		panic(err)
	}
	return r
}

func newRecord() *Record {
	return &Record{fields: make(map[string]any)}
}

// verify checks that src is a non-empty mapping.
func verify(src any) *ArgumentError {
	n, ok := sourceLen(src)
	switch {
	case !ok:
		return newInvalidArgument("source collection must be a mapping with string keys, got %T", src)
	case n == 0 && isNilSource(src):
		return newInvalidArgument("source collection is missing")
	case n == 0:
		return newInvalidArgument("source collection is empty")
	}
	return nil
}

// sourceLen returns the number of entries in src, and false when src is
// not a mapping. Nil sources count as mappings with no entries.
func sourceLen(src any) (int, bool) {
	switch s := src.(type) {
	case nil:
		return 0, true
	case Fields:
		return len(s), true
	case []Field:
		return len(s), true
	case map[string]any:
		return len(s), true
	case *Record:
		if s == nil {
			return 0, true
		}
		return s.Len(), true
	}

	v := reflect.ValueOf(src)
	if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
		return 0, false
	}
	return v.Len(), true
}

func isNilSource(src any) bool {
	if src == nil {
		return true
	}
	v := reflect.ValueOf(src)
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

// assign bulk-loads a verified source through Set.
func (r *Record) assign(src any) {
	switch s := src.(type) {
	case Fields:
		r.assignFields(s)
	case []Field:
		r.assignFields(s)
	case map[string]any:
		for _, k := range canon.SortedKeys(s) {
			r.Set(k, s[k])
		}
	case *Record:
		// Keys of a record are already canonical.
		for k, v := range s.All() {
			r.put(k, v)
		}
	default:
		v := reflect.ValueOf(src)
		byName := make(map[string]reflect.Value, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			byName[iter.Key().String()] = iter.Value()
		}
		for _, k := range canon.SortedKeys(byName) {
			r.Set(k, byName[k].Interface())
		}
	}
}

func (r *Record) assignFields(fields []Field) {
	for _, f := range fields {
		r.Set(f.Name, f.Value)
	}
}

// Get returns the value stored under key. The key may be in any form
// CanonicalKey accepts. Reports false when the field is absent.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.fields[CanonicalKey(key)]
	return v, ok
}

// Value is Get without the presence flag: absent fields read as nil.
func (r *Record) Value(key string) any {
	v, _ := r.Get(key)
	return v
}

// Set inserts or overwrites the field under key and returns value.
// New fields append to the iteration order; overwrites keep their slot.
func (r *Record) Set(key string, value any) any {
	r.put(CanonicalKey(key), value)
	return value
}

func (r *Record) put(key string, value any) {
	if r.fields == nil {
		r.fields = make(map[string]any)
	}
	if _, ok := r.fields[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.fields[key] = value
}

// Has reports whether a field exists under key.
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.keys)
}

// HasFields reports whether the record holds at least one field.
func (r *Record) HasFields() bool {
	return len(r.keys) > 0
}

// IsEmpty reports whether the record holds no fields.
func (r *Record) IsEmpty() bool {
	return !r.HasFields()
}
