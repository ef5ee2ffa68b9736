package dynstruct

import "iter"

// All returns a lazy sequence of every (name, value) pair in insertion
// order. Each range over the result starts a new traversal.
func (r *Record) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for i := 0; i < len(r.keys); i++ {
			k := r.keys[i]
			if !yield(k, r.fields[k]) {
				return
			}
		}
	}
}

// Each calls fn for every pair in insertion order and returns r, so calls
// can be chained. A nil fn is a no-op.
func (r *Record) Each(fn func(name string, value any)) *Record {
	if fn == nil {
		return r
	}
	for k, v := range r.All() {
		fn(k, v)
	}
	return r
}

// Iterator returns a detached enumerator positioned before the first field.
func (r *Record) Iterator() *Iterator {
	return &Iterator{record: r}
}

// Iterator walks a record's fields on demand.
//
// Fields added to the record while iterating are visited when the
// iterator reaches them.
type Iterator struct {
	record *Record
	pos    int
}

// Next returns the next field and true, or a zero Field and false once
// every field has been produced.
func (it *Iterator) Next() (Field, bool) {
	if it.pos >= len(it.record.keys) {
		return Field{}, false
	}
	k := it.record.keys[it.pos]
	it.pos++
	return Field{Name: k, Value: it.record.fields[k]}, true
}

// Reset rewinds the iterator to the first field.
func (it *Iterator) Reset() {
	it.pos = 0
}

// Collect drains the remaining fields.
func (it *Iterator) Collect() Fields {
	var out Fields
	for f, ok := it.Next(); ok; f, ok = it.Next() {
		out = append(out, f)
	}
	return out
}
