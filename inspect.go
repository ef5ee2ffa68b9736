package dynstruct

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// displayName is the type name shown by String.
const displayName = "Record"

// String renders the record on one line:
//
//	<Record key1=val1 key2=val2>
//
// Pairs appear in insertion order with each value in its debug form.
// An empty record renders as <Record>.
func (r *Record) String() string {
	if r == nil {
		return "<" + displayName + ">"
	}
	if r.inspecting {
		return "<" + displayName + " ...>"
	}
	r.inspecting = true
	defer func() { r.inspecting = false }()

	var b strings.Builder
	b.WriteString("<" + displayName)
	for k, v := range r.All() {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(inspectValue(v))
	}
	b.WriteByte('>')
	return b.String()
}

// GoString makes %#v print the display form.
func (r *Record) GoString() string {
	return r.String()
}

// Inspect returns the debug form String uses for a single value.
func Inspect(v any) string {
	return inspectValue(v)
}

// inspectValue renders v in debug form: strings quoted, nil as nil,
// composites in Go syntax, scalars as printed by %v.
func inspectValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(val)
	case *Record:
		if val == nil {
			return "nil"
		}
		return val.String()
	case fmt.GoStringer:
		return val.GoString()
	case fmt.Stringer:
		return val.String()
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct, reflect.Pointer:
		return fmt.Sprintf("%#v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
