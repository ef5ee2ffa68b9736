package dynstruct

import (
	"fmt"
	"slices"
	"strings"
)

// operation is a reserved member of the dispatch table.
type operation struct {
	minArgs int
	maxArgs int
	call    func(r *Record, name string, args []any) (any, error)
}

// operations maps reserved member names to their implementation.
// Populated in init because several operations refer back to the table.
var operations map[string]operation

func init() {
	get := operation{1, 1, func(r *Record, _ string, args []any) (any, error) {
		return r.Value(keyArg(args[0])), nil
	}}
	set := operation{2, 2, func(r *Record, _ string, args []any) (any, error) {
		return r.Set(keyArg(args[0]), args[1]), nil
	}}
	inspect := operation{0, 0, func(r *Record, _ string, _ []any) (any, error) {
		return r.String(), nil
	}}
	equal := operation{1, 1, func(r *Record, _ string, args []any) (any, error) {
		other, ok := args[0].(*Record)
		return ok && r.Equal(other), nil
	}}
	hasFields := operation{0, 0, func(r *Record, _ string, _ []any) (any, error) {
		return r.HasFields(), nil
	}}
	isEmpty := operation{0, 0, func(r *Record, _ string, _ []any) (any, error) {
		return r.IsEmpty(), nil
	}}
	hash := operation{0, 0, func(r *Record, _ string, _ []any) (any, error) {
		return r.Hash(), nil
	}}
	digest := operation{0, 0, func(r *Record, _ string, _ []any) (any, error) {
		return r.Digest()
	}}
	respondsTo := operation{1, 1, func(r *Record, _ string, args []any) (any, error) {
		return r.RespondsTo(keyArg(args[0])), nil
	}}
	keys := operation{0, 0, func(r *Record, _ string, _ []any) (any, error) {
		return r.Keys(), nil
	}}
	length := operation{0, 0, func(r *Record, _ string, _ []any) (any, error) {
		return r.Len(), nil
	}}

	operations = map[string]operation{
		"get":        get,
		"[]":         get,
		"set":        set,
		"[]=":        set,
		"each":       {0, 1, dispatchEach},
		"inspect":    inspect,
		"string":     inspect,
		"equal":      equal,
		"==":         equal,
		"hash":       hash,
		"digest":     digest,
		"isEmpty":    isEmpty,
		"hasFields":  hasFields,
		"atoms?":     hasFields,
		"respondsTo": respondsTo,
		"keys":       keys,
		"len":        length,
	}
}

// dispatchEach returns an Iterator when called bare, or applies the
// callback to every pair and returns the record.
func dispatchEach(r *Record, name string, args []any) (any, error) {
	if len(args) == 0 {
		return r.Iterator(), nil
	}
	switch fn := args[0].(type) {
	case func(string, any):
		return r.Each(fn), nil
	case func(Field):
		return r.Each(func(k string, v any) { fn(Field{Name: k, Value: v}) }), nil
	default:
		return nil, newBadCall(name, "callback must be func(string, any) or func(Field), got %T", args[0])
	}
}

// keyArg turns a dispatched key argument into a key string.
func keyArg(v any) string {
	switch k := v.(type) {
	case string:
		return k
	case fmt.Stringer:
		return k.String()
	default:
		return fmt.Sprint(v)
	}
}

// ReservedNames returns the reserved operation names, sorted.
func ReservedNames() []string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsReserved reports whether name is a reserved operation.
func IsReserved(name string) bool {
	_, ok := operations[name]
	return ok
}

// Send dispatches a member call by name.
//
// Resolution order:
//  1. A reserved operation name invokes that operation with args.
//  2. A name ending in "=" with one argument writes the field named by
//     the rest of the name and returns the value.
//  3. Any other name with no arguments reads the field, or nil when absent.
//
// Calls that fit no shape return an ArgumentError with code ErrCodeBadCall.
// Reads and writes of fields never fail.
func (r *Record) Send(name string, args ...any) (any, error) {
	if op, ok := operations[name]; ok {
		if len(args) < op.minArgs || len(args) > op.maxArgs {
			return nil, newBadCall(name, "wrong number of arguments (given %d, expected %s)",
				len(args), arity(op))
		}
		return op.call(r, name, args)
	}

	if base, ok := strings.CutSuffix(name, "="); ok && base != "" {
		if len(args) != 1 {
			return nil, newBadCall(name, "setter takes exactly one argument, given %d", len(args))
		}
		return r.Set(base, args[0]), nil
	}

	if len(args) != 0 {
		return nil, newBadCall(name, "getter takes no arguments, given %d", len(args))
	}
	return r.Value(name), nil
}

func arity(op operation) string {
	if op.minArgs == op.maxArgs {
		return fmt.Sprintf("%d", op.minArgs)
	}
	return fmt.Sprintf("%d..%d", op.minArgs, op.maxArgs)
}

// RespondsTo reports whether the record answers to name: true for
// reserved operations and for fields currently present, false otherwise.
// It never invokes anything.
func (r *Record) RespondsTo(name string) bool {
	return IsReserved(name) || r.Has(name)
}
