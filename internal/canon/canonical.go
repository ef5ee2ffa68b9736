package canon

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"math"
	"reflect"
	"strconv"
	"time"
)

// MaxDepth bounds how deeply Marshal descends into nested values.
const MaxDepth = 64

// ErrTooDeep is returned when a value nests deeper than MaxDepth,
// which in practice means it contains a cycle.
var ErrTooDeep = errors.New("value nests too deeply for canonical encoding")

// Canonicaler is implemented by values that produce their own canonical
// encoding. The returned bytes are embedded verbatim.
type Canonicaler interface {
	MarshalCanonical() ([]byte, error)
}

// Object is implemented by values that encode as an object of named
// fields. Unlike Canonicaler, nested Objects share the caller's depth
// budget, so an Object that contains itself fails with ErrTooDeep.
type Object interface {
	CanonicalFields() iter.Seq2[string, any]
}

var timeType = reflect.TypeOf(time.Time{})

// Marshal produces the canonical encoding of v.
//
// Two values that compare equal field by field produce identical bytes.
// The converse does not hold: int(3) and int64(3) encode the same way.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, reflect.ValueOf(v), 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v reflect.Value, depth int) error {
	if depth > MaxDepth {
		return ErrTooDeep
	}
	if !v.IsValid() {
		buf.WriteString("null")
		return nil
	}

	if v.CanInterface() {
		if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil() {
			buf.WriteString("null")
			return nil
		}
		if o, ok := v.Interface().(Object); ok {
			return encodeObject(buf, o, depth)
		}
		if c, ok := v.Interface().(Canonicaler); ok {
			data, err := c.MarshalCanonical()
			if err != nil {
				return err
			}
			buf.Write(data)
			return nil
		}
		if v.Type() == timeType {
			// Instants compare with time.Time.Equal, so the zone is dropped.
			t := v.Interface().(time.Time)
			return writeString(buf, t.UTC().Format(time.RFC3339Nano))
		}
	}

	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		buf.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		buf.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32:
		writeFloat(buf, v.Float(), 32)
	case reflect.Float64:
		writeFloat(buf, v.Float(), 64)
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		buf.WriteByte('[')
		writeFloat(buf, real(c), 64)
		buf.WriteByte(',')
		writeFloat(buf, imag(c), 64)
		buf.WriteByte(']')
	case reflect.String:
		return writeString(buf, v.String())
	case reflect.Slice:
		if v.IsNil() {
			buf.WriteString("null")
			return nil
		}
		return encodeList(buf, v, depth)
	case reflect.Array:
		return encodeList(buf, v, depth)
	case reflect.Map:
		if v.IsNil() {
			buf.WriteString("null")
			return nil
		}
		return encodeMap(buf, v, depth)
	case reflect.Struct:
		return encodeStruct(buf, v, depth)
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			buf.WriteString("null")
			return nil
		}
		return encode(buf, v.Elem(), depth+1)
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		// Identity-only kinds: equal values share a type, so the type is enough.
		if v.IsNil() {
			buf.WriteString("null")
			return nil
		}
		return writeString(buf, "<"+v.Type().String()+">")
	default:
		return fmt.Errorf("unsupported kind for canonical encoding: %s", v.Kind())
	}
	return nil
}

// writeFloat encodes f in shortest round-trip form. Negative zero folds
// onto zero because the two compare equal.
func writeFloat(buf *bytes.Buffer, f float64, bitSize int) {
	switch {
	case math.IsNaN(f):
		buf.WriteString(`"NaN"`)
	case math.IsInf(f, 1):
		buf.WriteString(`"+Inf"`)
	case math.IsInf(f, -1):
		buf.WriteString(`"-Inf"`)
	case f == 0:
		buf.WriteByte('0')
	default:
		buf.WriteString(strconv.FormatFloat(f, 'g', -1, bitSize))
	}
}

func encodeList(buf *bytes.Buffer, v reflect.Value, depth int) error {
	buf.WriteByte('[')
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encode(buf, v.Index(i), depth+1); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return nil
}

func encodeMap(buf *bytes.Buffer, v reflect.Value, depth int) error {
	entries := make(map[string]reflect.Value, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		key, err := mapKey(iter.Key(), depth)
		if err != nil {
			return err
		}
		entries[key] = iter.Value()
	}

	buf.WriteByte('{')
	for i, k := range SortedKeys(entries) {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := encode(buf, entries[k], depth+1); err != nil {
			return fmt.Errorf("[%q]: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func encodeObject(buf *bytes.Buffer, o Object, depth int) error {
	fields := make(map[string]any)
	for k, v := range o.CanonicalFields() {
		fields[k] = v
	}

	buf.WriteByte('{')
	for i, k := range SortedKeys(fields) {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := encode(buf, reflect.ValueOf(fields[k]), depth+1); err != nil {
			return fmt.Errorf("[%q]: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

// mapKey renders a map key as an object key. String keys are used as is;
// any other key type uses its own canonical encoding.
func mapKey(k reflect.Value, depth int) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	var kb bytes.Buffer
	if err := encode(&kb, k, depth+1); err != nil {
		return "", fmt.Errorf("map key: %w", err)
	}
	return kb.String(), nil
}

func encodeStruct(buf *bytes.Buffer, v reflect.Value, depth int) error {
	t := v.Type()
	fields := make(map[string]reflect.Value, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Name == "_" {
			continue
		}
		fields[f.Name] = v.Field(i)
	}

	buf.WriteString(`{"@type":`)
	if err := writeString(buf, t.String()); err != nil {
		return err
	}
	for _, name := range SortedKeys(fields) {
		buf.WriteByte(',')
		if err := writeString(buf, name); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := encode(buf, fields[name], depth+1); err != nil {
			return fmt.Errorf("%s.%s: %w", t.String(), name, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

// writeString writes s as an NFC-normalized JSON string without HTML
// escaping. U+2028 and U+2029 are written literally per RFC 8785.
func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(NormalizeString(s)); err != nil {
		return err
	}

	// Encoder appends a newline
	out := bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'})
	buf.Write(unescapeLineSeparators(out))
	return nil
}

// unescapeLineSeparators turns the U+2028 and U+2029 escapes back into the
// literal characters. The escape is real only when an even run of
// backslashes precedes it; otherwise the backslash itself was escaped.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] == '\\' && i+5 < len(data) && string(data[i+1:i+5]) == "u202" &&
			(data[i+5] == '8' || data[i+5] == '9') && precedingBackslashes(out)%2 == 0 {
			if data[i+5] == '8' {
				out = append(out, "\u2028"...)
			} else {
				out = append(out, "\u2029"...)
			}
			i += 5
			continue
		}
		out = append(out, data[i])
	}
	return out
}

func precedingBackslashes(b []byte) int {
	n := 0
	for j := len(b) - 1; j >= 0 && b[j] == '\\'; j-- {
		n++
	}
	return n
}
