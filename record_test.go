package dynstruct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type label string

func TestNewLoadsEveryEntry(t *testing.T) {
	src := map[string]any{"first": "first", "count": 2, "ok": true}

	rec, err := New(src)
	require.NoError(t, err)

	assert.False(t, rec.IsEmpty())
	assert.Equal(t, 3, rec.Len())
	for k, want := range src {
		got, ok := rec.Get(k)
		assert.True(t, ok, "key %q must be present", k)
		assert.Equal(t, want, got)
	}
}

func TestNewKeepsFieldsOrder(t *testing.T) {
	rec := MustNew(Fields{F("zebra", 1), F("apple", 2), F("mango", 3)})
	assert.Equal(t, []string{"zebra", "apple", "mango"}, rec.Keys())
}

func TestNewMapSourceLoadsInCanonicalOrder(t *testing.T) {
	rec := MustNew(map[string]any{"zebra": 1, "apple": 2, "mango": 3})
	assert.Equal(t, []string{"apple", "mango", "zebra"}, rec.Keys())
}

func TestNewAcceptsTypedMaps(t *testing.T) {
	rec, err := New(map[string]string{"b": "2", "a": "1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, rec.Keys())
	assert.Equal(t, "1", rec.Value("a"))

	rec, err = New(map[label]int{"x": 1})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Value("x"))
}

func TestNewFromRecordCopies(t *testing.T) {
	orig := MustNew(Fields{F("one", 1), F("two", 2)})

	cp, err := New(orig)
	require.NoError(t, err)
	assert.Equal(t, orig.Keys(), cp.Keys())

	cp.Set("three", 3)
	assert.False(t, orig.Has("three"), "copy must not share storage")
}

func TestNewNormalizesKeys(t *testing.T) {
	rec := MustNew(Fields{F(":first", 1), F(`"second"`, 2)})
	assert.Equal(t, []string{"first", "second"}, rec.Keys())
}

func TestNewDuplicateFieldsCollapse(t *testing.T) {
	rec := MustNew(Fields{F("a", 1), F("b", 2), F("a", 3)})

	assert.Equal(t, []string{"a", "b"}, rec.Keys())
	assert.Equal(t, 3, rec.Value("a"))
}

func TestNewRejectsInvalidSources(t *testing.T) {
	var nilMap map[string]any
	var nilRecord *Record

	tests := []struct {
		name string
		src  any
		msg  string
	}{
		{"nil", nil, "missing"},
		{"nil map", nilMap, "missing"},
		{"nil record", nilRecord, "missing"},
		{"empty map", map[string]any{}, "empty"},
		{"empty fields", Fields{}, "empty"},
		{"empty record", newRecord(), "empty"},
		{"slice", []string{"a"}, "mapping"},
		{"int", 42, "mapping"},
		{"string", "key=value", "mapping"},
		{"int keyed map", map[int]string{1: "a"}, "mapping"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := New(tt.src)
			require.Error(t, err)
			assert.Nil(t, rec)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.True(t, IsInvalidArgument(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestMustNewPanics(t *testing.T) {
	assert.Panics(t, func() { MustNew(nil) })
}

func TestGetUnknownFieldIsAbsent(t *testing.T) {
	rec := MustNew(Fields{F("first", "first")})

	v, ok := rec.Get("second")
	assert.False(t, ok)
	assert.Nil(t, v)
	assert.Nil(t, rec.Value("second"))
}

func TestGetKeyFormsShareSlot(t *testing.T) {
	rec := MustNew(Fields{F("first", "first")})

	assert.Equal(t, "first", rec.Value("first"))
	assert.Equal(t, "first", rec.Value(":first"))
	assert.Equal(t, "first", rec.Value(`"first"`))
	assert.Equal(t, "first", rec.Value("'first'"))
}

func TestSetReturnsValueAndKeepsSlot(t *testing.T) {
	rec := MustNew(Fields{F("a", 1), F("b", 2)})

	assert.Equal(t, 10, rec.Set(":a", 10))
	assert.Equal(t, "new", rec.Set("c", "new"))

	assert.Equal(t, []string{"a", "b", "c"}, rec.Keys())
	assert.Equal(t, 10, rec.Value("a"))
}

func TestSetOnZeroRecord(t *testing.T) {
	var rec Record
	rec.Set("key", "value")

	assert.Equal(t, "value", rec.Value("key"))
	assert.True(t, rec.HasFields())
}

func TestKeysReturnsCopy(t *testing.T) {
	rec := MustNew(Fields{F("a", 1)})
	keys := rec.Keys()
	keys[0] = "mutated"

	assert.Equal(t, []string{"a"}, rec.Keys())
}

func TestEmptiness(t *testing.T) {
	filled := MustNew(map[string]any{"key": "value"})
	assert.True(t, filled.HasFields())
	assert.False(t, filled.IsEmpty())

	empty := newRecord()
	assert.False(t, empty.HasFields())
	assert.True(t, empty.IsEmpty())
	assert.NotNil(t, empty.fields, "fields map is never nil")
}

func TestNewCopiesRecordKeys(t *testing.T) {
	rec := MustNew(Fields{F(`":a"`, 1), F("b", "two")})

	dup, err := New(rec)
	require.NoError(t, err)
	assert.Equal(t, rec.Keys(), dup.Keys())
	assert.True(t, dup.Equal(rec))
}
