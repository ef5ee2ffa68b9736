package source

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roach88/dynstruct"
)

func names(fields dynstruct.Fields) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

func value(t *testing.T, fields dynstruct.Fields, name string) any {
	t.Helper()
	for _, f := range fields {
		if f.Name == name {
			return f.Value
		}
	}
	t.Fatalf("field %q not found in %v", name, names(fields))
	return nil
}

func requireLoadError(t *testing.T, err error, code string) *LoadError {
	t.Helper()
	require.Error(t, err)
	var le *LoadError
	require.True(t, errors.As(err, &le), "expected *LoadError, got %T", err)
	assert.Equal(t, code, le.Code)
	return le
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.yaml", FormatYAML},
		{"a.YML", FormatYAML},
		{"dir/a.json", FormatJSON},
		{"a.cue", FormatCUE},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FormatFromPath("a.toml")
	requireLoadError(t, err, ErrCodeUnknownFormat)
}

func TestLoadFileYAML(t *testing.T) {
	fields, err := LoadFile(filepath.Join("testdata", "person.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age", "tags", "active"}, names(fields))
	assert.Equal(t, "Ada", value(t, fields, "name"))
	assert.Equal(t, 36, value(t, fields, "age"))
	assert.Equal(t, []any{"math", "engines"}, value(t, fields, "tags"))
	assert.Equal(t, true, value(t, fields, "active"))
}

func TestLoadFileJSON(t *testing.T) {
	fields, err := LoadFile(filepath.Join("testdata", "person.json"))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age", "ratio", "tags", "active"}, names(fields))
	assert.Equal(t, int64(36), value(t, fields, "age"))
	assert.Equal(t, 0.5, value(t, fields, "ratio"))
	assert.Equal(t, []any{"math", "engines"}, value(t, fields, "tags"))
}

func TestLoadFileCUE(t *testing.T) {
	fields, err := LoadFile(filepath.Join("testdata", "person.cue"))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age", "tags", "active"}, names(fields))
	assert.Equal(t, "Ada", value(t, fields, "name"))
	assert.EqualValues(t, 36, value(t, fields, "age"))
	assert.Equal(t, true, value(t, fields, "active"))
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join("testdata", "missing.yaml"))
	le := requireLoadError(t, err, ErrCodeNotFound)
	assert.Contains(t, le.Error(), "missing.yaml")

	_, err = LoadFile(filepath.Join("testdata", "notes.txt"))
	requireLoadError(t, err, ErrCodeUnknownFormat)

	_, err = LoadFile(filepath.Join("testdata", "list.yaml"))
	le = requireLoadError(t, err, ErrCodeNotMapping)
	assert.Equal(t, filepath.Join("testdata", "list.yaml"), le.Path)
}

func TestLoadedFieldsBuildRecord(t *testing.T) {
	fields, err := LoadFile(filepath.Join("testdata", "person.yaml"))
	require.NoError(t, err)

	rec, err := dynstruct.New(fields)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age", "tags", "active"}, rec.Keys())
	assert.Equal(t, "Ada", rec.Value("name"))
}

func TestParseYAML(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		fields, err := ParseYAML(nil)
		require.NoError(t, err)
		assert.Empty(t, fields)
	})

	t.Run("nested mapping stays a map", func(t *testing.T) {
		fields, err := ParseYAML([]byte("outer:\n  inner: 1\n"))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"inner": 1}, value(t, fields, "outer"))
	})

	t.Run("scalar top level", func(t *testing.T) {
		_, err := ParseYAML([]byte("just text"))
		requireLoadError(t, err, ErrCodeNotMapping)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ParseYAML([]byte("a: [1, 2"))
		requireLoadError(t, err, ErrCodeParseFailed)
	})

}

func TestParseJSON(t *testing.T) {
	t.Run("whitespace only", func(t *testing.T) {
		fields, err := ParseJSON([]byte("  \n"))
		require.NoError(t, err)
		assert.Empty(t, fields)
	})

	t.Run("empty object", func(t *testing.T) {
		fields, err := ParseJSON([]byte("{}"))
		require.NoError(t, err)
		assert.NotNil(t, fields)
		assert.Empty(t, fields)
	})

	t.Run("nested numbers convert", func(t *testing.T) {
		fields, err := ParseJSON([]byte(`{"a": {"b": [1, 2.5]}}`))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"b": []any{int64(1), 2.5}}, value(t, fields, "a"))
	})

	t.Run("array top level", func(t *testing.T) {
		_, err := ParseJSON([]byte(`[1, 2]`))
		requireLoadError(t, err, ErrCodeNotMapping)
	})

	t.Run("trailing data", func(t *testing.T) {
		_, err := ParseJSON([]byte(`{"a": 1} {"b": 2}`))
		requireLoadError(t, err, ErrCodeParseFailed)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := ParseJSON([]byte(`{"a": 1`))
		requireLoadError(t, err, ErrCodeParseFailed)
	})
}

func TestParseCUE(t *testing.T) {
	t.Run("computed fields", func(t *testing.T) {
		fields, err := ParseCUE([]byte("a: 2\nb: a * 3\n"), "calc.cue")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, names(fields))
		assert.EqualValues(t, 6, value(t, fields, "b"))
	})

	t.Run("incomplete value", func(t *testing.T) {
		_, err := ParseCUE([]byte("a: int\n"), "open.cue")
		requireLoadError(t, err, ErrCodeParseFailed)
	})

	t.Run("list top level", func(t *testing.T) {
		_, err := ParseCUE([]byte("[1, 2]\n"), "list.cue")
		requireLoadError(t, err, ErrCodeNotMapping)
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := ParseCUE([]byte("a: {\n"), "broken.cue")
		requireLoadError(t, err, ErrCodeParseFailed)
	})
}

func TestParseArgs(t *testing.T) {
	fields, err := ParseArgs([]string{"name=Ada", "age=36", "active=true", "ratio=0.5", "note=", "eq=a=b"})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age", "active", "ratio", "note", "eq"}, names(fields))
	assert.Equal(t, "Ada", value(t, fields, "name"))
	assert.Equal(t, 36, value(t, fields, "age"))
	assert.Equal(t, true, value(t, fields, "active"))
	assert.Equal(t, 0.5, value(t, fields, "ratio"))
	assert.Nil(t, value(t, fields, "note"))
	assert.Equal(t, "a=b", value(t, fields, "eq"))
}

func TestParseArgsRejectsMalformed(t *testing.T) {
	for _, arg := range []string{"novalue", "=3"} {
		t.Run(arg, func(t *testing.T) {
			_, err := ParseArgs([]string{arg})
			le := requireLoadError(t, err, ErrCodeBadArgument)
			assert.Equal(t, arg, le.Path)
		})
	}
}

func TestParseArgsEmpty(t *testing.T) {
	fields, err := ParseArgs(nil)
	require.NoError(t, err)
	assert.Empty(t, fields)

	_, err = dynstruct.New(fields)
	assert.True(t, dynstruct.IsInvalidArgument(err))
}

func TestParseScalar(t *testing.T) {
	assert.Equal(t, 3, ParseScalar("3"))
	assert.Equal(t, "x", ParseScalar("x"))
	assert.Equal(t, "[unclosed", ParseScalar("[unclosed"))
	assert.Equal(t, "quoted", ParseScalar(`"quoted"`))
}

func TestLoadErrorFormatting(t *testing.T) {
	err := &LoadError{Code: ErrCodeParseFailed, Message: "bad", Path: "f.yaml", Err: errors.New("boom")}
	assert.Equal(t, "f.yaml: E004: bad: boom", err.Error())
	assert.Equal(t, "boom", errors.Unwrap(err).Error())
}

func TestFromNode(t *testing.T) {
	var doc struct {
		Fields yaml.Node `yaml:"fields"`
		Other  yaml.Node `yaml:"other"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("fields:\n  z: 1\n  a: 2\nother: [1]\n"), &doc))

	fields, err := FromNode(&doc.Fields)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a"}, names(fields))

	_, err = FromNode(&doc.Other)
	requireLoadError(t, err, ErrCodeNotMapping)

	fields, err = FromNode(&yaml.Node{})
	require.NoError(t, err)
	assert.Empty(t, fields)
}
