package harness

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dynstruct"
	"github.com/roach88/dynstruct/internal/testutil"
)

func mustParse(t *testing.T, data string) *Scenario {
	t.Helper()
	scenario, err := ParseScenario([]byte(data))
	require.NoError(t, err)
	return scenario
}

func TestRun_PassingScenario(t *testing.T) {
	scenario := mustParse(t, `
name: pass
description: d
fields:
  first: first
steps:
  - send: first
    expect: first
  - send: second
    expect_nil: true
`)

	result, err := Run(scenario, WithRunIDGenerator(testutil.NewFixedRunIDGenerator("run-1")))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "run-1", result.RunID)
	require.Len(t, result.Trace, 2)
	assert.Equal(t, int64(1), result.Trace[0].Seq)
	assert.Equal(t, "first", result.Trace[0].Result)
	assert.Nil(t, result.Trace[1].Result)

	require.NotNil(t, result.Final)
	assert.Equal(t, `<Record first="first">`, result.Final.Inspect)
	assert.Equal(t, []string{"first"}, result.Final.Keys)

	want := dynstruct.MustNew(dynstruct.Fields{dynstruct.F("first", "first")})
	digest, err := want.Digest()
	require.NoError(t, err)
	assert.Equal(t, digest, result.Final.Digest)
}

func TestRun_ExpectationMismatchFails(t *testing.T) {
	scenario := mustParse(t, `
name: mismatch
description: d
fields: {n: 3}
steps:
  - send: n
    expect: 4
  - send: n
    expect_nil: true
  - send: n
    expect_error: BAD_CALL
`)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "expected 4, got 3")
	assert.Contains(t, result.Errors[1], "expected nil, got 3")
	assert.Contains(t, result.Errors[2], "expected error BAD_CALL, got 3")
}

func TestRun_UnexpectedErrorFails(t *testing.T) {
	scenario := mustParse(t, `
name: unexpected
description: d
fields: {n: 3}
steps:
  - send: n=
`)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Trace, 1)
	assert.Equal(t, "BAD_CALL", result.Trace[0].Error)
	assert.Contains(t, result.Errors[0], "unexpected error")
}

func TestRun_NumericExpectationsCompareCanonically(t *testing.T) {
	scenario := mustParse(t, `
name: numbers
description: d
fields: {n: 3}
steps:
  - send: len
    expect: 1
  - send: keys
    expect: [n]
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_RecordArguments(t *testing.T) {
	scenario := mustParse(t, `
name: records
description: d
fields: {a: 1}
steps:
  - send: equal
    args: [{$record: {a: 1}}]
    expect: true
  - send: nested=
    args: [{$record: {b: 2}}]
  - send: plain=
    args: [{$record: {b: 2}, other: 1}]
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	// A single $record key becomes a record; anything else stays a map
	assert.Equal(t, `<Record a=1 nested=<Record b=2> plain=map[string]interface {}{"$record":map[string]interface {}{"b":2}, "other":1}>`, result.Final.Inspect)
}

func TestRun_EmptyRecordArgumentFails(t *testing.T) {
	scenario := mustParse(t, `
name: empty_record_arg
description: d
fields: {a: 1}
steps:
  - send: equal
    args: [{$record: {}}]
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "INVALID_ARGUMENT")
	assert.Empty(t, result.Trace)
}

func TestRun_Build(t *testing.T) {
	t.Run("callback fills empty record", func(t *testing.T) {
		scenario := mustParse(t, `
name: build
description: d
build: true
steps:
  - send: x=
    args: [1]
`)
		result, err := Run(scenario)
		require.NoError(t, err)
		assert.True(t, result.Pass, "errors: %v", result.Errors)
		assert.Equal(t, []string{"x"}, result.Final.Keys)
	})

	t.Run("callback overwrites positional fields", func(t *testing.T) {
		scenario := mustParse(t, `
name: build_overwrite
description: d
build: true
fields: {x: 1, y: 2}
steps:
  - send: x=
    args: [10]
`)
		result, err := Run(scenario)
		require.NoError(t, err)
		assert.True(t, result.Pass, "errors: %v", result.Errors)
		assert.Equal(t, `<Record x=10 y=2>`, result.Final.Inspect)
	})

	t.Run("callback that adds nothing fails construction", func(t *testing.T) {
		scenario := mustParse(t, `
name: build_empty
description: d
build: true
steps:
  - send: isEmpty
    expect: true
`)
		result, err := Run(scenario)
		require.NoError(t, err)
		assert.False(t, result.Pass)
		assert.Nil(t, result.Final)
		require.Len(t, result.Trace, 2)
		assert.Equal(t, "build", result.Trace[1].Send)
		assert.Equal(t, "INVALID_ARGUMENT", result.Trace[1].Error)
	})
}

func TestRun_ConstructError(t *testing.T) {
	t.Run("expected failure passes", func(t *testing.T) {
		scenario := mustParse(t, "name: n\ndescription: d\nconstruct_error: INVALID_ARGUMENT\n")
		result, err := Run(scenario)
		require.NoError(t, err)
		assert.True(t, result.Pass, "errors: %v", result.Errors)
		require.Len(t, result.Trace, 1)
		assert.Equal(t, "new", result.Trace[0].Send)
	})

	t.Run("unexpected success fails", func(t *testing.T) {
		scenario := mustParse(t, "name: n\ndescription: d\nfields: {a: 1}\nconstruct_error: INVALID_ARGUMENT\n")
		result, err := Run(scenario)
		require.NoError(t, err)
		assert.False(t, result.Pass)
		assert.Contains(t, result.Errors[0], "got a record")
	})
}

func TestRun_LogsWithRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	scenario := mustParse(t, "name: logged\ndescription: d\nfields: {a: 1}\nsteps: [{send: a}]\n")
	_, err := Run(scenario,
		WithLogger(logger),
		WithRunIDGenerator(testutil.NewFixedRunIDGenerator("run-42")),
	)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "scenario=logged")
	assert.Contains(t, out, "run_id=run-42")
	assert.Contains(t, out, `msg="step completed"`)
	assert.Contains(t, out, `msg="scenario finished"`)
}

func TestRun_DefaultRunIDIsUUIDv7(t *testing.T) {
	scenario := mustParse(t, "name: n\ndescription: d\nfields: {a: 1}\nsteps: [{send: a}]\n")

	result, err := Run(scenario)
	require.NoError(t, err)
	require.Len(t, result.RunID, 36)
	assert.Equal(t, byte('7'), result.RunID[14])
}

func TestHarness_SequentialRunIDs(t *testing.T) {
	h := New(WithRunIDGenerator(testutil.NewSequentialRunIDGenerator("seq")))
	scenario := mustParse(t, "name: n\ndescription: d\nfields: {a: 1}\nsteps: [{send: a}]\n")

	first, err := h.Run(scenario)
	require.NoError(t, err)
	second, err := h.Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, "seq-1", first.RunID)
	assert.Equal(t, "seq-2", second.RunID)
	assert.Equal(t, first.Final, second.Final)
}
