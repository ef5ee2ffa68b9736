package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/dynstruct"
	"github.com/roach88/dynstruct/internal/canon"
	"github.com/roach88/dynstruct/internal/source"
)

// recordArgKey marks a mapping argument that should become a record.
const recordArgKey = "$record"

// Harness executes scenarios.
type Harness struct {
	logger *slog.Logger
	runIDs RunIDGenerator
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// WithRunIDGenerator sets the run ID source. The default is UUIDv7Generator.
func WithRunIDGenerator(gen RunIDGenerator) Option {
	return func(h *Harness) {
		h.runIDs = gen
	}
}

// New creates a Harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		runIDs: UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a new Harness configured by opts.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	return New(opts...).Run(scenario)
}

// Run executes a scenario and returns the result.
//
// Expectation failures mark the result failed; they are not errors. An
// error is returned only when the scenario itself cannot be executed.
//
// Execution flow:
// 1. Build the record (running the steps inside Build when requested)
// 2. Execute the steps, checking each expectation
// 3. Capture the final display form, digest and keys
// 4. Evaluate assertions
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	runID := h.runIDs.Generate()
	log := h.logger.With("scenario", scenario.Name, "run_id", runID)
	result := NewResult(runID)

	fields, err := source.FromNode(&scenario.Fields)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: fields: %w", scenario.Name, err)
	}

	rec, err := h.construct(scenario, fields, result, log)
	if err != nil {
		code := errorCode(err)
		result.AddErrorTrace(constructorName(scenario), nil, code)
		switch {
		case scenario.ConstructError == "":
			result.AddError(fmt.Sprintf("construction failed: %v", err))
		case code != scenario.ConstructError:
			result.AddError(fmt.Sprintf("construction: expected error %s, got %s", scenario.ConstructError, code))
		}
		log.Info("scenario finished", "pass", result.Pass, "constructed", false)
		return result, nil
	}
	if scenario.ConstructError != "" {
		result.AddError(fmt.Sprintf("construction: expected error %s, got a record", scenario.ConstructError))
	}

	if !scenario.Build {
		h.executeSteps(rec, scenario.Steps, result, log)
	}

	final := &Final{Inspect: rec.String(), Keys: rec.Keys()}
	if final.Digest, err = rec.Digest(); err != nil {
		result.AddError(fmt.Sprintf("final digest: %v", err))
	}
	result.Final = final

	for _, msg := range EvaluateAssertions(result, rec, scenario.Assertions) {
		result.AddError(msg)
	}

	log.Info("scenario finished", "pass", result.Pass, "steps", len(result.Trace))
	return result, nil
}

// construct builds the scenario's record. With Build set, the steps run
// inside the init callback, so they see the record before it is returned.
func (h *Harness) construct(scenario *Scenario, fields dynstruct.Fields, result *Result, log *slog.Logger) (*dynstruct.Record, error) {
	if !scenario.Build {
		return dynstruct.New(fields)
	}

	var src any
	if len(fields) > 0 {
		src = fields
	}
	return dynstruct.Build(src, func(r *dynstruct.Record) {
		h.executeSteps(r, scenario.Steps, result, log)
	})
}

func constructorName(scenario *Scenario) string {
	if scenario.Build {
		return "build"
	}
	return "new"
}

// executeSteps dispatches each step and checks its expectation.
func (h *Harness) executeSteps(rec *dynstruct.Record, steps []Step, result *Result, log *slog.Logger) {
	for i, step := range steps {
		args, err := resolveArgs(step.Args)
		if err != nil {
			result.AddError(fmt.Sprintf("steps[%d] %s: %v", i, step.Send, err))
			continue
		}

		value, err := rec.Send(step.Send, args...)
		if err != nil {
			code := errorCode(err)
			result.AddErrorTrace(step.Send, args, code)
			switch {
			case step.ExpectError == "":
				result.AddError(fmt.Sprintf("steps[%d] %s: unexpected error: %v", i, step.Send, err))
			case code != step.ExpectError:
				result.AddError(fmt.Sprintf("steps[%d] %s: expected error %s, got %s", i, step.Send, step.ExpectError, code))
			}
			log.Debug("step failed", "step", i, "send", step.Send, "code", code)
			continue
		}

		traced := traceValue(value)
		result.AddSendTrace(step.Send, args, traced)
		if msg := checkExpectation(step, traced); msg != "" {
			result.AddError(fmt.Sprintf("steps[%d] %s: %s", i, step.Send, msg))
		}
		log.Debug("step completed", "step", i, "send", step.Send)
	}
}

// checkExpectation returns a failure message, or "" when step's
// expectation holds for value.
func checkExpectation(step Step, value any) string {
	switch {
	case step.ExpectError != "":
		return fmt.Sprintf("expected error %s, got %s", step.ExpectError, canonString(value))
	case step.ExpectNil:
		if value != nil {
			return fmt.Sprintf("expected nil, got %s", canonString(value))
		}
	case step.Expect != nil:
		if !valuesEqual(value, step.Expect) {
			return fmt.Sprintf("expected %s, got %s", canonString(step.Expect), canonString(value))
		}
	}
	return ""
}

// resolveArgs turns {$record: {...}} arguments into records.
func resolveArgs(args []any) ([]any, error) {
	if len(args) == 0 {
		return nil, nil
	}

	out := make([]any, len(args))
	for i, arg := range args {
		m, ok := arg.(map[string]any)
		src, marked := m[recordArgKey]
		if !ok || !marked || len(m) != 1 {
			out[i] = arg
			continue
		}
		rec, err := dynstruct.New(src)
		if err != nil {
			return nil, fmt.Errorf("args[%d]: %w", i, err)
		}
		out[i] = rec
	}
	return out, nil
}

// traceValue converts call results into values the trace can encode.
// Iterators become a list of [name, value] pairs.
func traceValue(v any) any {
	it, ok := v.(*dynstruct.Iterator)
	if !ok {
		return v
	}
	pairs := []any{}
	for _, f := range it.Collect() {
		pairs = append(pairs, []any{f.Name, f.Value})
	}
	return pairs
}

func errorCode(err error) string {
	var ae *dynstruct.ArgumentError
	if errors.As(err, &ae) {
		return string(ae.Code)
	}
	return "ERROR"
}

// valuesEqual compares two values by canonical encoding, so numeric
// types and map orders don't matter.
func valuesEqual(actual, expected any) bool {
	a, err := canon.Marshal(actual)
	if err != nil {
		return false
	}
	e, err := canon.Marshal(expected)
	if err != nil {
		return false
	}
	return bytes.Equal(a, e)
}

func canonString(v any) string {
	data, err := canon.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
