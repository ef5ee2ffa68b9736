package harness

import (
	"testing"

	"github.com/roach88/dynstruct/internal/canon"
	"github.com/roach88/dynstruct/internal/testutil"
)

// TraceSnapshot is the golden form of a run: everything except the run ID.
type TraceSnapshot struct {
	ScenarioName string
	Trace        []TraceEvent
	Final        *Final
}

// NewTraceSnapshot captures result for golden comparison.
func NewTraceSnapshot(scenarioName string, result *Result) *TraceSnapshot {
	return &TraceSnapshot{
		ScenarioName: scenarioName,
		Trace:        result.Trace,
		Final:        result.Final,
	}
}

// toCanonicalMap converts the snapshot to plain maps so the canonical
// encoder sees JSON names instead of Go struct fields.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"seq":  event.Seq,
			"send": event.Send,
		}
		if len(event.Args) > 0 {
			eventMap["args"] = event.Args
		}
		if event.Error != "" {
			eventMap["error"] = event.Error
		} else {
			eventMap["result"] = event.Result
		}
		traceList[i] = eventMap
	}

	result := map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
	}
	if s.Final != nil {
		keys := make([]any, len(s.Final.Keys))
		for i, k := range s.Final.Keys {
			keys[i] = k
		}
		result["final"] = map[string]any{
			"digest":  s.Final.Digest,
			"inspect": s.Final.Inspect,
			"keys":    keys,
		}
	}
	return result
}

// MarshalCanonical returns the canonical JSON of the snapshot.
func (s *TraceSnapshot) MarshalCanonical() ([]byte, error) {
	return canon.Marshal(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against the golden file for
// scenarioName without re-running anything.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := NewTraceSnapshot(scenarioName, result).MarshalCanonical()
	if err != nil {
		return err
	}
	testutil.AssertGolden(t, scenarioName, data)
	return nil
}
