package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/dynstruct"
)

// Scenario defines a record conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Fields is the ordered source mapping the record is built from.
	// Kept as a node so document order survives decoding.
	Fields yaml.Node `yaml:"fields,omitempty"`

	// Build runs the steps inside dynstruct.Build's init callback instead
	// of after construction. Fields may then be omitted.
	Build bool `yaml:"build,omitempty"`

	// ConstructError is the expected construction error code. When set the
	// scenario passes only if construction fails with that code.
	ConstructError string `yaml:"construct_error,omitempty"`

	// Steps are the dispatched calls, in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and record.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one dispatched call and its expected outcome.
// At most one of Expect, ExpectNil and ExpectError may be set; with none
// set the call only has to succeed.
type Step struct {
	// Send is the member name passed to Record.Send.
	Send string `yaml:"send"`

	// Args are the call arguments.
	Args []any `yaml:"args,omitempty"`

	// Expect is the expected result, compared canonically so 3 matches int64(3).
	Expect any `yaml:"expect,omitempty"`

	// ExpectNil expects the call to return nil.
	ExpectNil bool `yaml:"expect_nil,omitempty"`

	// ExpectError is the expected error code (e.g. BAD_CALL).
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Assertion validates the trace or the final record.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": a step sent Send (with Args, if given)
	// - "trace_order": the Sends names appear in this order
	// - "trace_count": Send appears exactly Count times
	// - "final_fields": the final record holds these field values (subset)
	// - "final_keys": the final record's keys, in insertion order
	Type string `yaml:"type"`

	Send   string         `yaml:"send,omitempty"`
	Args   []any          `yaml:"args,omitempty"`
	Count  int            `yaml:"count,omitempty"`
	Sends  []string       `yaml:"sends,omitempty"`
	Fields map[string]any `yaml:"fields,omitempty"`
	Keys   []string       `yaml:"keys,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalFields   = "final_fields"
	AssertFinalKeys     = "final_keys"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scenario, nil
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Fields.Kind != 0 && s.Fields.Kind != yaml.MappingNode {
		return fmt.Errorf("fields must be a mapping (line %d)", s.Fields.Line)
	}

	if s.ConstructError != "" {
		if s.ConstructError != string(dynstruct.ErrCodeInvalidArgument) {
			return fmt.Errorf("construct_error must be %s, got %q", dynstruct.ErrCodeInvalidArgument, s.ConstructError)
		}
	} else {
		if s.Fields.Kind == 0 && !s.Build {
			return fmt.Errorf("fields is required unless build is true")
		}
		if len(s.Steps) == 0 {
			return fmt.Errorf("steps list is required and must be non-empty")
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, step Step) error {
	if step.Send == "" {
		return fmt.Errorf("steps[%d]: send is required", index)
	}

	set := 0
	if step.Expect != nil {
		set++
	}
	if step.ExpectNil {
		set++
	}
	if step.ExpectError != "" {
		set++
		switch dynstruct.ArgumentErrorCode(step.ExpectError) {
		case dynstruct.ErrCodeBadCall, dynstruct.ErrCodeInvalidArgument:
		default:
			return fmt.Errorf("steps[%d]: unknown error code %q", index, step.ExpectError)
		}
	}
	if set > 1 {
		return fmt.Errorf("steps[%d]: expect, expect_nil and expect_error are mutually exclusive", index)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Send == "" {
			return fmt.Errorf("assertions[%d]: send is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Sends) == 0 {
			return fmt.Errorf("assertions[%d]: sends list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Send == "" {
			return fmt.Errorf("assertions[%d]: send is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalFields:
		if len(a.Fields) == 0 {
			return fmt.Errorf("assertions[%d]: fields is required for final_fields", index)
		}
	case AssertFinalKeys:
		if a.Keys == nil {
			return fmt.Errorf("assertions[%d]: keys is required for final_keys", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
