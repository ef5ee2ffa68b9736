package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/dynstruct"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			if event.Error != "" {
				fmt.Fprintf(&buf, "  [%d] %s %s -> %s\n", event.Seq, event.Send, canonString(event.Args), event.Error)
				continue
			}
			fmt.Fprintf(&buf, "  [%d] %s %s -> %s\n", event.Seq, event.Send, canonString(event.Args), canonString(event.Result))
		}
	}

	return buf.String()
}

// assertTraceContains checks that some step sent the name, with matching
// args when the assertion lists any.
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if event.Send != assertion.Send {
			continue
		}
		if len(assertion.Args) == 0 || valuesEqual(event.Args, assertion.Args) {
			return nil
		}
	}

	expected := assertion.Send
	if len(assertion.Args) > 0 {
		expected = fmt.Sprintf("%s with args %s", assertion.Send, canonString(assertion.Args))
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the names first appear in the given order.
// Other steps may come in between.
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		if _, seen := positions[event.Send]; !seen {
			positions[event.Send] = i + 1
		}
	}

	for _, send := range assertion.Sends {
		if positions[send] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all sends present: %v", assertion.Sends),
				Actual:   fmt.Sprintf("missing send: %s", send),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(assertion.Sends); i++ {
		prev, curr := assertion.Sends[i-1], assertion.Sends[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("sends in order: %v", assertion.Sends),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}

	return nil
}

// assertTraceCount checks that the name was sent exactly Count times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Send == assertion.Send {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Send),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertFinalFields checks the listed fields against the final record.
// Fields the assertion does not list are ignored.
func assertFinalFields(rec *dynstruct.Record, assertion Assertion) error {
	names := make([]string, 0, len(assertion.Fields))
	for name := range assertion.Fields {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		expected := assertion.Fields[name]
		actual, ok := rec.Get(name)
		if !ok {
			return &AssertionError{
				Type:     AssertFinalFields,
				Expected: fmt.Sprintf("%s = %s", name, canonString(expected)),
				Actual:   fmt.Sprintf("%s is absent", name),
			}
		}
		if !valuesEqual(actual, expected) {
			return &AssertionError{
				Type:     AssertFinalFields,
				Expected: fmt.Sprintf("%s = %s", name, canonString(expected)),
				Actual:   fmt.Sprintf("%s = %s", name, canonString(actual)),
			}
		}
	}
	return nil
}

// assertFinalKeys checks the final record's keys and their order.
func assertFinalKeys(rec *dynstruct.Record, assertion Assertion) error {
	keys := rec.Keys()
	if !slices.Equal(keys, assertion.Keys) {
		return &AssertionError{
			Type:     AssertFinalKeys,
			Expected: fmt.Sprintf("%v", assertion.Keys),
			Actual:   fmt.Sprintf("%v", keys),
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result and the
// final record. Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, rec *dynstruct.Record, assertions []Assertion) []string {
	var errs []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertFinalFields:
			err = assertFinalFields(rec, assertion)
		case AssertFinalKeys:
			err = assertFinalKeys(rec, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	return errs
}
