package harness

// TraceEvent records one dispatched call. Exactly one of Result and Error
// is meaningful: Error holds the error code when the call failed.
type TraceEvent struct {
	Seq    int64  `json:"seq"`
	Send   string `json:"send"`
	Args   []any  `json:"args,omitempty"`
	Result any    `json:"result"`
	Error  string `json:"error,omitempty"`
}

// Final captures the record after the last step.
type Final struct {
	Inspect string   `json:"inspect"`
	Digest  string   `json:"digest"`
	Keys    []string `json:"keys"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// RunID identifies this execution in logs. Not part of golden output.
	RunID string `json:"run_id"`

	// Pass indicates overall success: every expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace contains every dispatched call in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is nil when construction failed.
	Final *Final `json:"final,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(runID string) *Result {
	return &Result{
		RunID:  runID,
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddSendTrace adds a successful call to the trace.
func (r *Result) AddSendTrace(send string, args []any, result any) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:    r.nextSeq(),
		Send:   send,
		Args:   args,
		Result: result,
	})
}

// AddErrorTrace adds a failed call to the trace.
func (r *Result) AddErrorTrace(send string, args []any, code string) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:   r.nextSeq(),
		Send:  send,
		Args:  args,
		Error: code,
	})
}

func (r *Result) nextSeq() int64 {
	return int64(len(r.Trace)) + 1
}
