// Package harness runs YAML scenarios against a dynstruct.Record.
//
// A scenario builds a record from an ordered source mapping, drives it
// through the dispatcher one step at a time, and checks each outcome.
// Every step lands in a trace that, together with the final display form
// and digest, can be compared against a golden file.
//
// # Scenario Format
//
//	name: setter_shape
//	description: "setter introduces a new field"
//	fields:                  # ordered source mapping
//	  first: first
//	build: false             # true: run the steps inside dynstruct.Build
//	construct_error: ""      # expected construction error code, if any
//	steps:
//	  - send: second=
//	    args: [second]
//	  - send: second
//	    expect: second
//	  - send: missing
//	    expect_nil: true
//	  - send: bogus=
//	    expect_error: BAD_CALL
//	assertions:
//	  - type: final_keys
//	    keys: [first, second]
//
// An argument written as {$record: {...}} is turned into a *dynstruct.Record
// before the call, so equality can be exercised from YAML.
//
// Supported assertion types: trace_contains, trace_order, trace_count,
// final_fields, final_keys.
package harness
