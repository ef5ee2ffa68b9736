package cli

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/dynstruct"
	"github.com/roach88/dynstruct/internal/source"
)

// SendOptions holds flags for the send command.
type SendOptions struct {
	*RootOptions
	Source SourceOptions
}

// SendResult is the JSON payload of the send command.
type SendResult struct {
	Send    string          `json:"send"`
	Result  json.RawMessage `json:"result"`
	Display string          `json:"display"`
}

// NewSendCommand creates the send command.
func NewSendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SendOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "send <name> [arg ...]",
		Short: "Dispatch one member call on a record",
		Long: `Build a record from --from and --field, then dispatch a single member
call by name. Arguments are parsed as YAML scalars.

A reserved name runs that operation, a name ending in "=" writes a field,
and any other name reads one (nil when absent).

Examples:
  dynstruct send first --field first=1
  dynstruct send second= 2 --field first=1
  dynstruct send respondsTo isEmpty --field first=1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(opts, args[0], args[1:], cmd)
		},
	}
	addSourceFlags(cmd, &opts.Source, true)

	return cmd
}

func runSend(opts *SendOptions, name string, rawArgs []string, cmd *cobra.Command) error {
	logger := newLogger(opts.RootOptions, cmd)

	rec, err := opts.Source.loadRecord(nil, logger)
	if err != nil {
		return err
	}

	args := make([]any, len(rawArgs))
	for i, raw := range rawArgs {
		args[i] = source.ParseScalar(raw)
	}

	value, err := rec.Send(name, args...)
	if err != nil {
		return WrapExitError(ExitCommandError, "send "+name+" failed", err)
	}
	logger.Debug("sent", "name", name, "args", len(args))

	if it, ok := value.(*dynstruct.Iterator); ok {
		value = it.Collect()
	}

	formatter := newFormatter(opts.RootOptions, cmd)
	if opts.Format == "json" {
		return formatter.Success(SendResult{
			Send:    name,
			Result:  canonicalJSON(sendValue(value)),
			Display: rec.String(),
		})
	}
	return formatter.Success(inspectText(value))
}

// sendValue turns collected fields into [name, value] pairs for JSON.
func sendValue(v any) any {
	fields, ok := v.(dynstruct.Fields)
	if !ok {
		return v
	}
	pairs := make([]any, len(fields))
	for i, f := range fields {
		pairs[i] = []any{f.Name, f.Value}
	}
	return pairs
}

// inspectText renders a value for text output in display form.
// Collected fields print as a record-like list.
func inspectText(v any) string {
	fields, ok := v.(dynstruct.Fields)
	if !ok {
		return dynstruct.Inspect(v)
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(f.Name + "=" + dynstruct.Inspect(f.Value))
	}
	b.WriteByte(']')
	return b.String()
}
