package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// InspectResult is the JSON payload of the inspect command.
type InspectResult struct {
	Display string      `json:"display"`
	Fields  []FieldView `json:"fields"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SourceOptions{}

	cmd := &cobra.Command{
		Use:   "inspect [key=value ...]",
		Short: "Print a record's display form",
		Long: `Build a record and print its one-line display form.

Examples:
  dynstruct inspect name=Ada age=36
  dynstruct inspect --from person.yaml
  dynstruct inspect --from person.json --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := opts.loadRecord(args, newLogger(rootOpts, cmd))
			if err != nil {
				return err
			}

			formatter := newFormatter(rootOpts, cmd)
			if rootOpts.Format == "json" {
				return formatter.Success(InspectResult{Display: rec.String(), Fields: fieldViews(rec)})
			}
			return formatter.Success(rec.String())
		},
	}
	addSourceFlags(cmd, opts, false)

	return cmd
}

// NewEachCommand creates the each command.
func NewEachCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SourceOptions{}

	cmd := &cobra.Command{
		Use:   "each [key=value ...]",
		Short: "Print one key=value line per field",
		Long: `Build a record and print its fields in insertion order, one per line,
with values in display form.

Example:
  dynstruct each one=two three=four`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := opts.loadRecord(args, newLogger(rootOpts, cmd))
			if err != nil {
				return err
			}

			formatter := newFormatter(rootOpts, cmd)
			if rootOpts.Format == "json" {
				return formatter.Success(map[string]any{"fields": fieldViews(rec)})
			}

			lines := make([]string, 0, rec.Len())
			rec.Each(func(name string, value any) {
				lines = append(lines, fmt.Sprintf("%s=%s", name, inspectText(value)))
			})
			return formatter.Success(strings.Join(lines, "\n"))
		},
	}
	addSourceFlags(cmd, opts, false)

	return cmd
}

// DigestResult is the JSON payload of the digest command.
type DigestResult struct {
	Digest string `json:"digest"`
	Hash   uint64 `json:"hash"`
}

// NewDigestCommand creates the digest command.
func NewDigestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SourceOptions{}

	cmd := &cobra.Command{
		Use:   "digest [key=value ...]",
		Short: "Print a record's content digest and hash",
		Long: `Build a record and print the SHA-256 digest of its canonical fields
and the 64-bit hash derived from it. Field order does not matter.

Example:
  dynstruct digest a=1 b=2   # same output as: dynstruct digest b=2 a=1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := opts.loadRecord(args, newLogger(rootOpts, cmd))
			if err != nil {
				return err
			}

			digest, err := rec.Digest()
			if err != nil {
				return WrapExitError(ExitCommandError, "cannot digest record", err)
			}
			result := DigestResult{Digest: digest, Hash: rec.Hash()}

			formatter := newFormatter(rootOpts, cmd)
			if rootOpts.Format == "json" {
				return formatter.Success(result)
			}
			return formatter.Success(fmt.Sprintf("digest: %s\nhash:   %d", result.Digest, result.Hash))
		},
	}
	addSourceFlags(cmd, opts, false)

	return cmd
}
