package cli

import (
	"encoding/json"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/dynstruct"
	"github.com/roach88/dynstruct/internal/canon"
	"github.com/roach88/dynstruct/internal/source"
)

// SourceOptions holds the flags that describe a record's source.
type SourceOptions struct {
	From   string   // YAML, JSON or CUE document
	Fields []string // key=value pairs given with --field
}

// addSourceFlags registers --from, and --field when the command's
// positional arguments are taken by something else.
func addSourceFlags(cmd *cobra.Command, opts *SourceOptions, withFieldFlag bool) {
	cmd.Flags().StringVarP(&opts.From, "from", "f", "", "load fields from a .yaml, .yml, .json or .cue file")
	if withFieldFlag {
		cmd.Flags().StringArrayVar(&opts.Fields, "field", nil, "add a key=value field (repeatable)")
	}
}

// loadRecord builds a record from --from, then --field values, then the
// given key=value arguments. Later fields overwrite earlier ones.
func (o *SourceOptions) loadRecord(args []string, logger *slog.Logger) (*dynstruct.Record, error) {
	var fields dynstruct.Fields

	if o.From != "" {
		loaded, err := source.LoadFile(o.From)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load source", err)
		}
		logger.Debug("source loaded", "path", o.From, "fields", len(loaded))
		fields = append(fields, loaded...)
	}

	parsed, err := source.ParseArgs(append(append([]string{}, o.Fields...), args...))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid field argument", err)
	}
	fields = append(fields, parsed...)

	rec, err := dynstruct.New(fields)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "cannot build record", err)
	}
	logger.Debug("record built", "fields", rec.Len())
	return rec, nil
}

// FieldView is the JSON form of one field.
type FieldView struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

func fieldViews(rec *dynstruct.Record) []FieldView {
	views := make([]FieldView, 0, rec.Len())
	for k, v := range rec.All() {
		views = append(views, FieldView{Name: k, Value: canonicalJSON(v)})
	}
	return views
}

// canonicalJSON encodes v for JSON output. Values the canonical encoder
// rejects (self-containing records) fall back to their display form.
func canonicalJSON(v any) json.RawMessage {
	data, err := canon.Marshal(v)
	if err == nil {
		return data
	}
	data, err = json.Marshal(dynstruct.Inspect(v))
	if err != nil {
		return json.RawMessage("null")
	}
	return data
}
