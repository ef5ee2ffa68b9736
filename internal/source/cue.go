package source

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/dynstruct"
)

// ParseCUE compiles a CUE document whose top level is a struct. Fields
// keep declaration order; every field must be concrete.
func ParseCUE(data []byte, name string) (dynstruct.Fields, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(name))
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: "failed to compile CUE", Err: err}
	}

	if value.IncompleteKind() != cue.StructKind {
		return nil, &LoadError{
			Code:    ErrCodeNotMapping,
			Message: fmt.Sprintf("top level must be a struct, got %s", value.IncompleteKind()),
		}
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: "CUE value is not concrete", Err: err}
	}

	iter, err := value.Fields()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: "iterating CUE fields", Err: err}
	}

	fields := dynstruct.Fields{}
	for iter.Next() {
		label := iter.Selector().Unquoted()
		var v any
		if err := iter.Value().Decode(&v); err != nil {
			return nil, &LoadError{
				Code:    ErrCodeParseFailed,
				Message: fmt.Sprintf("failed to decode field %q", label),
				Err:     err,
			}
		}
		fields = append(fields, dynstruct.F(label, v))
	}
	return fields, nil
}
