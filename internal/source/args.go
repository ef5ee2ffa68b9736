package source

import (
	"fmt"
	"strings"

	"github.com/roach88/dynstruct"
)

// ParseArgs turns key=value arguments into fields, in argument order.
// Values are parsed with ParseScalar; "key=" stores nil.
func ParseArgs(args []string) (dynstruct.Fields, error) {
	fields := make(dynstruct.Fields, 0, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, &LoadError{
				Code:    ErrCodeBadArgument,
				Message: fmt.Sprintf("expected key=value, got %q", arg),
				Path:    arg,
			}
		}
		fields = append(fields, dynstruct.F(key, ParseScalar(raw)))
	}
	return fields, nil
}
