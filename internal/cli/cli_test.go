package cli

import (
	"bytes"
	"testing"
)

// execute runs the CLI end to end and captures both streams.
func execute(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = Execute(args, &out, &errOut)
	return out.String(), errOut.String(), code
}
