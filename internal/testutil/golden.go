package testutil

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// GoldenDir is where golden files live, relative to the package under test.
const GoldenDir = "testdata/golden"

// NewGolden returns a goldie instance reading testdata/golden/<name>.golden.
//
// To regenerate golden files, run the package tests with -update.
func NewGolden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
}

// AssertGolden compares data with the golden file for name.
func AssertGolden(t *testing.T, name string, data []byte) {
	t.Helper()
	NewGolden(t).Assert(t, name, data)
}
