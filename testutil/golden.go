// Package testutil provides utilities for golden file testing.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// UpdateGoldens controls whether to update golden files
// Set via environment variable: UPDATE_GOLDENS=true go test ./...
var UpdateGoldens = os.Getenv("UPDATE_GOLDENS") == "true"

// GetGoldenTextPath returns the path to a plain-text golden fixture, used
// for the IR's S-expression pretty-printer output (print.go).
func GetGoldenTextPath(feature, name string) string {
	return filepath.Join("testdata", feature, name+".golden.sexp")
}

// AssertGoldenText compares a pretty-printed S-expression against a text
// golden fixture, updating it in place when UPDATE_GOLDENS=true.
func AssertGoldenText(t *testing.T, feature, name, actual string) {
	t.Helper()

	goldenPath := GetGoldenTextPath(feature, name)

	if UpdateGoldens {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0755); err != nil {
			t.Fatalf("failed to create golden directory: %v", err)
		}
		if err := os.WriteFile(goldenPath, []byte(actual), 0644); err != nil {
			t.Fatalf("failed to write golden file: %v", err)
		}
		t.Logf("Updated golden file: %s", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("golden file does not exist: %s\nRun with UPDATE_GOLDENS=true to create", goldenPath)
		}
		t.Fatalf("failed to read golden file: %v", err)
	}

	want := strings.TrimRight(string(expected), "\n")
	got := strings.TrimRight(actual, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("golden file mismatch for %s/%s (-want +got):\n%s", feature, name, diff)
	}
}
