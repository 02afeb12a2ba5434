// Package dynlibtest builds the fake shim in internal/dynlib/testdata into a
// shared object for tests that load a runtime with internal/dynlib.
package dynlibtest

import (
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// Options select the era and identity of the built library.
type Options struct {
	// Caps overrides the VLGO_CAP_* mask, e.g. "VLGO_CAP_LEGACY_CB".
	Caps string
	// Version is returned by vlgo_product_version.
	Version string
}

func source() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "testdata", "fakeshim.c")
}

// Build compiles the fake shim into a fresh shared object named lib<name>.so
// under t.TempDir and returns its path. The test is skipped when no C
// compiler is available.
func Build(t testing.TB, name string, opts Options) string {
	t.Helper()
	cc, err := exec.LookPath("cc")
	if err != nil {
		t.Skip("no C compiler to build the fake shim")
	}

	out := filepath.Join(t.TempDir(), "lib"+name+".so")
	args := []string{"-shared", "-fPIC", "-O1", "-o", out}
	if opts.Caps != "" {
		args = append(args, "-DFAKE_CAPS=("+opts.Caps+")")
	}
	if opts.Version != "" {
		args = append(args, `-DFAKE_VERSION="`+strings.ReplaceAll(opts.Version, `"`, "")+`"`)
	}
	args = append(args, source())

	if b, err := exec.Command(cc, args...).CombinedOutput(); err != nil {
		t.Fatalf("build fake shim: %v\n%s", err, b)
	}
	return out
}
