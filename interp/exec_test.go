package interp

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestRedirectOutputAndAppend(t *testing.T) {
	var out bytes.Buffer
	r := newTestRunner(t, &out)
	path := filepath.Join(t.TempDir(), "f.txt")

	_, err := runAll(t, r, `echo one > `+path)
	qt.Assert(t, err, qt.IsNil)
	_, err = runAll(t, r, `echo two >> `+path)
	qt.Assert(t, err, qt.IsNil)

	data, rerr := os.ReadFile(path)
	qt.Assert(t, rerr, qt.IsNil)
	qt.Assert(t, string(data), qt.Equals, "one\ntwo\n")
}

func TestRedirectDoesNotLeakIntoParentStreams(t *testing.T) {
	var out bytes.Buffer
	r := newTestRunner(t, &out)
	path := filepath.Join(t.TempDir(), "f.txt")

	_, err := runAll(t, r, `echo hidden > `+path+"\necho visible")
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, out.String(), qt.Equals, "visible\n")
}

func TestPipelineLastStageExitCode(t *testing.T) {
	var out bytes.Buffer
	r := newTestRunner(t, &out)
	code, err := runAll(t, r, `[ 1 -eq 2 ] | [ 1 -eq 1 ]`)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, code, qt.Equals, uint8(0))
}

// A pipeline stage that mutates shell variables behaves like the
// external process it sits beside: its writes never reach the parent
// Runner once the pipeline finishes.
func TestPipelineStageVarsDoNotLeakToParent(t *testing.T) {
	var out bytes.Buffer
	r := newTestRunner(t, &out)
	_, err := runAll(t, r, "function setit ( X=leaked )\nsetit | echo done")
	qt.Assert(t, err, qt.IsNil)
	_, ok := r.getVar("X")
	qt.Assert(t, ok, qt.IsFalse)
}
