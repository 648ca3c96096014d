package syntax

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	qt "github.com/frankban/quicktest"
)

var cmpOpts = []cmp.Option{
	cmpopts.IgnoreUnexported(
		base{}, Command{}, Assignment{}, Pipeline{}, Redirect{},
		Block{}, If{}, While{}, For{}, Case{}, Function{}, Background{},
	),
}

func parse(t *testing.T, src string) []Node {
	t.Helper()
	nodes, err := NewParser(src, "test").Parse()
	qt.Assert(t, err, qt.IsNil)
	return nodes
}

func TestParseAssignment(t *testing.T) {
	nodes := parse(t, "NAME=value")
	want := []Node{&Assignment{Name: "NAME", Value: "value"}}
	if diff := cmp.Diff(want, nodes, cmpOpts...); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSpacedEqualsIsThreeWords(t *testing.T) {
	nodes := parse(t, "a = b")
	want := []Node{&Command{Name: "a", Args: []string{"=", "b"}}}
	if diff := cmp.Diff(want, nodes, cmpOpts...); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePipeline(t *testing.T) {
	nodes := parse(t, "echo hi | tr a-z A-Z")
	want := []Node{&Pipeline{Commands: []*Command{
		{Name: "echo", Args: []string{"hi"}},
		{Name: "tr", Args: []string{"a-z", "A-Z"}},
	}}}
	if diff := cmp.Diff(want, nodes, cmpOpts...); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRedirectAndBackground(t *testing.T) {
	nodes := parse(t, "echo hi > out.txt &")
	want := []Node{
		&Background{Inner: &Redirect{
			Inner:  &Command{Name: "echo", Args: []string{"hi"}},
			Dir:    RedirOutput,
			Target: "out.txt",
		}},
	}
	if diff := cmp.Diff(want, nodes, cmpOpts...); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseIfWhileFor(t *testing.T) {
	nodes := parse(t, "if [ 1 -eq 1 ]; then echo y; else echo n; fi")
	ifNode, ok := nodes[0].(*If)
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, ifNode.Else, qt.IsNotNil)

	nodes = parse(t, "while [ 1 -eq 1 ]; do echo y; done")
	_, ok = nodes[0].(*While)
	qt.Assert(t, ok, qt.IsTrue)

	nodes = parse(t, "for i in a b c; do echo $i; done")
	forNode, ok := nodes[0].(*For)
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, forNode.Var, qt.Equals, "i")
	qt.Assert(t, forNode.Words, qt.DeepEquals, []string{"a", "b", "c"})
}

func TestParseCase(t *testing.T) {
	nodes := parse(t, "case $x in a) echo A ;; *) echo Z ;; esac")
	caseNode, ok := nodes[0].(*Case)
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, len(caseNode.Arms), qt.Equals, 2)
	qt.Assert(t, caseNode.Arms[1].Pattern, qt.Equals, "*")
}

func TestParseFunctionRequiresBlockBody(t *testing.T) {
	_, err := NewParser("function f echo hi", "test").Parse()
	qt.Assert(t, err, qt.IsNotNil)
}

func TestParseFunction(t *testing.T) {
	nodes := parse(t, "function greet ( echo hi )")
	fn, ok := nodes[0].(*Function)
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, fn.Name, qt.Equals, "greet")
	qt.Assert(t, len(fn.Body.Stmts), qt.Equals, 1)
}

func TestParseErrorReportsPosition(t *testing.T) {
	_, err := NewParser("if true", "script.bellos").Parse()
	qt.Assert(t, err, qt.IsNotNil)
	perr, ok := err.(*ParseError)
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, perr.Filename, qt.Equals, "script.bellos")
}

func TestParseDepthLimit(t *testing.T) {
	src := ""
	for i := 0; i < maxDepth+10; i++ {
		src += "("
	}
	_, err := NewParser(src, "test").Parse()
	qt.Assert(t, err, qt.IsNotNil)
}
