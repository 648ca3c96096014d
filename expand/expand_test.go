package expand

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestLiteralVariables(t *testing.T) {
	cfg := &Config{Env: mapEnv{"NAME": "world", "HOME": "/home/bel"}, LastExit: 7, Args: []string{"a", "b"}}
	tests := []struct {
		in, want string
	}{
		{"hello $NAME", "hello world"},
		{"status=$?", "status=7"},
		{"count=$#", "count=2"},
		{"all=$*", "all=a b"},
		{"also=$@", "also=a b"},
		{"~/", "/home/bel/"},
		{"~", "/home/bel"},
		{"no~here", "no~here"},
		{"$UNSET", ""},
		{"bare $ sign", "bare $ sign"},
		{"$( echo not evaluated )", "$( echo not evaluated )"},
		{"value is $(( 2 + 3 ))", "value is 5"},
		{"$((2*(3+4)))", "14"},
	}
	for _, tc := range tests {
		got, err := Literal(cfg, tc.in)
		qt.Assert(t, err, qt.IsNil, qt.Commentf("input %q", tc.in))
		qt.Assert(t, got, qt.Equals, tc.want, qt.Commentf("input %q", tc.in))
	}
}

func TestLiteralArithmeticErrorPropagates(t *testing.T) {
	cfg := &Config{}
	_, err := Literal(cfg, "$(( 1 / 0 ))")
	qt.Assert(t, err, qt.IsNotNil)
}

func TestLiteralNeverReexpands(t *testing.T) {
	cfg := &Config{Env: mapEnv{"A": "$B", "B": "final"}}
	got, err := Literal(cfg, "$A")
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, got, qt.Equals, "$B")
}
