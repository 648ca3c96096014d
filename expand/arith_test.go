package expand

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestArithm(t *testing.T) {
	cfg := &Config{Env: OSEnviron{}}
	tests := []struct {
		expr string
		want int64
	}{
		{"5", 5},
		{"2 + 3", 5},
		{"10 - 4", 6},
		{"3 * 4", 12},
		{"7 / 2", 3},
		{"7 % 2", 1},
		{"(2+3)*4", 20},
		{"1 + (2*3)", 7},
		{"2*(3+4)", 14},
		{"2+3", 5},
	}
	for _, tc := range tests {
		got, err := Arithm(cfg, tc.expr)
		qt.Assert(t, err, qt.IsNil, qt.Commentf("expr %q", tc.expr))
		qt.Assert(t, got, qt.Equals, tc.want, qt.Commentf("expr %q", tc.expr))
	}
}

func TestArithmDivideByZero(t *testing.T) {
	cfg := &Config{}
	_, err := Arithm(cfg, "1 / 0")
	qt.Assert(t, err, qt.IsNotNil)
	var ae *ArithError
	qt.Assert(t, errors.As(err, &ae), qt.IsTrue)
}

func TestArithmVariable(t *testing.T) {
	cfg := &Config{Env: mapEnv{"N": "6"}}
	got, err := Arithm(cfg, "N * 7")
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, got, qt.Equals, int64(42))
}

type mapEnv map[string]string

func (m mapEnv) Get(name string) (string, bool) { v, ok := m[name]; return v, ok }
