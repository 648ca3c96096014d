package token

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		word string
		want Token
		ok   bool
	}{
		{"if", IF, true},
		{"done", DONE, true},
		{"function", FUNCTION, true},
		{"echo", WORD, false},
		{"IF", WORD, false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.word, func(t *testing.T) {
			got, ok := Lookup(tc.word)
			qt.Assert(t, ok, qt.Equals, tc.ok)
			if ok {
				qt.Assert(t, got, qt.Equals, tc.want)
			}
		})
	}
}

func TestIsReserved(t *testing.T) {
	qt.Assert(t, IsReserved("while"), qt.IsTrue)
	qt.Assert(t, IsReserved("cat"), qt.IsFalse)
}

func TestString(t *testing.T) {
	qt.Assert(t, PIPE.String(), qt.Equals, "|")
	qt.Assert(t, Token(999).String(), qt.Equals, "unknown")
}
