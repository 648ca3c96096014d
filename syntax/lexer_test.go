package syntax

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/Architecture-Mechanism/bellos/token"
)

func kinds(toks []Token) []token.Token {
	ks := make([]token.Token, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestLexerTotality(t *testing.T) {
	// The lexer must never panic and must always terminate with a
	// single EOF, even on malformed input.
	inputs := []string{
		"", "   ", "\n\n\n", `"unterminated`, "$(unterminated",
		"a=b c", "a = b", `echo "hi"`, "if;then;fi",
	}
	for _, in := range inputs {
		toks := NewLexer(in).Tokenize()
		qt.Assert(t, toks[len(toks)-1].Kind, qt.Equals, token.EOF)
	}
}

func TestLexerBasic(t *testing.T) {
	toks := NewLexer("echo hi | tr a-z A-Z").Tokenize()
	qt.Assert(t, kinds(toks), qt.DeepEquals, []token.Token{
		token.WORD, token.WORD, token.PIPE, token.WORD, token.WORD, token.WORD, token.EOF,
	})
}

func TestLexerAssignVsSpaced(t *testing.T) {
	toksAdjacent := NewLexer("a=b").Tokenize()
	qt.Assert(t, kinds(toksAdjacent), qt.DeepEquals, []token.Token{token.WORD, token.ASSIGN, token.WORD, token.EOF})
	qt.Assert(t, toksAdjacent[1].Pos, qt.Equals, Pos(2))
	qt.Assert(t, adjacent(toksAdjacent[0], toksAdjacent[1]), qt.IsTrue)

	spaced := NewLexer("a = b").Tokenize()
	qt.Assert(t, kinds(spaced), qt.DeepEquals, []token.Token{token.WORD, token.ASSIGN, token.WORD, token.EOF})
	qt.Assert(t, adjacent(spaced[0], spaced[1]), qt.IsFalse)
}

func TestLexerString(t *testing.T) {
	toks := NewLexer(`echo "a\"b"`).Tokenize()
	qt.Assert(t, toks[1].Kind, qt.Equals, token.STRING)
	qt.Assert(t, toks[1].Val, qt.Equals, `a"b`)
}

func TestLexerCmdSubstVerbatim(t *testing.T) {
	toks := NewLexer("$(( 1 + (2*3) ))").Tokenize()
	qt.Assert(t, toks[0].Kind, qt.Equals, token.WORD)
	qt.Assert(t, toks[0].Val, qt.Equals, "$(( 1 + (2*3) ))")
}

func TestLexerReservedWords(t *testing.T) {
	toks := NewLexer("for i in a do done").Tokenize()
	qt.Assert(t, kinds(toks), qt.DeepEquals, []token.Token{
		token.FOR, token.WORD, token.IN, token.WORD, token.DO, token.DONE, token.EOF,
	})
}

func TestLexerCommentToEndOfLine(t *testing.T) {
	toks := NewLexer("# a whole comment line").Tokenize()
	qt.Assert(t, kinds(toks), qt.DeepEquals, []token.Token{token.EOF})

	toks = NewLexer("echo hi # trailing comment\necho bye").Tokenize()
	qt.Assert(t, kinds(toks), qt.DeepEquals, []token.Token{
		token.WORD, token.WORD, token.NEWLINE, token.WORD, token.WORD, token.EOF,
	})
}
