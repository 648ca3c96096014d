package syntax

import (
	"fmt"

	"github.com/Architecture-Mechanism/bellos/token"
)

// maxDepth bounds recursive-descent recursion so a pathological input
// (deeply nested parens or control constructs) fails fast instead of
// exhausting the goroutine stack.
const maxDepth = 1000

// ParseError is returned for any syntactic failure. It names both the
// expected and actual token so the diagnostic is actionable.
type ParseError struct {
	Position
	Filename string
	Text     string
}

func (e *ParseError) Error() string {
	prefix := ""
	if e.Filename != "" {
		prefix = e.Filename + ":"
	}
	return fmt.Sprintf("%s%s: %s", prefix, e.Position, e.Text)
}

// Parser is a recursive-descent parser over a Lexer's token stream.
type Parser struct {
	name  string
	toks  []Token
	i     int
	lines []int
	depth int
}

// NewParser returns a Parser for src. name is used in diagnostics
// (typically the script's filename, or empty for interactive input).
func NewParser(src, name string) *Parser {
	lx := NewLexer(src)
	toks := lx.Tokenize()
	return &Parser{name: name, toks: toks, lines: lx.Lines}
}

// Parse returns the ordered top-level statements of the program, or
// the first ParseError encountered. Parsing of a statement halts at
// its first error; Parse itself stops at the first statement error so
// that callers (the evaluator driver) can decide how to recover.
func (p *Parser) Parse() ([]Node, error) {
	var stmts []Node
	for !p.at(token.EOF) {
		for p.at(token.SEMICOLON) || p.at(token.NEWLINE) {
			p.advance()
		}
		if p.at(token.EOF) {
			break
		}
		st, err := p.statement(0)
		if err != nil {
			return stmts, err
		}
		stmts = append(stmts, st)
	}
	return stmts, nil
}

func (p *Parser) cur() Token             { return p.toks[p.i] }
func (p *Parser) at(k token.Token) bool  { return p.cur().Kind == k }

func (p *Parser) peek() Token {
	if p.i+1 < len(p.toks) {
		return p.toks[p.i+1]
	}
	return Token{Kind: token.EOF}
}

func (p *Parser) advance() Token {
	t := p.toks[p.i]
	if p.i < len(p.toks)-1 {
		p.i++
	}
	return t
}

func (p *Parser) pos() Position {
	return p.position(p.cur().Pos)
}

func (p *Parser) position(pos Pos) Position {
	line, col := lineCol(p.lines, int(pos)-1)
	return Position{Offset: int(pos) - 1, Line: line, Column: col}
}

func (p *Parser) errf(format string, a ...any) error {
	return &ParseError{Position: p.pos(), Filename: p.name, Text: fmt.Sprintf(format, a...)}
}

func (p *Parser) expect(k token.Token) (Token, error) {
	if !p.at(k) {
		return Token{}, p.errf("expected %s, found %s %q", k, p.cur().Kind, p.cur().Val)
	}
	return p.advance(), nil
}

// adjacent reports whether b immediately follows a in the source,
// with no intervening whitespace — used to tell "a=b" (one run) from
// "a = b" (three separate atoms).
func adjacent(a, b Token) bool {
	return int(a.Pos)+len(a.Val) == int(b.Pos)
}

func (p *Parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return p.errf("max recursion depth exceeded")
	}
	return nil
}

func (p *Parser) leave() { p.depth-- }

// statement parses one statement: a control construct, a function or
// block, or a command/assignment optionally extended by pipes,
// redirections, and a trailing "&".
func (p *Parser) statement(depth int) (Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	var (
		node Node
		err  error
	)
	switch p.cur().Kind {
	case token.IF:
		node, err = p.ifStmt()
	case token.WHILE:
		node, err = p.whileStmt()
	case token.FOR:
		node, err = p.forStmt()
	case token.CASE:
		node, err = p.caseStmt()
	case token.FUNCTION:
		node, err = p.functionStmt()
	case token.LPAREN:
		node, err = p.blockStmt()
	default:
		node, err = p.cmdOrAssign()
	}
	if err != nil {
		return nil, err
	}
	return p.pipeOrRedirect(node)
}

// pipeOrRedirect extends node with any trailing "| cmd", "REDIR word",
// or a terminating "&", left-associatively.
func (p *Parser) pipeOrRedirect(node Node) (Node, error) {
	for {
		switch p.cur().Kind {
		case token.PIPE:
			pos := p.cur().Pos
			p.advance()
			cmd, ok := node.(*Command)
			if !ok {
				if pl, ok := node.(*Pipeline); ok {
					cmd = pl.Commands[len(pl.Commands)-1]
				} else {
					return nil, p.errf("pipelines may only contain commands")
				}
			}
			next, err := p.cmdOrAssign()
			if err != nil {
				return nil, err
			}
			nc, ok := next.(*Command)
			if !ok {
				return nil, p.errf("pipelines may only contain commands")
			}
			if pl, ok := node.(*Pipeline); ok {
				pl.Commands = append(pl.Commands, nc)
			} else {
				node = &Pipeline{base: newBase(pos), Commands: []*Command{cmd, nc}}
			}
		case token.REDIRIN, token.REDIROUT, token.REDIRAPPEND:
			dir := map[token.Token]RedirDir{
				token.REDIRIN:     RedirInput,
				token.REDIROUT:    RedirOutput,
				token.REDIRAPPEND: RedirAppend,
			}[p.cur().Kind]
			pos := p.cur().Pos
			p.advance()
			target, err := p.wordArg()
			if err != nil {
				return nil, err
			}
			node = &Redirect{base: newBase(pos), Inner: node, Dir: dir, Target: target}
		case token.AMP:
			pos := p.cur().Pos
			p.advance()
			return &Background{base: newBase(pos), Inner: node}, nil
		default:
			return node, nil
		}
	}
}

// wordArg consumes one argument atom: either a STRING token, or a run
// of adjacent WORD/ASSIGN tokens concatenated into one string (so that
// "a=b" used as an argument, rather than at statement start, reads as
// the single literal "a=b").
func (p *Parser) wordArg() (string, error) {
	switch p.cur().Kind {
	case token.STRING:
		return p.advance().Val, nil
	case token.WORD, token.ASSIGN:
		return p.wordRun(), nil
	default:
		if token.IsReserved(p.cur().Val) {
			return p.advance().Val, nil
		}
		return "", p.errf("expected a word, found %s %q", p.cur().Kind, p.cur().Val)
	}
}

// wordRun concatenates the current token with any immediately
// following WORD/ASSIGN tokens that touch it, with no gap.
func (p *Parser) wordRun() string {
	first := p.advance()
	s := first.Val
	last := first
	for p.cur().Kind == token.WORD || p.cur().Kind == token.ASSIGN {
		if !adjacent(last, p.cur()) {
			break
		}
		last = p.advance()
		s += last.Val
	}
	return s
}

// cmdOrAssign parses "WORD '=' word?" as an Assignment when the '='
// immediately follows the first word, and otherwise parses a Command.
func (p *Parser) cmdOrAssign() (Node, error) {
	if p.cur().Kind != token.WORD && !isWordLike(p.cur().Kind) {
		return nil, p.errf("expected a command or assignment, found %s %q", p.cur().Kind, p.cur().Val)
	}

	name := p.advance()
	if name.Kind == token.WORD && p.at(token.ASSIGN) && adjacent(name, p.cur()) {
		pos := name.Pos
		p.advance() // consume '='
		value := ""
		if (p.cur().Kind == token.WORD || p.cur().Kind == token.ASSIGN || p.cur().Kind == token.STRING) &&
			adjacentOrString(p.toks[p.i-1], p.cur()) {
			v, err := p.wordArg()
			if err != nil {
				return nil, err
			}
			value = v
		}
		return &Assignment{base: newBase(pos), Name: name.Val, Value: value}, nil
	}

	cmd := &Command{base: newBase(name.Pos), Name: name.Val}
	for isArgStart(p.cur().Kind) {
		arg, err := p.wordArg()
		if err != nil {
			return nil, err
		}
		cmd.Args = append(cmd.Args, arg)
	}
	return cmd, nil
}

// adjacentOrString allows the value half of an assignment to be a
// quoted string: a STRING token's Pos is its opening quote, so the
// quote must directly follow the '='.
func adjacentOrString(eq, next Token) bool {
	if next.Kind == token.STRING {
		return int(eq.Pos)+len(eq.Val) == int(next.Pos) // '"' directly after '='
	}
	return adjacent(eq, next)
}

func isWordLike(k token.Token) bool {
	switch k {
	case token.WORD, token.IF, token.THEN, token.ELSE, token.FI,
		token.WHILE, token.DO, token.DONE, token.FOR, token.IN,
		token.CASE, token.ESAC, token.FUNCTION:
		return true
	}
	return false
}

func isArgStart(k token.Token) bool {
	return k == token.WORD || k == token.STRING || k == token.ASSIGN || isWordLike(k)
}

func (p *Parser) blockStmt() (Node, error) {
	pos := p.cur().Pos
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	stmts, err := p.stmtsUntil(token.RPAREN)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &Block{base: newBase(pos), Stmts: stmts}, nil
}

// stmtsUntil parses statements until the given terminator token (not
// consumed) is reached, skipping statement separators.
func (p *Parser) stmtsUntil(term token.Token, moreTerms ...token.Token) ([]Node, error) {
	var stmts []Node
	isTerm := func(k token.Token) bool {
		if k == term {
			return true
		}
		for _, t := range moreTerms {
			if k == t {
				return true
			}
		}
		return false
	}
	for !isTerm(p.cur().Kind) {
		for p.at(token.SEMICOLON) || p.at(token.NEWLINE) {
			p.advance()
		}
		if isTerm(p.cur().Kind) {
			break
		}
		if p.at(token.EOF) {
			return nil, p.errf("unexpected EOF, expected %s", term)
		}
		st, err := p.statement(0)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
		for p.at(token.SEMICOLON) || p.at(token.NEWLINE) {
			p.advance()
		}
	}
	return stmts, nil
}

// condition parses a single command used as an if/while condition: a
// condition is one command, not a full statement, so that "then"/"do"
// unambiguously terminate it. Separators after the condition are
// skipped, so "if COND; then" and "while COND; do" parse.
func (p *Parser) condition() (Node, error) {
	node, err := p.cmdOrAssign()
	if err != nil {
		return nil, err
	}
	node, err = p.pipeOrRedirect(node)
	if err != nil {
		return nil, err
	}
	for p.at(token.SEMICOLON) || p.at(token.NEWLINE) {
		p.advance()
	}
	return node, nil
}

func (p *Parser) ifStmt() (Node, error) {
	pos := p.cur().Pos
	p.advance() // if
	cond, err := p.condition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.THEN); err != nil {
		return nil, err
	}
	thenStmts, err := p.stmtsUntil(token.ELSE, token.FI)
	if err != nil {
		return nil, err
	}
	thenBlock := &Block{Stmts: thenStmts}
	var elseBlock Node
	if p.at(token.ELSE) {
		p.advance()
		elseStmts, err := p.stmtsUntil(token.FI)
		if err != nil {
			return nil, err
		}
		elseBlock = &Block{Stmts: elseStmts}
	}
	if _, err := p.expect(token.FI); err != nil {
		return nil, err
	}
	return &If{base: newBase(pos), Cond: cond, Then: thenBlock, Else: elseBlock}, nil
}

func (p *Parser) whileStmt() (Node, error) {
	pos := p.cur().Pos
	p.advance() // while
	cond, err := p.condition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DO); err != nil {
		return nil, err
	}
	body, err := p.stmtsUntil(token.DONE)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DONE); err != nil {
		return nil, err
	}
	return &While{base: newBase(pos), Cond: cond, Body: &Block{Stmts: body}}, nil
}

func (p *Parser) forStmt() (Node, error) {
	pos := p.cur().Pos
	p.advance() // for
	nameTok, err := p.expect(token.WORD)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	var words []string
	for isArgStart(p.cur().Kind) {
		w, err := p.wordArg()
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	for p.at(token.SEMICOLON) || p.at(token.NEWLINE) {
		p.advance()
	}
	if _, err := p.expect(token.DO); err != nil {
		return nil, err
	}
	body, err := p.stmtsUntil(token.DONE)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DONE); err != nil {
		return nil, err
	}
	return &For{base: newBase(pos), Var: nameTok.Val, Words: words, Body: &Block{Stmts: body}}, nil
}

func (p *Parser) caseStmt() (Node, error) {
	pos := p.cur().Pos
	p.advance() // case
	word, err := p.wordArg()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	for p.at(token.SEMICOLON) || p.at(token.NEWLINE) {
		p.advance()
	}
	var arms []CaseArm
	for !p.at(token.ESAC) {
		if p.at(token.EOF) {
			return nil, p.errf("unexpected EOF, expected esac")
		}
		pattern, err := p.wordArg()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		body, err := p.stmtsUntilCaseSep()
		if err != nil {
			return nil, err
		}
		arms = append(arms, CaseArm{Pattern: pattern, Body: &Block{Stmts: body}})
		for p.at(token.SEMICOLON) || p.at(token.NEWLINE) {
			p.advance()
		}
	}
	if _, err := p.expect(token.ESAC); err != nil {
		return nil, err
	}
	return &Case{base: newBase(pos), Word: word, Arms: arms}, nil
}

// stmtsUntilCaseSep parses a case arm's body up to its terminating
// ";;" (two adjacent SEMICOLON tokens) or "esac".
func (p *Parser) stmtsUntilCaseSep() ([]Node, error) {
	var stmts []Node
	for {
		for p.at(token.SEMICOLON) || p.at(token.NEWLINE) {
			if p.at(token.SEMICOLON) && p.peek().Kind == token.SEMICOLON {
				p.advance()
				p.advance()
				return stmts, nil
			}
			p.advance()
		}
		if p.at(token.ESAC) || p.at(token.EOF) {
			return stmts, nil
		}
		st, err := p.statement(0)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
}

func (p *Parser) functionStmt() (Node, error) {
	pos := p.cur().Pos
	p.advance() // function
	nameTok, err := p.expect(token.WORD)
	if err != nil {
		return nil, err
	}
	body, err := p.blockStmt()
	if err != nil {
		return nil, err
	}
	blk, ok := body.(*Block)
	if !ok {
		return nil, p.errf("function body must be a block")
	}
	return &Function{base: newBase(pos), Name: nameTok.Val, Body: blk}, nil
}
