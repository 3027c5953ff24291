package bvrw

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/exp/constraints"
)

// Pos represents a position in the input.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

// ParseError represents an error with its position in the input.
type ParseError struct {
	Pos Pos
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// sexpr is a parsed atom or list.
type sexpr struct {
	pos    Pos
	atom   string
	list   []*sexpr
	isList bool
}

func (s *sexpr) String() string {
	if !s.isList {
		return s.atom
	}
	a := make([]string, len(s.list))
	for i := range s.list {
		a[i] = s.list[i].String()
	}
	return "(" + strings.Join(a, " ") + ")"
}

// head returns the atom at the start of a list, if any.
func (s *sexpr) head() string {
	if !s.isList || len(s.list) == 0 || s.list[0].isList {
		return ""
	}
	return s.list[0].atom
}

// Parser reads terms in SMT-LIB syntax. Constants are declared with
// declare-const or declare-fun and every other top-level expression, or the
// operand of an assert, is returned as a term.
type Parser struct {
	nm   *Manager
	r    *bufio.Reader
	pos  Pos
	prev Pos
	buf  *token

	vars  map[string]*Term
	names []string
}

// NewParser returns a new instance of Parser that builds terms with nm.
func NewParser(r io.Reader, nm *Manager) *Parser {
	return &Parser{
		nm:   nm,
		r:    bufio.NewReader(r),
		pos:  Pos{Line: 1, Col: 0},
		vars: make(map[string]*Term),
	}
}

// Declare binds name to a fresh variable of the given width.
func (p *Parser) Declare(name string, width uint) *Term {
	v := p.nm.MakeVariable(width, name)
	if _, ok := p.vars[name]; !ok {
		p.names = append(p.names, name)
	}
	p.vars[name] = v
	return v
}

// Lookup returns the variable bound to name. Declarations are processed by
// Next, so a name is only bound once Next has read past its declaration.
func (p *Parser) Lookup(name string) (*Term, bool) {
	v, ok := p.vars[name]
	return v, ok
}

// Variables returns the declared variables in declaration order.
func (p *Parser) Variables() []*Term {
	a := make([]*Term, len(p.names))
	for i, name := range p.names {
		a[i] = p.vars[name]
	}
	return a
}

// Next returns the next term in the input. Returns io.EOF at the end of input.
func (p *Parser) Next() (*Term, error) {
	for {
		s, err := p.readExpr()
		if err != nil {
			return nil, err
		}

		switch s.head() {
		case "declare-const":
			if err := p.declareConst(s); err != nil {
				return nil, err
			}
		case "declare-fun":
			if err := p.declareFun(s); err != nil {
				return nil, err
			}
		case "set-logic", "set-option", "set-info", "check-sat", "get-model", "exit":
		case "assert":
			if len(s.list) != 2 {
				return nil, errorf(s.pos, "assert: expected 1 argument")
			}
			return p.term(s.list[1])
		default:
			return p.term(s)
		}
	}
}

// ParseTerm parses a single term from s using the variables declared in vars.
func ParseTerm(nm *Manager, s string, vars ...*Term) (*Term, error) {
	p := NewParser(strings.NewReader(s), nm)
	for _, v := range vars {
		p.vars[v.Symbol()] = v
		p.names = append(p.names, v.Symbol())
	}
	t, err := p.Next()
	if err == io.EOF {
		return nil, errorf(p.pos, "unexpected EOF")
	}
	return t, err
}

// declareConst handles (declare-const name sort).
func (p *Parser) declareConst(s *sexpr) error {
	if len(s.list) != 3 || s.list[1].isList {
		return errorf(s.pos, "declare-const: expected name and sort")
	}
	width, err := p.sort(s.list[2])
	if err != nil {
		return err
	}
	p.Declare(unquote(s.list[1].atom), width)
	return nil
}

// declareFun handles (declare-fun name () sort).
func (p *Parser) declareFun(s *sexpr) error {
	if len(s.list) != 4 || s.list[1].isList || !s.list[2].isList {
		return errorf(s.pos, "declare-fun: expected name, argument sorts and sort")
	} else if len(s.list[2].list) != 0 {
		return errorf(s.list[2].pos, "declare-fun: functions with arguments are not supported")
	}
	width, err := p.sort(s.list[3])
	if err != nil {
		return err
	}
	p.Declare(unquote(s.list[1].atom), width)
	return nil
}

// sort returns the width of Bool or (_ BitVec N).
func (p *Parser) sort(s *sexpr) (uint, error) {
	if !s.isList {
		if s.atom == "Bool" {
			return WidthBool, nil
		}
		return 0, errorf(s.pos, "unknown sort: %s", s.atom)
	}
	if len(s.list) != 3 || s.head() != "_" || s.list[1].isList || s.list[1].atom != "BitVec" {
		return 0, errorf(s.pos, "unknown sort: %s", s)
	}
	return parseWidth(s.list[2])
}

// parseWidth parses a bit-vector width in the range [1, MaxWidth].
func parseWidth(s *sexpr) (uint, error) {
	width, err := parseUnsigned[uint](s)
	if err != nil {
		return 0, err
	} else if width == 0 {
		return 0, errorf(s.pos, "bit-vector width must be positive")
	} else if width > MaxWidth {
		return 0, errorf(s.pos, "bit-vector width exceeds %d bits", MaxWidth)
	}
	return width, nil
}

// aliases maps Boolean operator names onto their 1-bit equivalents.
var aliases = map[string]Kind{
	"not": NOT,
	"and": AND,
	"or":  OR,
	"xor": XOR,
}

// chainable kinds accept more than two operands and are folded left.
func chainable(kind Kind) bool {
	switch kind {
	case AND, OR, XOR, ADD, MUL, CONCAT:
		return true
	}
	return false
}

// term converts an s-expression into a term.
func (p *Parser) term(s *sexpr) (*Term, error) {
	if !s.isList {
		return p.atom(s)
	} else if len(s.list) == 0 {
		return nil, errorf(s.pos, "empty expression")
	}

	// Bit-vector literal: (_ bvN W)
	if s.head() == "_" {
		return p.literal(s)
	}

	kind, indices, err := p.operator(s.list[0])
	if err != nil {
		return nil, err
	}

	children := make([]*Term, 0, len(s.list)-1)
	for _, arg := range s.list[1:] {
		child, err := p.term(arg)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	if chainable(kind) && len(children) > 2 {
		t := children[0]
		for _, child := range children[1:] {
			if t, err = p.make(s.pos, kind, []*Term{t, child}, indices); err != nil {
				return nil, err
			}
		}
		return t, nil
	}
	return p.make(s.pos, kind, children, indices)
}

// make type checks and creates a term.
func (p *Parser) make(pos Pos, kind Kind, children []*Term, indices []uint) (*Term, error) {
	if _, err := termWidth(kind, children, indices); err != nil {
		return nil, &ParseError{Pos: pos, Err: err}
	}
	return p.nm.MakeTerm(kind, children, indices), nil
}

// operator returns the kind and indices of an operator name or indexed
// operator (_ name i...).
func (p *Parser) operator(s *sexpr) (Kind, []uint, error) {
	if !s.isList {
		if kind, ok := aliases[s.atom]; ok {
			return kind, nil, nil
		}
		kind, ok := ParseKind(s.atom)
		if !ok || kind == VALUE || kind == VARIABLE {
			return 0, nil, errorf(s.pos, "unknown operator: %s", s.atom)
		} else if kind.IsIndexed() {
			return 0, nil, errorf(s.pos, "%s: missing indices", s.atom)
		}
		return kind, nil, nil
	}

	if len(s.list) < 2 || s.head() != "_" || s.list[1].isList {
		return 0, nil, errorf(s.pos, "invalid operator: %s", s)
	}
	kind, ok := ParseKind(s.list[1].atom)
	if !ok || !kind.IsIndexed() {
		return 0, nil, errorf(s.list[1].pos, "unknown indexed operator: %s", s.list[1].atom)
	}

	indices := make([]uint, 0, len(s.list)-2)
	for _, arg := range s.list[2:] {
		idx, err := parseUnsigned[uint](arg)
		if err != nil {
			return 0, nil, err
		}
		indices = append(indices, idx)
	}
	return kind, indices, nil
}

// atom converts a symbol or literal into a term.
func (p *Parser) atom(s *sexpr) (*Term, error) {
	switch {
	case s.atom == "true":
		return p.nm.True(), nil
	case s.atom == "false":
		return p.nm.False(), nil
	case strings.HasPrefix(s.atom, "#"):
		v, err := ParseBitVector(s.atom)
		if err != nil {
			return nil, &ParseError{Pos: s.pos, Err: err}
		} else if v.Width() > MaxWidth {
			return nil, errorf(s.pos, "bit-vector width exceeds %d bits", MaxWidth)
		}
		return p.nm.MakeValue(v), nil
	}

	name := unquote(s.atom)
	if v, ok := p.vars[name]; ok {
		return v, nil
	}
	return nil, &ParseError{Pos: s.pos, Err: fmt.Errorf("%w: %s", ErrUndeclared, name)}
}

// literal converts (_ bvN W) into a value term.
func (p *Parser) literal(s *sexpr) (*Term, error) {
	if len(s.list) != 3 || s.list[1].isList || !strings.HasPrefix(s.list[1].atom, "bv") {
		return nil, errorf(s.pos, "invalid literal: %s", s)
	}
	width, err := parseWidth(s.list[2])
	if err != nil {
		return nil, err
	}

	n, ok := new(big.Int).SetString(strings.TrimPrefix(s.list[1].atom, "bv"), 10)
	if !ok || n.Sign() < 0 {
		return nil, errorf(s.list[1].pos, "invalid literal: %s", s)
	} else if n.BitLen() > int(width) {
		return nil, errorf(s.list[1].pos, "literal does not fit in %d bits: %s", width, n)
	}
	return p.nm.MakeValue(NewBitVectorFromBig(width, n)), nil
}

// parseUnsigned parses a numeral atom into an unsigned integer type.
func parseUnsigned[T constraints.Unsigned](s *sexpr) (T, error) {
	if s.isList {
		return 0, errorf(s.pos, "expected numeral, got %s", s)
	}
	n, err := strconv.ParseUint(s.atom, 10, 64)
	if err != nil || uint64(T(n)) != n {
		return 0, errorf(s.pos, "invalid numeral: %s", s.atom)
	}
	return T(n), nil
}

// readExpr reads the next complete s-expression.
func (p *Parser) readExpr() (*sexpr, error) {
	tok, pos, err := p.scan()
	if err != nil {
		return nil, err
	}

	switch tok {
	case ")":
		return nil, errorf(pos, "unexpected ')'")
	case "(":
		s := &sexpr{pos: pos, isList: true}
		for {
			tok, pos, err := p.scan()
			if err == io.EOF {
				return nil, errorf(p.pos, "unexpected EOF")
			} else if err != nil {
				return nil, err
			}

			if tok == ")" {
				return s, nil
			}
			p.unscan(tok, pos)

			child, err := p.readExpr()
			if err != nil {
				return nil, err
			}
			s.list = append(s.list, child)
		}
	default:
		return &sexpr{pos: pos, atom: tok}, nil
	}
}

// scan returns the next token and its position.
func (p *Parser) scan() (tok string, pos Pos, err error) {
	if p.buf != nil {
		b := p.buf
		p.buf = nil
		return b.tok, b.pos, nil
	}

	// Skip whitespace and comments.
	var ch rune
	for {
		if ch, err = p.read(); err != nil {
			return "", p.pos, err
		}
		if ch == ';' {
			for ch != '\n' {
				if ch, err = p.read(); err != nil {
					return "", p.pos, err
				}
			}
			continue
		} else if !unicode.IsSpace(ch) {
			break
		}
	}
	pos = p.pos

	switch ch {
	case '(', ')':
		return string(ch), pos, nil
	case '|':
		var sb strings.Builder
		sb.WriteRune(ch)
		for {
			if ch, err = p.read(); err == io.EOF {
				return "", pos, errorf(pos, "unterminated symbol")
			} else if err != nil {
				return "", pos, err
			}
			sb.WriteRune(ch)
			if ch == '|' {
				return sb.String(), pos, nil
			}
		}
	}

	var sb strings.Builder
	sb.WriteRune(ch)
	for {
		if ch, err = p.read(); err == io.EOF {
			break
		} else if err != nil {
			return "", pos, err
		}
		if unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == ';' {
			p.unread()
			break
		}
		sb.WriteRune(ch)
	}
	return sb.String(), pos, nil
}

// read returns the next rune and advances the position.
func (p *Parser) read() (rune, error) {
	ch, _, err := p.r.ReadRune()
	if err != nil {
		return 0, err
	}
	p.prev = p.pos
	if ch == '\n' {
		p.pos.Line++
		p.pos.Col = 0
	} else {
		p.pos.Col++
	}
	return ch, nil
}

// unread pushes the last rune back onto the reader.
func (p *Parser) unread() {
	_ = p.r.UnreadRune()
	p.pos = p.prev
}

// unscan pushes a token back so the next scan returns it.
func (p *Parser) unscan(tok string, pos Pos) {
	p.buf = &token{tok: tok, pos: pos}
}

type token struct {
	tok string
	pos Pos
}

// unquote removes the bars from a quoted symbol.
func unquote(name string) string {
	if len(name) >= 2 && strings.HasPrefix(name, "|") && strings.HasSuffix(name, "|") {
		return name[1 : len(name)-1]
	}
	return name
}

func errorf(pos Pos, format string, args ...interface{}) error {
	return &ParseError{Pos: pos, Err: fmt.Errorf(format, args...)}
}
