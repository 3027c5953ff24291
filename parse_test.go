package bvrw_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/benbjohnson/bvrw"
	"github.com/google/go-cmp/cmp"
)

func TestParser_Next(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		nm := bvrw.NewManager()
		p := bvrw.NewParser(strings.NewReader(`
; comment
(set-logic QF_BV)
(declare-const a (_ BitVec 4))
(declare-fun |b c| () (_ BitVec 4))
(declare-const p Bool)
(assert (= (bvadd a |b c| #b0001) (_ bv3 4)))
(ite p a #x5)
(check-sat)
`), nm)

		// Declarations are read lazily by Next.
		if _, ok := p.Lookup("a"); ok {
			t.Fatal("expected a to be undeclared")
		}

		u, err := p.Next()
		if err != nil {
			t.Fatal(err)
		}
		a, ok := p.Lookup("a")
		if !ok {
			t.Fatal("expected a")
		}
		b, _ := p.Lookup("b c")
		want := nm.Make(bvrw.EQUAL,
			nm.Make(bvrw.ADD, nm.Make(bvrw.ADD, a, b), nm.One(4)),
			nm.MakeValue(bvrw.NewBitVector(4, 3)),
		)
		if u != want {
			t.Fatalf("unexpected term: %s", u)
		}

		c, ok := p.Lookup("p")
		if !ok {
			t.Fatal("expected p")
		}
		if u, err := p.Next(); err != nil {
			t.Fatal(err)
		} else if want := nm.Make(bvrw.ITE, c, a, nm.MakeValue(bvrw.NewBitVector(4, 5))); u != want {
			t.Fatalf("unexpected term: %s", u)
		}

		if _, err := p.Next(); err != io.EOF {
			t.Fatalf("unexpected error: %v", err)
		}

		if diff := cmp.Diff([]*bvrw.Term{a, b, c}, p.Variables(), termComparer); diff != "" {
			t.Fatal(diff)
		} else if got, want := b.Symbol(), "b c"; got != want {
			t.Fatalf("unexpected symbol: %s", got)
		}
	})

	t.Run("Indexed", func(t *testing.T) {
		nm := bvrw.NewManager()
		x := nm.MakeVariable(8, "x")
		for _, tt := range []struct {
			s    string
			want *bvrw.Term
		}{
			{"((_ extract 3 2) x)", nm.Extract(x, 3, 2)},
			{"((_ zero_extend 4) x)", nm.ZeroExtend(x, 4)},
			{"((_ sign_extend 0) x)", nm.SignExtend(x, 0)},
			{"((_ repeat 2) x)", nm.MakeTerm(bvrw.REPEAT, []*bvrw.Term{x}, []uint{2})},
			{"((_ rotate_left 3) x)", nm.MakeTerm(bvrw.ROLI, []*bvrw.Term{x}, []uint{3})},
		} {
			if u, err := bvrw.ParseTerm(nm, tt.s, x); err != nil {
				t.Fatal(err)
			} else if u != tt.want {
				t.Fatalf("%s: unexpected term: %s", tt.s, u)
			}
		}
	})

	t.Run("Boolean", func(t *testing.T) {
		nm := bvrw.NewManager()
		p, q := nm.MakeVariable(1, "p"), nm.MakeVariable(1, "q")
		u, err := bvrw.ParseTerm(nm, "(or (not p) (and p q true))", p, q)
		if err != nil {
			t.Fatal(err)
		}
		want := nm.Make(bvrw.OR, nm.Invert(p), nm.Make(bvrw.AND, nm.Make(bvrw.AND, p, q), nm.True()))
		if u != want {
			t.Fatalf("unexpected term: %s", u)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		nm := bvrw.NewManager()
		x, y := nm.MakeVariable(8, "x"), nm.MakeVariable(8, "y")
		a := nm.Make(bvrw.ULT, nm.Concat(nm.Extract(x, 3, 0), nm.Extract(y, 7, 4)), nm.Make(bvrw.SMOD, x, nm.Ones(8)))
		if u, err := bvrw.ParseTerm(nm, a.String(), x, y); err != nil {
			t.Fatal(err)
		} else if u != a {
			t.Fatalf("unexpected term: %s", u)
		}
	})

	t.Run("MaxWidth", func(t *testing.T) {
		nm := bvrw.NewManager()
		a := nm.MakeVariable(4, "a")
		for _, s := range []string{
			"((_ repeat 16384) a)",
			"((_ zero_extend 65532) a)",
			"((_ sign_extend 65532) a)",
		} {
			if u, err := bvrw.ParseTerm(nm, s, a); err != nil {
				t.Fatalf("%s: %s", s, err)
			} else if got, want := u.Width(), uint(bvrw.MaxWidth); got != want {
				t.Fatalf("%s: width=%d, want %d", s, got, want)
			}
		}
	})

	t.Run("ErrUndeclared", func(t *testing.T) {
		nm := bvrw.NewManager()
		p := bvrw.NewParser(strings.NewReader("(declare-const a (_ BitVec 4))\n(bvadd a z)"), nm)
		_, err := p.Next()
		if !errors.Is(err, bvrw.ErrUndeclared) {
			t.Fatalf("unexpected error: %v", err)
		}

		var e *bvrw.ParseError
		if !errors.As(err, &e) {
			t.Fatalf("unexpected error type: %T", err)
		} else if diff := cmp.Diff(bvrw.Pos{Line: 2, Col: 10}, e.Pos); diff != "" {
			t.Fatal(diff)
		} else if got, want := err.Error(), "2:10: undeclared symbol: z"; got != want {
			t.Fatalf("unexpected error: %s", got)
		}
	})

	t.Run("Errors", func(t *testing.T) {
		for _, s := range []string{
			"(bvadd a b",
			")",
			"()",
			"(bvfoo a)",
			"(bvadd a p)",
			"(ite a a a)",
			"(extract a)",
			"((_ extract 4 0) a)",
			"((_ extract 0 1) a)",
			"((_ repeat 0) a)",
			"(_ bv16 4)",
			"(_ bv1 0)",
			"(_ bvx 4)",
			"#b",
			"#x1g",
			"(assert)",
			"(declare-const b (_ BitVec 0))",
			"(declare-const b Int)",
			"(declare-fun f ((_ BitVec 4)) (_ BitVec 4))",
			"|a",
			"((_ repeat 4611686018427387904) a)",
			"((_ repeat 16385) a)",
			"((_ zero_extend 18446744073709551615) a)",
			"((_ sign_extend 18446744073709551613) a)",
			"((_ zero_extend 65533) a)",
			"(_ bv1 65537)",
			"(declare-const b (_ BitVec 65537))",
		} {
			nm := bvrw.NewManager()
			a, p := nm.MakeVariable(4, "a"), nm.MakeVariable(1, "p")
			_, err := bvrw.ParseTerm(nm, s, a, p)
			var e *bvrw.ParseError
			if err == nil {
				t.Fatalf("%s: expected error", s)
			} else if !errors.As(err, &e) {
				t.Fatalf("%s: unexpected error type: %T", s, err)
			}
		}
	})
}
