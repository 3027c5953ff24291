package bvrw_test

import (
	"errors"
	"testing"

	"github.com/benbjohnson/bvrw"
)

func TestEvaluator_Evaluate(t *testing.T) {
	t.Run("Variables", func(t *testing.T) {
		nm := bvrw.NewManager()
		x, y := nm.MakeVariable(8, "x"), nm.MakeVariable(8, "y")
		a := nm.Make(bvrw.SUB, nm.Make(bvrw.MUL, x, y), nm.One(8))

		e := bvrw.NewEvaluator([]*bvrw.Term{x, y}, []bvrw.BitVector{bvrw.NewBitVector(8, 6), bvrw.NewBitVector(8, 7)})
		if v, err := e.Evaluate(a); err != nil {
			t.Fatal(err)
		} else if got, want := v.Uint64(), uint64(41); got != want {
			t.Fatalf("unexpected value: %d", got)
		}
	})

	t.Run("Indexed", func(t *testing.T) {
		nm := bvrw.NewManager()
		x := nm.MakeVariable(4, "x")
		a := nm.Concat(nm.MakeTerm(bvrw.ROLI, []*bvrw.Term{x}, []uint{1}), nm.SignExtend(nm.Extract(x, 3, 2), 2))

		e := bvrw.NewEvaluator([]*bvrw.Term{x}, []bvrw.BitVector{bvrw.MustParseBitVector("#b1001")})
		if v, err := e.Evaluate(a); err != nil {
			t.Fatal(err)
		} else if got, want := v.String(), "#b00111110"; got != want {
			t.Fatalf("unexpected value: %s", got)
		}
	})

	t.Run("Ite", func(t *testing.T) {
		nm := bvrw.NewManager()
		x := nm.MakeVariable(4, "x")
		a := nm.Make(bvrw.ITE, nm.Make(bvrw.SLT, x, nm.Zero(4)), nm.Make(bvrw.NEG, x), x)

		for _, tt := range []struct{ in, out string }{
			{"#b0011", "#b0011"},
			{"#b1101", "#b0011"},
			{"#b1000", "#b1000"},
		} {
			e := bvrw.NewEvaluator([]*bvrw.Term{x}, []bvrw.BitVector{bvrw.MustParseBitVector(tt.in)})
			if v, err := e.Evaluate(a); err != nil {
				t.Fatal(err)
			} else if got := v.String(); got != tt.out {
				t.Fatalf("abs(%s): %s", tt.in, got)
			}
		}
	})

	t.Run("Deep", func(t *testing.T) {
		nm := bvrw.NewManager()
		x := nm.MakeVariable(16, "x")
		a := x
		for i := 0; i < 100000; i++ {
			a = nm.Make(bvrw.ADD, a, nm.One(16))
		}

		e := bvrw.NewEvaluator([]*bvrw.Term{x}, []bvrw.BitVector{bvrw.ZeroBitVector(16)})
		if v, err := e.Evaluate(a); err != nil {
			t.Fatal(err)
		} else if got, want := v.Uint64(), uint64(100000%65536); got != want {
			t.Fatalf("unexpected value: %d", got)
		}
	})

	t.Run("ErrUnboundVariable", func(t *testing.T) {
		nm := bvrw.NewManager()
		x, y := nm.MakeVariable(8, "x"), nm.MakeVariable(8, "y")
		e := bvrw.NewEvaluator([]*bvrw.Term{x}, []bvrw.BitVector{bvrw.ZeroBitVector(8)})
		if _, err := e.Evaluate(nm.Make(bvrw.ADD, x, y)); !errors.Is(err, bvrw.ErrUnboundVariable) {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

// Ensure every kind evaluates to a value of the kind's width.
func TestEvaluator_Widths(t *testing.T) {
	nm := bvrw.NewManager()
	for _, width := range []uint{1, 3, 8} {
		for _, kind := range bvrw.Kinds() {
			for _, a := range Instances(nm, kind, width) {
				vars := bvrw.FreeVariables(a)
				values := make([]bvrw.BitVector, len(vars))
				for i, v := range vars {
					values[i] = bvrw.OnesBitVector(v.Width())
				}
				if v, err := bvrw.NewEvaluator(vars, values).Evaluate(a); err != nil {
					t.Fatal(err)
				} else if v.Width() != a.Width() {
					t.Fatalf("%s: unexpected width: %d", a, v.Width())
				}
			}
		}
	}
}
