package z3_test

import (
	"math/rand"
	"testing"

	"github.com/benbjohnson/bvrw"
	"github.com/benbjohnson/bvrw/z3"
)

func TestChecker_Equivalent(t *testing.T) {
	t.Run("Same", func(t *testing.T) {
		c := z3.NewChecker(0)
		defer MustCloseChecker(c)

		nm := bvrw.NewManager()
		x := nm.MakeVariable(8, "x")
		if ok, err := c.Equivalent(x, x); err != nil {
			t.Fatal(err)
		} else if !ok {
			t.Fatal("expected equivalent")
		}
	})

	t.Run("DistinctVariables", func(t *testing.T) {
		c := z3.NewChecker(0)
		defer MustCloseChecker(c)

		nm := bvrw.NewManager()
		x, y := nm.MakeVariable(8, "x"), nm.MakeVariable(8, "x")
		if ok, err := c.Equivalent(x, y); err != nil {
			t.Fatal(err)
		} else if ok {
			t.Fatal("expected not equivalent")
		}
	})

	t.Run("Value", func(t *testing.T) {
		c := z3.NewChecker(0)
		defer MustCloseChecker(c)

		nm := bvrw.NewManager()
		a := nm.Make(bvrw.ADD, nm.MakeValue(bvrw.NewBitVector(16, 1000)), nm.MakeValue(bvrw.NewBitVector(16, 200)))
		if ok, err := c.Equivalent(a, nm.MakeValue(bvrw.NewBitVector(16, 1200))); err != nil {
			t.Fatal(err)
		} else if !ok {
			t.Fatal("expected equivalent")
		}
	})

	t.Run("WideValue", func(t *testing.T) {
		c := z3.NewChecker(0)
		defer MustCloseChecker(c)

		nm := bvrw.NewManager()
		x := nm.MakeVariable(65, "x")
		a := nm.Make(bvrw.AND, x, nm.Ones(65))
		if ok, err := c.Equivalent(a, x); err != nil {
			t.Fatal(err)
		} else if !ok {
			t.Fatal("expected equivalent")
		}
	})

	t.Run("Predicate", func(t *testing.T) {
		c := z3.NewChecker(0)
		defer MustCloseChecker(c)

		nm := bvrw.NewManager()
		x := nm.MakeVariable(8, "x")
		if ok, err := c.Equivalent(nm.Make(bvrw.ULT, x, x), nm.False()); err != nil {
			t.Fatal(err)
		} else if !ok {
			t.Fatal("expected equivalent")
		}
	})

	t.Run("Ite", func(t *testing.T) {
		c := z3.NewChecker(0)
		defer MustCloseChecker(c)

		nm := bvrw.NewManager()
		x, y := nm.MakeVariable(8, "x"), nm.MakeVariable(8, "y")
		cond := nm.Make(bvrw.EQUAL, x, y)
		if ok, err := c.Equivalent(nm.Make(bvrw.ITE, cond, x, y), y); err != nil {
			t.Fatal(err)
		} else if !ok {
			t.Fatal("expected equivalent")
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		c := z3.NewChecker(0)
		defer MustCloseChecker(c)

		nm := bvrw.NewManager()
		x := nm.MakeVariable(8, "x")
		o := nm.Make(bvrw.UADDO, x, nm.One(8))
		if ok, err := c.Equivalent(o, nm.Make(bvrw.EQUAL, x, nm.Ones(8))); err != nil {
			t.Fatal(err)
		} else if !ok {
			t.Fatal("expected equivalent")
		}
	})

	t.Run("RedXor", func(t *testing.T) {
		c := z3.NewChecker(0)
		defer MustCloseChecker(c)

		nm := bvrw.NewManager()
		x := nm.MakeVariable(2, "x")
		a := nm.Make(bvrw.REDXOR, x)
		b := nm.Make(bvrw.XOR, nm.Extract(x, 1, 1), nm.Extract(x, 0, 0))
		if ok, err := c.Equivalent(a, b); err != nil {
			t.Fatal(err)
		} else if !ok {
			t.Fatal("expected equivalent")
		}
	})

	t.Run("WidthMismatch", func(t *testing.T) {
		c := z3.NewChecker(0)
		defer MustCloseChecker(c)

		nm := bvrw.NewManager()
		if _, err := c.Equivalent(nm.MakeVariable(8, "x"), nm.MakeVariable(16, "y")); err == nil {
			t.Fatal("expected error")
		}
	})
}

// Ensure rewriting preserves the meaning of every term kind.
func TestChecker_Rewrite(t *testing.T) {
	c := z3.NewChecker(0)
	defer MustCloseChecker(c)

	nm := bvrw.NewManager()
	rw := bvrw.NewRewriter(nm, bvrw.DefaultConfig())
	x, y := nm.MakeVariable(8, "x"), nm.MakeVariable(8, "y")

	for _, tt := range []struct {
		name string
		t    *bvrw.Term
	}{
		{"SubSelf", nm.Make(bvrw.SUB, x, x)},
		{"AddNot", nm.Make(bvrw.ADD, x, nm.Invert(x))},
		{"MulPow2", nm.Make(bvrw.MUL, x, nm.MakeValue(bvrw.NewBitVector(8, 8)))},
		{"URemPow2", nm.Make(bvrw.UREM, x, nm.MakeValue(bvrw.NewBitVector(8, 16)))},
		{"SDiv", nm.Make(bvrw.SDIV, x, y)},
		{"SMod", nm.Make(bvrw.SMOD, x, y)},
		{"SRem", nm.Make(bvrw.SREM, x, y)},
		{"Rol", nm.Make(bvrw.ROL, x, y)},
		{"Ror", nm.Make(bvrw.ROR, x, nm.MakeValue(bvrw.NewBitVector(8, 11)))},
		{"Sle", nm.Make(bvrw.SLE, x, y)},
		{"SMulO", nm.Make(bvrw.SMULO, x, y)},
		{"SSubO", nm.Make(bvrw.SSUBO, x, y)},
		{"SDivO", nm.Make(bvrw.SDIVO, x, y)},
		{"ExtractConcat", nm.Extract(nm.Concat(x, y), 11, 4)},
		{"SignExtend", nm.SignExtend(nm.Extract(x, 3, 0), 4)},
		{"RedOr", nm.Make(bvrw.REDOR, nm.Make(bvrw.OR, x, y))},
	} {
		t.Run(tt.name, func(t *testing.T) {
			u := rw.Rewrite(tt.t)
			if ok, err := c.Equivalent(tt.t, u); err != nil {
				t.Fatal(err)
			} else if !ok {
				t.Fatalf("not equivalent: %s -> %s", tt.t, u)
			}
		})
	}

	if n := c.Stats().CheckN; n == 0 {
		t.Fatalf("unexpected check count: %d", n)
	}
}

// Ensure randomly generated terms rewrite to equivalent terms.
func TestChecker_RewriteRandom(t *testing.T) {
	if testing.Short() {
		t.Skip("short")
	}

	c := z3.NewChecker(0)
	defer MustCloseChecker(c)

	nm := bvrw.NewManager()
	rw := bvrw.NewRewriter(nm, bvrw.DefaultConfig())
	vars := []*bvrw.Term{nm.MakeVariable(8, "a"), nm.MakeVariable(8, "b")}
	kinds := []bvrw.Kind{
		bvrw.ADD, bvrw.SUB, bvrw.MUL, bvrw.UDIV, bvrw.UREM,
		bvrw.AND, bvrw.OR, bvrw.XOR, bvrw.SHL, bvrw.SHR, bvrw.ASHR,
	}

	rng := rand.New(rand.NewSource(0))
	var gen func(depth int) *bvrw.Term
	gen = func(depth int) *bvrw.Term {
		if depth == 0 || rng.Intn(4) == 0 {
			if rng.Intn(3) == 0 {
				return nm.MakeValue(bvrw.NewBitVector(8, uint64(rng.Intn(256))))
			}
			return vars[rng.Intn(len(vars))]
		}
		return nm.Make(kinds[rng.Intn(len(kinds))], gen(depth-1), gen(depth-1))
	}

	for i := 0; i < 100; i++ {
		a := gen(4)
		u := rw.Rewrite(a)
		if ok, err := c.Equivalent(a, u); err != nil {
			t.Fatal(err)
		} else if !ok {
			t.Fatalf("not equivalent: %s -> %s", a, u)
		}
	}
}

func MustCloseChecker(c *z3.Checker) {
	if err := c.Close(); err != nil {
		panic(err)
	}
}
