package bvrw_test

import (
	"strconv"
	"sync"
	"testing"

	"github.com/benbjohnson/bvrw"
	"github.com/google/go-cmp/cmp"
)

func TestManager_MakeTerm(t *testing.T) {
	t.Run("Interned", func(t *testing.T) {
		nm := bvrw.NewManager()
		x, y := nm.MakeVariable(8, "x"), nm.MakeVariable(8, "y")
		if a, b := nm.Make(bvrw.ADD, x, y), nm.Make(bvrw.ADD, x, y); a != b {
			t.Fatal("expected same term")
		} else if c := nm.Make(bvrw.ADD, y, x); a == c {
			t.Fatal("expected operand order to be significant")
		}
	})

	t.Run("Indices", func(t *testing.T) {
		nm := bvrw.NewManager()
		x := nm.MakeVariable(8, "x")
		if a, b := nm.Extract(x, 3, 0), nm.Extract(x, 3, 0); a != b {
			t.Fatal("expected same term")
		} else if c := nm.Extract(x, 4, 0); a == c {
			t.Fatal("expected distinct terms")
		} else if got, want := c.Width(), uint(5); got != want {
			t.Fatalf("unexpected width: %d", got)
		}
	})

	t.Run("Values", func(t *testing.T) {
		nm := bvrw.NewManager()
		if a, b := nm.MakeValue(bvrw.NewBitVector(8, 3)), nm.MakeValue(bvrw.NewBitVector(8, 3)); a != b {
			t.Fatal("expected same value term")
		} else if c := nm.MakeValue(bvrw.NewBitVector(16, 3)); a == c {
			t.Fatal("expected width to be significant")
		} else if nm.Zero(8) == nm.Zero(9) {
			t.Fatal("expected distinct zeros")
		}
	})

	t.Run("Variables", func(t *testing.T) {
		nm := bvrw.NewManager()
		if x, y := nm.MakeVariable(8, "x"), nm.MakeVariable(8, "x"); x == y {
			t.Fatal("expected fresh variables")
		}
	})

	t.Run("Widths", func(t *testing.T) {
		nm := bvrw.NewManager()
		x, y := nm.MakeVariable(8, "x"), nm.MakeVariable(4, "y")
		c := nm.MakeVariable(1, "c")
		for _, tt := range []struct {
			t     *bvrw.Term
			width uint
		}{
			{nm.Make(bvrw.ULT, x, x), 1},
			{nm.Make(bvrw.EQUAL, y, y), 1},
			{nm.Make(bvrw.REDXOR, x), 1},
			{nm.Concat(x, y), 12},
			{nm.ZeroExtend(y, 4), 8},
			{nm.SignExtend(y, 0), 4},
			{nm.MakeTerm(bvrw.REPEAT, []*bvrw.Term{y}, []uint{3}), 12},
			{nm.MakeTerm(bvrw.ROLI, []*bvrw.Term{x}, []uint{11}), 8},
			{nm.Make(bvrw.ITE, c, y, y), 4},
		} {
			if got := tt.t.Width(); got != tt.width {
				t.Fatalf("%s: unexpected width: %d", tt.t, got)
			}
		}
	})

	t.Run("ErrWidthMismatch", func(t *testing.T) {
		nm := bvrw.NewManager()
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic")
			}
		}()
		nm.Make(bvrw.ADD, nm.MakeVariable(8, "x"), nm.MakeVariable(4, "y"))
	})

	t.Run("ErrIteCondition", func(t *testing.T) {
		nm := bvrw.NewManager()
		x := nm.MakeVariable(8, "x")
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic")
			}
		}()
		nm.Make(bvrw.ITE, x, x, x)
	})

	t.Run("ErrExtractBounds", func(t *testing.T) {
		nm := bvrw.NewManager()
		x := nm.MakeVariable(8, "x")
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic")
			}
		}()
		nm.Extract(x, 8, 0)
	})

	t.Run("ErrArity", func(t *testing.T) {
		nm := bvrw.NewManager()
		x := nm.MakeVariable(8, "x")
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic")
			}
		}()
		nm.Make(bvrw.NOT, x, x)
	})

	t.Run("ErrMaxWidth", func(t *testing.T) {
		for _, fn := range []func(nm *bvrw.Manager, x *bvrw.Term){
			func(nm *bvrw.Manager, x *bvrw.Term) { nm.MakeTerm(bvrw.REPEAT, []*bvrw.Term{x}, []uint{^uint(0) >> 2}) },
			func(nm *bvrw.Manager, x *bvrw.Term) { nm.ZeroExtend(x, ^uint(0)) },
			func(nm *bvrw.Manager, x *bvrw.Term) { nm.SignExtend(x, ^uint(0)-2) },
			func(nm *bvrw.Manager, x *bvrw.Term) { nm.ZeroExtend(x, bvrw.MaxWidth-3) },
			func(nm *bvrw.Manager, x *bvrw.Term) { nm.MakeVariable(bvrw.MaxWidth+1, "y") },
		} {
			func() {
				nm := bvrw.NewManager()
				x := nm.MakeVariable(4, "x")
				defer func() {
					if r := recover(); r == nil {
						t.Fatal("expected panic")
					}
				}()
				fn(nm, x)
			}()
		}
	})

	t.Run("Concurrent", func(t *testing.T) {
		nm := bvrw.NewManager()
		x := nm.MakeVariable(8, "x")

		results := make([]*bvrw.Term, 8)
		var wg sync.WaitGroup
		for i := range results {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = nm.Make(bvrw.MUL, nm.Make(bvrw.ADD, x, nm.One(8)), x)
			}()
		}
		wg.Wait()

		for _, u := range results[1:] {
			if u != results[0] {
				t.Fatal("expected same term")
			}
		}
	})
}

func TestTerm_String(t *testing.T) {
	nm := bvrw.NewManager()
	x, y := nm.MakeVariable(4, "x"), nm.MakeVariable(4, "")
	for _, tt := range []struct {
		t    *bvrw.Term
		want string
	}{
		{x, "x"},
		{nm.MakeValue(bvrw.NewBitVector(4, 5)), "#b0101"},
		{nm.Make(bvrw.ADD, x, nm.One(4)), "(bvadd x #b0001)"},
		{nm.Extract(x, 2, 1), "((_ extract 2 1) x)"},
		{nm.Make(bvrw.EQUAL, x, x), "(= x x)"},
		{y, "v" + strconv.FormatUint(y.ID(), 10)},
	} {
		if got := tt.t.String(); got != tt.want {
			t.Fatalf("unexpected string: %s", got)
		}
	}
}

func TestFreeVariables(t *testing.T) {
	nm := bvrw.NewManager()
	x, y, z := nm.MakeVariable(4, "x"), nm.MakeVariable(4, "y"), nm.MakeVariable(4, "z")
	a := nm.Make(bvrw.ADD, nm.Make(bvrw.MUL, z, x), nm.Make(bvrw.AND, x, nm.One(4)))
	if diff := cmp.Diff([]*bvrw.Term{x, z}, bvrw.FreeVariables(a), termComparer); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff([]*bvrw.Term{x, y, z}, bvrw.FreeVariables(a, y), termComparer); diff != "" {
		t.Fatal(diff)
	}
}

func TestSize(t *testing.T) {
	nm := bvrw.NewManager()
	x := nm.MakeVariable(4, "x")
	s := nm.Make(bvrw.ADD, x, x)
	if got, want := bvrw.Size(nm.Make(bvrw.MUL, s, s)), 3; got != want {
		t.Fatalf("unexpected size: %d", got)
	}
}

func TestContainsKind(t *testing.T) {
	nm := bvrw.NewManager()
	x := nm.MakeVariable(4, "x")
	a := nm.Make(bvrw.ADD, x, nm.Make(bvrw.NEG, x))
	if !bvrw.ContainsKind(a, bvrw.NEG) {
		t.Fatal("expected NEG")
	} else if bvrw.ContainsKind(a, bvrw.SUB, bvrw.MUL) {
		t.Fatal("unexpected kind")
	}
}

func TestCompareTerm(t *testing.T) {
	nm := bvrw.NewManager()
	x := nm.MakeVariable(4, "x")
	one, two := nm.One(4), nm.MakeValue(bvrw.NewBitVector(4, 2))
	if bvrw.CompareTerm(one, x) >= 0 {
		t.Fatal("expected values to sort first")
	} else if bvrw.CompareTerm(one, two) >= 0 {
		t.Fatal("expected values to sort by value")
	} else if bvrw.CompareTerm(x, x) != 0 {
		t.Fatal("expected equal")
	}
}

func TestKind(t *testing.T) {
	for _, kind := range bvrw.Kinds() {
		if other, ok := bvrw.ParseKind(kind.String()); !ok || other != kind {
			t.Fatalf("cannot parse kind: %s", kind)
		}
	}
	if bvrw.ADD.Arity() != 2 || !bvrw.ADD.IsCommutative() || !bvrw.ADD.IsCore() {
		t.Fatal("unexpected ADD signature")
	} else if bvrw.SUB.IsCore() || bvrw.SUB.IsCommutative() {
		t.Fatal("unexpected SUB signature")
	} else if !bvrw.EXTRACT.IsIndexed() || bvrw.EXTRACT.NumIndices() != 2 {
		t.Fatal("unexpected EXTRACT signature")
	} else if !bvrw.SLE.IsPredicate() {
		t.Fatal("expected SLE to be a predicate")
	}
}
