package bvrw

import (
	"fmt"
	"strings"
	"testing"

	"github.com/benbjohnson/immutable"
)

// Ensure the driver detects a rule set that rewrites a term back into itself.
func TestPass_Cycle(t *testing.T) {
	nm := NewManager()
	x, y := nm.MakeVariable(8, "x"), nm.MakeVariable(8, "y")

	// Swaps operands unconditionally.
	swap := func(nm *Manager, t *Term) (*Term, RuleID, bool) {
		if t.kind != ADD {
			return t, 0, false
		}
		return nm.Make(ADD, t.children[1], t.children[0]), ADD_NORM, true
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		} else if msg := fmt.Sprint(r); !strings.Contains(msg, "rewrite cycle") {
			t.Fatalf("unexpected panic: %s", msg)
		}
	}()
	newPass(nm, immutable.NewMap[*Term, *Term](&termHasher{}), swap).run(nm.Make(ADD, x, y))
}

func TestPass_Counts(t *testing.T) {
	nm := NewManager()
	x := nm.MakeVariable(8, "x")

	p := newPass(nm, immutable.NewMap[*Term, *Term](&termHasher{}), evalOnly)
	a := nm.Make(ADD, nm.Make(MUL, nm.One(8), nm.One(8)), nm.Make(NOT, nm.Zero(8)))
	if got := p.run(a); got != nm.Zero(8) {
		t.Fatalf("unexpected result: %s", got)
	} else if n := p.counts[EVAL]; n != 3 {
		t.Fatalf("unexpected count: %d", n)
	} else if p.applied != 3 {
		t.Fatalf("unexpected applied: %d", p.applied)
	}

	// Subterms without values are left in place.
	if b := nm.Make(ADD, x, nm.One(8)); p.run(b) != b {
		t.Fatal("expected term to be unchanged")
	}
}

func TestTermHasher(t *testing.T) {
	nm := NewManager()
	x, y := nm.MakeVariable(8, "x"), nm.MakeVariable(8, "y")

	var h termHasher
	if !h.Equal(x, x) || h.Equal(x, y) {
		t.Fatal("unexpected equality")
	}

	m := immutable.NewMap[*Term, *Term](&h)
	m = m.Set(x, y)
	if v, ok := m.Get(x); !ok || v != y {
		t.Fatal("expected mapping")
	} else if _, ok := m.Get(y); ok {
		t.Fatal("unexpected mapping")
	}
}
