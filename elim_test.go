package bvrw_test

import (
	"fmt"
	"testing"

	"github.com/benbjohnson/bvrw"
)

// Ensure every derived kind is rewritten into an equivalent core term.
func TestRewriter_Eliminate(t *testing.T) {
	for _, kind := range bvrw.Kinds() {
		if kind.IsCore() {
			continue
		}

		for _, width := range []uint{1, 2, 3, 4, 8, 64, 65} {
			t.Run(fmt.Sprintf("%s/%d", kind, width), func(t *testing.T) {
				nm := bvrw.NewManager()
				x, y := nm.MakeVariable(width, "x"), nm.MakeVariable(width, "y")

				var terms []*bvrw.Term
				switch {
				case kind.IsIndexed():
					for _, n := range Amounts(width) {
						if kind == bvrw.REPEAT && n == 0 {
							continue
						}
						terms = append(terms, nm.MakeTerm(kind, []*bvrw.Term{x}, []uint{n}))
					}
				case kind.Arity() == 1:
					terms = append(terms, nm.Make(kind, x))
				default:
					terms = append(terms,
						nm.Make(kind, x, y),
						nm.Make(kind, x, nm.MinSigned(width)),
						nm.Make(kind, nm.Ones(width), y),
					)
				}

				for _, level := range []int{bvrw.LevelSimple, bvrw.LevelFull} {
					config := bvrw.DefaultConfig()
					config.Level = level
					rw := bvrw.NewRewriter(nm, config)

					for _, a := range terms {
						u := rw.Rewrite(a)
						bvrw.Walk(u, func(u *bvrw.Term) bool {
							if !u.Kind().IsCore() {
								t.Fatalf("%s: unexpected kind: %s", a, u.Kind())
							}
							return true
						})
						MustEquivalent(t, a, u)
					}
				}
			})
		}
	}
}

// Ensure a disabled elimination leaves the derived kind in place.
func TestRewriter_Eliminate_Disabled(t *testing.T) {
	nm := bvrw.NewManager()
	config := bvrw.DefaultConfig()
	config.Disabled = []string{"sub_elim"}
	rw := bvrw.NewRewriter(nm, config)

	x, y := nm.MakeVariable(8, "x"), nm.MakeVariable(8, "y")
	if a := nm.Make(bvrw.SUB, x, y); rw.Rewrite(a) != a {
		t.Fatal("expected sub to remain")
	} else if got := rw.Rewrite(nm.Make(bvrw.SUB, nm.One(8), nm.One(8))); got != nm.Zero(8) {
		t.Fatalf("unexpected result: %s", got)
	}
}
