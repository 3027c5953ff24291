package bvrw

import (
	"github.com/davecgh/go-spew/spew"
)

// dumpConfig prints stable output without pointer addresses.
var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
	SortKeys:                true,
}

// node is the flattened form of a term used by Dump.
type node struct {
	ID       uint64
	Kind     string
	Width    uint
	Children []uint64
	Indices  []uint
	Value    string
	Symbol   string
}

// Dump returns a readable listing of every distinct term reachable from t,
// children before parents.
func Dump(t *Term) string {
	var nodes []node
	seen := make(map[*Term]struct{})

	type frame struct {
		t        *Term
		expanded bool
	}
	stack := []frame{{t: t}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !f.expanded {
			if _, ok := seen[f.t]; ok {
				continue
			}
			seen[f.t] = struct{}{}
			stack = append(stack, frame{t: f.t, expanded: true})
			for i := len(f.t.children) - 1; i >= 0; i-- {
				if _, ok := seen[f.t.children[i]]; !ok {
					stack = append(stack, frame{t: f.t.children[i]})
				}
			}
			continue
		}

		n := node{ID: f.t.id, Kind: f.t.kind.String(), Width: f.t.width, Indices: f.t.indices}
		for _, child := range f.t.children {
			n.Children = append(n.Children, child.id)
		}
		switch f.t.kind {
		case VALUE:
			n.Value = f.t.value.String()
		case VARIABLE:
			n.Symbol = f.t.Symbol()
		}
		nodes = append(nodes, n)
	}

	return dumpConfig.Sdump(nodes)
}
