package bvrw

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Term represents an immutable node in a hash-consed expression DAG.
// Terms are created by a Manager and compared by identity.
type Term struct {
	id       uint64
	kind     Kind
	width    uint
	children []*Term
	indices  []uint
	value    BitVector // VALUE only
	symbol   string    // VARIABLE only
	hash     uint64
}

// ID returns the identifier of the term, unique within its manager.
func (t *Term) ID() uint64 { return t.id }

// Kind returns the operator kind of the term.
func (t *Term) Kind() Kind { return t.kind }

// Width returns the bit width of the term.
func (t *Term) Width() uint { return t.width }

// IsBool returns true if the term has width 1.
func (t *Term) IsBool() bool { return t.width == WidthBool }

// Children returns the child terms. The slice must not be modified.
func (t *Term) Children() []*Term { return t.children }

// NumChildren returns the number of child terms.
func (t *Term) NumChildren() int { return len(t.children) }

// Child returns the child term at index i.
func (t *Term) Child(i int) *Term { return t.children[i] }

// Indices returns the static indices. The slice must not be modified.
func (t *Term) Indices() []uint { return t.indices }

// Index returns the static index at position i.
func (t *Term) Index(i int) uint { return t.indices[i] }

// IsValue returns true if the term is a constant value.
func (t *Term) IsValue() bool { return t.kind == VALUE }

// IsVariable returns true if the term is a free variable.
func (t *Term) IsVariable() bool { return t.kind == VARIABLE }

// Value returns the constant of a VALUE term.
func (t *Term) Value() BitVector {
	assert(t.kind == VALUE, "value: not a value term: %s", t.kind)
	return t.value
}

// Symbol returns the name of a VARIABLE term.
func (t *Term) Symbol() string {
	if t.symbol == "" {
		return fmt.Sprintf("v%d", t.id)
	}
	return t.symbol
}

// String returns the SMT-LIB representation of the term.
func (t *Term) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t *Term) write(sb *strings.Builder) {
	switch t.kind {
	case VALUE:
		sb.WriteString(t.value.String())
		return
	case VARIABLE:
		sb.WriteString(t.Symbol())
		return
	}

	sb.WriteByte('(')
	if len(t.indices) > 0 {
		sb.WriteString("(_ ")
		sb.WriteString(t.kind.String())
		for _, idx := range t.indices {
			fmt.Fprintf(sb, " %d", idx)
		}
		sb.WriteByte(')')
	} else {
		sb.WriteString(t.kind.String())
	}
	for _, child := range t.children {
		sb.WriteByte(' ')
		child.write(sb)
	}
	sb.WriteByte(')')
}

// CompareTerm returns an integer comparing two terms.
// Values sort before all other terms and are ordered by width and value.
// All other terms are ordered by ID. The result will be 0 if a==b.
func CompareTerm(a, b *Term) int {
	if a == b {
		return 0
	} else if a.IsValue() && !b.IsValue() {
		return -1
	} else if !a.IsValue() && b.IsValue() {
		return 1
	} else if a.IsValue() && b.IsValue() {
		if cmp := a.value.Compare(b.value); cmp != 0 {
			return cmp
		}
	}

	if a.id < b.id {
		return -1
	} else if a.id > b.id {
		return 1
	}
	return 0
}

// Walk visits every distinct term reachable from t in pre-order.
// If fn returns false then the children of that term are not visited.
func Walk(t *Term, fn func(*Term) bool) {
	seen := make(map[*Term]struct{})
	stack := []*Term{t}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[cur]; ok {
			continue
		}
		seen[cur] = struct{}{}

		if !fn(cur) {
			continue
		}
		for i := len(cur.children) - 1; i >= 0; i-- {
			stack = append(stack, cur.children[i])
		}
	}
}

// FreeVariables returns the distinct variables of the given terms sorted by ID.
func FreeVariables(terms ...*Term) []*Term {
	m := make(map[*Term]struct{})
	for _, t := range terms {
		Walk(t, func(t *Term) bool {
			if t.IsVariable() {
				m[t] = struct{}{}
			}
			return true
		})
	}

	a := make([]*Term, 0, len(m))
	for v := range m {
		a = append(a, v)
	}
	slices.SortFunc(a, func(x, y *Term) bool { return CompareTerm(x, y) < 0 })
	return a
}

// Size returns the number of distinct terms reachable from t, including t.
func Size(t *Term) int {
	var n int
	Walk(t, func(*Term) bool { n++; return true })
	return n
}

// ContainsKind returns true if any term reachable from t has one of the given kinds.
func ContainsKind(t *Term, kinds ...Kind) bool {
	var found bool
	Walk(t, func(t *Term) bool {
		for _, k := range kinds {
			if t.kind == k {
				found = true
			}
		}
		return !found
	})
	return found
}
