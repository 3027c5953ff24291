package bvrw

// ruleAndSpecialConst rewrites a & 0 to 0 and a & ones to a.
func ruleAndSpecialConst(nm *Manager, t *Term) (*Term, bool) {
	for i := 0; i < 2; i++ {
		switch c := t.children[i]; {
		case isZero(c):
			return c, true
		case isOnes(c):
			return t.children[1-i], true
		}
	}
	return t, false
}

// ruleAndIdem1 rewrites a & a to a.
func ruleAndIdem1(nm *Manager, t *Term) (*Term, bool) {
	if t.children[0] != t.children[1] {
		return t, false
	}
	return t.children[0], true
}

// ruleAndContra1 rewrites a & ~a to 0.
func ruleAndContra1(nm *Manager, t *Term) (*Term, bool) {
	if !isInvertedOf(t.children[0], t.children[1]) {
		return t, false
	}
	return nm.Zero(t.width), true
}

// ruleAndConst rewrites c1 & (c2 & a) to (c1 & c2) & a.
func ruleAndConst(nm *Manager, t *Term) (*Term, bool) {
	for i := 0; i < 2; i++ {
		c1, other := t.children[i], t.children[1-i]
		if !c1.IsValue() || other.kind != AND {
			continue
		}
		if c2, a, ok := valueOperand(other); ok {
			return nm.Make(AND, nm.MakeValue(c1.value.And(c2)), a), true
		}
	}
	return t, false
}

// ruleAndIdem2 rewrites (a & b) & (a & c) to (a & b) & c.
func ruleAndIdem2(nm *Manager, t *Term) (*Term, bool) {
	l, r := t.children[0], t.children[1]
	if l.kind != AND || r.kind != AND {
		return t, false
	}
	for j := 0; j < 2; j++ {
		if isAndOf(l, r.children[j]) {
			return nm.Make(AND, l, r.children[1-j]), true
		}
	}
	return t, false
}

// ruleAndIdem3 rewrites a & (a & b) to a & b.
func ruleAndIdem3(nm *Manager, t *Term) (*Term, bool) {
	for i := 0; i < 2; i++ {
		if a, other := t.children[i], t.children[1-i]; isAndOf(other, a) {
			return other, true
		}
	}
	return t, false
}

// ruleAndContra2 rewrites (a & b) & (~a & c) to 0.
func ruleAndContra2(nm *Manager, t *Term) (*Term, bool) {
	l, r := t.children[0], t.children[1]
	if l.kind != AND || r.kind != AND {
		return t, false
	}
	for _, x := range l.children {
		for _, y := range r.children {
			if isInvertedOf(x, y) {
				return nm.Zero(t.width), true
			}
		}
	}
	return t, false
}

// ruleAndContra3 rewrites a & (~a & b) to 0.
func ruleAndContra3(nm *Manager, t *Term) (*Term, bool) {
	for i := 0; i < 2; i++ {
		a, other := t.children[i], t.children[1-i]
		if other.kind != AND {
			continue
		}
		for _, x := range other.children {
			if isInvertedOf(a, x) {
				return nm.Zero(t.width), true
			}
		}
	}
	return t, false
}

// ruleAndSubsum1 rewrites (a & b) & ~(~a & c) to a & b.
func ruleAndSubsum1(nm *Manager, t *Term) (*Term, bool) {
	for i := 0; i < 2; i++ {
		l, r := t.children[i], t.children[1-i]
		if l.kind != AND {
			continue
		}
		x, ok := isNot(r)
		if !ok || x.kind != AND {
			continue
		}
		for _, a := range l.children {
			for _, y := range x.children {
				if isInvertedOf(a, y) {
					return l, true
				}
			}
		}
	}
	return t, false
}

// ruleAndSubsum2 rewrites a & ~(~a & b) to a.
func ruleAndSubsum2(nm *Manager, t *Term) (*Term, bool) {
	for i := 0; i < 2; i++ {
		a, r := t.children[i], t.children[1-i]
		x, ok := isNot(r)
		if !ok || x.kind != AND {
			continue
		}
		for _, y := range x.children {
			if isInvertedOf(a, y) {
				return a, true
			}
		}
	}
	return t, false
}

// ruleAndNotAnd1 rewrites (a & b) & ~(a & c) to (a & b) & ~c.
func ruleAndNotAnd1(nm *Manager, t *Term) (*Term, bool) {
	for i := 0; i < 2; i++ {
		l, r := t.children[i], t.children[1-i]
		if l.kind != AND {
			continue
		}
		x, ok := isNot(r)
		if !ok || x.kind != AND {
			continue
		}
		for j := 0; j < 2; j++ {
			if isAndOf(l, x.children[j]) {
				return nm.Make(AND, l, nm.Invert(x.children[1-j])), true
			}
		}
	}
	return t, false
}

// ruleAndNotAnd2 rewrites a & ~(a & b) to a & ~b.
func ruleAndNotAnd2(nm *Manager, t *Term) (*Term, bool) {
	for i := 0; i < 2; i++ {
		a, r := t.children[i], t.children[1-i]
		x, ok := isNot(r)
		if !ok || x.kind != AND {
			continue
		}
		for j := 0; j < 2; j++ {
			if x.children[j] == a {
				return nm.Make(AND, a, nm.Invert(x.children[1-j])), true
			}
		}
	}
	return t, false
}

// ruleAndResol1 rewrites ~(a & b) & ~(a & ~b) to ~a.
func ruleAndResol1(nm *Manager, t *Term) (*Term, bool) {
	x, ok := isNot(t.children[0])
	if !ok || x.kind != AND {
		return t, false
	}
	y, ok := isNot(t.children[1])
	if !ok || y.kind != AND {
		return t, false
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if x.children[i] == y.children[j] && isInvertedOf(x.children[1-i], y.children[1-j]) {
				return nm.Invert(x.children[i]), true
			}
		}
	}
	return t, false
}

// half is one side of a concatenation, possibly complemented.
type half struct {
	t        *Term
	inverted bool
}

// isSpecial returns true if the half is a zero or ones value.
func (h half) isSpecial() bool { return isZero(h.t) || isOnes(h.t) }

func (h half) term(nm *Manager) *Term {
	if h.inverted {
		return nm.Invert(h.t)
	}
	return h.t
}

// concatHalves returns the halves of a concatenation or a complemented
// concatenation.
func concatHalves(t *Term) (hi, lo half, ok bool) {
	var inverted bool
	if x, ok := isNot(t); ok {
		t, inverted = x, true
	}
	if t.kind != CONCAT {
		return half{}, half{}, false
	}
	return half{t.children[0], inverted}, half{t.children[1], inverted}, true
}

// ruleAndConcat rewrites (a :: b) & (c :: d) to (a & c) :: (b & d) if each
// pair of halves contains a zero or ones value.
func ruleAndConcat(nm *Manager, t *Term) (*Term, bool) {
	ahi, alo, ok := concatHalves(t.children[0])
	if !ok {
		return t, false
	}
	bhi, blo, ok := concatHalves(t.children[1])
	if !ok || alo.t.width != blo.t.width {
		return t, false
	} else if !ahi.isSpecial() && !bhi.isSpecial() {
		return t, false
	} else if !alo.isSpecial() && !blo.isSpecial() {
		return t, false
	}
	return nm.Concat(
		nm.Make(AND, ahi.term(nm), bhi.term(nm)),
		nm.Make(AND, alo.term(nm), blo.term(nm)),
	), true
}

// ruleNotNot rewrites ~~a to a.
func ruleNotNot(nm *Manager, t *Term) (*Term, bool) {
	if x, ok := isNot(t.children[0]); ok {
		return x, true
	}
	return t, false
}

// ruleNotNeg rewrites ~(-a) to a - 1.
func ruleNotNeg(nm *Manager, t *Term) (*Term, bool) {
	if x, ok := isNeg(t.children[0]); ok {
		return nm.Make(ADD, x, nm.Ones(t.width)), true
	}
	return t, false
}

// ruleNotConcat pushes a complement into a concatenation with a value half.
func ruleNotConcat(nm *Manager, t *Term) (*Term, bool) {
	x := t.children[0]
	if x.kind != CONCAT || (!x.children[0].IsValue() && !x.children[1].IsValue()) {
		return t, false
	}
	return nm.Concat(nm.Invert(x.children[0]), nm.Invert(x.children[1])), true
}

// ruleXorSame rewrites a ^ a to 0.
func ruleXorSame(nm *Manager, t *Term) (*Term, bool) {
	if t.children[0] != t.children[1] {
		return t, false
	}
	return nm.Zero(t.width), true
}

// ruleXorSpecialConst rewrites a ^ 0 to a and a ^ ones to ~a.
func ruleXorSpecialConst(nm *Manager, t *Term) (*Term, bool) {
	for i := 0; i < 2; i++ {
		switch c := t.children[i]; {
		case isZero(c):
			return t.children[1-i], true
		case isOnes(c):
			return nm.Invert(t.children[1-i]), true
		}
	}
	return t, false
}

// ruleEqualSpecialConst rewrites 1-bit equalities with a value operand.
func ruleEqualSpecialConst(nm *Manager, t *Term) (*Term, bool) {
	if t.children[0].width != WidthBool {
		return t, false
	}
	for i := 0; i < 2; i++ {
		switch c := t.children[i]; {
		case isOne(c):
			return t.children[1-i], true
		case isZero(c):
			return nm.Invert(t.children[1-i]), true
		}
	}
	return t, false
}

// ruleEqualSame rewrites a = a to true.
func ruleEqualSame(nm *Manager, t *Term) (*Term, bool) {
	if t.children[0] != t.children[1] {
		return t, false
	}
	return nm.True(), true
}

// ruleEqualInv rewrites equalities over complements.
func ruleEqualInv(nm *Manager, t *Term) (*Term, bool) {
	a, b := t.children[0], t.children[1]
	if isInvertedOf(a, b) {
		return nm.False(), true
	}

	x, xok := isNot(a)
	y, yok := isNot(b)
	switch {
	case xok && yok:
		return nm.Make(EQUAL, x, y), true
	case xok && b.IsValue():
		return nm.Make(EQUAL, x, nm.MakeValue(b.value.Not())), true
	case yok && a.IsValue():
		return nm.Make(EQUAL, nm.MakeValue(a.value.Not()), y), true
	}
	return t, false
}

// ruleEqualConstAdd rewrites c1 = c2 + a to (c1 - c2) = a.
func ruleEqualConstAdd(nm *Manager, t *Term) (*Term, bool) {
	for i := 0; i < 2; i++ {
		c1, other := t.children[i], t.children[1-i]
		if !c1.IsValue() || other.kind != ADD {
			continue
		}
		if c2, a, ok := valueOperand(other); ok {
			return nm.Make(EQUAL, nm.MakeValue(c1.value.Sub(c2)), a), true
		}
	}
	return t, false
}

// ruleIteConst selects a branch of an if-then-else with a value condition.
func ruleIteConst(nm *Manager, t *Term) (*Term, bool) {
	c := t.children[0]
	if !c.IsValue() {
		return t, false
	} else if c.value.IsOne() {
		return t.children[1], true
	}
	return t.children[2], true
}

// ruleIteSame rewrites an if-then-else with equal branches to the branch.
func ruleIteSame(nm *Manager, t *Term) (*Term, bool) {
	if t.children[1] != t.children[2] {
		return t, false
	}
	return t.children[1], true
}

// ruleIteNotCond removes a complemented condition by swapping the branches.
func ruleIteNotCond(nm *Manager, t *Term) (*Term, bool) {
	c, ok := isNot(t.children[0])
	if !ok {
		return t, false
	}
	return nm.Make(ITE, c, t.children[2], t.children[1]), true
}

// ruleIteBool rewrites ite(c, 1, 0) to c and ite(c, 0, 1) to ~c.
func ruleIteBool(nm *Manager, t *Term) (*Term, bool) {
	if t.width != WidthBool {
		return t, false
	}
	c, a, b := t.children[0], t.children[1], t.children[2]
	switch {
	case isOne(a) && isZero(b):
		return c, true
	case isZero(a) && isOne(b):
		return nm.Invert(c), true
	}
	return t, false
}
