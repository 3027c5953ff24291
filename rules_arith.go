package bvrw

// ruleAddSpecialConst rewrites a + 0 to a.
func ruleAddSpecialConst(nm *Manager, t *Term) (*Term, bool) {
	for i := 0; i < 2; i++ {
		if isZero(t.children[i]) {
			return t.children[1-i], true
		}
	}
	return t, false
}

// ruleAddBV1 rewrites 1-bit addition to xor.
func ruleAddBV1(nm *Manager, t *Term) (*Term, bool) {
	if t.width != WidthBool {
		return t, false
	}
	return nm.Make(XOR, t.children[0], t.children[1]), true
}

// ruleAddSame rewrites a + a to a << 1.
func ruleAddSame(nm *Manager, t *Term) (*Term, bool) {
	if t.children[0] != t.children[1] {
		return t, false
	}
	return nm.Make(SHL, t.children[0], nm.One(t.width)), true
}

// ruleAddNot rewrites a + ~a to ones.
func ruleAddNot(nm *Manager, t *Term) (*Term, bool) {
	if !isInvertedOf(t.children[0], t.children[1]) {
		return t, false
	}
	return nm.Ones(t.width), true
}

// ruleAddNeg rewrites a + -a to zero.
func ruleAddNeg(nm *Manager, t *Term) (*Term, bool) {
	for i := 0; i < 2; i++ {
		if x, ok := isNeg(t.children[1-i]); ok && x == t.children[i] {
			return nm.Zero(t.width), true
		}
	}
	return t, false
}

// ruleAddConst rewrites c1 + (c2 + a) to (c1 + c2) + a.
func ruleAddConst(nm *Manager, t *Term) (*Term, bool) {
	for i := 0; i < 2; i++ {
		c1, other := t.children[i], t.children[1-i]
		if !c1.IsValue() || other.kind != ADD {
			continue
		}
		if c2, a, ok := valueOperand(other); ok {
			return nm.Make(ADD, nm.MakeValue(c1.value.Add(c2)), a), true
		}
	}
	return t, false
}

// ruleAddURem rewrites a - (a udiv b) * b to a urem b. The negation may be
// applied to the product or to either factor.
func ruleAddURem(nm *Manager, t *Term) (*Term, bool) {
	// isQuotient returns the divisor if q is a udiv b.
	isQuotient := func(q, a *Term) (*Term, bool) {
		if q.kind == UDIV && q.children[0] == a {
			return q.children[1], true
		}
		return nil, false
	}

	for i := 0; i < 2; i++ {
		a, other := t.children[i], t.children[1-i]

		// a + -((a udiv b) * b)
		if m, ok := isNeg(other); ok && m.kind == MUL {
			for j := 0; j < 2; j++ {
				if b, ok := isQuotient(m.children[j], a); ok && b == m.children[1-j] {
					return nm.Make(UREM, a, b), true
				}
			}
		}

		// a + (-(a udiv b)) * b or a + (a udiv b) * -b
		if other.kind == MUL {
			for j := 0; j < 2; j++ {
				p, q := other.children[j], other.children[1-j]
				if x, ok := isNeg(p); ok {
					if b, ok := isQuotient(x, a); ok && b == q {
						return nm.Make(UREM, a, b), true
					}
				}
				if b, ok := isQuotient(p, a); ok {
					if y, ok := isNeg(q); ok && y == b {
						return nm.Make(UREM, a, b), true
					}
				}
			}
		}
	}
	return t, false
}

// ruleAddNegMul rewrites ~(a + a * b) + 1 to a * ~b.
func ruleAddNegMul(nm *Manager, t *Term) (*Term, bool) {
	x, ok := isNeg(t)
	if !ok || x.kind != ADD {
		return t, false
	}
	for i := 0; i < 2; i++ {
		a, m := x.children[i], x.children[1-i]
		if m.kind != MUL {
			continue
		}
		for j := 0; j < 2; j++ {
			if m.children[j] == a {
				return nm.Make(MUL, a, nm.Invert(m.children[1-j])), true
			}
		}
	}
	return t, false
}

// ruleAddIte2 distributes an addition over an if-then-else with a zero branch.
func ruleAddIte2(nm *Manager, t *Term) (*Term, bool) {
	for i := 0; i < 2; i++ {
		a, ite := t.children[i], t.children[1-i]
		if ite.kind != ITE || (!isZero(ite.children[1]) && !isZero(ite.children[2])) {
			continue
		}
		return nm.Make(ITE, ite.children[0],
			nm.Make(ADD, a, ite.children[1]),
			nm.Make(ADD, a, ite.children[2]),
		), true
	}
	return t, false
}

// ruleMulSpecialConst rewrites multiplication by zero, one and ones.
func ruleMulSpecialConst(nm *Manager, t *Term) (*Term, bool) {
	for i := 0; i < 2; i++ {
		c, other := t.children[i], t.children[1-i]
		switch {
		case isZero(c):
			return c, true
		case isOne(c):
			return other, true
		case isOnes(c):
			return nm.Make(NEG, other), true
		}
	}
	return t, false
}

// ruleMulBV1 rewrites 1-bit multiplication to and.
func ruleMulBV1(nm *Manager, t *Term) (*Term, bool) {
	if t.width != WidthBool {
		return t, false
	}
	return nm.Make(AND, t.children[0], t.children[1]), true
}

// ruleMulPow2 rewrites multiplication by a (negated) power of two to a shift.
func ruleMulPow2(nm *Manager, t *Term) (*Term, bool) {
	for i := 0; i < 2; i++ {
		c, other := t.children[i], t.children[1-i]
		if !c.IsValue() {
			continue
		}
		if c.value.IsPowerOfTwo() {
			return nm.Make(SHL, other, nm.MakeValue(NewBitVector(t.width, uint64(c.value.Log2())))), true
		} else if c.value.IsNegPowerOfTwo() {
			shift := nm.MakeValue(NewBitVector(t.width, uint64(c.value.Neg().Log2())))
			return nm.Make(NEG, nm.Make(SHL, other, shift)), true
		}
	}
	return t, false
}

// ruleMulConst rewrites c1 * (c2 * a) to (c1 * c2) * a.
func ruleMulConst(nm *Manager, t *Term) (*Term, bool) {
	for i := 0; i < 2; i++ {
		c1, other := t.children[i], t.children[1-i]
		if !c1.IsValue() || other.kind != MUL {
			continue
		}
		if c2, a, ok := valueOperand(other); ok {
			return nm.Make(MUL, nm.MakeValue(c1.value.Mul(c2)), a), true
		}
	}
	return t, false
}

// ruleMulConstAdd rewrites c1 * (c2 + a) to (c1 * c2) + (c1 * a).
func ruleMulConstAdd(nm *Manager, t *Term) (*Term, bool) {
	for i := 0; i < 2; i++ {
		c1, other := t.children[i], t.children[1-i]
		if !c1.IsValue() || other.kind != ADD {
			continue
		}
		if c2, a, ok := valueOperand(other); ok {
			return nm.Make(ADD, nm.MakeValue(c1.value.Mul(c2)), nm.Make(MUL, c1, a)), true
		}
	}
	return t, false
}

// ruleMulIte hoists if-then-else pairs out of a product and distributes a
// product over an if-then-else with a zero branch.
func ruleMulIte(nm *Manager, t *Term) (*Term, bool) {
	if u, ok := ruleIteLift(nm, t); ok {
		return u, true
	}
	for i := 0; i < 2; i++ {
		a, ite := t.children[i], t.children[1-i]
		if ite.kind != ITE || (!isZero(ite.children[1]) && !isZero(ite.children[2])) {
			continue
		}
		return nm.Make(ITE, ite.children[0],
			nm.Make(MUL, a, ite.children[1]),
			nm.Make(MUL, a, ite.children[2]),
		), true
	}
	return t, false
}

// ruleMulNeg rewrites -a * -b to a * b and a * -b to -(a * b).
func ruleMulNeg(nm *Manager, t *Term) (*Term, bool) {
	for i := 0; i < 2; i++ {
		x, ok := isNeg(t.children[i])
		if !ok {
			continue
		}
		if y, ok := isNeg(t.children[1-i]); ok {
			return nm.Make(MUL, x, y), true
		}
		return nm.Make(NEG, nm.Make(MUL, x, t.children[1-i])), true
	}
	return t, false
}

// ruleUDivSpecialConst rewrites division of zero, by zero and by one.
func ruleUDivSpecialConst(nm *Manager, t *Term) (*Term, bool) {
	a, b := t.children[0], t.children[1]
	switch {
	case isZero(a):
		zero := nm.Zero(t.width)
		return nm.Make(ITE, nm.Make(EQUAL, b, zero), nm.Ones(t.width), zero), true
	case isZero(b):
		return nm.Ones(t.width), true
	case isOne(b):
		return a, true
	}
	return t, false
}

// ruleUDivBV1 rewrites 1-bit division a / b to ~(~a & b).
func ruleUDivBV1(nm *Manager, t *Term) (*Term, bool) {
	if t.width != WidthBool {
		return t, false
	}
	return nm.Invert(nm.Make(AND, nm.Invert(t.children[0]), t.children[1])), true
}

// ruleUDivSame rewrites a / a to 1, or ones if a is zero.
func ruleUDivSame(nm *Manager, t *Term) (*Term, bool) {
	a := t.children[0]
	if a != t.children[1] {
		return t, false
	}
	return nm.Make(ITE, nm.Make(EQUAL, a, nm.Zero(t.width)), nm.Ones(t.width), nm.One(t.width)), true
}

// ruleUDivPow2 rewrites division by a power of two to a logical right shift.
func ruleUDivPow2(nm *Manager, t *Term) (*Term, bool) {
	b := t.children[1]
	if !b.IsValue() || !b.value.IsPowerOfTwo() {
		return t, false
	}
	return nm.Make(SHR, t.children[0], nm.MakeValue(NewBitVector(t.width, uint64(b.value.Log2())))), true
}

// ruleURemSpecialConst rewrites remainders of zero, by zero and by powers of two.
func ruleURemSpecialConst(nm *Manager, t *Term) (*Term, bool) {
	a, b := t.children[0], t.children[1]
	switch {
	case isZero(a):
		return a, true
	case isZero(b):
		return a, true
	case isOne(b):
		return nm.Zero(t.width), true
	case b.IsValue() && b.value.IsPowerOfTwo():
		n := b.value.Log2()
		return nm.Concat(nm.Zero(t.width-n), nm.Extract(a, n-1, 0)), true
	}
	return t, false
}

// ruleURemBV1 rewrites the 1-bit remainder a % b to a & ~b.
func ruleURemBV1(nm *Manager, t *Term) (*Term, bool) {
	if t.width != WidthBool {
		return t, false
	}
	return nm.Make(AND, t.children[0], nm.Invert(t.children[1])), true
}

// ruleURemSame rewrites a % a to zero.
func ruleURemSame(nm *Manager, t *Term) (*Term, bool) {
	if t.children[0] != t.children[1] {
		return t, false
	}
	return nm.Zero(t.width), true
}
