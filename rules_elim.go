package bvrw

// Eliminations express derived kinds in terms of core kinds. Results may
// still contain derived kinds which are eliminated in turn.

// msb returns the most significant bit of t.
func msb(nm *Manager, t *Term) *Term {
	return nm.Extract(t, t.width-1, t.width-1)
}

func elimComp(nm *Manager, t *Term) (*Term, bool) {
	return nm.Make(EQUAL, t.children[0], t.children[1]), true
}

func elimDec(nm *Manager, t *Term) (*Term, bool) {
	return nm.Make(ADD, t.children[0], nm.Ones(t.width)), true
}

func elimDistinct(nm *Manager, t *Term) (*Term, bool) {
	return nm.Invert(nm.Make(EQUAL, t.children[0], t.children[1])), true
}

func elimInc(nm *Manager, t *Term) (*Term, bool) {
	return nm.Make(ADD, t.children[0], nm.One(t.width)), true
}

func elimNand(nm *Manager, t *Term) (*Term, bool) {
	return nm.Invert(nm.Make(AND, t.children[0], t.children[1])), true
}

func elimNeg(nm *Manager, t *Term) (*Term, bool) {
	return nm.Make(ADD, nm.Invert(t.children[0]), nm.One(t.width)), true
}

func elimNegO(nm *Manager, t *Term) (*Term, bool) {
	a := t.children[0]
	return nm.Make(EQUAL, a, nm.MinSigned(a.width)), true
}

func elimNor(nm *Manager, t *Term) (*Term, bool) {
	return nm.Make(AND, nm.Invert(t.children[0]), nm.Invert(t.children[1])), true
}

func elimOr(nm *Manager, t *Term) (*Term, bool) {
	return nm.Invert(nm.Make(AND, nm.Invert(t.children[0]), nm.Invert(t.children[1]))), true
}

func elimRedAnd(nm *Manager, t *Term) (*Term, bool) {
	a := t.children[0]
	return nm.Make(EQUAL, a, nm.Ones(a.width)), true
}

func elimRedOr(nm *Manager, t *Term) (*Term, bool) {
	a := t.children[0]
	return nm.Invert(nm.Make(EQUAL, a, nm.Zero(a.width))), true
}

// elimRedXor folds the bits of the operand with xor.
func elimRedXor(nm *Manager, t *Term) (*Term, bool) {
	a := t.children[0]
	u := nm.Extract(a, 0, 0)
	for i := uint(1); i < a.width; i++ {
		u = nm.Make(XOR, u, nm.Extract(a, i, i))
	}
	return u, true
}

func elimRepeat(nm *Manager, t *Term) (*Term, bool) {
	a, n := t.children[0], t.indices[0]
	u := a
	for i := uint(1); i < n; i++ {
		u = nm.Concat(u, a)
	}
	return u, true
}

// elimRotate rewrites a rotation by a term. Rotations by a value become
// rotations by an index, otherwise the rotation is expressed with shifts.
func elimRotate(nm *Manager, t *Term) (*Term, bool) {
	a, b, w := t.children[0], t.children[1], t.width

	if b.IsValue() {
		kind := ROLI
		if t.kind == ROR {
			kind = RORI
		}
		return nm.MakeTerm(kind, []*Term{a}, []uint{b.value.modWidth(w)}), true
	}

	width := nm.MakeValue(NewBitVector(w, uint64(w)))
	n := nm.Make(UREM, b, width)
	rest := nm.Make(SUB, width, n)
	if t.kind == ROL {
		return nm.Make(OR, nm.Make(SHL, a, n), nm.Make(SHR, a, rest)), true
	}
	return nm.Make(OR, nm.Make(SHR, a, n), nm.Make(SHL, a, rest)), true
}

// elimRotateImmediate rewrites a rotation by an index as a concatenation of
// extractions.
func elimRotateImmediate(nm *Manager, t *Term) (*Term, bool) {
	a, w := t.children[0], t.width
	n := t.indices[0] % w
	if n == 0 {
		return a, true
	}
	if t.kind == ROLI {
		return nm.Concat(nm.Extract(a, w-1-n, 0), nm.Extract(a, w-1, w-n)), true
	}
	return nm.Concat(nm.Extract(a, n-1, 0), nm.Extract(a, w-1, n)), true
}

// elimSAddO detects signed overflow from the sign bits of the operands and sum.
func elimSAddO(nm *Manager, t *Term) (*Term, bool) {
	a, b := t.children[0], t.children[1]
	sa, sb := msb(nm, a), msb(nm, b)
	sum := msb(nm, nm.Make(ADD, a, b))
	return nm.Make(AND,
		nm.Make(EQUAL, sa, sb),
		nm.Invert(nm.Make(EQUAL, sa, sum)),
	), true
}

// abs returns the absolute value of t given its sign bit.
func abs(nm *Manager, t, sign *Term) *Term {
	return nm.Make(ITE, sign, nm.Make(NEG, t), t)
}

func elimSDiv(nm *Manager, t *Term) (*Term, bool) {
	a, b := t.children[0], t.children[1]
	sa, sb := msb(nm, a), msb(nm, b)
	q := nm.Make(UDIV, abs(nm, a, sa), abs(nm, b, sb))
	return nm.Make(ITE, nm.Make(XOR, sa, sb), nm.Make(NEG, q), q), true
}

func elimSDivO(nm *Manager, t *Term) (*Term, bool) {
	a, b := t.children[0], t.children[1]
	return nm.Make(AND,
		nm.Make(EQUAL, a, nm.MinSigned(a.width)),
		nm.Make(EQUAL, b, nm.Ones(b.width)),
	), true
}

// elimCompare rewrites non-strict and reversed comparisons to strict ones.
func elimCompare(nm *Manager, t *Term) (*Term, bool) {
	a, b := t.children[0], t.children[1]
	switch t.kind {
	case SGE:
		return nm.Invert(nm.Make(SLT, a, b)), true
	case SGT:
		return nm.Make(SLT, b, a), true
	case SLE:
		return nm.Invert(nm.Make(SLT, b, a)), true
	case UGE:
		return nm.Invert(nm.Make(ULT, a, b)), true
	case UGT:
		return nm.Make(ULT, b, a), true
	case ULE:
		return nm.Invert(nm.Make(ULT, b, a)), true
	}
	return t, false
}

func elimSignExtend(nm *Manager, t *Term) (*Term, bool) {
	a, n := t.children[0], t.indices[0]
	if n == 0 {
		return a, true
	}
	return nm.Concat(nm.MakeTerm(REPEAT, []*Term{msb(nm, a)}, []uint{n}), a), true
}

func elimSMod(nm *Manager, t *Term) (*Term, bool) {
	a, b := t.children[0], t.children[1]
	sa, sb := msb(nm, a), msb(nm, b)
	u := nm.Make(UREM, abs(nm, a, sa), abs(nm, b, sb))
	negu := nm.Make(NEG, u)
	nsa, nsb := nm.Invert(sa), nm.Invert(sb)

	return nm.Make(ITE, nm.Make(EQUAL, u, nm.Zero(t.width)), u,
		nm.Make(ITE, nm.Make(AND, nsa, nsb), u,
			nm.Make(ITE, nm.Make(AND, sa, nsb), nm.Make(ADD, negu, b),
				nm.Make(ITE, nm.Make(AND, nsa, sb), nm.Make(ADD, u, b), negu)))), true
}

// elimSMulO detects signed overflow from the upper bits of the double width
// product.
func elimSMulO(nm *Manager, t *Term) (*Term, bool) {
	a, b, w := t.children[0], t.children[1], t.children[0].width
	if w == 1 {
		return nm.Make(AND, a, b), true
	}
	p := nm.Make(MUL, nm.SignExtend(a, w), nm.SignExtend(b, w))
	h := nm.Extract(p, 2*w-1, w-1)
	return nm.Make(AND,
		nm.Invert(nm.Make(EQUAL, h, nm.Zero(w+1))),
		nm.Invert(nm.Make(EQUAL, h, nm.Ones(w+1))),
	), true
}

func elimSRem(nm *Manager, t *Term) (*Term, bool) {
	a, b := t.children[0], t.children[1]
	sa, sb := msb(nm, a), msb(nm, b)
	r := nm.Make(UREM, abs(nm, a, sa), abs(nm, b, sb))
	return nm.Make(ITE, sa, nm.Make(NEG, r), r), true
}

func elimSSubO(nm *Manager, t *Term) (*Term, bool) {
	a, b := t.children[0], t.children[1]
	sa, sb := msb(nm, a), msb(nm, b)
	diff := msb(nm, nm.Make(SUB, a, b))
	return nm.Make(AND,
		nm.Invert(nm.Make(EQUAL, sa, sb)),
		nm.Invert(nm.Make(EQUAL, sa, diff)),
	), true
}

func elimSub(nm *Manager, t *Term) (*Term, bool) {
	return nm.Make(ADD, t.children[0], nm.Make(NEG, t.children[1])), true
}

func elimUAddO(nm *Manager, t *Term) (*Term, bool) {
	a, b, w := t.children[0], t.children[1], t.children[0].width
	sum := nm.Make(ADD, nm.ZeroExtend(a, 1), nm.ZeroExtend(b, 1))
	return nm.Extract(sum, w, w), true
}

// elimUMulO detects unsigned overflow from the upper half of the double
// width product.
func elimUMulO(nm *Manager, t *Term) (*Term, bool) {
	a, b, w := t.children[0], t.children[1], t.children[0].width
	if w == 1 {
		return nm.False(), true
	}
	p := nm.Make(MUL, nm.ZeroExtend(a, w), nm.ZeroExtend(b, w))
	return nm.Invert(nm.Make(EQUAL, nm.Extract(p, 2*w-1, w), nm.Zero(w))), true
}

func elimUSubO(nm *Manager, t *Term) (*Term, bool) {
	return nm.Make(ULT, t.children[0], t.children[1]), true
}

func elimXnor(nm *Manager, t *Term) (*Term, bool) {
	return nm.Invert(nm.Make(XOR, t.children[0], t.children[1])), true
}

func elimXor(nm *Manager, t *Term) (*Term, bool) {
	a, b := t.children[0], t.children[1]
	return nm.Make(AND, nm.Make(OR, a, b), nm.Invert(nm.Make(AND, a, b))), true
}

func elimZeroExtend(nm *Manager, t *Term) (*Term, bool) {
	a, n := t.children[0], t.indices[0]
	if n == 0 {
		return a, true
	}
	return nm.Concat(nm.Zero(n), a), true
}
