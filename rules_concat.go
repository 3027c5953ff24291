package bvrw

// ruleConcatConst merges adjacent values of nested concatenations.
func ruleConcatConst(nm *Manager, t *Term) (*Term, bool) {
	a, b := t.children[0], t.children[1]
	if b.IsValue() && a.kind == CONCAT && a.children[1].IsValue() {
		return nm.Concat(a.children[0], nm.MakeValue(a.children[1].value.Concat(b.value))), true
	} else if a.IsValue() && b.kind == CONCAT && b.children[0].IsValue() {
		return nm.Concat(nm.MakeValue(a.value.Concat(b.children[0].value)), b.children[1]), true
	}
	return t, false
}

// ruleConcatExtract rewrites a[i:j] :: a[j-1:k] to a[i:k].
func ruleConcatExtract(nm *Manager, t *Term) (*Term, bool) {
	a, b := t.children[0], t.children[1]

	var inverted bool
	if x, ok := isNot(a); ok {
		y, ok := isNot(b)
		if !ok {
			return t, false
		}
		a, b, inverted = x, y, true
	}
	if a.kind != EXTRACT || b.kind != EXTRACT || a.children[0] != b.children[0] {
		return t, false
	} else if a.indices[1] != b.indices[0]+1 {
		return t, false
	}

	u := nm.Extract(a.children[0], a.indices[0], b.indices[1])
	if inverted {
		u = nm.Invert(u)
	}
	return u, true
}

// extractRule wraps an extraction rewrite so it also applies through a
// complement: extract(~a) is rewritten as ~extract(a).
func extractRule(fn func(nm *Manager, a *Term, hi, lo uint) (*Term, bool)) RuleFunc {
	return func(nm *Manager, t *Term) (*Term, bool) {
		a, hi, lo := t.children[0], t.indices[0], t.indices[1]
		if x, ok := isNot(a); ok {
			u, ok := fn(nm, x, hi, lo)
			if !ok {
				return t, false
			}
			return nm.Invert(u), true
		}
		if u, ok := fn(nm, a, hi, lo); ok {
			return u, true
		}
		return t, false
	}
}

// ruleExtractFull rewrites an extraction of all bits to its operand.
func ruleExtractFull(nm *Manager, t *Term) (*Term, bool) {
	a := t.children[0]
	if t.indices[0] != a.width-1 || t.indices[1] != 0 {
		return t, false
	}
	return a, true
}

var (
	ruleExtractExtract       = extractRule(extractExtract)
	ruleExtractConcatFullLHS = extractRule(extractConcatFullLHS)
	ruleExtractConcatFullRHS = extractRule(extractConcatFullRHS)
	ruleExtractConcatLHSRHS  = extractRule(extractConcatLHSRHS)
	ruleExtractConcat        = extractRule(extractConcat)
	ruleExtractAnd           = extractRule(extractAnd)
	ruleExtractIte           = extractRule(extractIte)
	ruleExtractAddMul        = extractRule(extractAddMul)
)

// extractExtract rewrites a[h:l][hi:lo] to a[hi+l:lo+l].
func extractExtract(nm *Manager, a *Term, hi, lo uint) (*Term, bool) {
	if a.kind != EXTRACT {
		return nil, false
	}
	l := a.indices[1]
	return nm.Extract(a.children[0], hi+l, lo+l), true
}

// extractConcatFullLHS rewrites (a :: b)[hi:lo] to a if it selects exactly a.
func extractConcatFullLHS(nm *Manager, a *Term, hi, lo uint) (*Term, bool) {
	if a.kind != CONCAT || hi != a.width-1 || lo != a.children[1].width {
		return nil, false
	}
	return a.children[0], true
}

// extractConcatFullRHS rewrites (a :: b)[hi:lo] to b if it selects exactly b.
func extractConcatFullRHS(nm *Manager, a *Term, hi, lo uint) (*Term, bool) {
	if a.kind != CONCAT || hi != a.children[1].width-1 || lo != 0 {
		return nil, false
	}
	return a.children[1], true
}

// extractConcatLHSRHS rewrites an extraction that lies within one side of a
// concatenation to an extraction of that side.
func extractConcatLHSRHS(nm *Manager, a *Term, hi, lo uint) (*Term, bool) {
	if a.kind != CONCAT {
		return nil, false
	}
	if bw := a.children[1].width; lo >= bw {
		return nm.Extract(a.children[0], hi-bw, lo-bw), true
	} else if hi < bw {
		return nm.Extract(a.children[1], hi, lo), true
	}
	return nil, false
}

// extractConcat splits an extraction that spans both sides of a concatenation.
func extractConcat(nm *Manager, a *Term, hi, lo uint) (*Term, bool) {
	if a.kind != CONCAT {
		return nil, false
	}
	bw := a.children[1].width
	if lo >= bw || hi < bw {
		return nil, false
	}
	return nm.Concat(
		nm.Extract(a.children[0], hi-bw, 0),
		nm.Extract(a.children[1], bw-1, lo),
	), true
}

// extractAnd pushes an extraction into a conjunction with a value or
// concatenation operand.
func extractAnd(nm *Manager, a *Term, hi, lo uint) (*Term, bool) {
	if a.kind != AND {
		return nil, false
	}
	x, y := a.children[0], a.children[1]
	if !isExtractable(x) && !isExtractable(y) {
		return nil, false
	}
	return nm.Make(AND, nm.Extract(x, hi, lo), nm.Extract(y, hi, lo)), true
}

// isExtractable returns true if extractions of t simplify.
func isExtractable(t *Term) bool {
	if x, ok := isNot(t); ok {
		t = x
	}
	return t.IsValue() || t.kind == CONCAT
}

// extractIte pushes an extraction into an if-then-else with a value branch.
func extractIte(nm *Manager, a *Term, hi, lo uint) (*Term, bool) {
	if a.kind != ITE || (!a.children[1].IsValue() && !a.children[2].IsValue()) {
		return nil, false
	}
	return nm.Make(ITE, a.children[0],
		nm.Extract(a.children[1], hi, lo),
		nm.Extract(a.children[2], hi, lo),
	), true
}

// extractAddMul pushes an extraction of the low bits into a sum or product.
func extractAddMul(nm *Manager, a *Term, hi, lo uint) (*Term, bool) {
	if (a.kind != ADD && a.kind != MUL) || lo != 0 || hi == a.width-1 {
		return nil, false
	}
	return nm.Make(a.kind, nm.Extract(a.children[0], hi, 0), nm.Extract(a.children[1], hi, 0)), true
}

// constShift returns the value of a shift amount term and true if it is a
// value in range for width.
func constShift(b *Term, width uint) (uint, bool) {
	if !b.IsValue() || !b.value.value.IsUint64() || b.value.value.Uint64() >= uint64(width) {
		return 0, false
	}
	return uint(b.value.value.Uint64()), true
}

// ruleShlConst rewrites a shift left by a value into a concatenation.
func ruleShlConst(nm *Manager, t *Term) (*Term, bool) {
	a, b, w := t.children[0], t.children[1], t.width
	if !b.IsValue() || b.value.IsZero() {
		return t, false
	}
	n, ok := constShift(b, w)
	if !ok {
		return nm.Zero(w), true
	}
	return nm.Concat(nm.Extract(a, w-1-n, 0), nm.Zero(n)), true
}

// ruleShrConst rewrites a logical shift right by a value into a concatenation.
func ruleShrConst(nm *Manager, t *Term) (*Term, bool) {
	a, b, w := t.children[0], t.children[1], t.width
	if !b.IsValue() || b.value.IsZero() {
		return t, false
	}
	n, ok := constShift(b, w)
	if !ok {
		return nm.Zero(w), true
	}
	return nm.Concat(nm.Zero(n), nm.Extract(a, w-1, n)), true
}

// ruleAShrConst rewrites an arithmetic shift right by a value into a sign
// extension.
func ruleAShrConst(nm *Manager, t *Term) (*Term, bool) {
	a, b, w := t.children[0], t.children[1], t.width
	if !b.IsValue() || b.value.IsZero() {
		return t, false
	}
	n, ok := constShift(b, w)
	if !ok {
		return nm.SignExtend(nm.Extract(a, w-1, w-1), w-1), true
	}
	return nm.SignExtend(nm.Extract(a, w-1, n), n), true
}

// ruleShrSame rewrites a >> a to 0.
func ruleShrSame(nm *Manager, t *Term) (*Term, bool) {
	if t.children[0] != t.children[1] {
		return t, false
	}
	return nm.Zero(t.width), true
}

// ruleSltSpecialConst rewrites signed comparisons against the signed bounds.
func ruleSltSpecialConst(nm *Manager, t *Term) (*Term, bool) {
	a, b := t.children[0], t.children[1]
	switch {
	case isMinSigned(a):
		return nm.Invert(nm.Make(EQUAL, b, a)), true
	case isMinSigned(b):
		return nm.False(), true
	case isMaxSigned(a):
		return nm.False(), true
	case isMaxSigned(b):
		return nm.Invert(nm.Make(EQUAL, a, b)), true
	}
	return t, false
}

// ruleSltBV1 rewrites the 1-bit signed comparison a < b to a & ~b.
func ruleSltBV1(nm *Manager, t *Term) (*Term, bool) {
	if t.children[0].width != WidthBool {
		return t, false
	}
	return nm.Make(AND, t.children[0], nm.Invert(t.children[1])), true
}

// ruleSltConcat compares concatenations with a common half by their other halves.
func ruleSltConcat(nm *Manager, t *Term) (*Term, bool) {
	a, b := t.children[0], t.children[1]
	if a.kind != CONCAT || b.kind != CONCAT || a.children[1].width != b.children[1].width {
		return t, false
	}
	if a.children[1] == b.children[1] {
		return nm.Make(SLT, a.children[0], b.children[0]), true
	} else if a.children[0] == b.children[0] {
		return nm.Make(ULT, a.children[1], b.children[1]), true
	}
	return t, false
}

// ruleUltSpecialConst rewrites unsigned comparisons against zero, one and ones.
func ruleUltSpecialConst(nm *Manager, t *Term) (*Term, bool) {
	a, b := t.children[0], t.children[1]
	switch {
	case isZero(a):
		return nm.Invert(nm.Make(EQUAL, b, a)), true
	case isZero(b):
		return nm.False(), true
	case isOnes(a):
		return nm.False(), true
	case isOne(b):
		return nm.Make(EQUAL, a, nm.Zero(a.width)), true
	case isOnes(b):
		return nm.Invert(nm.Make(EQUAL, a, b)), true
	}
	return t, false
}

// ruleUltBV1 rewrites the 1-bit unsigned comparison a < b to ~a & b.
func ruleUltBV1(nm *Manager, t *Term) (*Term, bool) {
	if t.children[0].width != WidthBool {
		return t, false
	}
	return nm.Make(AND, nm.Invert(t.children[0]), t.children[1]), true
}

// ruleUltConcat compares concatenations with a common half by their other halves.
func ruleUltConcat(nm *Manager, t *Term) (*Term, bool) {
	a, b := t.children[0], t.children[1]
	if a.kind != CONCAT || b.kind != CONCAT || a.children[1].width != b.children[1].width {
		return t, false
	}
	if a.children[0] == b.children[0] {
		return nm.Make(ULT, a.children[1], b.children[1]), true
	} else if a.children[1] == b.children[1] {
		return nm.Make(ULT, a.children[0], b.children[0]), true
	}
	return t, false
}
