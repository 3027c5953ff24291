package bvrw

import (
	"fmt"
)

// Kind represents the operator of a term.
type Kind int

// Term kinds.
const (
	kind_begin = Kind(iota)

	// Leaves.
	VALUE
	VARIABLE

	// Core operators. Every other kind is eliminated into these.
	ITE
	EQUAL
	NOT
	AND
	ADD
	MUL
	UDIV
	UREM
	SHL
	SHR
	ASHR
	ULT
	SLT
	CONCAT
	EXTRACT

	// Derived operators.
	DISTINCT
	OR
	XOR
	NAND
	NOR
	XNOR
	NEG
	SUB
	INC
	DEC
	SDIV
	SREM
	SMOD
	COMP
	ULE
	UGT
	UGE
	SLE
	SGT
	SGE
	UADDO
	SADDO
	USUBO
	SSUBO
	UMULO
	SMULO
	SDIVO
	NEGO
	REDAND
	REDOR
	REDXOR
	REPEAT
	ZERO_EXTEND
	SIGN_EXTEND
	ROL
	ROR
	ROLI
	RORI

	kind_end
)

// kindInfo describes the static signature of a kind.
type kindInfo struct {
	name        string
	arity       int
	indices     int
	core        bool
	commutative bool
	predicate   bool // result is width 1
}

var kinds = [...]kindInfo{
	VALUE:       {name: "value", core: true},
	VARIABLE:    {name: "variable", core: true},
	ITE:         {name: "ite", arity: 3, core: true},
	EQUAL:       {name: "=", arity: 2, core: true, commutative: true, predicate: true},
	NOT:         {name: "bvnot", arity: 1, core: true},
	AND:         {name: "bvand", arity: 2, core: true, commutative: true},
	ADD:         {name: "bvadd", arity: 2, core: true, commutative: true},
	MUL:         {name: "bvmul", arity: 2, core: true, commutative: true},
	UDIV:        {name: "bvudiv", arity: 2, core: true},
	UREM:        {name: "bvurem", arity: 2, core: true},
	SHL:         {name: "bvshl", arity: 2, core: true},
	SHR:         {name: "bvlshr", arity: 2, core: true},
	ASHR:        {name: "bvashr", arity: 2, core: true},
	ULT:         {name: "bvult", arity: 2, core: true, predicate: true},
	SLT:         {name: "bvslt", arity: 2, core: true, predicate: true},
	CONCAT:      {name: "concat", arity: 2, core: true},
	EXTRACT:     {name: "extract", arity: 1, indices: 2, core: true},
	DISTINCT:    {name: "distinct", arity: 2, commutative: true, predicate: true},
	OR:          {name: "bvor", arity: 2, commutative: true},
	XOR:         {name: "bvxor", arity: 2, commutative: true},
	NAND:        {name: "bvnand", arity: 2, commutative: true},
	NOR:         {name: "bvnor", arity: 2, commutative: true},
	XNOR:        {name: "bvxnor", arity: 2, commutative: true},
	NEG:         {name: "bvneg", arity: 1},
	SUB:         {name: "bvsub", arity: 2},
	INC:         {name: "bvinc", arity: 1},
	DEC:         {name: "bvdec", arity: 1},
	SDIV:        {name: "bvsdiv", arity: 2},
	SREM:        {name: "bvsrem", arity: 2},
	SMOD:        {name: "bvsmod", arity: 2},
	COMP:        {name: "bvcomp", arity: 2, commutative: true, predicate: true},
	ULE:         {name: "bvule", arity: 2, predicate: true},
	UGT:         {name: "bvugt", arity: 2, predicate: true},
	UGE:         {name: "bvuge", arity: 2, predicate: true},
	SLE:         {name: "bvsle", arity: 2, predicate: true},
	SGT:         {name: "bvsgt", arity: 2, predicate: true},
	SGE:         {name: "bvsge", arity: 2, predicate: true},
	UADDO:       {name: "bvuaddo", arity: 2, commutative: true, predicate: true},
	SADDO:       {name: "bvsaddo", arity: 2, commutative: true, predicate: true},
	USUBO:       {name: "bvusubo", arity: 2, predicate: true},
	SSUBO:       {name: "bvssubo", arity: 2, predicate: true},
	UMULO:       {name: "bvumulo", arity: 2, commutative: true, predicate: true},
	SMULO:       {name: "bvsmulo", arity: 2, commutative: true, predicate: true},
	SDIVO:       {name: "bvsdivo", arity: 2, predicate: true},
	NEGO:        {name: "bvnego", arity: 1, predicate: true},
	REDAND:      {name: "bvredand", arity: 1, predicate: true},
	REDOR:       {name: "bvredor", arity: 1, predicate: true},
	REDXOR:      {name: "bvredxor", arity: 1, predicate: true},
	REPEAT:      {name: "repeat", arity: 1, indices: 1},
	ZERO_EXTEND: {name: "zero_extend", arity: 1, indices: 1},
	SIGN_EXTEND: {name: "sign_extend", arity: 1, indices: 1},
	ROL:         {name: "bvrol", arity: 2},
	ROR:         {name: "bvror", arity: 2},
	ROLI:        {name: "rotate_left", arity: 1, indices: 1},
	RORI:        {name: "rotate_right", arity: 1, indices: 1},
}

// Kinds returns all valid kinds in declaration order.
func Kinds() []Kind {
	a := make([]Kind, 0, kind_end-kind_begin-1)
	for k := kind_begin + 1; k < kind_end; k++ {
		a = append(a, k)
	}
	return a
}

// ParseKind returns the kind with the given SMT-LIB name.
func ParseKind(name string) (Kind, bool) {
	for k := kind_begin + 1; k < kind_end; k++ {
		if kinds[k].name == name {
			return k, true
		}
	}
	return 0, false
}

// IsValid returns true if k is a known kind.
func (k Kind) IsValid() bool { return k > kind_begin && k < kind_end }

// String returns the SMT-LIB name of the kind.
func (k Kind) String() string {
	if k.IsValid() {
		return kinds[k].name
	}
	return fmt.Sprintf("Kind<%d>", k)
}

// Arity returns the number of children a term of this kind has.
func (k Kind) Arity() int { return k.info().arity }

// NumIndices returns the number of static indices a term of this kind has.
func (k Kind) NumIndices() int { return k.info().indices }

// IsCore returns true if the kind is not eliminated by the rewriter.
func (k Kind) IsCore() bool { return k.info().core }

// IsCommutative returns true if the operands of the kind may be swapped.
func (k Kind) IsCommutative() bool { return k.info().commutative }

// IsPredicate returns true if the kind always produces a 1-bit result.
func (k Kind) IsPredicate() bool { return k.info().predicate }

// IsIndexed returns true if the kind carries static indices.
func (k Kind) IsIndexed() bool { return k.info().indices > 0 }

func (k Kind) info() *kindInfo {
	assert(k.IsValid(), "invalid kind: %s", k)
	return &kinds[k]
}
