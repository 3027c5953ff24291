package bvrw

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// RuleID identifies a rewrite rule.
type RuleID int

// Rewrite rules, grouped by trigger kind.
const (
	rule_begin = RuleID(iota)

	EVAL

	ADD_SPECIAL_CONST
	ADD_BV1
	ADD_SAME
	ADD_NOT
	ADD_NEG
	ADD_CONST
	ADD_UREM
	ADD_NEG_MUL
	ADD_ITE1
	ADD_ITE2
	ADD_NORM

	AND_SPECIAL_CONST
	AND_IDEM1
	AND_CONTRA1
	AND_CONST
	AND_IDEM2
	AND_IDEM3
	AND_CONTRA2
	AND_CONTRA3
	AND_SUBSUM1
	AND_SUBSUM2
	AND_NOT_AND1
	AND_NOT_AND2
	AND_RESOL1
	AND_CONCAT
	AND_NORM

	ASHR_SPECIAL_CONST
	ASHR_CONST

	CONCAT_CONST
	CONCAT_EXTRACT

	EQUAL_SPECIAL_CONST
	EQUAL_SAME
	EQUAL_INV
	EQUAL_CONST_ADD
	EQUAL_NORM

	EXTRACT_FULL
	EXTRACT_EXTRACT
	EXTRACT_CONCAT_FULL_LHS
	EXTRACT_CONCAT_FULL_RHS
	EXTRACT_CONCAT_LHS_RHS
	EXTRACT_CONCAT
	EXTRACT_AND
	EXTRACT_ITE
	EXTRACT_ADD_MUL

	ITE_CONST
	ITE_SAME
	ITE_NOT_COND
	ITE_BOOL

	MUL_SPECIAL_CONST
	MUL_BV1
	MUL_POW2
	MUL_CONST
	MUL_CONST_ADD
	MUL_ITE
	MUL_NEG
	MUL_NORM

	NOT_NOT
	NOT_NEG
	NOT_CONCAT

	SHL_SPECIAL_CONST
	SHL_CONST

	SHR_SPECIAL_CONST
	SHR_SAME
	SHR_CONST

	SLT_SPECIAL_CONST
	SLT_SAME
	SLT_BV1
	SLT_CONCAT
	SLT_ITE

	UDIV_SPECIAL_CONST
	UDIV_BV1
	UDIV_SAME
	UDIV_POW2
	UDIV_ITE

	ULT_SPECIAL_CONST
	ULT_SAME
	ULT_BV1
	ULT_CONCAT
	ULT_ITE

	UREM_SPECIAL_CONST
	UREM_BV1
	UREM_SAME

	XOR_SAME
	XOR_SPECIAL_CONST

	// Eliminations into core kinds.
	COMP_ELIM
	DEC_ELIM
	DISTINCT_ELIM
	INC_ELIM
	NAND_ELIM
	NEG_ELIM
	NEGO_ELIM
	NOR_ELIM
	OR_ELIM
	REDAND_ELIM
	REDOR_ELIM
	REDXOR_ELIM
	REPEAT_ELIM
	ROL_ELIM
	ROLI_ELIM
	ROR_ELIM
	RORI_ELIM
	SADDO_ELIM
	SDIV_ELIM
	SDIVO_ELIM
	SGE_ELIM
	SGT_ELIM
	SIGN_EXTEND_ELIM
	SLE_ELIM
	SMOD_ELIM
	SMULO_ELIM
	SREM_ELIM
	SSUBO_ELIM
	SUB_ELIM
	UADDO_ELIM
	UGE_ELIM
	UGT_ELIM
	ULE_ELIM
	UMULO_ELIM
	USUBO_ELIM
	XNOR_ELIM
	XOR_ELIM
	ZERO_EXTEND_ELIM

	rule_end
)

// RuleFunc rewrites t. It returns the replacement and true if the rule
// matched, otherwise it returns t and false. A RuleFunc must not be called
// on a term whose kind is not the rule's trigger kind.
type RuleFunc func(nm *Manager, t *Term) (*Term, bool)

// Rule represents a rewrite rule in the catalog.
type Rule struct {
	ID    RuleID
	Name  string
	Level int
	apply RuleFunc
}

var rules = [...]Rule{
	EVAL: {Name: "eval", Level: LevelSimple, apply: ruleEval},

	ADD_SPECIAL_CONST: {Name: "add_special_const", Level: LevelSimple, apply: ruleAddSpecialConst},
	ADD_BV1:           {Name: "add_bv1", Level: LevelFull, apply: ruleAddBV1},
	ADD_SAME:          {Name: "add_same", Level: LevelFull, apply: ruleAddSame},
	ADD_NOT:           {Name: "add_not", Level: LevelFull, apply: ruleAddNot},
	ADD_NEG:           {Name: "add_neg", Level: LevelFull, apply: ruleAddNeg},
	ADD_CONST:         {Name: "add_const", Level: LevelFull, apply: ruleAddConst},
	ADD_UREM:          {Name: "add_urem", Level: LevelFull, apply: ruleAddURem},
	ADD_NEG_MUL:       {Name: "add_neg_mul", Level: LevelFull, apply: ruleAddNegMul},
	ADD_ITE1:          {Name: "add_ite1", Level: LevelFull, apply: ruleIteLift},
	ADD_ITE2:          {Name: "add_ite2", Level: LevelFull, apply: ruleAddIte2},
	ADD_NORM:          {Name: "add_norm", Level: LevelFull, apply: ruleNorm},

	AND_SPECIAL_CONST: {Name: "and_special_const", Level: LevelSimple, apply: ruleAndSpecialConst},
	AND_IDEM1:         {Name: "and_idem1", Level: LevelFull, apply: ruleAndIdem1},
	AND_CONTRA1:       {Name: "and_contra1", Level: LevelFull, apply: ruleAndContra1},
	AND_CONST:         {Name: "and_const", Level: LevelFull, apply: ruleAndConst},
	AND_IDEM2:         {Name: "and_idem2", Level: LevelFull, apply: ruleAndIdem2},
	AND_IDEM3:         {Name: "and_idem3", Level: LevelFull, apply: ruleAndIdem3},
	AND_CONTRA2:       {Name: "and_contra2", Level: LevelFull, apply: ruleAndContra2},
	AND_CONTRA3:       {Name: "and_contra3", Level: LevelFull, apply: ruleAndContra3},
	AND_SUBSUM1:       {Name: "and_subsum1", Level: LevelFull, apply: ruleAndSubsum1},
	AND_SUBSUM2:       {Name: "and_subsum2", Level: LevelFull, apply: ruleAndSubsum2},
	AND_NOT_AND1:      {Name: "and_not_and1", Level: LevelFull, apply: ruleAndNotAnd1},
	AND_NOT_AND2:      {Name: "and_not_and2", Level: LevelFull, apply: ruleAndNotAnd2},
	AND_RESOL1:        {Name: "and_resol1", Level: LevelFull, apply: ruleAndResol1},
	AND_CONCAT:        {Name: "and_concat", Level: LevelFull, apply: ruleAndConcat},
	AND_NORM:          {Name: "and_norm", Level: LevelFull, apply: ruleNorm},

	ASHR_SPECIAL_CONST: {Name: "ashr_special_const", Level: LevelSimple, apply: ruleShiftSpecialConst},
	ASHR_CONST:         {Name: "ashr_const", Level: LevelFull, apply: ruleAShrConst},

	CONCAT_CONST:   {Name: "concat_const", Level: LevelFull, apply: ruleConcatConst},
	CONCAT_EXTRACT: {Name: "concat_extract", Level: LevelFull, apply: ruleConcatExtract},

	EQUAL_SPECIAL_CONST: {Name: "equal_special_const", Level: LevelSimple, apply: ruleEqualSpecialConst},
	EQUAL_SAME:          {Name: "equal_same", Level: LevelFull, apply: ruleEqualSame},
	EQUAL_INV:           {Name: "equal_inv", Level: LevelFull, apply: ruleEqualInv},
	EQUAL_CONST_ADD:     {Name: "equal_const_add", Level: LevelFull, apply: ruleEqualConstAdd},
	EQUAL_NORM:          {Name: "equal_norm", Level: LevelFull, apply: ruleNorm},

	EXTRACT_FULL:            {Name: "extract_full", Level: LevelSimple, apply: ruleExtractFull},
	EXTRACT_EXTRACT:         {Name: "extract_extract", Level: LevelFull, apply: ruleExtractExtract},
	EXTRACT_CONCAT_FULL_LHS: {Name: "extract_concat_full_lhs", Level: LevelFull, apply: ruleExtractConcatFullLHS},
	EXTRACT_CONCAT_FULL_RHS: {Name: "extract_concat_full_rhs", Level: LevelFull, apply: ruleExtractConcatFullRHS},
	EXTRACT_CONCAT_LHS_RHS:  {Name: "extract_concat_lhs_rhs", Level: LevelFull, apply: ruleExtractConcatLHSRHS},
	EXTRACT_CONCAT:          {Name: "extract_concat", Level: LevelFull, apply: ruleExtractConcat},
	EXTRACT_AND:             {Name: "extract_and", Level: LevelFull, apply: ruleExtractAnd},
	EXTRACT_ITE:             {Name: "extract_ite", Level: LevelFull, apply: ruleExtractIte},
	EXTRACT_ADD_MUL:         {Name: "extract_add_mul", Level: LevelFull, apply: ruleExtractAddMul},

	ITE_CONST:    {Name: "ite_const", Level: LevelSimple, apply: ruleIteConst},
	ITE_SAME:     {Name: "ite_same", Level: LevelFull, apply: ruleIteSame},
	ITE_NOT_COND: {Name: "ite_not_cond", Level: LevelFull, apply: ruleIteNotCond},
	ITE_BOOL:     {Name: "ite_bool", Level: LevelFull, apply: ruleIteBool},

	MUL_SPECIAL_CONST: {Name: "mul_special_const", Level: LevelSimple, apply: ruleMulSpecialConst},
	MUL_BV1:           {Name: "mul_bv1", Level: LevelFull, apply: ruleMulBV1},
	MUL_POW2:          {Name: "mul_pow2", Level: LevelFull, apply: ruleMulPow2},
	MUL_CONST:         {Name: "mul_const", Level: LevelFull, apply: ruleMulConst},
	MUL_CONST_ADD:     {Name: "mul_const_add", Level: LevelFull, apply: ruleMulConstAdd},
	MUL_ITE:           {Name: "mul_ite", Level: LevelFull, apply: ruleMulIte},
	MUL_NEG:           {Name: "mul_neg", Level: LevelFull, apply: ruleMulNeg},
	MUL_NORM:          {Name: "mul_norm", Level: LevelFull, apply: ruleNorm},

	NOT_NOT:    {Name: "not_not", Level: LevelSimple, apply: ruleNotNot},
	NOT_NEG:    {Name: "not_neg", Level: LevelFull, apply: ruleNotNeg},
	NOT_CONCAT: {Name: "not_concat", Level: LevelFull, apply: ruleNotConcat},

	SHL_SPECIAL_CONST: {Name: "shl_special_const", Level: LevelSimple, apply: ruleShiftSpecialConst},
	SHL_CONST:         {Name: "shl_const", Level: LevelFull, apply: ruleShlConst},

	SHR_SPECIAL_CONST: {Name: "shr_special_const", Level: LevelSimple, apply: ruleShiftSpecialConst},
	SHR_SAME:          {Name: "shr_same", Level: LevelFull, apply: ruleShrSame},
	SHR_CONST:         {Name: "shr_const", Level: LevelFull, apply: ruleShrConst},

	SLT_SPECIAL_CONST: {Name: "slt_special_const", Level: LevelSimple, apply: ruleSltSpecialConst},
	SLT_SAME:          {Name: "slt_same", Level: LevelFull, apply: ruleCompareSame},
	SLT_BV1:           {Name: "slt_bv1", Level: LevelFull, apply: ruleSltBV1},
	SLT_CONCAT:        {Name: "slt_concat", Level: LevelFull, apply: ruleSltConcat},
	SLT_ITE:           {Name: "slt_ite", Level: LevelFull, apply: ruleIteLift},

	UDIV_SPECIAL_CONST: {Name: "udiv_special_const", Level: LevelSimple, apply: ruleUDivSpecialConst},
	UDIV_BV1:           {Name: "udiv_bv1", Level: LevelFull, apply: ruleUDivBV1},
	UDIV_SAME:          {Name: "udiv_same", Level: LevelFull, apply: ruleUDivSame},
	UDIV_POW2:          {Name: "udiv_pow2", Level: LevelFull, apply: ruleUDivPow2},
	UDIV_ITE:           {Name: "udiv_ite", Level: LevelFull, apply: ruleIteLift},

	ULT_SPECIAL_CONST: {Name: "ult_special_const", Level: LevelSimple, apply: ruleUltSpecialConst},
	ULT_SAME:          {Name: "ult_same", Level: LevelFull, apply: ruleCompareSame},
	ULT_BV1:           {Name: "ult_bv1", Level: LevelFull, apply: ruleUltBV1},
	ULT_CONCAT:        {Name: "ult_concat", Level: LevelFull, apply: ruleUltConcat},
	ULT_ITE:           {Name: "ult_ite", Level: LevelFull, apply: ruleIteLift},

	UREM_SPECIAL_CONST: {Name: "urem_special_const", Level: LevelSimple, apply: ruleURemSpecialConst},
	UREM_BV1:           {Name: "urem_bv1", Level: LevelFull, apply: ruleURemBV1},
	UREM_SAME:          {Name: "urem_same", Level: LevelFull, apply: ruleURemSame},

	XOR_SAME:          {Name: "xor_same", Level: LevelFull, apply: ruleXorSame},
	XOR_SPECIAL_CONST: {Name: "xor_special_const", Level: LevelSimple, apply: ruleXorSpecialConst},

	COMP_ELIM:        {Name: "comp_elim", Level: LevelSimple, apply: elimComp},
	DEC_ELIM:         {Name: "dec_elim", Level: LevelSimple, apply: elimDec},
	DISTINCT_ELIM:    {Name: "distinct_elim", Level: LevelSimple, apply: elimDistinct},
	INC_ELIM:         {Name: "inc_elim", Level: LevelSimple, apply: elimInc},
	NAND_ELIM:        {Name: "nand_elim", Level: LevelSimple, apply: elimNand},
	NEG_ELIM:         {Name: "neg_elim", Level: LevelSimple, apply: elimNeg},
	NEGO_ELIM:        {Name: "nego_elim", Level: LevelSimple, apply: elimNegO},
	NOR_ELIM:         {Name: "nor_elim", Level: LevelSimple, apply: elimNor},
	OR_ELIM:          {Name: "or_elim", Level: LevelSimple, apply: elimOr},
	REDAND_ELIM:      {Name: "redand_elim", Level: LevelSimple, apply: elimRedAnd},
	REDOR_ELIM:       {Name: "redor_elim", Level: LevelSimple, apply: elimRedOr},
	REDXOR_ELIM:      {Name: "redxor_elim", Level: LevelSimple, apply: elimRedXor},
	REPEAT_ELIM:      {Name: "repeat_elim", Level: LevelSimple, apply: elimRepeat},
	ROL_ELIM:         {Name: "rol_elim", Level: LevelSimple, apply: elimRotate},
	ROLI_ELIM:        {Name: "roli_elim", Level: LevelSimple, apply: elimRotateImmediate},
	ROR_ELIM:         {Name: "ror_elim", Level: LevelSimple, apply: elimRotate},
	RORI_ELIM:        {Name: "rori_elim", Level: LevelSimple, apply: elimRotateImmediate},
	SADDO_ELIM:       {Name: "saddo_elim", Level: LevelSimple, apply: elimSAddO},
	SDIV_ELIM:        {Name: "sdiv_elim", Level: LevelSimple, apply: elimSDiv},
	SDIVO_ELIM:       {Name: "sdivo_elim", Level: LevelSimple, apply: elimSDivO},
	SGE_ELIM:         {Name: "sge_elim", Level: LevelSimple, apply: elimCompare},
	SGT_ELIM:         {Name: "sgt_elim", Level: LevelSimple, apply: elimCompare},
	SIGN_EXTEND_ELIM: {Name: "sign_extend_elim", Level: LevelSimple, apply: elimSignExtend},
	SLE_ELIM:         {Name: "sle_elim", Level: LevelSimple, apply: elimCompare},
	SMOD_ELIM:        {Name: "smod_elim", Level: LevelSimple, apply: elimSMod},
	SMULO_ELIM:       {Name: "smulo_elim", Level: LevelSimple, apply: elimSMulO},
	SREM_ELIM:        {Name: "srem_elim", Level: LevelSimple, apply: elimSRem},
	SSUBO_ELIM:       {Name: "ssubo_elim", Level: LevelSimple, apply: elimSSubO},
	SUB_ELIM:         {Name: "sub_elim", Level: LevelSimple, apply: elimSub},
	UADDO_ELIM:       {Name: "uaddo_elim", Level: LevelSimple, apply: elimUAddO},
	UGE_ELIM:         {Name: "uge_elim", Level: LevelSimple, apply: elimCompare},
	UGT_ELIM:         {Name: "ugt_elim", Level: LevelSimple, apply: elimCompare},
	ULE_ELIM:         {Name: "ule_elim", Level: LevelSimple, apply: elimCompare},
	UMULO_ELIM:       {Name: "umulo_elim", Level: LevelSimple, apply: elimUMulO},
	USUBO_ELIM:       {Name: "usubo_elim", Level: LevelSimple, apply: elimUSubO},
	XNOR_ELIM:        {Name: "xnor_elim", Level: LevelSimple, apply: elimXnor},
	XOR_ELIM:         {Name: "xor_elim", Level: LevelSimple, apply: elimXor},
	ZERO_EXTEND_ELIM: {Name: "zero_extend_elim", Level: LevelSimple, apply: elimZeroExtend},
}

// dispatch maps each kind to its rules in the order they are tried.
// Evaluation comes first, then special constants, same operand and 1-bit
// rules, then algebraic rules, normalization and finally elimination.
var dispatch = [...][]RuleID{
	VALUE:    nil,
	VARIABLE: nil,

	ITE:     {EVAL, ITE_CONST, ITE_SAME, ITE_NOT_COND, ITE_BOOL},
	EQUAL:   {EVAL, EQUAL_SPECIAL_CONST, EQUAL_SAME, EQUAL_INV, EQUAL_CONST_ADD, EQUAL_NORM},
	NOT:     {EVAL, NOT_NOT, NOT_NEG, NOT_CONCAT},
	AND:     {EVAL, AND_SPECIAL_CONST, AND_IDEM1, AND_CONTRA1, AND_CONST, AND_IDEM2, AND_IDEM3, AND_CONTRA2, AND_CONTRA3, AND_SUBSUM1, AND_SUBSUM2, AND_NOT_AND1, AND_NOT_AND2, AND_RESOL1, AND_CONCAT, AND_NORM},
	ADD:     {EVAL, ADD_SPECIAL_CONST, ADD_BV1, ADD_SAME, ADD_NOT, ADD_NEG, ADD_CONST, ADD_UREM, ADD_NEG_MUL, ADD_ITE1, ADD_ITE2, ADD_NORM},
	MUL:     {EVAL, MUL_SPECIAL_CONST, MUL_BV1, MUL_POW2, MUL_CONST, MUL_CONST_ADD, MUL_ITE, MUL_NEG, MUL_NORM},
	UDIV:    {EVAL, UDIV_SPECIAL_CONST, UDIV_BV1, UDIV_SAME, UDIV_POW2, UDIV_ITE},
	UREM:    {EVAL, UREM_SPECIAL_CONST, UREM_BV1, UREM_SAME},
	SHL:     {EVAL, SHL_SPECIAL_CONST, SHL_CONST},
	SHR:     {EVAL, SHR_SPECIAL_CONST, SHR_SAME, SHR_CONST},
	ASHR:    {EVAL, ASHR_SPECIAL_CONST, ASHR_CONST},
	ULT:     {EVAL, ULT_SPECIAL_CONST, ULT_SAME, ULT_BV1, ULT_CONCAT, ULT_ITE},
	SLT:     {EVAL, SLT_SPECIAL_CONST, SLT_SAME, SLT_BV1, SLT_CONCAT, SLT_ITE},
	CONCAT:  {EVAL, CONCAT_CONST, CONCAT_EXTRACT},
	EXTRACT: {EVAL, EXTRACT_FULL, EXTRACT_EXTRACT, EXTRACT_CONCAT_FULL_LHS, EXTRACT_CONCAT_FULL_RHS, EXTRACT_CONCAT_LHS_RHS, EXTRACT_CONCAT, EXTRACT_AND, EXTRACT_ITE, EXTRACT_ADD_MUL},

	DISTINCT:    {EVAL, DISTINCT_ELIM},
	OR:          {EVAL, OR_ELIM},
	XOR:         {EVAL, XOR_SAME, XOR_SPECIAL_CONST, XOR_ELIM},
	NAND:        {EVAL, NAND_ELIM},
	NOR:         {EVAL, NOR_ELIM},
	XNOR:        {EVAL, XNOR_ELIM},
	NEG:         {EVAL, NEG_ELIM},
	SUB:         {EVAL, SUB_ELIM},
	INC:         {EVAL, INC_ELIM},
	DEC:         {EVAL, DEC_ELIM},
	SDIV:        {EVAL, SDIV_ELIM},
	SREM:        {EVAL, SREM_ELIM},
	SMOD:        {EVAL, SMOD_ELIM},
	COMP:        {EVAL, COMP_ELIM},
	ULE:         {EVAL, ULE_ELIM},
	UGT:         {EVAL, UGT_ELIM},
	UGE:         {EVAL, UGE_ELIM},
	SLE:         {EVAL, SLE_ELIM},
	SGT:         {EVAL, SGT_ELIM},
	SGE:         {EVAL, SGE_ELIM},
	UADDO:       {EVAL, UADDO_ELIM},
	SADDO:       {EVAL, SADDO_ELIM},
	USUBO:       {EVAL, USUBO_ELIM},
	SSUBO:       {EVAL, SSUBO_ELIM},
	UMULO:       {EVAL, UMULO_ELIM},
	SMULO:       {EVAL, SMULO_ELIM},
	SDIVO:       {EVAL, SDIVO_ELIM},
	NEGO:        {EVAL, NEGO_ELIM},
	REDAND:      {EVAL, REDAND_ELIM},
	REDOR:       {EVAL, REDOR_ELIM},
	REDXOR:      {EVAL, REDXOR_ELIM},
	REPEAT:      {EVAL, REPEAT_ELIM},
	ZERO_EXTEND: {EVAL, ZERO_EXTEND_ELIM},
	SIGN_EXTEND: {EVAL, SIGN_EXTEND_ELIM},
	ROL:         {EVAL, ROL_ELIM},
	ROR:         {EVAL, ROR_ELIM},
	ROLI:        {EVAL, ROLI_ELIM},
	RORI:        {EVAL, RORI_ELIM},
}

func init() {
	for i := range rules {
		rules[i].ID = RuleID(i)
	}
}

// String returns the name of the rule.
func (id RuleID) String() string {
	if id.IsValid() {
		return rules[id].Name
	}
	return fmt.Sprintf("RuleID<%d>", id)
}

// IsValid returns true if id is a known rule.
func (id RuleID) IsValid() bool {
	return id > rule_begin && id < rule_end && rules[id].Name != ""
}

// ParseRuleID returns the rule with the given name. Names are case insensitive.
func ParseRuleID(name string) (RuleID, error) {
	name = strings.ToLower(name)
	for id := rule_begin + 1; id < rule_end; id++ {
		if rules[id].Name == name {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRule, name)
}

// LookupRule returns the catalog entry for id.
func LookupRule(id RuleID) *Rule {
	assert(id.IsValid(), "invalid rule: %s", id)
	return &rules[id]
}

// Rules returns the rules for kind in the order they are tried.
func Rules(kind Kind) []RuleID {
	if !kind.IsValid() {
		return nil
	}
	return slices.Clone(dispatch[kind])
}

// ApplyRule applies a single rule to t. Returns t and false if the rule is not
// registered for the kind of t or its pattern does not match.
func ApplyRule(nm *Manager, id RuleID, t *Term) (*Term, bool) {
	if !slices.Contains(dispatch[t.kind], id) {
		return t, false
	}
	return rules[id].apply(nm, t)
}

// Apply applies the rule to t. The kind of t must be registered for the rule.
func (r *Rule) Apply(nm *Manager, t *Term) (*Term, bool) {
	assert(slices.Contains(dispatch[t.kind], r.ID), "%s: unexpected kind: %s", r.Name, t.kind)
	return r.apply(nm, t)
}

// ruleEval folds a term whose children are all values.
func ruleEval(nm *Manager, t *Term) (*Term, bool) {
	if t.IsValue() || t.IsVariable() {
		return t, false
	}
	args := make([]BitVector, len(t.children))
	for i, child := range t.children {
		if !child.IsValue() {
			return t, false
		}
		args[i] = child.value
	}
	return nm.MakeValue(evaluate(t.kind, args, t.indices)), true
}

// ruleNorm orders the operands of a commutative kind.
func ruleNorm(nm *Manager, t *Term) (*Term, bool) {
	if CompareTerm(t.children[1], t.children[0]) < 0 {
		return nm.Make(t.kind, t.children[1], t.children[0]), true
	}
	return t, false
}

func isZero(t *Term) bool      { return t.IsValue() && t.value.IsZero() }
func isOne(t *Term) bool       { return t.IsValue() && t.value.IsOne() }
func isOnes(t *Term) bool      { return t.IsValue() && t.value.IsOnes() }
func isMinSigned(t *Term) bool { return t.IsValue() && t.value.IsMinSigned() }
func isMaxSigned(t *Term) bool { return t.IsValue() && t.value.IsMaxSigned() }

// isNot returns the operand of a bitwise complement.
func isNot(t *Term) (*Term, bool) {
	if t.kind == NOT {
		return t.children[0], true
	}
	return nil, false
}

// isInvertedOf returns true if a is the complement of b or b is the complement of a.
func isInvertedOf(a, b *Term) bool {
	if x, ok := isNot(a); ok && x == b {
		return true
	} else if x, ok := isNot(b); ok && x == a {
		return true
	}
	return false
}

// isNeg returns x if t is -x, either as NEG or in its eliminated form ~x + 1.
func isNeg(t *Term) (*Term, bool) {
	switch t.kind {
	case NEG:
		return t.children[0], true
	case ADD:
		for i := 0; i < 2; i++ {
			if isOne(t.children[i]) {
				if x, ok := isNot(t.children[1-i]); ok {
					return x, true
				}
			}
		}
	}
	return nil, false
}

// isAndOf returns true if t is a conjunction with x as an operand.
func isAndOf(t, x *Term) bool {
	return t.kind == AND && (t.children[0] == x || t.children[1] == x)
}

// valueOperand returns the value operand and the other operand of a binary term.
func valueOperand(t *Term) (BitVector, *Term, bool) {
	for i := 0; i < 2; i++ {
		if t.children[i].IsValue() {
			return t.children[i].value, t.children[1-i], true
		}
	}
	return BitVector{}, nil, false
}

// ruleCompareSame rewrites a strict comparison of a term with itself to false.
func ruleCompareSame(nm *Manager, t *Term) (*Term, bool) {
	if t.children[0] == t.children[1] {
		return nm.False(), true
	}
	return t, false
}

// ruleShiftSpecialConst rewrites shifts of zero and shifts by zero.
func ruleShiftSpecialConst(nm *Manager, t *Term) (*Term, bool) {
	if isZero(t.children[0]) || isZero(t.children[1]) {
		return t.children[0], true
	}
	return t, false
}

// ruleIteLift hoists a pair of if-then-else terms with the same condition
// and a shared branch out of a binary operator. Complemented pairs are
// handled by pushing the complement into the branches.
func ruleIteLift(nm *Manager, t *Term) (*Term, bool) {
	a, b := t.children[0], t.children[1]

	var inverted bool
	if x, ok := isNot(a); ok && x.kind == ITE {
		y, ok := isNot(b)
		if !ok || y.kind != ITE {
			return t, false
		}
		a, b, inverted = x, y, true
	}
	if a.kind != ITE || b.kind != ITE || a.children[0] != b.children[0] {
		return t, false
	} else if a.children[1] != b.children[1] && a.children[2] != b.children[2] {
		return t, false
	}

	branch := func(x, y *Term) *Term {
		if inverted {
			x, y = nm.Invert(x), nm.Invert(y)
		}
		return nm.Make(t.kind, x, y)
	}
	return nm.Make(ITE, a.children[0],
		branch(a.children[1], b.children[1]),
		branch(a.children[2], b.children[2]),
	), true
}
