package bvrw

import (
	"fmt"
)

// evaluate computes kind applied to constant operands and static indices.
func evaluate(kind Kind, args []BitVector, indices []uint) BitVector {
	a := args[0]
	var b BitVector
	if len(args) > 1 {
		b = args[1]
	}

	switch kind {
	case ITE:
		if a.IsOne() {
			return b
		}
		return args[2]
	case EQUAL:
		return BoolBitVector(a.Eq(b))
	case DISTINCT:
		return BoolBitVector(!a.Eq(b))
	case NOT:
		return a.Not()
	case AND:
		return a.And(b)
	case OR:
		return a.Or(b)
	case XOR:
		return a.Xor(b)
	case NAND:
		return a.Nand(b)
	case NOR:
		return a.Nor(b)
	case XNOR:
		return a.Xnor(b)
	case NEG:
		return a.Neg()
	case ADD:
		return a.Add(b)
	case SUB:
		return a.Sub(b)
	case INC:
		return a.Inc()
	case DEC:
		return a.Dec()
	case MUL:
		return a.Mul(b)
	case UDIV:
		return a.UDiv(b)
	case UREM:
		return a.URem(b)
	case SDIV:
		return a.SDiv(b)
	case SREM:
		return a.SRem(b)
	case SMOD:
		return a.SMod(b)
	case SHL:
		return a.Shl(b)
	case SHR:
		return a.Shr(b)
	case ASHR:
		return a.AShr(b)
	case ROL:
		return a.Rol(b)
	case ROR:
		return a.Ror(b)
	case ROLI:
		return a.RolN(indices[0])
	case RORI:
		return a.RorN(indices[0])
	case ULT:
		return BoolBitVector(a.Ult(b))
	case ULE:
		return BoolBitVector(a.Ule(b))
	case UGT:
		return BoolBitVector(a.Ugt(b))
	case UGE:
		return BoolBitVector(a.Uge(b))
	case SLT:
		return BoolBitVector(a.Slt(b))
	case SLE:
		return BoolBitVector(a.Sle(b))
	case SGT:
		return BoolBitVector(a.Sgt(b))
	case SGE:
		return BoolBitVector(a.Sge(b))
	case COMP:
		return a.Comp(b)
	case UADDO:
		return BoolBitVector(a.UAddO(b))
	case SADDO:
		return BoolBitVector(a.SAddO(b))
	case USUBO:
		return BoolBitVector(a.USubO(b))
	case SSUBO:
		return BoolBitVector(a.SSubO(b))
	case UMULO:
		return BoolBitVector(a.UMulO(b))
	case SMULO:
		return BoolBitVector(a.SMulO(b))
	case SDIVO:
		return BoolBitVector(a.SDivO(b))
	case NEGO:
		return BoolBitVector(a.NegO())
	case REDAND:
		return a.RedAnd()
	case REDOR:
		return a.RedOr()
	case REDXOR:
		return a.RedXor()
	case CONCAT:
		return a.Concat(b)
	case EXTRACT:
		return a.Extract(indices[0], indices[1])
	case REPEAT:
		return a.Repeat(indices[0])
	case ZERO_EXTEND:
		return a.ZeroExtend(indices[0])
	case SIGN_EXTEND:
		return a.SignExtend(indices[0])
	default:
		panic(fmt.Sprintf("evaluate: unexpected kind: %s", kind))
	}
}

// Evaluator computes the value of terms under an assignment of variables.
type Evaluator struct {
	m     map[*Term]BitVector // variable to value
	cache map[*Term]BitVector
}

// NewEvaluator returns a new instance of Evaluator with the given variable/value mapping.
func NewEvaluator(vars []*Term, values []BitVector) *Evaluator {
	assert(len(vars) == len(values), "variable/value count mismatch: %d != %d", len(vars), len(values))

	m := make(map[*Term]BitVector)
	for i, v := range vars {
		assert(v.IsVariable(), "not a variable: %s", v)
		assert(v.width == values[i].width, "width mismatch for %s: %d != %d", v, v.width, values[i].width)
		_, ok := m[v]
		assert(!ok, "duplicate variable: %s", v)
		m[v] = values[i]
	}
	return &Evaluator{m: m, cache: make(map[*Term]BitVector)}
}

// Evaluate evaluates t to a constant value.
// Returns an error if an unbound variable is encountered.
func (e *Evaluator) Evaluate(t *Term) (BitVector, error) {
	if v, ok := e.cache[t]; ok {
		return v, nil
	}

	// Evaluate children iteratively so deep terms do not exhaust the stack.
	stack := []*Term{t}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		if _, ok := e.cache[cur]; ok {
			stack = stack[:len(stack)-1]
			continue
		}

		switch cur.kind {
		case VALUE:
			e.cache[cur] = cur.value
			stack = stack[:len(stack)-1]
			continue
		case VARIABLE:
			v, ok := e.m[cur]
			if !ok {
				return BitVector{}, fmt.Errorf("%w: %s", ErrUnboundVariable, cur.Symbol())
			}
			e.cache[cur] = v
			stack = stack[:len(stack)-1]
			continue
		}

		args := make([]BitVector, 0, len(cur.children))
		for _, child := range cur.children {
			if v, ok := e.cache[child]; ok {
				args = append(args, v)
			} else {
				stack = append(stack, child)
			}
		}
		if len(args) < len(cur.children) {
			continue
		}

		e.cache[cur] = evaluate(cur.kind, args, cur.indices)
		stack = stack[:len(stack)-1]
	}
	return e.cache[t], nil
}
