package z3

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unsafe"

	"github.com/benbjohnson/bvrw"
)

/*
#cgo LDFLAGS: -lz3
#include <z3.h>
#include <stdlib.h>
#include <stdio.h>
*/
import "C"

// Checker errors.
var (
	ErrTimeout       = errors.New("z3: timeout")
	ErrCanceled      = errors.New("z3: canceled")
	ErrResourceLimit = errors.New("z3: resource limit reached")
	ErrUnknown       = errors.New("z3: unknown")
)

// Checker proves terms equivalent with an embedded Z3 solver.
type Checker struct {
	ctx   *Context
	stats Stats
}

// NewChecker returns a new instance of Checker. A zero timeout disables the
// solver timeout.
func NewChecker(timeout time.Duration) *Checker {
	return &Checker{
		ctx: NewContext(timeout),
	}
}

// Close deletes the underlying Z3 context.
func (c *Checker) Close() error {
	return c.ctx.Close()
}

// Stats returns statistics for the checker.
func (c *Checker) Stats() Stats {
	return c.stats
}

// Equivalent returns true if a and b evaluate to the same value under every
// assignment of their free variables.
func (c *Checker) Equivalent(a, b *bvrw.Term) (equivalent bool, err error) {
	if a.Width() != b.Width() {
		return false, fmt.Errorf("z3: width mismatch: %d != %d", a.Width(), b.Width())
	}

	t := time.Now()
	defer func() {
		c.stats.CheckN++
		c.stats.CheckTime += time.Since(t)
	}()

	solver := C.Z3_mk_solver(c.ctx.raw)
	if err := c.ctx.err("Z3_mk_solver"); err != nil {
		return false, err
	}
	C.Z3_solver_inc_ref(c.ctx.raw, solver)
	defer C.Z3_solver_dec_ref(c.ctx.raw, solver)

	// Search for an assignment where the terms differ.
	asts := make(map[*bvrw.Term]C.Z3_ast)
	z3a, err := c.ctx.toAST(a, asts)
	if err != nil {
		return false, err
	}
	z3b, err := c.ctx.toAST(b, asts)
	if err != nil {
		return false, err
	}
	eq := C.Z3_mk_eq(c.ctx.raw, z3a, z3b)
	if err := c.ctx.err("Z3_mk_eq"); err != nil {
		return false, err
	}
	C.Z3_solver_assert(c.ctx.raw, solver, C.Z3_mk_not(c.ctx.raw, eq))
	if err := c.ctx.err("Z3_solver_assert"); err != nil {
		return false, err
	}

	ret := C.Z3_solver_check(c.ctx.raw, solver)
	if err := c.ctx.err("Z3_solver_check"); err != nil {
		return false, err
	} else if ret == C.Z3_L_FALSE {
		return true, nil
	} else if ret == C.Z3_L_TRUE {
		return false, nil
	}

	reason := C.GoString(C.Z3_solver_get_reason_unknown(c.ctx.raw, solver))
	switch {
	case strings.Contains(reason, "timeout"):
		return false, ErrTimeout
	case strings.Contains(reason, "canceled"):
		return false, ErrCanceled
	case strings.Contains(reason, "(resource limits reached)"):
		return false, ErrResourceLimit
	case strings.Contains(reason, "unknown"):
		return false, ErrUnknown
	default:
		return false, fmt.Errorf("z3: %s", reason)
	}
}

// Context represents a Z3 context object that is used for constructing expressions.
type Context struct {
	raw C.Z3_context
}

// NewContext returns a new instance of Context.
func NewContext(timeout time.Duration) *Context {
	config := C.Z3_mk_config()
	defer C.Z3_del_config(config)

	if timeout > 0 {
		key, value := C.CString("timeout"), C.CString(fmt.Sprint(timeout.Milliseconds()))
		defer C.free(unsafe.Pointer(key))
		defer C.free(unsafe.Pointer(value))
		C.Z3_set_param_value(config, key, value)
	}

	raw := C.Z3_mk_context(config)
	C.Z3_set_error_handler(raw, nil)
	C.Z3_set_ast_print_mode(raw, C.Z3_PRINT_SMTLIB2_COMPLIANT)
	return &Context{raw: raw}
}

// Close deletes the underlying Z3 context.
func (ctx *Context) Close() error {
	C.Z3_del_context(ctx.raw)
	return nil
}

// err returns the error for the last API call. Returns nil if last call was successful.
func (ctx *Context) err(op string) error {
	if code := C.Z3_get_error_code(ctx.raw); code != C.Z3_OK {
		return &Error{Code: int(code), Op: op, Message: C.GoString(C.Z3_get_error_msg(ctx.raw, code))}
	}
	return nil
}

// toAST returns the bit-vector AST for a term. Predicates are encoded as
// 1-bit vectors so every term has a bit-vector sort.
func (ctx *Context) toAST(t *bvrw.Term, asts map[*bvrw.Term]C.Z3_ast) (C.Z3_ast, error) {
	if ast, ok := asts[t]; ok {
		return ast, nil
	}

	args := make([]C.Z3_ast, t.NumChildren())
	for i, child := range t.Children() {
		ast, err := ctx.toAST(child, asts)
		if err != nil {
			return nil, err
		}
		args[i] = ast
	}

	ast, err := ctx.makeAST(t, args)
	if err != nil {
		return nil, err
	}
	asts[t] = ast
	return ast, nil
}

func (ctx *Context) makeAST(t *bvrw.Term, args []C.Z3_ast) (C.Z3_ast, error) {
	switch t.Kind() {
	case bvrw.VALUE:
		return ctx.makeValue(t.Value())
	case bvrw.VARIABLE:
		return ctx.makeVariable(t)
	case bvrw.ITE:
		cond, err := ctx.toBool(args[0])
		if err != nil {
			return nil, err
		}
		return C.Z3_mk_ite(ctx.raw, cond, args[1], args[2]), ctx.err("Z3_mk_ite")

	case bvrw.EQUAL, bvrw.COMP:
		return ctx.fromBool(C.Z3_mk_eq(ctx.raw, args[0], args[1]), "Z3_mk_eq")
	case bvrw.DISTINCT:
		return ctx.fromBool(C.Z3_mk_not(ctx.raw, C.Z3_mk_eq(ctx.raw, args[0], args[1])), "Z3_mk_not")

	case bvrw.NOT:
		return C.Z3_mk_bvnot(ctx.raw, args[0]), ctx.err("Z3_mk_bvnot")
	case bvrw.AND:
		return C.Z3_mk_bvand(ctx.raw, args[0], args[1]), ctx.err("Z3_mk_bvand")
	case bvrw.OR:
		return C.Z3_mk_bvor(ctx.raw, args[0], args[1]), ctx.err("Z3_mk_bvor")
	case bvrw.XOR:
		return C.Z3_mk_bvxor(ctx.raw, args[0], args[1]), ctx.err("Z3_mk_bvxor")
	case bvrw.NAND:
		return C.Z3_mk_bvnand(ctx.raw, args[0], args[1]), ctx.err("Z3_mk_bvnand")
	case bvrw.NOR:
		return C.Z3_mk_bvnor(ctx.raw, args[0], args[1]), ctx.err("Z3_mk_bvnor")
	case bvrw.XNOR:
		return C.Z3_mk_bvxnor(ctx.raw, args[0], args[1]), ctx.err("Z3_mk_bvxnor")

	case bvrw.NEG:
		return C.Z3_mk_bvneg(ctx.raw, args[0]), ctx.err("Z3_mk_bvneg")
	case bvrw.ADD:
		return C.Z3_mk_bvadd(ctx.raw, args[0], args[1]), ctx.err("Z3_mk_bvadd")
	case bvrw.SUB:
		return C.Z3_mk_bvsub(ctx.raw, args[0], args[1]), ctx.err("Z3_mk_bvsub")
	case bvrw.INC, bvrw.DEC:
		one, err := ctx.makeUint64(t.Width(), 1)
		if err != nil {
			return nil, err
		} else if t.Kind() == bvrw.INC {
			return C.Z3_mk_bvadd(ctx.raw, args[0], one), ctx.err("Z3_mk_bvadd")
		}
		return C.Z3_mk_bvsub(ctx.raw, args[0], one), ctx.err("Z3_mk_bvsub")
	case bvrw.MUL:
		return C.Z3_mk_bvmul(ctx.raw, args[0], args[1]), ctx.err("Z3_mk_bvmul")
	case bvrw.UDIV:
		return C.Z3_mk_bvudiv(ctx.raw, args[0], args[1]), ctx.err("Z3_mk_bvudiv")
	case bvrw.UREM:
		return C.Z3_mk_bvurem(ctx.raw, args[0], args[1]), ctx.err("Z3_mk_bvurem")
	case bvrw.SDIV:
		return C.Z3_mk_bvsdiv(ctx.raw, args[0], args[1]), ctx.err("Z3_mk_bvsdiv")
	case bvrw.SREM:
		return C.Z3_mk_bvsrem(ctx.raw, args[0], args[1]), ctx.err("Z3_mk_bvsrem")
	case bvrw.SMOD:
		return C.Z3_mk_bvsmod(ctx.raw, args[0], args[1]), ctx.err("Z3_mk_bvsmod")

	case bvrw.SHL:
		return C.Z3_mk_bvshl(ctx.raw, args[0], args[1]), ctx.err("Z3_mk_bvshl")
	case bvrw.SHR:
		return C.Z3_mk_bvlshr(ctx.raw, args[0], args[1]), ctx.err("Z3_mk_bvlshr")
	case bvrw.ASHR:
		return C.Z3_mk_bvashr(ctx.raw, args[0], args[1]), ctx.err("Z3_mk_bvashr")
	case bvrw.ROL:
		return C.Z3_mk_ext_rotate_left(ctx.raw, args[0], args[1]), ctx.err("Z3_mk_ext_rotate_left")
	case bvrw.ROR:
		return C.Z3_mk_ext_rotate_right(ctx.raw, args[0], args[1]), ctx.err("Z3_mk_ext_rotate_right")
	case bvrw.ROLI:
		return C.Z3_mk_rotate_left(ctx.raw, C.uint(t.Index(0)), args[0]), ctx.err("Z3_mk_rotate_left")
	case bvrw.RORI:
		return C.Z3_mk_rotate_right(ctx.raw, C.uint(t.Index(0)), args[0]), ctx.err("Z3_mk_rotate_right")

	case bvrw.ULT:
		return ctx.fromBool(C.Z3_mk_bvult(ctx.raw, args[0], args[1]), "Z3_mk_bvult")
	case bvrw.ULE:
		return ctx.fromBool(C.Z3_mk_bvule(ctx.raw, args[0], args[1]), "Z3_mk_bvule")
	case bvrw.UGT:
		return ctx.fromBool(C.Z3_mk_bvugt(ctx.raw, args[0], args[1]), "Z3_mk_bvugt")
	case bvrw.UGE:
		return ctx.fromBool(C.Z3_mk_bvuge(ctx.raw, args[0], args[1]), "Z3_mk_bvuge")
	case bvrw.SLT:
		return ctx.fromBool(C.Z3_mk_bvslt(ctx.raw, args[0], args[1]), "Z3_mk_bvslt")
	case bvrw.SLE:
		return ctx.fromBool(C.Z3_mk_bvsle(ctx.raw, args[0], args[1]), "Z3_mk_bvsle")
	case bvrw.SGT:
		return ctx.fromBool(C.Z3_mk_bvsgt(ctx.raw, args[0], args[1]), "Z3_mk_bvsgt")
	case bvrw.SGE:
		return ctx.fromBool(C.Z3_mk_bvsge(ctx.raw, args[0], args[1]), "Z3_mk_bvsge")

	case bvrw.UADDO:
		return ctx.fromBool(C.Z3_mk_not(ctx.raw, C.Z3_mk_bvadd_no_overflow(ctx.raw, args[0], args[1], C.bool(false))), "Z3_mk_bvadd_no_overflow")
	case bvrw.SADDO:
		return ctx.fromBool(C.Z3_mk_not(ctx.raw, ctx.and(
			C.Z3_mk_bvadd_no_overflow(ctx.raw, args[0], args[1], C.bool(true)),
			C.Z3_mk_bvadd_no_underflow(ctx.raw, args[0], args[1]),
		)), "Z3_mk_bvadd_no_underflow")
	case bvrw.USUBO:
		return ctx.fromBool(C.Z3_mk_not(ctx.raw, C.Z3_mk_bvsub_no_underflow(ctx.raw, args[0], args[1], C.bool(false))), "Z3_mk_bvsub_no_underflow")
	case bvrw.SSUBO:
		return ctx.fromBool(C.Z3_mk_not(ctx.raw, ctx.and(
			C.Z3_mk_bvsub_no_overflow(ctx.raw, args[0], args[1]),
			C.Z3_mk_bvsub_no_underflow(ctx.raw, args[0], args[1], C.bool(true)),
		)), "Z3_mk_bvsub_no_overflow")
	case bvrw.UMULO:
		return ctx.fromBool(C.Z3_mk_not(ctx.raw, C.Z3_mk_bvmul_no_overflow(ctx.raw, args[0], args[1], C.bool(false))), "Z3_mk_bvmul_no_overflow")
	case bvrw.SMULO:
		return ctx.fromBool(C.Z3_mk_not(ctx.raw, ctx.and(
			C.Z3_mk_bvmul_no_overflow(ctx.raw, args[0], args[1], C.bool(true)),
			C.Z3_mk_bvmul_no_underflow(ctx.raw, args[0], args[1]),
		)), "Z3_mk_bvmul_no_underflow")
	case bvrw.SDIVO:
		return ctx.fromBool(C.Z3_mk_not(ctx.raw, C.Z3_mk_bvsdiv_no_overflow(ctx.raw, args[0], args[1])), "Z3_mk_bvsdiv_no_overflow")
	case bvrw.NEGO:
		return ctx.fromBool(C.Z3_mk_not(ctx.raw, C.Z3_mk_bvneg_no_overflow(ctx.raw, args[0])), "Z3_mk_bvneg_no_overflow")

	case bvrw.REDAND:
		return C.Z3_mk_bvredand(ctx.raw, args[0]), ctx.err("Z3_mk_bvredand")
	case bvrw.REDOR:
		return C.Z3_mk_bvredor(ctx.raw, args[0]), ctx.err("Z3_mk_bvredor")
	case bvrw.REDXOR:
		return ctx.makeRedXor(args[0], t.Child(0).Width())

	case bvrw.CONCAT:
		return C.Z3_mk_concat(ctx.raw, args[0], args[1]), ctx.err("Z3_mk_concat")
	case bvrw.EXTRACT:
		return C.Z3_mk_extract(ctx.raw, C.uint(t.Index(0)), C.uint(t.Index(1)), args[0]), ctx.err("Z3_mk_extract")
	case bvrw.REPEAT:
		return C.Z3_mk_repeat(ctx.raw, C.uint(t.Index(0)), args[0]), ctx.err("Z3_mk_repeat")
	case bvrw.ZERO_EXTEND:
		return C.Z3_mk_zero_ext(ctx.raw, C.uint(t.Index(0)), args[0]), ctx.err("Z3_mk_zero_ext")
	case bvrw.SIGN_EXTEND:
		return C.Z3_mk_sign_ext(ctx.raw, C.uint(t.Index(0)), args[0]), ctx.err("Z3_mk_sign_ext")
	default:
		return nil, fmt.Errorf("z3.Context.makeAST: invalid term kind: %s", t.Kind())
	}
}

// makeValue returns a numeral for a bit-vector value of any width.
func (ctx *Context) makeValue(v bvrw.BitVector) (C.Z3_ast, error) {
	sort, err := ctx.makeBVSort(v.Width())
	if err != nil {
		return nil, err
	}
	cstr := C.CString(v.BigInt().String())
	defer C.free(unsafe.Pointer(cstr))
	return C.Z3_mk_numeral(ctx.raw, cstr, sort), ctx.err("Z3_mk_numeral")
}

// makeVariable returns a constant named after the variable's symbol and ID.
func (ctx *Context) makeVariable(t *bvrw.Term) (C.Z3_ast, error) {
	sort, err := ctx.makeBVSort(t.Width())
	if err != nil {
		return nil, err
	}
	cname := C.CString(fmt.Sprintf("%s!%d", t.Symbol(), t.ID()))
	defer C.free(unsafe.Pointer(cname))
	symbol := C.Z3_mk_string_symbol(ctx.raw, cname)
	return C.Z3_mk_const(ctx.raw, symbol, sort), ctx.err("Z3_mk_const")
}

// makeRedXor folds the bits of a with xor.
func (ctx *Context) makeRedXor(a C.Z3_ast, width uint) (C.Z3_ast, error) {
	ast := C.Z3_mk_extract(ctx.raw, 0, 0, a)
	for i := uint(1); i < width; i++ {
		ast = C.Z3_mk_bvxor(ctx.raw, ast, C.Z3_mk_extract(ctx.raw, C.uint(i), C.uint(i), a))
	}
	return ast, ctx.err("Z3_mk_bvxor")
}

// toBool converts a 1-bit vector into a Boolean.
func (ctx *Context) toBool(ast C.Z3_ast) (C.Z3_ast, error) {
	one, err := ctx.makeUint64(1, 1)
	if err != nil {
		return nil, err
	}
	return C.Z3_mk_eq(ctx.raw, ast, one), ctx.err("Z3_mk_eq")
}

// fromBool converts a Boolean into a 1-bit vector.
func (ctx *Context) fromBool(ast C.Z3_ast, op string) (C.Z3_ast, error) {
	if err := ctx.err(op); err != nil {
		return nil, err
	}
	whenTrue, err := ctx.makeUint64(1, 1)
	if err != nil {
		return nil, err
	}
	whenFalse, err := ctx.makeUint64(1, 0)
	if err != nil {
		return nil, err
	}
	return C.Z3_mk_ite(ctx.raw, ast, whenTrue, whenFalse), ctx.err("Z3_mk_ite")
}

// and returns the conjunction of two Booleans.
func (ctx *Context) and(a, b C.Z3_ast) C.Z3_ast {
	args := [2]C.Z3_ast{a, b}
	return C.Z3_mk_and(ctx.raw, 2, &args[0])
}

func (ctx *Context) makeBVSort(width uint) (C.Z3_sort, error) {
	return C.Z3_mk_bv_sort(ctx.raw, C.uint(width)), ctx.err("Z3_mk_bv_sort")
}

func (ctx *Context) makeUint64(width uint, value uint64) (C.Z3_ast, error) {
	t, err := ctx.makeBVSort(width)
	if err != nil {
		return nil, err
	}
	return C.Z3_mk_unsigned_int64(ctx.raw, C.uint64_t(value), t), ctx.err("Z3_mk_unsigned_int64")
}

// Error represents an error from the Z3 API.
type Error struct {
	Code    int
	Op      string
	Message string
}

// Error returns the error as a string.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%d)", e.Op, e.Message, e.Code)
}

// Possible error codes.
const (
	ErrorCodeOK = iota
	ErrorCodeSortError
	ErrorCodeIOB
	ErrorCodeInvalidArg
	ErrorCodeParserError
	ErrorCodeNoParser
	ErrorCodeInvalidPattern
	ErrorCodeMemoutFail
	ErrorCodeFileAccessError
	ErrorCodeInternalFatal
	ErrorCodeInvalidUsage
	ErrorCodeDecRefError
	ErrorCodeException
)

// Stats represents statistics for a checker.
type Stats struct {
	CheckN    int
	CheckTime time.Duration
}
