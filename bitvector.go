package bvrw

import (
	"fmt"
	"math/big"
	"strings"
)

var bigOne = big.NewInt(1)

// BitVector represents a fixed-width two's complement integer of arbitrary width.
// The zero value is not valid. BitVectors are immutable; every operation
// returns a new value.
type BitVector struct {
	width uint
	value *big.Int // always within [0, 2^width)
}

// newBitVector returns a bit-vector of the given width. The value is truncated
// to width bits using two's complement semantics. v is owned by the result.
func newBitVector(width uint, v *big.Int) BitVector {
	assert(width > 0, "bit-vector width must be positive")
	return BitVector{width: width, value: v.And(v, bitmask(width))}
}

// bitmask returns a value with the low width bits set.
func bitmask(width uint) *big.Int {
	m := new(big.Int).Lsh(bigOne, width)
	return m.Sub(m, bigOne)
}

// NewBitVector returns a bit-vector of the given width from a uint64.
// Values wider than width are truncated.
func NewBitVector(width uint, value uint64) BitVector {
	return newBitVector(width, new(big.Int).SetUint64(value))
}

// NewBitVectorFromBig returns a bit-vector of the given width from an arbitrary
// precision integer. Negative values are converted using two's complement.
func NewBitVectorFromBig(width uint, value *big.Int) BitVector {
	return newBitVector(width, new(big.Int).Set(value))
}

// NewBitVectorFromString parses digits in the given base as a bit-vector of
// the given width. Returns an error if the value does not fit.
func NewBitVectorFromString(s string, base int, width uint) (BitVector, error) {
	if width == 0 {
		return BitVector{}, fmt.Errorf("invalid bit-vector width: 0")
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok || v.Sign() < 0 {
		return BitVector{}, fmt.Errorf("invalid bit-vector literal: %q", s)
	} else if uint(v.BitLen()) > width {
		return BitVector{}, fmt.Errorf("bit-vector literal %q does not fit in %d bits", s, width)
	}
	return newBitVector(width, v), nil
}

// ParseBitVector parses a binary ("#b0101" or "0101") or hexadecimal ("#x5")
// literal. The width is implied by the number of digits.
func ParseBitVector(s string) (BitVector, error) {
	digits, base, bitsPerDigit := s, 2, uint(1)
	switch {
	case strings.HasPrefix(s, "#b"):
		digits = s[2:]
	case strings.HasPrefix(s, "#x"):
		digits, base, bitsPerDigit = s[2:], 16, 4
	}
	if digits == "" || strings.ContainsAny(digits, "+-") {
		return BitVector{}, fmt.Errorf("invalid bit-vector literal: %q", s)
	}
	return NewBitVectorFromString(digits, base, uint(len(digits))*bitsPerDigit)
}

// MustParseBitVector is like ParseBitVector but panics on error.
func MustParseBitVector(s string) BitVector {
	bv, err := ParseBitVector(s)
	if err != nil {
		panic(err)
	}
	return bv
}

// ZeroBitVector returns the all-zero bit-vector of the given width.
func ZeroBitVector(width uint) BitVector { return newBitVector(width, new(big.Int)) }

// OneBitVector returns the value one of the given width.
func OneBitVector(width uint) BitVector { return NewBitVector(width, 1) }

// OnesBitVector returns the all-ones bit-vector of the given width.
func OnesBitVector(width uint) BitVector { return newBitVector(width, bitmask(width)) }

// MinSignedBitVector returns the minimum signed value (only the top bit set).
func MinSignedBitVector(width uint) BitVector {
	return newBitVector(width, new(big.Int).Lsh(bigOne, width-1))
}

// MaxSignedBitVector returns the maximum signed value (all bits except the top bit set).
func MaxSignedBitVector(width uint) BitVector {
	return newBitVector(width, bitmask(width-1))
}

// BoolBitVector returns a 1-bit value of 1 if b is true, otherwise 0.
func BoolBitVector(b bool) BitVector {
	if b {
		return NewBitVector(WidthBool, 1)
	}
	return NewBitVector(WidthBool, 0)
}

// Width returns the width of the bit-vector in bits.
func (bv BitVector) Width() uint { return bv.width }

// BigInt returns a copy of the unsigned value.
func (bv BitVector) BigInt() *big.Int { return new(big.Int).Set(bv.value) }

// SignedBigInt returns a copy of the value interpreted as two's complement.
func (bv BitVector) SignedBigInt() *big.Int {
	v := new(big.Int).Set(bv.value)
	if bv.Msb() {
		v.Sub(v, new(big.Int).Lsh(bigOne, bv.width))
	}
	return v
}

// Uint64 returns the low 64 bits of the value.
func (bv BitVector) Uint64() uint64 {
	return new(big.Int).And(bv.value, bitmask(64)).Uint64()
}

// Bit returns the bit at index i.
func (bv BitVector) Bit(i uint) uint {
	assert(i < bv.width, "bit index out of range: %d >= %d", i, bv.width)
	return bv.value.Bit(int(i))
}

// Msb returns true if the most significant bit is set.
func (bv BitVector) Msb() bool { return bv.Bit(bv.width-1) == 1 }

// Equal returns true if bv and other have the same width and value.
func (bv BitVector) Equal(other BitVector) bool {
	if bv.width != other.width {
		return false
	} else if bv.value == nil || other.value == nil {
		return bv.value == other.value
	}
	return bv.value.Cmp(other.value) == 0
}

// Compare returns -1, 0 or 1 comparing widths first and then unsigned values.
func (bv BitVector) Compare(other BitVector) int {
	if bv.width < other.width {
		return -1
	} else if bv.width > other.width {
		return 1
	}
	return bv.value.Cmp(other.value)
}

// Binary returns the value as a string of binary digits, most significant first.
func (bv BitVector) Binary() string {
	s := bv.value.Text(2)
	if uint(len(s)) < bv.width {
		s = strings.Repeat("0", int(bv.width)-len(s)) + s
	}
	return s
}

// String returns the value as an SMT-LIB binary literal.
func (bv BitVector) String() string {
	if bv.value == nil {
		return "#b"
	}
	return "#b" + bv.Binary()
}

// IsZero returns true if all bits are zero.
func (bv BitVector) IsZero() bool { return bv.value.Sign() == 0 }

// IsOne returns true if the value is one.
func (bv BitVector) IsOne() bool { return bv.value.Cmp(bigOne) == 0 }

// IsOnes returns true if all bits are one.
func (bv BitVector) IsOnes() bool { return bv.value.Cmp(bitmask(bv.width)) == 0 }

// IsMinSigned returns true if only the most significant bit is set.
func (bv BitVector) IsMinSigned() bool { return bv.Equal(MinSignedBitVector(bv.width)) }

// IsMaxSigned returns true if all bits except the most significant bit are set.
func (bv BitVector) IsMaxSigned() bool { return bv.Equal(MaxSignedBitVector(bv.width)) }

// IsPowerOfTwo returns true if exactly one bit is set.
func (bv BitVector) IsPowerOfTwo() bool {
	return bv.value.Sign() > 0 && bv.value.TrailingZeroBits() == uint(bv.value.BitLen()-1)
}

// IsNegPowerOfTwo returns true if the negation of the value is a power of two.
func (bv BitVector) IsNegPowerOfTwo() bool { return bv.Neg().IsPowerOfTwo() }

// Log2 returns the index of the highest set bit. Value must be non-zero.
func (bv BitVector) Log2() uint {
	assert(!bv.IsZero(), "log2: zero value")
	return uint(bv.value.BitLen() - 1)
}

// CountTrailingZeros returns the number of low zero bits. Returns the width
// if the value is zero.
func (bv BitVector) CountTrailingZeros() uint {
	if bv.IsZero() {
		return bv.width
	}
	return bv.value.TrailingZeroBits()
}

// Add returns the sum of bv and other.
func (bv BitVector) Add(other BitVector) BitVector {
	bv.checkWidth("add", other)
	return newBitVector(bv.width, new(big.Int).Add(bv.value, other.value))
}

// Sub returns the difference of bv and other.
func (bv BitVector) Sub(other BitVector) BitVector {
	bv.checkWidth("sub", other)
	return newBitVector(bv.width, new(big.Int).Sub(bv.value, other.value))
}

// Neg returns the two's complement negation of bv.
func (bv BitVector) Neg() BitVector {
	return newBitVector(bv.width, new(big.Int).Neg(bv.value))
}

// Inc returns bv plus one.
func (bv BitVector) Inc() BitVector {
	return newBitVector(bv.width, new(big.Int).Add(bv.value, bigOne))
}

// Dec returns bv minus one.
func (bv BitVector) Dec() BitVector {
	return newBitVector(bv.width, new(big.Int).Sub(bv.value, bigOne))
}

// Mul returns the product of bv and other.
func (bv BitVector) Mul(other BitVector) BitVector {
	bv.checkWidth("mul", other)
	return newBitVector(bv.width, new(big.Int).Mul(bv.value, other.value))
}

// UDiv returns the unsigned quotient. Division by zero returns all ones.
func (bv BitVector) UDiv(other BitVector) BitVector {
	bv.checkWidth("udiv", other)
	if other.IsZero() {
		return OnesBitVector(bv.width)
	}
	return newBitVector(bv.width, new(big.Int).Quo(bv.value, other.value))
}

// URem returns the unsigned remainder. Division by zero returns bv.
func (bv BitVector) URem(other BitVector) BitVector {
	bv.checkWidth("urem", other)
	if other.IsZero() {
		return bv
	}
	return newBitVector(bv.width, new(big.Int).Rem(bv.value, other.value))
}

// abs returns the absolute value of bv as an unsigned magnitude.
func (bv BitVector) abs() BitVector {
	if bv.Msb() {
		return bv.Neg()
	}
	return bv
}

// SDiv returns the signed quotient rounded towards zero.
func (bv BitVector) SDiv(other BitVector) BitVector {
	bv.checkWidth("sdiv", other)
	q := bv.abs().UDiv(other.abs())
	if bv.Msb() != other.Msb() {
		return q.Neg()
	}
	return q
}

// SRem returns the signed remainder. The sign follows the dividend.
func (bv BitVector) SRem(other BitVector) BitVector {
	bv.checkWidth("srem", other)
	r := bv.abs().URem(other.abs())
	if bv.Msb() {
		return r.Neg()
	}
	return r
}

// SMod returns the signed modulus. The sign follows the divisor.
func (bv BitVector) SMod(other BitVector) BitVector {
	bv.checkWidth("smod", other)
	u := bv.abs().URem(other.abs())
	switch {
	case u.IsZero(), !bv.Msb() && !other.Msb():
		return u
	case bv.Msb() && !other.Msb():
		return u.Neg().Add(other)
	case !bv.Msb() && other.Msb():
		return u.Add(other)
	default:
		return u.Neg()
	}
}

// And returns the bitwise AND of bv and other.
func (bv BitVector) And(other BitVector) BitVector {
	bv.checkWidth("and", other)
	return newBitVector(bv.width, new(big.Int).And(bv.value, other.value))
}

// Or returns the bitwise OR of bv and other.
func (bv BitVector) Or(other BitVector) BitVector {
	bv.checkWidth("or", other)
	return newBitVector(bv.width, new(big.Int).Or(bv.value, other.value))
}

// Xor returns the bitwise XOR of bv and other.
func (bv BitVector) Xor(other BitVector) BitVector {
	bv.checkWidth("xor", other)
	return newBitVector(bv.width, new(big.Int).Xor(bv.value, other.value))
}

// Nand returns the bitwise NAND of bv and other.
func (bv BitVector) Nand(other BitVector) BitVector { return bv.And(other).Not() }

// Nor returns the bitwise NOR of bv and other.
func (bv BitVector) Nor(other BitVector) BitVector { return bv.Or(other).Not() }

// Xnor returns the bitwise XNOR of bv and other.
func (bv BitVector) Xnor(other BitVector) BitVector { return bv.Xor(other).Not() }

// Not returns the bitwise complement of bv.
func (bv BitVector) Not() BitVector {
	return newBitVector(bv.width, new(big.Int).Xor(bv.value, bitmask(bv.width)))
}

// Eq returns true if bv and other are equal.
func (bv BitVector) Eq(other BitVector) bool {
	bv.checkWidth("eq", other)
	return bv.value.Cmp(other.value) == 0
}

// Ult returns true if bv is less than other (unsigned).
func (bv BitVector) Ult(other BitVector) bool {
	bv.checkWidth("ult", other)
	return bv.value.Cmp(other.value) < 0
}

// Ule returns true if bv is less than or equal to other (unsigned).
func (bv BitVector) Ule(other BitVector) bool { return !other.Ult(bv) }

// Ugt returns true if bv is greater than other (unsigned).
func (bv BitVector) Ugt(other BitVector) bool { return other.Ult(bv) }

// Uge returns true if bv is greater than or equal to other (unsigned).
func (bv BitVector) Uge(other BitVector) bool { return !bv.Ult(other) }

// Slt returns true if bv is less than other (signed).
func (bv BitVector) Slt(other BitVector) bool {
	bv.checkWidth("slt", other)
	return bv.SignedBigInt().Cmp(other.SignedBigInt()) < 0
}

// Sle returns true if bv is less than or equal to other (signed).
func (bv BitVector) Sle(other BitVector) bool { return !other.Slt(bv) }

// Sgt returns true if bv is greater than other (signed).
func (bv BitVector) Sgt(other BitVector) bool { return other.Slt(bv) }

// Sge returns true if bv is greater than or equal to other (signed).
func (bv BitVector) Sge(other BitVector) bool { return !bv.Slt(other) }

// Comp returns a 1-bit value of 1 if bv equals other, otherwise 0.
func (bv BitVector) Comp(other BitVector) BitVector { return BoolBitVector(bv.Eq(other)) }

// UAddO returns true if the unsigned sum overflows.
func (bv BitVector) UAddO(other BitVector) bool {
	bv.checkWidth("uaddo", other)
	return uint(new(big.Int).Add(bv.value, other.value).BitLen()) > bv.width
}

// SAddO returns true if the signed sum overflows.
func (bv BitVector) SAddO(other BitVector) bool {
	bv.checkWidth("saddo", other)
	return !fitsSigned(bv.width, new(big.Int).Add(bv.SignedBigInt(), other.SignedBigInt()))
}

// USubO returns true if the unsigned difference underflows.
func (bv BitVector) USubO(other BitVector) bool { return bv.Ult(other) }

// SSubO returns true if the signed difference overflows.
func (bv BitVector) SSubO(other BitVector) bool {
	bv.checkWidth("ssubo", other)
	return !fitsSigned(bv.width, new(big.Int).Sub(bv.SignedBigInt(), other.SignedBigInt()))
}

// UMulO returns true if the unsigned product overflows.
func (bv BitVector) UMulO(other BitVector) bool {
	bv.checkWidth("umulo", other)
	return uint(new(big.Int).Mul(bv.value, other.value).BitLen()) > bv.width
}

// SMulO returns true if the signed product overflows.
func (bv BitVector) SMulO(other BitVector) bool {
	bv.checkWidth("smulo", other)
	return !fitsSigned(bv.width, new(big.Int).Mul(bv.SignedBigInt(), other.SignedBigInt()))
}

// SDivO returns true if the signed quotient overflows, i.e. min-signed divided by -1.
func (bv BitVector) SDivO(other BitVector) bool {
	bv.checkWidth("sdivo", other)
	return bv.IsMinSigned() && other.IsOnes()
}

// NegO returns true if negation overflows, i.e. the value is min-signed.
func (bv BitVector) NegO() bool { return bv.IsMinSigned() }

// fitsSigned returns true if v is representable as a signed width-bit integer.
func fitsSigned(width uint, v *big.Int) bool {
	lo := new(big.Int).Neg(new(big.Int).Lsh(bigOne, width-1))
	hi := bitmask(width - 1)
	return v.Cmp(lo) >= 0 && v.Cmp(hi) <= 0
}

// shiftAmount returns other as a shift amount and true if it is less than width.
func (bv BitVector) shiftAmount(other BitVector) (uint, bool) {
	bv.checkWidth("shift", other)
	if !other.value.IsUint64() || other.value.Uint64() >= uint64(bv.width) {
		return 0, false
	}
	return uint(other.value.Uint64()), true
}

// Shl returns bv shifted left by other bits. Amounts >= width return zero.
func (bv BitVector) Shl(other BitVector) BitVector {
	n, ok := bv.shiftAmount(other)
	if !ok {
		return ZeroBitVector(bv.width)
	}
	return newBitVector(bv.width, new(big.Int).Lsh(bv.value, n))
}

// Shr returns bv logically shifted right by other bits. Amounts >= width return zero.
func (bv BitVector) Shr(other BitVector) BitVector {
	n, ok := bv.shiftAmount(other)
	if !ok {
		return ZeroBitVector(bv.width)
	}
	return newBitVector(bv.width, new(big.Int).Rsh(bv.value, n))
}

// AShr returns bv arithmetically shifted right by other bits. Amounts >= width
// return all sign bits.
func (bv BitVector) AShr(other BitVector) BitVector {
	n, ok := bv.shiftAmount(other)
	if !ok {
		if bv.Msb() {
			return OnesBitVector(bv.width)
		}
		return ZeroBitVector(bv.width)
	}
	return newBitVector(bv.width, new(big.Int).Rsh(bv.SignedBigInt(), n))
}

// RolN returns bv rotated left by n bits. The amount is reduced modulo width.
func (bv BitVector) RolN(n uint) BitVector {
	n %= bv.width
	if n == 0 {
		return bv
	}
	hi := new(big.Int).Lsh(bv.value, n)
	lo := new(big.Int).Rsh(bv.value, bv.width-n)
	return newBitVector(bv.width, hi.Or(hi, lo))
}

// RorN returns bv rotated right by n bits. The amount is reduced modulo width.
func (bv BitVector) RorN(n uint) BitVector {
	return bv.RolN(bv.width - n%bv.width)
}

// Rol returns bv rotated left by the value of other.
func (bv BitVector) Rol(other BitVector) BitVector {
	bv.checkWidth("rol", other)
	return bv.RolN(other.modWidth(bv.width))
}

// Ror returns bv rotated right by the value of other.
func (bv BitVector) Ror(other BitVector) BitVector {
	bv.checkWidth("ror", other)
	return bv.RorN(other.modWidth(bv.width))
}

// modWidth returns the value reduced modulo width.
func (bv BitVector) modWidth(width uint) uint {
	return uint(new(big.Int).Rem(bv.value, new(big.Int).SetUint64(uint64(width))).Uint64())
}

// Extract returns bits hi through lo, inclusive.
func (bv BitVector) Extract(hi, lo uint) BitVector {
	assert(hi < bv.width, "extract: upper bound out of range: %d >= %d", hi, bv.width)
	assert(lo <= hi, "extract: lower bound greater than upper bound: %d > %d", lo, hi)
	return newBitVector(hi-lo+1, new(big.Int).Rsh(bv.value, lo))
}

// Concat returns bv concatenated with other. bv forms the most significant bits.
func (bv BitVector) Concat(other BitVector) BitVector {
	v := new(big.Int).Lsh(bv.value, other.width)
	return newBitVector(bv.width+other.width, v.Or(v, other.value))
}

// ZeroExtend returns bv extended by n zero bits.
func (bv BitVector) ZeroExtend(n uint) BitVector {
	return newBitVector(bv.width+n, new(big.Int).Set(bv.value))
}

// SignExtend returns bv extended by n copies of the sign bit.
func (bv BitVector) SignExtend(n uint) BitVector {
	return newBitVector(bv.width+n, bv.SignedBigInt())
}

// Repeat returns bv concatenated with itself n times.
func (bv BitVector) Repeat(n uint) BitVector {
	assert(n > 0, "repeat: count must be positive")
	other := bv
	for i := uint(1); i < n; i++ {
		other = other.Concat(bv)
	}
	return other
}

// RedAnd returns a 1-bit value of 1 if all bits are set.
func (bv BitVector) RedAnd() BitVector { return BoolBitVector(bv.IsOnes()) }

// RedOr returns a 1-bit value of 1 if any bit is set.
func (bv BitVector) RedOr() BitVector { return BoolBitVector(!bv.IsZero()) }

// RedXor returns a 1-bit value of 1 if an odd number of bits are set.
func (bv BitVector) RedXor() BitVector {
	var n uint
	for i := uint(0); i < bv.width; i++ {
		n ^= bv.value.Bit(int(i))
	}
	return NewBitVector(WidthBool, uint64(n))
}

func (bv BitVector) checkWidth(op string, other BitVector) {
	assert(bv.width == other.width, "%s: width mismatch: %d != %d", op, bv.width, other.width)
}
