package bvrw_test

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/benbjohnson/bvrw"
	"github.com/google/go-cmp/cmp"
)

// termComparer compares terms by identity.
var termComparer = cmp.Comparer(func(a, b *bvrw.Term) bool { return a == b })

// MustEquivalent fails if a and b evaluate differently for some assignment of
// their free variables. Assignments are exhaustive when the variables have at
// most 8 bits in total, otherwise a fixed number of random assignments are
// checked along with all-zero and all-ones.
func MustEquivalent(tb testing.TB, a, b *bvrw.Term) {
	tb.Helper()

	vars := bvrw.FreeVariables(a, b)
	var bits uint
	for _, v := range vars {
		bits += v.Width()
	}

	check := func(values []bvrw.BitVector) {
		tb.Helper()
		e := bvrw.NewEvaluator(vars, values)
		x, err := e.Evaluate(a)
		if err != nil {
			tb.Fatal(err)
		}
		y, err := e.Evaluate(b)
		if err != nil {
			tb.Fatal(err)
		}
		if !x.Equal(y) {
			tb.Fatalf("not equivalent: %s = %s, %s = %s, assignment %v", a, x, b, y, values)
		}
	}

	if bits <= 8 {
		for n := uint64(0); n < 1<<bits; n++ {
			check(split(vars, new(big.Int).SetUint64(n)))
		}
		return
	}

	rng := rand.New(rand.NewSource(int64(bits)))
	zeros, ones := make([]bvrw.BitVector, len(vars)), make([]bvrw.BitVector, len(vars))
	for i, v := range vars {
		zeros[i], ones[i] = bvrw.ZeroBitVector(v.Width()), bvrw.OnesBitVector(v.Width())
	}
	check(zeros)
	check(ones)
	for i := 0; i < 64; i++ {
		check(RandomValues(rng, vars))
	}
}

// split divides the bits of n between the variables.
func split(vars []*bvrw.Term, n *big.Int) []bvrw.BitVector {
	values := make([]bvrw.BitVector, len(vars))
	for i, v := range vars {
		values[i] = bvrw.NewBitVectorFromBig(v.Width(), n)
		n = new(big.Int).Rsh(n, v.Width())
	}
	return values
}

// RandomValues returns a random value for each variable. Values are biased
// towards the boundary constants.
func RandomValues(rng *rand.Rand, vars []*bvrw.Term) []bvrw.BitVector {
	values := make([]bvrw.BitVector, len(vars))
	for i, v := range vars {
		values[i] = RandomValue(rng, v.Width())
	}
	return values
}

// RandomValue returns a random value of the given width.
func RandomValue(rng *rand.Rand, width uint) bvrw.BitVector {
	switch rng.Intn(8) {
	case 0:
		return bvrw.ZeroBitVector(width)
	case 1:
		return bvrw.OneBitVector(width)
	case 2:
		return bvrw.OnesBitVector(width)
	case 3:
		return bvrw.MinSignedBitVector(width)
	case 4:
		return bvrw.MaxSignedBitVector(width)
	default:
		return bvrw.NewBitVectorFromBig(width, new(big.Int).Rand(rng, new(big.Int).Lsh(big.NewInt(1), width)))
	}
}
