package bvrw

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"sync"

	"golang.org/x/exp/slices"
)

// Manager creates and interns terms. Structurally equal requests always
// return the same *Term. A Manager is safe for concurrent use.
type Manager struct {
	mu     sync.Mutex
	nextID uint64
	table  map[uint64][]*Term // structural hash to terms
}

// NewManager returns a new instance of Manager.
func NewManager() *Manager {
	return &Manager{
		table: make(map[uint64][]*Term),
	}
}

// Len returns the number of terms created by the manager.
func (nm *Manager) Len() int {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	return int(nm.nextID)
}

// MakeValue returns the value term for v.
func (nm *Manager) MakeValue(v BitVector) *Term {
	assert(v.width > 0 && v.width <= MaxWidth, "make value: invalid bit-vector")
	return nm.intern(VALUE, v.width, nil, nil, v)
}

// MakeVariable returns a new variable of the given width. Every call returns
// a distinct variable, even if the symbol is reused.
func (nm *Manager) MakeVariable(width uint, symbol string) *Term {
	assert(width > 0 && width <= MaxWidth, "make variable: invalid width: %d", width)

	nm.mu.Lock()
	defer nm.mu.Unlock()
	nm.nextID++
	return &Term{id: nm.nextID, kind: VARIABLE, width: width, symbol: symbol}
}

// MakeTerm returns the term for kind applied to children and indices.
// Panics if the children or indices are not well-typed for the kind.
func (nm *Manager) MakeTerm(kind Kind, children []*Term, indices []uint) *Term {
	width, err := termWidth(kind, children, indices)
	assert(err == nil, "make term: %v", err)
	return nm.intern(kind, width, children, indices, BitVector{})
}

// Make returns the term for a non-indexed kind applied to children.
func (nm *Manager) Make(kind Kind, children ...*Term) *Term {
	return nm.MakeTerm(kind, children, nil)
}

// Invert returns the bitwise complement of t.
func (nm *Manager) Invert(t *Term) *Term { return nm.Make(NOT, t) }

// Extract returns bits hi through lo of t.
func (nm *Manager) Extract(t *Term, hi, lo uint) *Term {
	return nm.MakeTerm(EXTRACT, []*Term{t}, []uint{hi, lo})
}

// Concat returns the concatenation of terms, the first being the most significant.
func (nm *Manager) Concat(a *Term, other ...*Term) *Term {
	for _, b := range other {
		a = nm.Make(CONCAT, a, b)
	}
	return a
}

// ZeroExtend returns t extended by n zero bits.
func (nm *Manager) ZeroExtend(t *Term, n uint) *Term {
	return nm.MakeTerm(ZERO_EXTEND, []*Term{t}, []uint{n})
}

// SignExtend returns t extended by n copies of its sign bit.
func (nm *Manager) SignExtend(t *Term, n uint) *Term {
	return nm.MakeTerm(SIGN_EXTEND, []*Term{t}, []uint{n})
}

// Zero returns the zero value of the given width.
func (nm *Manager) Zero(width uint) *Term { return nm.MakeValue(ZeroBitVector(width)) }

// One returns the value one of the given width.
func (nm *Manager) One(width uint) *Term { return nm.MakeValue(OneBitVector(width)) }

// Ones returns the all-ones value of the given width.
func (nm *Manager) Ones(width uint) *Term { return nm.MakeValue(OnesBitVector(width)) }

// MinSigned returns the minimum signed value of the given width.
func (nm *Manager) MinSigned(width uint) *Term { return nm.MakeValue(MinSignedBitVector(width)) }

// MaxSigned returns the maximum signed value of the given width.
func (nm *Manager) MaxSigned(width uint) *Term { return nm.MakeValue(MaxSignedBitVector(width)) }

// Bool returns the 1-bit value for b.
func (nm *Manager) Bool(b bool) *Term { return nm.MakeValue(BoolBitVector(b)) }

// True returns the 1-bit value one.
func (nm *Manager) True() *Term { return nm.Bool(true) }

// False returns the 1-bit value zero.
func (nm *Manager) False() *Term { return nm.Bool(false) }

// intern returns an existing structurally equal term or creates a new one.
func (nm *Manager) intern(kind Kind, width uint, children []*Term, indices []uint, value BitVector) *Term {
	h := hashTerm(kind, children, indices, value)

	nm.mu.Lock()
	defer nm.mu.Unlock()

	for _, t := range nm.table[h] {
		if t.kind == kind &&
			slices.Equal(t.children, children) &&
			slices.Equal(t.indices, indices) &&
			(kind != VALUE || t.value.Equal(value)) {
			return t
		}
	}

	nm.nextID++
	t := &Term{
		id:       nm.nextID,
		kind:     kind,
		width:    width,
		children: slices.Clone(children),
		indices:  slices.Clone(indices),
		value:    value,
		hash:     h,
	}
	nm.table[h] = append(nm.table[h], t)
	return t
}

// hashTerm returns the structural hash of a term.
func hashTerm(kind Kind, children []*Term, indices []uint, value BitVector) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	write := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	write(uint64(kind))
	for _, child := range children {
		write(child.id)
	}
	for _, idx := range indices {
		write(uint64(idx))
	}
	if kind == VALUE {
		write(uint64(value.width))
		h.Write(value.value.Bytes())
	}
	return h.Sum64()
}

// checkWidth returns w if it does not exceed MaxWidth.
func checkWidth(kind Kind, w uint64) (uint, error) {
	if w > MaxWidth {
		return 0, fmt.Errorf("%s: width exceeds %d bits", kind, MaxWidth)
	}
	return uint(w), nil
}

// termWidth type checks a term and returns its width.
func termWidth(kind Kind, children []*Term, indices []uint) (uint, error) {
	if !kind.IsValid() || kind == VALUE || kind == VARIABLE {
		return 0, fmt.Errorf("invalid kind: %s", kind)
	} else if len(children) != kind.Arity() {
		return 0, fmt.Errorf("%s: expected %d children, got %d", kind, kind.Arity(), len(children))
	} else if len(indices) != kind.NumIndices() {
		return 0, fmt.Errorf("%s: expected %d indices, got %d", kind, kind.NumIndices(), len(indices))
	}
	for _, child := range children {
		if child == nil {
			return 0, fmt.Errorf("%s: nil child", kind)
		}
	}

	w := children[0].width
	switch kind {
	case ITE:
		if w != WidthBool {
			return 0, fmt.Errorf("ite: condition width must be 1, got %d", w)
		} else if children[1].width != children[2].width {
			return 0, fmt.Errorf("ite: width mismatch: %d != %d", children[1].width, children[2].width)
		}
		return children[1].width, nil
	case CONCAT:
		return checkWidth(kind, uint64(w)+uint64(children[1].width))
	case EXTRACT:
		hi, lo := indices[0], indices[1]
		if hi >= w {
			return 0, fmt.Errorf("extract: upper bound out of range: %d >= %d", hi, w)
		} else if lo > hi {
			return 0, fmt.Errorf("extract: lower bound greater than upper bound: %d > %d", lo, hi)
		}
		return hi - lo + 1, nil
	case REPEAT:
		if indices[0] == 0 {
			return 0, fmt.Errorf("repeat: count must be positive")
		}
		if indices[0] > MaxWidth/w {
			return 0, fmt.Errorf("repeat: width exceeds %d bits", MaxWidth)
		}
		return w * indices[0], nil
	case ZERO_EXTEND, SIGN_EXTEND:
		if indices[0] > MaxWidth {
			return 0, fmt.Errorf("%s: width exceeds %d bits", kind, MaxWidth)
		}
		return checkWidth(kind, uint64(w)+uint64(indices[0]))
	case ROLI, RORI:
		return w, nil
	}

	for _, child := range children[1:] {
		if child.width != w {
			return 0, fmt.Errorf("%s: width mismatch: %d != %d", kind, w, child.width)
		}
	}
	if kind.IsPredicate() {
		return WidthBool, nil
	}
	return w, nil
}
