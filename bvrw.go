package bvrw

import (
	"errors"
	"fmt"
)

// Term widths.
const (
	WidthBool = 1
	MaxWidth  = 1 << 16 // largest width of any term
)

// Rewrite levels.
const (
	LevelNone    = 0 // rewriting disabled
	LevelSimple  = 1 // evaluation, elimination & special constants
	LevelFull    = 2 // all rules
	DefaultLevel = LevelFull
)

var (
	ErrUnboundVariable = errors.New("unbound variable")
	ErrUnknownRule     = errors.New("unknown rule")
	ErrInvalidLevel    = errors.New("invalid rewrite level")
	ErrUndeclared      = errors.New("undeclared symbol")
)

// assert panics if condition is false.
func assert(condition bool, format string, args ...interface{}) {
	if !condition {
		panic(fmt.Sprintf("assert: "+format, args...))
	}
}
