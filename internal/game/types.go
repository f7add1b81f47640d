// internal/game/types.go
//
// Core type definitions for the falling-block engine.
// Defines:
//   - Kind: one of the seven tetromino shapes.
//   - State: coarse lifecycle of a Grid (empty/falling/game over).
//   - Sentinel errors reported to callers.

package game

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Margin is the number of buffer rows below the visible grid in every
	// piece matrix.
	Margin = 4

	MinWidth  = 4 // widest piece
	MinHeight = 1
)

var (
	ErrInvalidDimensions = errors.New("game: invalid grid dimensions")
	ErrUnknownKind       = errors.New("game: unknown piece kind")
)

// Kind identifies a tetromino shape.
type Kind string

const (
	KindO Kind = "O"
	KindI Kind = "I"
	KindS Kind = "S"
	KindZ Kind = "Z"
	KindL Kind = "L"
	KindJ Kind = "J"
	KindT Kind = "T"
)

// Kinds lists every piece kind.
var Kinds = []Kind{KindO, KindI, KindS, KindZ, KindL, KindJ, KindT}

// ParseKind maps a name such as "T" or "t" to its Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if k.Valid() {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Valid reports whether k is one of the seven kinds.
func (k Kind) Valid() bool {
	for _, x := range Kinds {
		if x == k {
			return true
		}
	}
	return false
}

// State is the observable lifecycle of a Grid between commands. Locking is
// transient and always resolves to StateEmpty or StateGameOver.
type State int

const (
	StateEmpty State = iota
	StateFalling
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateFalling:
		return "falling"
	case StateGameOver:
		return "game over"
	}
	return fmt.Sprintf("State(%d)", int(s))
}
