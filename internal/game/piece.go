// internal/game/piece.go
//
// A single falling tetromino.
//
// Every rotation state is a full-size matrix: grid width columns by
// grid height + Margin rows. The first `height` rows are the visible grid,
// the Margin rows below it are an overflow buffer. Vertical position is
// implicit in the matrices: dropping shifts every state down by one row, so
// rotating never changes how far the piece has fallen.
//
// Horizontal moves and rotation both carry an automatic one-row drop; a
// turn or a shift is also a tick of gravity.

package game

import (
	"fmt"

	"github.com/robalobadob/blockfall/internal/shapes"
)

// Piece is a tetromino with a fixed kind and a mutable position. Use Clone
// before trying a move that may have to be thrown away.
type Piece struct {
	kind     Kind
	width    int
	height   int // visible rows; matrices have height+Margin rows
	states   []matrix
	rotation int
}

// NewPiece builds a piece of the given kind from the default catalog, placed
// in the spawn rows of a width × height grid.
func NewPiece(kind Kind, width, height int) (*Piece, error) {
	return newPiece(shapes.Default(), kind, width, height)
}

func newPiece(cat shapes.Catalog, kind Kind, width, height int) (*Piece, error) {
	if width < MinWidth || height < MinHeight {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	layouts, ok := cat[string(kind)]
	if !ok || !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}

	// Re-centre the reference columns onto this width. Identity for width 10.
	offset := (width-shapes.Span)/2 - shapes.MinCol

	p := &Piece{
		kind:   kind,
		width:  width,
		height: height,
		states: make([]matrix, len(layouts)),
	}
	for i, cells := range layouts {
		m := newMatrix(height+Margin, width)
		for _, n := range cells {
			m[n/shapes.RefWidth][n%shapes.RefWidth+offset] = 1
		}
		p.states[i] = m
	}
	return p, nil
}

func (p *Piece) Kind() Kind { return p.kind }

// Rotation is the index of the current rotation state.
func (p *Piece) Rotation() int { return p.rotation }

// Rotations is the number of rotation states (1, 2 or 4).
func (p *Piece) Rotations() int { return len(p.states) }

// Cells counts the occupied cells of the current state.
func (p *Piece) Cells() int { return p.state().count() }

// ShiftHorizontal rolls every state delta columns to the right (negative is
// left), wrapping around the edges, then drops one row.
func (p *Piece) ShiftHorizontal(delta int) {
	for _, m := range p.states {
		m.rollColumns(delta)
	}
	p.DropOneRow()
}

// Rotate advances to the next rotation state, then drops one row.
func (p *Piece) Rotate() {
	p.rotation = (p.rotation + 1) % len(p.states)
	p.DropOneRow()
}

// DropOneRow moves every rotation state down by one row.
func (p *Piece) DropOneRow() {
	for _, m := range p.states {
		m.shiftDown()
	}
}

// Clone returns a deep copy that shares no storage with p.
func (p *Piece) Clone() *Piece {
	out := *p
	out.states = make([]matrix, len(p.states))
	for i, m := range p.states {
		out.states[i] = m.clone()
	}
	return &out
}

// IsConsistent reports whether the current state is legal on its own: it
// must not occupy both the first and last column (a cyclic shift wrapped it
// through a side wall) and must not reach the first buffer row below the
// visible grid.
func (p *Piece) IsConsistent() bool {
	s := p.state()
	if s.colSet(0) && s.colSet(p.width-1) {
		return false
	}
	return !s.rowSet(p.height)
}

// RowOccupied reports whether any cell of row r in the current state is set.
// Rows outside the matrix are never occupied.
func (p *Piece) RowOccupied(r int) bool {
	return p.state().rowSet(r)
}

func (p *Piece) state() matrix { return p.states[p.rotation] }
