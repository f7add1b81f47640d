// internal/game/engine.go
//
// Settlement engine for a single falling-block board.
// Responsibilities:
//   - Own the settled cells and at most one active piece.
//   - Apply commands speculatively: clone the piece, transform the clone,
//     validate, then either promote it or discard it.
//   - Lock pieces that can no longer fall, clear full rows on request, and
//     detect the terminal "grid full" condition.
//
// Notes:
//   - A rejected rotate/shift degrades to a plain one-row drop; a rejected
//     drop is a no-op.
//   - Spawn is ignored while a piece is falling. A fresh piece is validated
//     like any move: if it does not fit, or fits but is already resting on
//     the stack, it locks straight away.
//   - Game over is terminal: every later command is a no-op.
//   - A Grid is not safe for concurrent use.

package game

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/robalobadob/blockfall/internal/shapes"
)

const (
	defaultEmptySymbol  = "-"
	defaultFilledSymbol = "0"
)

// Grid is the board: settled cells plus the currently falling piece.
type Grid struct {
	width    int
	height   int
	cells    matrix
	active   *Piece // nil when no piece is falling
	gameOver bool

	catalog shapes.Catalog
	empty   string
	filled  string
	log     zerolog.Logger
}

// Option configures a Grid.
type Option func(*Grid)

// WithLogger routes engine events (locks, cleared rows, game over) to l.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Grid) { g.log = l }
}

// WithCatalog builds pieces from c instead of the default catalog.
func WithCatalog(c shapes.Catalog) Option {
	return func(g *Grid) { g.catalog = c }
}

// WithSymbols sets the strings String uses for empty and occupied cells.
func WithSymbols(empty, filled string) Option {
	return func(g *Grid) { g.empty, g.filled = empty, filled }
}

// NewGrid returns an empty width × height grid.
func NewGrid(width, height int, opts ...Option) (*Grid, error) {
	if width < MinWidth || height < MinHeight {
		return nil, fmt.Errorf("%w: %dx%d (need width >= %d, height >= %d)",
			ErrInvalidDimensions, width, height, MinWidth, MinHeight)
	}
	g := &Grid{
		width:  width,
		height: height,
		cells:  newMatrix(height, width),
		empty:  defaultEmptySymbol,
		filled: defaultFilledSymbol,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.catalog == nil {
		g.catalog = shapes.Default()
	}
	if err := shapes.Validate(g.catalog); err != nil {
		return nil, fmt.Errorf("new grid: %w", err)
	}
	return g, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// IsGameOver reports whether a lock has left row 0 occupied. Once true it
// stays true.
func (g *Grid) IsGameOver() bool { return g.gameOver }

// HasActive reports whether a piece is currently falling.
func (g *Grid) HasActive() bool { return g.active != nil }

// Active returns the kind of the falling piece, if any.
func (g *Grid) Active() (Kind, bool) {
	if g.active == nil {
		return "", false
	}
	return g.active.Kind(), true
}

// State reports the coarse lifecycle state.
func (g *Grid) State() State {
	switch {
	case g.gameOver:
		return StateGameOver
	case g.active != nil:
		return StateFalling
	}
	return StateEmpty
}

// Spawn places a new piece of the given kind in the spawn rows. It is a no-op
// while another piece is falling or after game over. The only error is an
// unknown kind.
func (g *Grid) Spawn(kind Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}
	if g.gameOver || g.active != nil {
		g.log.Debug().Str("kind", string(kind)).Str("state", g.State().String()).Msg("spawn ignored")
		return nil
	}

	p, err := newPiece(g.catalog, kind, g.width, g.height)
	if err != nil {
		return err
	}
	if !g.fits(p) {
		g.log.Debug().Str("kind", string(kind)).Msg("spawn blocked")
		g.lock(p)
		return nil
	}
	g.promote(p)
	return nil
}

// Rotate turns the falling piece to its next rotation state.
func (g *Grid) Rotate() { g.transform("rotate", (*Piece).Rotate) }

// ShiftLeft moves the falling piece one column left.
func (g *Grid) ShiftLeft() {
	g.transform("left", func(p *Piece) { p.ShiftHorizontal(-1) })
}

// ShiftRight moves the falling piece one column right.
func (g *Grid) ShiftRight() {
	g.transform("right", func(p *Piece) { p.ShiftHorizontal(1) })
}

// DropOneRow moves the falling piece down one row.
func (g *Grid) DropOneRow() {
	if g.gameOver || g.active == nil {
		return
	}
	next := g.active.Clone()
	next.DropOneRow()
	if !g.fits(next) {
		return
	}
	g.promote(next)
}

// ClearFullRows removes every fully occupied settled row, shifting the rows
// above it down, and returns how many rows were removed. A falling piece that
// the shifted cells now overlap or support is locked where it is; a cell it
// shares with a settled one merges into a single cell.
func (g *Grid) ClearFullRows() int {
	if g.gameOver {
		return 0
	}

	cleared := 0
	for r := 0; r < g.height; r++ {
		if g.cells.rowCount(r) != g.width {
			continue
		}
		for k := r; k > 0; k-- {
			copy(g.cells[k], g.cells[k-1])
		}
		clear(g.cells[0])
		cleared++
	}
	if cleared == 0 {
		return 0
	}
	g.log.Debug().Int("rows", cleared).Msg("rows cleared")

	// Settled cells moved; the falling piece must still not overlap them.
	if g.active != nil && (g.overlaps(g.active) || !g.canStillFall(g.active)) {
		g.lock(g.active)
	}
	return cleared
}

// Render returns the settled cells with the falling piece overlaid, one
// slice per row, 1 for occupied and 0 for empty.
func (g *Grid) Render() [][]int {
	out := make([][]int, g.height)
	for r := range out {
		out[r] = make([]int, g.width)
		for c, v := range g.cells[r] {
			out[r][c] = int(v)
		}
	}
	if g.active != nil {
		s := g.active.state()
		for r := 0; r < g.height; r++ {
			for c, v := range s[r] {
				if v != 0 {
					out[r][c] = 1
				}
			}
		}
	}
	return out
}

// Settled returns a copy of the settled cells only.
func (g *Grid) Settled() [][]int {
	out := make([][]int, g.height)
	for r, row := range g.cells {
		out[r] = make([]int, g.width)
		for c, v := range row {
			out[r][c] = int(v)
		}
	}
	return out
}

// String renders the grid as text: cells separated by spaces, rows by
// newlines.
func (g *Grid) String() string {
	var b strings.Builder
	for r, row := range g.Render() {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c, v := range row {
			if c > 0 {
				b.WriteByte(' ')
			}
			if v != 0 {
				b.WriteString(g.filled)
			} else {
				b.WriteString(g.empty)
			}
		}
	}
	return b.String()
}

// transform applies move to a copy of the falling piece. If the result does
// not fit, the command degrades to a one-row drop.
func (g *Grid) transform(name string, move func(*Piece)) {
	if g.gameOver || g.active == nil {
		return
	}
	next := g.active.Clone()
	move(next)
	if g.fits(next) {
		g.promote(next)
		return
	}
	g.log.Debug().Str("move", name).Msg("move rejected, dropping instead")
	g.DropOneRow()
}

// promote makes p the falling piece and locks it if it is already resting.
func (g *Grid) promote(p *Piece) {
	g.active = p
	if !g.canStillFall(p) {
		g.lock(p)
	}
}

// fits reports whether p is consistent and its visible cells do not overlap
// any settled cell.
func (g *Grid) fits(p *Piece) bool {
	return p.IsConsistent() && !g.overlaps(p)
}

func (g *Grid) overlaps(p *Piece) bool {
	s := p.state()
	for r := 0; r < g.height; r++ {
		for c := 0; c < g.width; c++ {
			if s[r][c]+g.cells[r][c] > 1 {
				return true
			}
		}
	}
	return false
}

// canStillFall reports whether p can move one row down: none of its occupied
// rows is the bottom row, and no occupied cell sits above a settled one.
func (g *Grid) canStillFall(p *Piece) bool {
	s := p.state()
	for r := 0; r < g.height; r++ {
		if !p.RowOccupied(r) {
			continue
		}
		if r == g.height-1 {
			return false
		}
		for c := 0; c < g.width; c++ {
			if s[r][c]+g.cells[r+1][c] > 1 {
				return false
			}
		}
	}
	return true
}

// lock merges the visible cells of p into the settled grid and discards it.
// Game over is raised when row 0 ends up occupied.
func (g *Grid) lock(p *Piece) {
	s := p.state()
	for r := 0; r < g.height; r++ {
		for c, v := range s[r] {
			if v != 0 {
				g.cells[r][c] = 1
			}
		}
	}
	g.active = nil
	g.log.Debug().Str("kind", string(p.Kind())).Msg("piece locked")

	if g.cells.rowSet(0) {
		g.gameOver = true
		g.log.Debug().Msg("game over")
	}
}
