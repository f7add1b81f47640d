package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridWith(t *testing.T, cells [][]uint8) *Grid {
	t.Helper()
	g, err := NewGrid(len(cells[0]), len(cells))
	require.NoError(t, err)
	for r, row := range cells {
		copy(g.cells[r], row)
	}
	return g
}

func TestClearFullRowsShiftsRowsAbove(t *testing.T) {
	g := gridWith(t, [][]uint8{
		{0, 0, 0, 0},
		{1, 0, 0, 0},
		{0, 1, 1, 0},
		{1, 1, 1, 1},
		{1, 0, 1, 1},
	})
	above := g.cells[:3].clone().count()

	assert.Equal(t, 1, g.ClearFullRows())
	assert.Equal(t, [][]int{
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{1, 0, 0, 0},
		{0, 1, 1, 0},
		{1, 0, 1, 1},
	}, g.Settled())
	assert.Equal(t, above, g.cells[:4].clone().count())
}

func TestClearFullRowsHandlesSeparatedRows(t *testing.T) {
	g := gridWith(t, [][]uint8{
		{0, 1, 0, 0},
		{1, 1, 1, 1},
		{0, 0, 1, 0},
		{1, 1, 1, 1},
		{1, 1, 1, 1},
		{0, 0, 0, 1},
	})

	assert.Equal(t, 3, g.ClearFullRows())
	assert.Equal(t, [][]int{
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}, g.Settled())
}

func TestClearFullRowsLocksDisplacedPiece(t *testing.T) {
	// An O has slid under the overhang in row 1; clearing row 5 drops the
	// overhang onto it.
	g := gridWith(t, [][]uint8{
		{0, 0, 0, 0},
		{1, 1, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{1, 1, 1, 1},
		{0, 0, 0, 1},
	})
	p := mustPiece(t, KindO, 4, 7)
	p.DropOneRow()
	p.DropOneRow()
	g.active = p // rows 2..3, columns 1..2
	require.True(t, g.fits(p))
	require.True(t, g.canStillFall(p))
	before := g.cells.count() + p.state()[:7].count()
	require.Equal(t, 11, before)

	assert.Equal(t, 1, g.ClearFullRows())
	// Four cells go with row 5, and the overhang at (2, 1) lands on the O.
	shared := 1
	assert.Equal(t, before-4-shared, g.cells.count())
	assert.False(t, g.HasActive())
	assert.False(t, g.IsGameOver())
	assert.Equal(t, [][]int{
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{1, 1, 1, 0},
		{0, 1, 1, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 1},
	}, g.Settled())
}

func TestCanStillFallWithoutVisibleCells(t *testing.T) {
	g := gridWith(t, [][]uint8{{0, 0, 0, 0}, {0, 0, 0, 0}})
	p := mustPiece(t, KindO, 4, 2)
	for i := 0; i < 4; i++ {
		p.DropOneRow()
	}
	require.Zero(t, p.state()[:2].count())
	assert.True(t, g.canStillFall(p))
}
