package game

// matrix is a row-major occupancy grid; cells hold 0 or 1.
type matrix [][]uint8

func newMatrix(rows, cols int) matrix {
	m := make(matrix, rows)
	for r := range m {
		m[r] = make([]uint8, cols)
	}
	return m
}

func (m matrix) clone() matrix {
	out := make(matrix, len(m))
	for r, row := range m {
		out[r] = append([]uint8(nil), row...)
	}
	return out
}

func (m matrix) rowSet(r int) bool {
	if r < 0 || r >= len(m) {
		return false
	}
	for _, v := range m[r] {
		if v != 0 {
			return true
		}
	}
	return false
}

func (m matrix) colSet(c int) bool {
	for _, row := range m {
		if row[c] != 0 {
			return true
		}
	}
	return false
}

func (m matrix) rowCount(r int) int {
	n := 0
	for _, v := range m[r] {
		n += int(v)
	}
	return n
}

func (m matrix) count() int {
	n := 0
	for r := range m {
		n += m.rowCount(r)
	}
	return n
}

// shiftDown moves every row down by one; row 0 becomes empty and the last
// row falls off.
func (m matrix) shiftDown() {
	for r := len(m) - 1; r > 0; r-- {
		copy(m[r], m[r-1])
	}
	clear(m[0])
}

// rollColumns permutes columns cyclically so that new column c holds old
// column c-delta (mod width).
func (m matrix) rollColumns(delta int) {
	for r, row := range m {
		w := len(row)
		out := make([]uint8, w)
		for c := range row {
			out[c] = row[((c-delta)%w+w)%w]
		}
		m[r] = out
	}
}
