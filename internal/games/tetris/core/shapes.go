package core

import (
	"strings"

	platformcore "github.com/vovakirdan/tetris-arcade/internal/core"
)

// Matrix is a square occupancy matrix indexed [row][col].
// Matrices from the shape catalog are shared and must be treated as read-only.
type Matrix [][]bool

// Size returns the side length of the matrix.
func (m Matrix) Size() int {
	return len(m)
}

// Cells returns the occupied cells relative to the matrix origin, row by row.
func (m Matrix) Cells() []Coord {
	var cells []Coord
	for r, row := range m {
		for c, filled := range row {
			if filled {
				cells = append(cells, Coord{Col: c, Row: r})
			}
		}
	}
	return cells
}

// TopRow returns the index of the first row holding an occupied cell,
// or -1 for an empty matrix.
func (m Matrix) TopRow() int {
	for r, row := range m {
		for _, filled := range row {
			if filled {
				return r
			}
		}
	}
	return -1
}

// Equal reports whether two matrices have the same size and occupancy.
func (m Matrix) Equal(other Matrix) bool {
	if len(m) != len(other) {
		return false
	}
	for r := range m {
		if len(m[r]) != len(other[r]) {
			return false
		}
		for c := range m[r] {
			if m[r][c] != other[r][c] {
				return false
			}
		}
	}
	return true
}

// String renders the matrix with '#' for occupied and '.' for empty cells.
func (m Matrix) String() string {
	var sb strings.Builder
	for r, row := range m {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for _, filled := range row {
			if filled {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}

// Rotate returns a new matrix turned a quarter turn.
// Clockwise maps source cell (r, c) to (c, N-1-r); counter-clockwise is the inverse.
// The input is never modified.
func Rotate(m Matrix, clockwise bool) Matrix {
	n := len(m)
	out := make(Matrix, n)
	for i := range out {
		out[i] = make([]bool, n)
	}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if clockwise {
				out[c][n-1-r] = m[r][c]
			} else {
				out[n-1-c][r] = m[r][c]
			}
		}
	}
	return out
}

// MatrixFromRows parses rows of '#' (occupied) and '.' (empty).
// All rows must have the same length as the number of rows.
func MatrixFromRows(rows ...string) Matrix {
	m := make(Matrix, len(rows))
	for r, row := range rows {
		if len(row) != len(rows) {
			panic("core: matrix rows must form a square")
		}
		m[r] = make([]bool, len(row))
		for c, ch := range row {
			m[r][c] = ch == '#'
		}
	}
	return m
}

type shapeDef struct {
	matrix Matrix
	color  platformcore.Color
}

// catalog holds the spawn orientation of every kind.
var catalog = [...]shapeDef{
	KindI: {
		matrix: MatrixFromRows(
			"....",
			"####",
			"....",
			"....",
		),
		color: platformcore.ColorCyan,
	},
	KindO: {
		matrix: MatrixFromRows(
			"##",
			"##",
		),
		color: platformcore.ColorYellow,
	},
	KindT: {
		matrix: MatrixFromRows(
			".#.",
			"###",
			"...",
		),
		color: platformcore.ColorMagenta,
	},
	KindS: {
		matrix: MatrixFromRows(
			".##",
			"##.",
			"...",
		),
		color: platformcore.ColorGreen,
	},
	KindZ: {
		matrix: MatrixFromRows(
			"##.",
			".##",
			"...",
		),
		color: platformcore.ColorRed,
	},
	KindJ: {
		matrix: MatrixFromRows(
			"#..",
			"###",
			"...",
		),
		color: platformcore.ColorBlue,
	},
	KindL: {
		matrix: MatrixFromRows(
			"..#",
			"###",
			"...",
		),
		color: platformcore.ColorOrange,
	},
}

// rotations[k][r] is kind k turned clockwise r times.
var rotations [len(catalog)][4]Matrix

// maxPieceSize is the largest matrix side in the catalog.
var maxPieceSize int

func init() {
	for _, k := range AllKinds() {
		m := catalog[k].matrix
		rotations[k][0] = m
		for r := 1; r < 4; r++ {
			rotations[k][r] = Rotate(rotations[k][r-1], true)
		}
		if m.Size() > maxPieceSize {
			maxPieceSize = m.Size()
		}
	}
}

// MaxPieceSize returns the side of the largest piece matrix.
func MaxPieceSize() int {
	return maxPieceSize
}

// Matrix returns the spawn orientation of the kind. Nil for KindNone.
func (k Kind) Matrix() Matrix {
	return k.Shape(0)
}

// Shape returns the kind's matrix after the given number of clockwise turns.
func (k Kind) Shape(rotation int) Matrix {
	if !k.Valid() {
		return nil
	}
	return rotations[k][normalizeRotation(rotation)]
}

// Color returns the display color of the kind.
func (k Kind) Color() platformcore.Color {
	if !k.Valid() {
		return platformcore.ColorDefault
	}
	return catalog[k].color
}

// normalizeRotation maps any integer onto 0..3.
func normalizeRotation(r int) int {
	return ((r % 4) + 4) % 4
}
