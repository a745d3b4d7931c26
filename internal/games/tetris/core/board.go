package core

// Board is the locked playfield. Cells are stored row-major; KindNone is empty.
type Board struct {
	width  int
	height int
	cells  []Kind
}

// NewBoard creates an empty board.
func NewBoard(width, height int) *Board {
	return &Board{
		width:  width,
		height: height,
		cells:  make([]Kind, width*height),
	}
}

// BoardFromRows builds a board from rows of kinds, top row first.
// Every row must have the same length.
func BoardFromRows(rows [][]Kind) *Board {
	if len(rows) == 0 {
		return NewBoard(0, 0)
	}
	b := NewBoard(len(rows[0]), len(rows))
	for r, row := range rows {
		if len(row) != b.width {
			panic("core: ragged board rows")
		}
		copy(b.cells[r*b.width:(r+1)*b.width], row)
	}
	return b
}

// BoardFromStrings builds a board from text rows. '.' is empty; a piece letter
// stores that kind; any other non-space rune stores KindI.
func BoardFromStrings(rows ...string) *Board {
	kinds := make([][]Kind, len(rows))
	for r, row := range rows {
		kinds[r] = make([]Kind, 0, len(row))
		for _, ch := range row {
			if ch == '.' {
				kinds[r] = append(kinds[r], KindNone)
				continue
			}
			k, ok := ParseKind(string(ch))
			if !ok || k == KindNone {
				k = KindI
			}
			kinds[r] = append(kinds[r], k)
		}
	}
	return BoardFromRows(kinds)
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Height returns the number of rows.
func (b *Board) Height() int { return b.height }

// IsInside reports whether (col, row) is between the side walls and above
// the floor. Rows above the top edge are inside.
func (b *Board) IsInside(col, row int) bool {
	return col >= 0 && col < b.width && row < b.height
}

// visible reports whether (col, row) is a stored cell.
func (b *Board) visible(col, row int) bool {
	return row >= 0 && b.IsInside(col, row)
}

// IsOccupied reports whether a locked cell exists at (col, row).
// Positions above or outside the field are never occupied.
func (b *Board) IsOccupied(col, row int) bool {
	if !b.visible(col, row) {
		return false
	}
	return b.cells[row*b.width+col] != KindNone
}

// At returns the kind stored at (col, row), or KindNone outside the field.
func (b *Board) At(col, row int) Kind {
	if !b.visible(col, row) {
		return KindNone
	}
	return b.cells[row*b.width+col]
}

// Fits reports whether shape placed with its origin at (col, row) is legal:
// every occupied cell is within the side walls, above the floor, and does not
// overlap a locked cell. Cells above the top edge are allowed.
func (b *Board) Fits(shape Matrix, col, row int) bool {
	for r, line := range shape {
		for c, filled := range line {
			if !filled {
				continue
			}
			x, y := col+c, row+r
			if !b.IsInside(x, y) || b.IsOccupied(x, y) {
				return false
			}
		}
	}
	return true
}

// Place writes the occupied cells of shape into the board as kind.
// Cells above the top edge are discarded.
func (b *Board) Place(shape Matrix, col, row int, kind Kind) {
	for r, line := range shape {
		for c, filled := range line {
			if !filled {
				continue
			}
			x, y := col+c, row+r
			if b.visible(x, y) {
				b.cells[y*b.width+x] = kind
			}
		}
	}
}

// RowFull reports whether every cell of row is occupied.
func (b *Board) RowFull(row int) bool {
	if row < 0 || row >= b.height {
		return false
	}
	for _, k := range b.cells[row*b.width : (row+1)*b.width] {
		if k == KindNone {
			return false
		}
	}
	return true
}

// FullRows returns the indices of completely filled rows in ascending order.
func (b *Board) FullRows() []int {
	var rows []int
	for r := 0; r < b.height; r++ {
		if b.RowFull(r) {
			rows = append(rows, r)
		}
	}
	return rows
}

// RemoveRows deletes the given rows. Rows above each removed row shift down
// and empty rows are inserted at the top, so the height never changes.
func (b *Board) RemoveRows(rows []int) {
	if len(rows) == 0 {
		return
	}
	drop := make(map[int]bool, len(rows))
	for _, r := range rows {
		if r >= 0 && r < b.height {
			drop[r] = true
		}
	}
	kept := make([]Kind, 0, len(b.cells))
	for r := 0; r < b.height; r++ {
		if drop[r] {
			continue
		}
		kept = append(kept, b.cells[r*b.width:(r+1)*b.width]...)
	}
	out := make([]Kind, len(drop)*b.width, len(b.cells))
	b.cells = append(out, kept...)
}

// DropRow returns the lowest row the shape can reach by moving straight down
// from (col, row). The starting position is assumed legal.
func (b *Board) DropRow(shape Matrix, col, row int) int {
	for b.Fits(shape, col, row+1) {
		row++
	}
	return row
}

// ColumnHeight returns the height of the highest occupied cell in col,
// measured from the floor. An empty column has height 0.
func (b *Board) ColumnHeight(col int) int {
	for r := 0; r < b.height; r++ {
		if b.IsOccupied(col, r) {
			return b.height - r
		}
	}
	return 0
}

// FilledCount returns the number of occupied cells.
func (b *Board) FilledCount() int {
	n := 0
	for _, k := range b.cells {
		if k != KindNone {
			n++
		}
	}
	return n
}

// Rows returns a copy of the cells as rows, top row first.
func (b *Board) Rows() [][]Kind {
	rows := make([][]Kind, b.height)
	for r := range rows {
		rows[r] = make([]Kind, b.width)
		copy(rows[r], b.cells[r*b.width:(r+1)*b.width])
	}
	return rows
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	cells := make([]Kind, len(b.cells))
	copy(cells, b.cells)
	return &Board{width: b.width, height: b.height, cells: cells}
}

// Equal reports whether two boards have the same size and contents.
func (b *Board) Equal(other *Board) bool {
	if b.width != other.width || b.height != other.height {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// String renders the board with '.' for empty cells and kind letters otherwise.
func (b *Board) String() string {
	buf := make([]byte, 0, (b.width+1)*b.height)
	for r := 0; r < b.height; r++ {
		if r > 0 {
			buf = append(buf, '\n')
		}
		for c := 0; c < b.width; c++ {
			k := b.cells[r*b.width+c]
			if k == KindNone {
				buf = append(buf, '.')
			} else {
				buf = append(buf, k.String()...)
			}
		}
	}
	return string(buf)
}
