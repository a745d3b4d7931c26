package core

// Piece is a kind placed on the board at a matrix origin with a rotation.
// Row may be negative while the piece is partially above the field.
type Piece struct {
	Kind     Kind
	Col      int
	Row      int
	Rotation int
}

// SpawnPiece places kind at the top of a board of the given width:
// horizontally centered, with its topmost occupied row on row 0.
func SpawnPiece(kind Kind, width int) Piece {
	m := kind.Matrix()
	return Piece{
		Kind: kind,
		Col:  (width - m.Size()) / 2,
		Row:  -m.TopRow(),
	}
}

// Shape returns the piece's current occupancy matrix.
func (p Piece) Shape() Matrix {
	return p.Kind.Shape(p.Rotation)
}

// Moved returns the piece translated by (dc, dr).
func (p Piece) Moved(dc, dr int) Piece {
	p.Col += dc
	p.Row += dr
	return p
}

// Rotated returns the piece turned a quarter turn about its matrix origin.
func (p Piece) Rotated(clockwise bool) Piece {
	if clockwise {
		p.Rotation = normalizeRotation(p.Rotation + 1)
	} else {
		p.Rotation = normalizeRotation(p.Rotation - 1)
	}
	return p
}

// Cells returns the absolute board coordinates of the piece's occupied cells.
func (p Piece) Cells() []Coord {
	rel := p.Shape().Cells()
	for i := range rel {
		rel[i].Col += p.Col
		rel[i].Row += p.Row
	}
	return rel
}
