package core

// PieceView is a serializable view of a piece.
type PieceView struct {
	Kind     Kind    `json:"kind"`
	Col      int     `json:"col"`
	Row      int     `json:"row"`
	Rotation int     `json:"rotation"`
	Cells    []Coord `json:"cells"`
}

func viewOf(p Piece) *PieceView {
	return &PieceView{
		Kind:     p.Kind,
		Col:      p.Col,
		Row:      p.Row,
		Rotation: p.Rotation,
		Cells:    p.Cells(),
	}
}

// Snapshot is the read model handed to renderers and observers.
// It shares no memory with the engine.
type Snapshot struct {
	Width         int        `json:"width"`
	Height        int        `json:"height"`
	Cells         [][]Kind   `json:"cells"`
	Active        *PieceView `json:"active,omitempty"`
	Ghost         *PieceView `json:"ghost,omitempty"`
	Hold          Kind       `json:"hold"`
	HoldAvailable bool       `json:"holdAvailable"`
	Next          Kind       `json:"next"`
	Score         int        `json:"score"`
	Lines         int        `json:"lines"`
	Level         int        `json:"level"`
	Status        Status     `json:"status"`
	ClearingRows  []int      `json:"clearingRows,omitempty"`
	PieceSeq      uint64     `json:"pieceSeq"`
}

// Snapshot captures the current state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Width:         e.cfg.Width,
		Height:        e.cfg.Height,
		Cells:         e.board.Rows(),
		Hold:          e.hold.Kind,
		HoldAvailable: e.hold.Available,
		Next:          e.queue.Peek(),
		Score:         e.score,
		Lines:         e.lines,
		Level:         e.level,
		Status:        e.Status(),
		ClearingRows:  append([]int(nil), e.clear.Rows...),
		PieceSeq:      e.pieceSeq,
	}
	if active, ok := e.Active(); ok {
		s.Active = viewOf(active)
	}
	if ghost, ok := e.Ghost(); ok {
		s.Ghost = viewOf(ghost)
	}
	return s
}
