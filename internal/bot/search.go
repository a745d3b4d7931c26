package bot

import (
	platformcore "github.com/vovakirdan/tetris-arcade/internal/core"
	"github.com/vovakirdan/tetris-arcade/internal/games/tetris/core"
)

// Placement is a reachable landing spot for a piece.
type Placement struct {
	Piece    core.Piece
	Turns    int // clockwise rotations from the starting piece
	Shift    int // columns moved after rotating; negative is left
	Features Features
	Score    float64
}

// Actions returns the command sequence that reaches the placement:
// rotations, then shifts, then a hard drop.
func (p Placement) Actions() []platformcore.Action {
	var out []platformcore.Action
	switch p.Turns {
	case 3:
		out = append(out, platformcore.ActionRotateCCW)
	default:
		for i := 0; i < p.Turns; i++ {
			out = append(out, platformcore.ActionRotateCW)
		}
	}
	for i := 0; i < platformcore.Abs(p.Shift); i++ {
		if p.Shift < 0 {
			out = append(out, platformcore.ActionMoveLeft)
		} else {
			out = append(out, platformcore.ActionMoveRight)
		}
	}
	return append(out, platformcore.ActionHardDrop)
}

// Candidates enumerates every placement reachable from start by rotating in
// place and then shifting one column at a time, with each intermediate
// position legal. Placements landing on identical cells are reported once.
func Candidates(b *core.Board, start core.Piece) []Placement {
	var out []Placement
	seen := make(map[[4]core.Coord]bool)
	add := func(p core.Piece, turns, shift int) {
		if pl, ok := land(b, p, turns, shift, seen); ok {
			out = append(out, pl)
		}
	}

	for turns := 0; turns < 4; turns++ {
		p, ok := rotateFrom(b, start, turns)
		if !ok {
			continue
		}
		add(p, turns, 0)
		for _, dir := range []int{-1, 1} {
			q := p
			for shift := dir; ; shift += dir {
				q = q.Moved(dir, 0)
				if !b.Fits(q.Shape(), q.Col, q.Row) {
					break
				}
				add(q, turns, shift)
			}
		}
	}
	return out
}

// rotateFrom applies turns quarter turns (three turns as one counter-clockwise
// turn), failing if any step is blocked.
func rotateFrom(b *core.Board, start core.Piece, turns int) (core.Piece, bool) {
	if turns == 3 {
		p := start.Rotated(false)
		return p, b.Fits(p.Shape(), p.Col, p.Row)
	}
	p := start
	for i := 0; i < turns; i++ {
		p = p.Rotated(true)
		if !b.Fits(p.Shape(), p.Col, p.Row) {
			return p, false
		}
	}
	return p, true
}

// land drops p to its resting row and records the placement unless an
// equivalent landing was already seen.
func land(b *core.Board, p core.Piece, turns, shift int, seen map[[4]core.Coord]bool) (Placement, bool) {
	p.Row = b.DropRow(p.Shape(), p.Col, p.Row)
	var key [4]core.Coord
	copy(key[:], p.Cells())
	if seen[key] {
		return Placement{}, false
	}
	seen[key] = true

	after := b.Clone()
	after.Place(p.Shape(), p.Col, p.Row, p.Kind)
	full := after.FullRows()
	after.RemoveRows(full)
	return Placement{
		Piece:    p,
		Turns:    turns,
		Shift:    shift,
		Features: Measure(after, len(full)),
	}, true
}

// Best returns the highest scoring placement for start, or false when the
// piece has nowhere to go.
func Best(b *core.Board, start core.Piece, eval Evaluator) (Placement, bool) {
	var best Placement
	found := false
	for _, pl := range Candidates(b, start) {
		pl.Score = eval.Evaluate(pl.Features)
		if !found || pl.Score > best.Score {
			best = pl
			found = true
		}
	}
	return best, found
}
