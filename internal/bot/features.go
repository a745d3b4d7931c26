// Package bot implements an autoplayer for the Tetris engine: a one-piece
// placement search scored by a pluggable evaluator, exposed to the platform
// as an input source.
package bot

import (
	platformcore "github.com/vovakirdan/tetris-arcade/internal/core"
	"github.com/vovakirdan/tetris-arcade/internal/games/tetris/core"
)

// Features describes a board after a candidate placement and its line clear.
type Features struct {
	AggregateHeight int
	CompleteLines   int
	Holes           int
	Bumpiness       int
	MaxHeight       int
}

// Measure computes features for a board whose full rows have already been
// removed. lines is the number of rows the placement completed.
func Measure(b *core.Board, lines int) Features {
	f := Features{CompleteLines: lines}
	prev := -1
	for col := 0; col < b.Width(); col++ {
		h := b.ColumnHeight(col)
		f.AggregateHeight += h
		if h > f.MaxHeight {
			f.MaxHeight = h
		}
		if prev >= 0 {
			f.Bumpiness += platformcore.Abs(h - prev)
		}
		prev = h

		// Every empty cell below the column top is a hole.
		for row := b.Height() - h; row < b.Height(); row++ {
			if !b.IsOccupied(col, row) {
				f.Holes++
			}
		}
	}
	return f
}
