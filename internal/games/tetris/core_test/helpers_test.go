package core_test

import (
	"testing"

	"github.com/vovakirdan/tetris-arcade/internal/games/tetris/core"
)

// seqRand deals the given kinds in order, cycling.
type seqRand struct {
	kinds []core.Kind
	i     int
}

func deal(kinds ...core.Kind) *seqRand {
	return &seqRand{kinds: kinds}
}

func (s *seqRand) Intn(n int) int {
	k := s.kinds[s.i%len(s.kinds)]
	s.i++
	return int(k-core.KindI) % n
}

func newEngine(t *testing.T, cfg core.Config, rng core.Randomizer, opts ...core.Option) *core.Engine {
	t.Helper()
	e, err := core.New(cfg, rng, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return e
}

// assertLegal fails when the active piece overlaps the board or walls.
func assertLegal(t *testing.T, e *core.Engine) {
	t.Helper()
	p, ok := e.Active()
	if !ok {
		return
	}
	b := e.Board()
	for _, c := range p.Cells() {
		if c.Col < 0 || c.Col >= b.Width() || c.Row >= b.Height() {
			t.Fatalf("active cell %+v out of bounds", c)
		}
		if b.IsOccupied(c.Col, c.Row) {
			t.Fatalf("active cell %+v overlaps locked cell", c)
		}
	}
}
