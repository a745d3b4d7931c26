package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformcore "github.com/vovakirdan/tetris-arcade/internal/core"
	"github.com/vovakirdan/tetris-arcade/internal/games/tetris"
	"github.com/vovakirdan/tetris-arcade/internal/games/tetris/core"
	"github.com/vovakirdan/tetris-arcade/internal/platform/runner"
)

func TestMeasure(t *testing.T) {
	b := core.BoardFromStrings(
		"....",
		".#..",
		"#.#.",
		"##.#",
	)
	f := Measure(b, 1)
	assert.Equal(t, Features{
		AggregateHeight: 8,
		CompleteLines:   1,
		Holes:           2,
		Bumpiness:       3,
		MaxHeight:       3,
	}, f)
}

func TestCandidatesDeduplicate(t *testing.T) {
	b := core.NewBoard(10, 20)

	o := Candidates(b, core.SpawnPiece(core.KindO, 10))
	assert.Len(t, o, 9, "O lands in nine distinct columns")

	tp := Candidates(b, core.SpawnPiece(core.KindT, 10))
	assert.Len(t, tp, 34)

	for _, pl := range tp {
		assert.True(t, b.Fits(pl.Piece.Shape(), pl.Piece.Col, pl.Piece.Row))
		assert.False(t, b.Fits(pl.Piece.Shape(), pl.Piece.Col, pl.Piece.Row+1), "placement must rest")
	}
}

func TestBestFillsGap(t *testing.T) {
	rows := make([]string, 20)
	for i := range rows {
		rows[i] = ".........."
	}
	rows[19] = "JJJ....ZZZ"
	b := core.BoardFromStrings(rows...)

	best, ok := Best(b, core.SpawnPiece(core.KindI, 10), DefaultHeuristic())
	require.True(t, ok)
	assert.Equal(t, 1, best.Features.CompleteLines)
	for _, c := range best.Piece.Cells() {
		assert.Equal(t, 19, c.Row)
	}
	assert.Equal(t, []platformcore.Action{platformcore.ActionHardDrop}, best.Actions())
}

func TestPlacementActions(t *testing.T) {
	tests := []struct {
		turns, shift int
		expected     []platformcore.Action
	}{
		{0, 0, []platformcore.Action{platformcore.ActionHardDrop}},
		{1, -2, []platformcore.Action{platformcore.ActionRotateCW, platformcore.ActionMoveLeft, platformcore.ActionMoveLeft, platformcore.ActionHardDrop}},
		{2, 1, []platformcore.Action{platformcore.ActionRotateCW, platformcore.ActionRotateCW, platformcore.ActionMoveRight, platformcore.ActionHardDrop}},
		{3, 0, []platformcore.Action{platformcore.ActionRotateCCW, platformcore.ActionHardDrop}},
	}
	for _, tt := range tests {
		got := Placement{Turns: tt.turns, Shift: tt.shift}.Actions()
		assert.Equal(t, tt.expected, got)
	}
}

func TestHeuristicPrefersFewerHoles(t *testing.T) {
	h := DefaultHeuristic()
	clean := Features{AggregateHeight: 4, Bumpiness: 2}
	holey := Features{AggregateHeight: 4, Bumpiness: 2, Holes: 1}
	assert.Greater(t, h.Evaluate(clean), h.Evaluate(holey))

	cleared := Features{CompleteLines: 1}
	assert.Greater(t, h.Evaluate(cleared), h.Evaluate(Features{}))
}

func TestLuaEvaluator(t *testing.T) {
	e, err := NewLuaEvaluatorString(`
function evaluate(f)
  return f.lines * 10 - f.holes
end
`, nil, nil)
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, 17.0, e.Evaluate(Features{CompleteLines: 2, Holes: 3}))
	assert.Equal(t, 0, e.Failures())
}

func TestLuaEvaluatorFallsBack(t *testing.T) {
	fallback := EvaluatorFunc(func(Features) float64 { return -42 })

	broken, err := NewLuaEvaluatorString(`function evaluate(f) error("boom") end`, fallback, nil)
	require.NoError(t, err)
	defer broken.Close()
	assert.Equal(t, -42.0, broken.Evaluate(Features{}))
	assert.Equal(t, 1, broken.Failures())

	wrongType, err := NewLuaEvaluatorString(`function evaluate(f) return {} end`, fallback, nil)
	require.NoError(t, err)
	defer wrongType.Close()
	assert.Equal(t, -42.0, wrongType.Evaluate(Features{}))
}

func TestLuaEvaluatorLoadErrors(t *testing.T) {
	_, err := NewLuaEvaluatorString(`x = 1`, nil, nil)
	assert.ErrorContains(t, err, "evaluate")

	_, err = NewLuaEvaluatorString(`function evaluate(`, nil, nil)
	assert.Error(t, err)

	_, err = NewLuaEvaluator("does/not/exist.lua", nil, nil)
	assert.Error(t, err)
}

func TestLuaMatchesHeuristic(t *testing.T) {
	e, err := NewLuaEvaluatorString(`
function evaluate(f)
  return -0.510066 * f.aggregate_height + 0.760666 * f.lines
    - 0.35663 * f.holes - 0.184483 * f.bumpiness
end
`, nil, nil)
	require.NoError(t, err)
	defer e.Close()

	b := core.BoardFromStrings(
		"..........",
		"..........",
		"..........",
		"..........",
		"#.........",
		"##..#....#",
	)
	for _, k := range core.AllKinds() {
		start := core.SpawnPiece(k, b.Width())
		want, ok := Best(b, start, DefaultHeuristic())
		require.True(t, ok)
		got, ok := Best(b, start, e)
		require.True(t, ok)
		assert.InDelta(t, want.Score, got.Score, 1e-9, "kind %s", k)
	}
}

func TestPlayerClearsLines(t *testing.T) {
	g := tetris.NewWithConfig(core.DefaultConfig())
	p := NewPlayer(g, nil)

	res, err := runner.Run(context.Background(), g, p, platformcore.RuntimeConfig{TickRate: 60, Seed: 11}, runner.Options{
		MaxTicks: 20000,
	})
	require.NoError(t, err)
	assert.Greater(t, res.Lines, 0)
	assert.Greater(t, res.Pieces, uint64(10))
	assert.Equal(t, res.State.Score, g.Engine().Score())
}

func TestPlayerIdleWhenNotPlaying(t *testing.T) {
	g := tetris.NewWithConfig(core.DefaultConfig())
	p := NewPlayer(g, nil, WithHold(false))
	// No Reset yet: the game has no engine.
	assert.True(t, p.Next(0).Empty())
}
