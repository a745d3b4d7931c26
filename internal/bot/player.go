package bot

import (
	"io"

	"github.com/charmbracelet/log"

	platformcore "github.com/vovakirdan/tetris-arcade/internal/core"
	"github.com/vovakirdan/tetris-arcade/internal/games/tetris/core"
)

// EngineProvider exposes the engine of a running game.
// The Tetris registry adapter satisfies it.
type EngineProvider interface {
	Engine() *core.Engine
}

// Player is a runner input source that plays the game.
// It plans once per piece and emits one action per tick.
type Player struct {
	game     EngineProvider
	eval     Evaluator
	logger   *log.Logger
	useHold  bool
	seq      uint64
	plan     []platformcore.Action
	expected core.Piece
	planned  bool
	replans  int
}

// PlayerOption customizes a Player.
type PlayerOption func(*Player)

// WithHold lets the player consider swapping with the hold slot.
func WithHold(enabled bool) PlayerOption {
	return func(p *Player) { p.useHold = enabled }
}

// WithLogger sets the logger used for planning events.
func WithLogger(logger *log.Logger) PlayerOption {
	return func(p *Player) { p.logger = logger }
}

// NewPlayer creates a player for game scored by eval.
// A nil eval uses DefaultHeuristic.
func NewPlayer(game EngineProvider, eval Evaluator, opts ...PlayerOption) *Player {
	if eval == nil {
		eval = DefaultHeuristic()
	}
	p := &Player{
		game:    game,
		eval:    eval,
		logger:  log.New(io.Discard),
		useHold: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Replans returns how many times a plan was abandoned mid-piece.
func (p *Player) Replans() int {
	return p.replans
}

// Next implements runner.InputSource.
func (p *Player) Next(tick uint64) platformcore.InputFrame {
	e := p.game.Engine()
	if e == nil || e.Status() != core.StatusPlaying {
		return platformcore.NewInputFrame()
	}
	active, ok := e.Active()
	if !ok {
		return platformcore.NewInputFrame()
	}

	switch {
	case !p.planned || e.PieceSeq() != p.seq:
		p.replan(e, active)
	case !sameSpot(active, p.expected):
		// A command was rejected or gravity blocked a shift.
		p.replans++
		p.logger.Debug("plan diverged, replanning", "tick", tick, "seq", e.PieceSeq())
		p.replan(e, active)
	}

	if len(p.plan) == 0 {
		return platformcore.FrameOf(platformcore.ActionHardDrop)
	}
	action := p.plan[0]
	p.plan = p.plan[1:]
	p.expected = predict(active, action)
	return platformcore.FrameOf(action)
}

// replan searches placements for the active piece and, when allowed, for
// the piece a hold would bring in.
func (p *Player) replan(e *core.Engine, active core.Piece) {
	p.seq = e.PieceSeq()
	p.planned = true
	b := e.Board()

	best, ok := Best(b, active, p.eval)
	if p.useHold && e.HoldSlot().Available {
		alt := e.HoldSlot().Kind
		if alt == core.KindNone {
			alt = e.Next()
		}
		if alt != active.Kind {
			spawn := core.SpawnPiece(alt, b.Width())
			if b.Fits(spawn.Shape(), spawn.Col, spawn.Row) {
				if held, hok := Best(b, spawn, p.eval); hok && (!ok || held.Score > best.Score) {
					p.plan = []platformcore.Action{platformcore.ActionHold}
					p.expected = active
					return
				}
			}
		}
	}

	if !ok {
		p.plan = nil
		return
	}
	p.plan = best.Actions()
	p.logger.Debug("planned placement",
		"seq", p.seq,
		"kind", active.Kind.String(),
		"col", best.Piece.Col,
		"rotation", best.Piece.Rotation,
		"score", best.Score,
	)
}

// predict returns where action should leave the piece, ignoring gravity.
func predict(p core.Piece, action platformcore.Action) core.Piece {
	switch action {
	case platformcore.ActionMoveLeft:
		return p.Moved(-1, 0)
	case platformcore.ActionMoveRight:
		return p.Moved(1, 0)
	case platformcore.ActionRotateCW:
		return p.Rotated(true)
	case platformcore.ActionRotateCCW:
		return p.Rotated(false)
	}
	return p
}

// sameSpot compares column, rotation and kind; rows change with gravity.
func sameSpot(a, b core.Piece) bool {
	return a.Kind == b.Kind && a.Col == b.Col && a.Rotation == b.Rotation
}
