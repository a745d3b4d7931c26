package core

import "time"

// ClearState tracks rows waiting to be removed after the flash.
type ClearState struct {
	Rows      []int
	Remaining time.Duration
}

// Pending reports whether a clear is in progress.
func (c ClearState) Pending() bool {
	return len(c.Rows) > 0
}

// Option customizes an engine at construction.
type Option func(*Engine)

// WithBoard starts every game (including after Reset) from a copy of b
// instead of an empty field. The board size must match the config.
func WithBoard(b *Board) Option {
	return func(e *Engine) {
		e.initial = b.Clone()
	}
}

// Engine is the game state machine. It is not safe for concurrent use;
// callers serialize commands and Advance on one goroutine.
type Engine struct {
	cfg     Config
	rng     Randomizer
	initial *Board

	board     *Board
	active    Piece
	hasActive bool
	ghostRow  int

	queue *Queue
	hold  HoldSlot
	clear ClearState

	score int
	lines int
	level int

	dropTimer time.Duration
	softDrop  bool
	gameOver  bool

	pieceSeq uint64
	locked   uint64
}

// New validates cfg and starts a game.
func New(cfg Config, rng Randomizer, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, &ValidationError{Code: ErrCodeNoRandomizer, Message: "randomizer is required"}
	}
	e := &Engine{cfg: cfg, rng: rng}
	for _, opt := range opts {
		opt(e)
	}
	if e.initial != nil && (e.initial.Width() != cfg.Width || e.initial.Height() != cfg.Height) {
		return nil, &ValidationError{
			Code:    ErrCodeGridTooSmall,
			Message: "starting board does not match configured grid",
		}
	}
	e.Reset()
	return e, nil
}

// Reset discards the current game and starts a new one.
// The randomizer is not reseeded.
func (e *Engine) Reset() {
	if e.initial != nil {
		e.board = e.initial.Clone()
	} else {
		e.board = NewBoard(e.cfg.Width, e.cfg.Height)
	}
	e.queue = NewQueue(e.rng)
	e.hold = HoldSlot{Available: true}
	e.clear = ClearState{}
	e.score, e.lines, e.level = 0, 0, 1
	e.dropTimer = 0
	e.softDrop = false
	e.gameOver = false
	e.hasActive = false
	e.pieceSeq, e.locked = 0, 0
	e.spawnNext()
}

// spawnNext takes the queued kind and re-enables hold.
func (e *Engine) spawnNext() {
	e.hold.Available = true
	e.spawn(e.queue.Take())
}

// spawn places kind at the spawn position. An illegal spawn ends the game.
func (e *Engine) spawn(kind Kind) {
	p := SpawnPiece(kind, e.cfg.Width)
	e.dropTimer = 0
	if !e.board.Fits(p.Shape(), p.Col, p.Row) {
		e.hasActive = false
		e.gameOver = true
		return
	}
	e.active = p
	e.hasActive = true
	e.pieceSeq++
	e.updateGhost()
}

func (e *Engine) updateGhost() {
	e.ghostRow = e.board.DropRow(e.active.Shape(), e.active.Col, e.active.Row)
}

// acceptsInput reports whether piece commands may run.
func (e *Engine) acceptsInput() bool {
	return e.hasActive && !e.gameOver && !e.clear.Pending()
}

func (e *Engine) tryPlace(p Piece) bool {
	if !e.board.Fits(p.Shape(), p.Col, p.Row) {
		return false
	}
	e.active = p
	e.updateGhost()
	return true
}

// TryMove shifts the active piece by (dc, dr) if the result is legal.
func (e *Engine) TryMove(dc, dr int) bool {
	if !e.acceptsInput() {
		return false
	}
	return e.tryPlace(e.active.Moved(dc, dr))
}

// TryRotate turns the active piece a quarter turn in place.
// There are no wall kicks: a blocked rotation is rejected.
func (e *Engine) TryRotate(clockwise bool) bool {
	if !e.acceptsInput() {
		return false
	}
	return e.tryPlace(e.active.Rotated(clockwise))
}

func (e *Engine) MoveLeft() bool     { return e.TryMove(-1, 0) }
func (e *Engine) MoveRight() bool    { return e.TryMove(1, 0) }
func (e *Engine) RotateCW() bool     { return e.TryRotate(true) }
func (e *Engine) RotateCCW() bool    { return e.TryRotate(false) }
func (e *Engine) SoftDropStop()      { e.softDrop = false }
func (e *Engine) SoftDropping() bool { return e.softDrop }

// SoftDropStart switches gravity to the soft drop interval until SoftDropStop.
func (e *Engine) SoftDropStart() bool {
	if !e.acceptsInput() {
		return false
	}
	e.softDrop = true
	return true
}

// HardDrop moves the piece to its landing row, awards HardDropBonus per row
// traveled, and locks immediately.
func (e *Engine) HardDrop() bool {
	if !e.acceptsInput() {
		return false
	}
	rows := e.ghostRow - e.active.Row
	e.active.Row = e.ghostRow
	e.score += rows * e.cfg.HardDropBonus
	e.lock()
	return true
}

// Hold sets the active kind aside. With an empty slot the next queued piece
// spawns; otherwise the held kind swaps in at the spawn position. Hold is
// usable once per natural spawn.
func (e *Engine) Hold() bool {
	if !e.acceptsInput() || !e.hold.Available {
		return false
	}
	current := e.active.Kind
	held := e.hold.Kind
	e.hold.Kind = current
	e.hold.Available = false
	if held == KindNone {
		e.spawn(e.queue.Take())
	} else {
		e.spawn(held)
	}
	return true
}

// Advance moves the game clock forward by elapsed.
// During a clear it runs the flash timer; otherwise it accumulates gravity
// time and drops the piece one row once the interval elapses, locking it
// when the step is blocked.
func (e *Engine) Advance(elapsed time.Duration) {
	if e.gameOver || elapsed <= 0 {
		return
	}
	if e.clear.Pending() {
		e.clear.Remaining -= elapsed
		if e.clear.Remaining <= 0 {
			e.finishClear()
		}
		return
	}
	if !e.hasActive {
		return
	}
	e.dropTimer += elapsed
	if e.dropTimer < e.CurrentInterval() {
		return
	}
	e.dropTimer = 0
	if !e.tryPlace(e.active.Moved(0, 1)) {
		e.lock()
	}
}

// CurrentInterval returns the active gravity interval, taking soft drop into account.
func (e *Engine) CurrentInterval() time.Duration {
	d := e.cfg.DropInterval(e.level)
	if e.softDrop && e.cfg.SoftDropInterval < d {
		return e.cfg.SoftDropInterval
	}
	return d
}

// lock merges the active piece into the board, then either starts the
// line-clear flash or spawns the next piece.
func (e *Engine) lock() {
	e.board.Place(e.active.Shape(), e.active.Col, e.active.Row, e.active.Kind)
	e.hasActive = false
	e.locked++
	rows := e.board.FullRows()
	if len(rows) == 0 {
		e.spawnNext()
		return
	}
	e.clear = ClearState{Rows: rows, Remaining: e.cfg.FlashDuration}
	if e.cfg.FlashDuration == 0 {
		e.finishClear()
	}
}

// finishClear removes the flashed rows and scores them at the new level.
func (e *Engine) finishClear() {
	n := len(e.clear.Rows)
	e.board.RemoveRows(e.clear.Rows)
	e.clear = ClearState{}
	e.lines += n
	e.level = LevelForLines(e.lines, e.cfg.LinesPerLevel)
	e.score += LineClearPoints(n) * e.level
	e.spawnNext()
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Board returns a copy of the locked playfield.
func (e *Engine) Board() *Board { return e.board.Clone() }

// Active returns the falling piece. ok is false while no piece is in play.
func (e *Engine) Active() (p Piece, ok bool) {
	return e.active, e.hasActive
}

// Ghost returns the active piece projected to its landing row.
func (e *Engine) Ghost() (p Piece, ok bool) {
	if !e.hasActive {
		return Piece{}, false
	}
	g := e.active
	g.Row = e.ghostRow
	return g, true
}

// HoldSlot returns the hold slot.
func (e *Engine) HoldSlot() HoldSlot { return e.hold }

// Next returns the upcoming kind.
func (e *Engine) Next() Kind { return e.queue.Peek() }

func (e *Engine) Score() int { return e.score }
func (e *Engine) Lines() int { return e.lines }
func (e *Engine) Level() int { return e.level }

// PieceSeq counts spawned pieces since the last reset, hold swaps included.
func (e *Engine) PieceSeq() uint64 { return e.pieceSeq }

// Locked counts pieces merged into the board since the last reset.
func (e *Engine) Locked() uint64 { return e.locked }

// Clearing returns a copy of the pending clear state.
func (e *Engine) Clearing() ClearState {
	return ClearState{Rows: append([]int(nil), e.clear.Rows...), Remaining: e.clear.Remaining}
}

// GameOver reports whether the game has ended.
func (e *Engine) GameOver() bool { return e.gameOver }

// Status returns the engine's top-level state.
func (e *Engine) Status() Status {
	switch {
	case e.gameOver:
		return StatusGameOver
	case e.clear.Pending():
		return StatusClearing
	default:
		return StatusPlaying
	}
}
