package core_test

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/vovakirdan/tetris-arcade/internal/games/tetris/core"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*core.Config)
		code   string
	}{
		{"narrow grid", func(c *core.Config) { c.Width = 3 }, core.ErrCodeGridTooSmall},
		{"short grid", func(c *core.Config) { c.Height = 2 }, core.ErrCodeGridTooSmall},
		{"lines per level", func(c *core.Config) { c.LinesPerLevel = 0 }, core.ErrCodeLinesPerLevel},
		{"base interval", func(c *core.Config) { c.BaseInterval = 0 }, core.ErrCodeInterval},
		{"negative step", func(c *core.Config) { c.IntervalStep = -time.Millisecond }, core.ErrCodeInterval},
		{"soft drop", func(c *core.Config) { c.SoftDropInterval = 0 }, core.ErrCodeInterval},
		{"flash", func(c *core.Config) { c.FlashDuration = -1 }, core.ErrCodeFlashDuration},
		{"bonus", func(c *core.Config) { c.HardDropBonus = -2 }, core.ErrCodeHardDropBonus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := core.DefaultConfig()
			tt.mutate(&cfg)
			_, err := core.New(cfg, deal(core.KindT))
			var verr *core.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("New() error = %v, expected *ValidationError", err)
			}
			if verr.Code != tt.code {
				t.Errorf("code = %s, expected %s", verr.Code, tt.code)
			}
		})
	}

	if _, err := core.New(core.DefaultConfig(), nil); err == nil {
		t.Error("New() with nil randomizer should fail")
	}
}

func TestSpawnPosition(t *testing.T) {
	tests := []struct {
		kind     core.Kind
		col, row int
	}{
		{core.KindI, 3, -1},
		{core.KindO, 4, 0},
		{core.KindT, 3, 0},
		{core.KindL, 3, 0},
	}
	for _, tt := range tests {
		e := newEngine(t, core.DefaultConfig(), deal(tt.kind))
		p, ok := e.Active()
		if !ok {
			t.Fatalf("%s: no active piece", tt.kind)
		}
		if p.Kind != tt.kind || p.Col != tt.col || p.Row != tt.row || p.Rotation != 0 {
			t.Errorf("%s spawned at %+v, expected col %d row %d", tt.kind, p, tt.col, tt.row)
		}
		if e.PieceSeq() != 1 {
			t.Errorf("PieceSeq() = %d, expected 1", e.PieceSeq())
		}
	}
}

func TestQueueFeedsNextPiece(t *testing.T) {
	e := newEngine(t, core.DefaultConfig(), deal(core.KindT, core.KindS, core.KindZ))
	if p, _ := e.Active(); p.Kind != core.KindT {
		t.Errorf("active = %s, expected T", p.Kind)
	}
	if e.Next() != core.KindS {
		t.Errorf("Next() = %s, expected S", e.Next())
	}
	e.HardDrop()
	if p, _ := e.Active(); p.Kind != core.KindS {
		t.Errorf("active after drop = %s, expected S", p.Kind)
	}
	if e.Next() != core.KindZ {
		t.Errorf("Next() after drop = %s, expected Z", e.Next())
	}
}

func TestMoveStopsAtWalls(t *testing.T) {
	e := newEngine(t, core.DefaultConfig(), deal(core.KindO))

	moves := 0
	for e.MoveLeft() {
		moves++
	}
	if moves != 4 {
		t.Errorf("moved left %d times, expected 4", moves)
	}
	p, _ := e.Active()
	if p.Col != 0 {
		t.Errorf("Col = %d, expected 0", p.Col)
	}

	moves = 0
	for e.MoveRight() {
		moves++
	}
	if moves != 8 {
		t.Errorf("moved right %d times, expected 8", moves)
	}
	assertLegal(t, e)
}

func TestRotateWithoutWallKick(t *testing.T) {
	e := newEngine(t, core.DefaultConfig(), deal(core.KindI))

	if !e.RotateCW() {
		t.Fatal("vertical rotation in open space should succeed")
	}
	for e.MoveLeft() {
	}
	before, _ := e.Active()
	if before.Cells()[0].Col != 0 {
		t.Fatalf("vertical I should touch the left wall, got %+v", before.Cells())
	}

	if e.RotateCW() {
		t.Error("rotation into the wall should be rejected")
	}
	after, _ := e.Active()
	if after != before {
		t.Errorf("rejected rotation changed piece: %+v -> %+v", before, after)
	}
}

func TestRotateFourTimesRestoresPiece(t *testing.T) {
	tests := []struct {
		name   string
		rotate func(*core.Engine) bool
	}{
		{"clockwise", (*core.Engine).RotateCW},
		{"counterclockwise", (*core.Engine).RotateCCW},
	}

	for _, tt := range tests {
		for _, kind := range core.AllKinds() {
			t.Run(tt.name+"/"+kind.String(), func(t *testing.T) {
				e := newEngine(t, core.DefaultConfig(), deal(kind))
				start, _ := e.Active()
				for i := 0; i < 4; i++ {
					if !tt.rotate(e) {
						t.Fatalf("rotation %d in open space failed", i+1)
					}
				}
				end, _ := e.Active()
				if end != start {
					t.Errorf("four rotations: %+v, expected %+v", end, start)
				}
			})
		}
	}
}

func TestGravity(t *testing.T) {
	e := newEngine(t, core.DefaultConfig(), deal(core.KindT))

	e.Advance(799 * time.Millisecond)
	if p, _ := e.Active(); p.Row != 0 {
		t.Errorf("Row = %d before interval, expected 0", p.Row)
	}
	e.Advance(time.Millisecond)
	if p, _ := e.Active(); p.Row != 1 {
		t.Errorf("Row = %d after interval, expected 1", p.Row)
	}
	e.Advance(400 * time.Millisecond)
	if p, _ := e.Active(); p.Row != 1 {
		t.Errorf("accumulator not reset, Row = %d", p.Row)
	}
}

func TestSoftDrop(t *testing.T) {
	e := newEngine(t, core.DefaultConfig(), deal(core.KindT))

	if !e.SoftDropStart() {
		t.Fatal("SoftDropStart rejected")
	}
	if e.CurrentInterval() != 50*time.Millisecond {
		t.Errorf("CurrentInterval() = %v, expected 50ms", e.CurrentInterval())
	}
	e.Advance(50 * time.Millisecond)
	if p, _ := e.Active(); p.Row != 1 {
		t.Errorf("Row = %d, expected 1", p.Row)
	}

	e.SoftDropStop()
	e.Advance(50 * time.Millisecond)
	if p, _ := e.Active(); p.Row != 1 {
		t.Errorf("Row = %d after stop, expected 1", p.Row)
	}
	if e.Score() != 0 {
		t.Errorf("soft drop awarded %d points", e.Score())
	}
}

func TestGravityLocksBlockedPiece(t *testing.T) {
	e := newEngine(t, core.DefaultConfig(), deal(core.KindO))

	for i := 0; i < 100 && e.Locked() == 0; i++ {
		e.Advance(800 * time.Millisecond)
	}
	if e.Locked() != 1 {
		t.Fatalf("Locked() = %d, expected 1", e.Locked())
	}
	b := e.Board()
	for _, c := range []core.Coord{{Col: 4, Row: 18}, {Col: 5, Row: 18}, {Col: 4, Row: 19}, {Col: 5, Row: 19}} {
		if b.At(c.Col, c.Row) != core.KindO {
			t.Errorf("cell %+v not locked:\n%s", c, b)
		}
	}
	if e.PieceSeq() != 2 {
		t.Errorf("PieceSeq() = %d, expected 2", e.PieceSeq())
	}
}

func TestHardDropScoresRows(t *testing.T) {
	e := newEngine(t, core.DefaultConfig(), deal(core.KindT))

	if !e.HardDrop() {
		t.Fatal("HardDrop rejected")
	}
	// T spans two rows, so it travels from row 0 to row 18.
	if e.Score() != 36 {
		t.Errorf("Score() = %d, expected 36", e.Score())
	}
	if e.Locked() != 1 {
		t.Errorf("Locked() = %d, expected 1", e.Locked())
	}
	b := e.Board()
	if b.At(4, 18) != core.KindT || b.At(3, 19) != core.KindT {
		t.Errorf("T not locked at the bottom:\n%s", b)
	}
}

func TestGhostConsistency(t *testing.T) {
	cfg := core.DefaultConfig()
	start := core.NewBoard(cfg.Width, cfg.Height)
	start.Place(core.KindO.Matrix(), 4, 10, core.KindO)

	e := newEngine(t, cfg, deal(core.KindT, core.KindJ), core.WithBoard(start))
	for step := 0; step < 6; step++ {
		active, _ := e.Active()
		ghost, ok := e.Ghost()
		if !ok {
			t.Fatal("no ghost")
		}
		if ghost.Col != active.Col || ghost.Rotation != active.Rotation || ghost.Kind != active.Kind {
			t.Errorf("ghost %+v does not follow active %+v", ghost, active)
		}
		b := e.Board()
		if !b.Fits(ghost.Shape(), ghost.Col, ghost.Row) {
			t.Errorf("ghost %+v is illegal", ghost)
		}
		if b.Fits(ghost.Shape(), ghost.Col, ghost.Row+1) {
			t.Errorf("ghost %+v is not at the landing row", ghost)
		}
		e.MoveRight()
	}
}

func TestHoldIdempotence(t *testing.T) {
	e := newEngine(t, core.DefaultConfig(), deal(core.KindT, core.KindS, core.KindZ, core.KindL))

	if !e.Hold() {
		t.Fatal("first Hold rejected")
	}
	slot := e.HoldSlot()
	if slot.Kind != core.KindT || slot.Available {
		t.Errorf("HoldSlot() = %+v, expected T unavailable", slot)
	}
	active, _ := e.Active()
	if active.Kind != core.KindS {
		t.Errorf("active after hold = %s, expected S", active.Kind)
	}
	if e.Next() != core.KindZ {
		t.Errorf("Next() = %s, expected Z", e.Next())
	}

	before, _ := e.Active()
	if e.Hold() {
		t.Error("second Hold in the same turn should be a no-op")
	}
	after, _ := e.Active()
	if after != before || e.HoldSlot() != slot || e.Next() != core.KindZ {
		t.Errorf("rejected hold changed state")
	}

	e.HardDrop()
	if !e.HoldSlot().Available {
		t.Fatal("hold should be available after a natural spawn")
	}
	if !e.Hold() {
		t.Fatal("swap Hold rejected")
	}
	active, _ = e.Active()
	if active.Kind != core.KindT {
		t.Errorf("swapped-in kind = %s, expected T", active.Kind)
	}
	if active != core.SpawnPiece(core.KindT, 10) {
		t.Errorf("swapped piece %+v not at spawn transform", active)
	}
	if e.HoldSlot().Kind != core.KindZ {
		t.Errorf("held kind = %s, expected Z", e.HoldSlot().Kind)
	}
}

// iGapBoard fills the bottom row except for a four-wide gap under the I spawn.
func iGapBoard(cfg core.Config) *core.Board {
	rows := make([]string, cfg.Height)
	for r := range rows {
		rows[r] = "......................"[:cfg.Width]
	}
	rows[cfg.Height-2] = "L" + rows[cfg.Height-2][1:]
	rows[cfg.Height-1] = "JJJ....ZZZ"
	return core.BoardFromStrings(rows...)
}

func TestIPieceClearsGapRow(t *testing.T) {
	cfg := core.DefaultConfig()
	e := newEngine(t, cfg, deal(core.KindI, core.KindO), core.WithBoard(iGapBoard(cfg)))

	if !e.HardDrop() {
		t.Fatal("HardDrop rejected")
	}
	dropPoints := 19 * cfg.HardDropBonus
	if e.Status() != core.StatusClearing {
		t.Fatalf("Status() = %s, expected clearing", e.Status())
	}
	if rows := e.Clearing().Rows; len(rows) != 1 || rows[0] != 19 {
		t.Errorf("clearing rows = %v, expected [19]", rows)
	}
	seq := e.PieceSeq()

	// Flash: commands rejected, nothing spawns, nothing scores.
	if e.MoveLeft() || e.Hold() || e.HardDrop() || e.SoftDropStart() {
		t.Error("commands during flash should be rejected")
	}
	e.Advance(cfg.FlashDuration - time.Millisecond)
	if e.Status() != core.StatusClearing || e.PieceSeq() != seq {
		t.Error("clear finished early")
	}
	if e.Score() != dropPoints || e.Lines() != 0 {
		t.Errorf("score/lines changed during flash: %d/%d", e.Score(), e.Lines())
	}

	e.Advance(time.Millisecond)
	if e.Status() != core.StatusPlaying {
		t.Fatalf("Status() = %s, expected playing", e.Status())
	}
	if e.Lines() != 1 {
		t.Errorf("Lines() = %d, expected 1", e.Lines())
	}
	if e.Score() != dropPoints+40*e.Level() {
		t.Errorf("Score() = %d, expected %d", e.Score(), dropPoints+40*e.Level())
	}
	if e.PieceSeq() != seq+1 {
		t.Errorf("PieceSeq() = %d, expected %d", e.PieceSeq(), seq+1)
	}
	b := e.Board()
	if b.At(0, 19) != core.KindL || b.FilledCount() != 1 {
		t.Errorf("row above cleared row did not shift down:\n%s", b)
	}
}

func TestClearUsesPostClearLevel(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.LinesPerLevel = 1
	e := newEngine(t, cfg, deal(core.KindI), core.WithBoard(iGapBoard(cfg)))

	e.HardDrop()
	e.Advance(cfg.FlashDuration)

	if e.Level() != 2 {
		t.Errorf("Level() = %d, expected 2", e.Level())
	}
	expected := 19*cfg.HardDropBonus + 40*2
	if e.Score() != expected {
		t.Errorf("Score() = %d, expected %d", e.Score(), expected)
	}
}

// wellBoard fills the bottom rows except column 5, the column a clockwise
// I piece occupies at spawn.
func wellBoard(cfg core.Config, rows int) *core.Board {
	lines := make([]string, cfg.Height)
	for r := range lines {
		lines[r] = ".........."
		if r >= cfg.Height-rows {
			lines[r] = "JJJJJ.JJJJ"
		}
	}
	return core.BoardFromStrings(lines...)
}

func TestVerticalIClearsMultipleRows(t *testing.T) {
	tests := []struct {
		rows   int
		points int
		level  int
	}{
		{rows: 2, points: 100, level: 2},
		{rows: 3, points: 300, level: 2},
		{rows: 4, points: 1200, level: 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d rows", tt.rows), func(t *testing.T) {
			cfg := core.DefaultConfig()
			cfg.LinesPerLevel = 2
			e := newEngine(t, cfg, deal(core.KindI, core.KindO), core.WithBoard(wellBoard(cfg, tt.rows)))

			if !e.RotateCW() {
				t.Fatal("RotateCW rejected at spawn")
			}
			if !e.HardDrop() {
				t.Fatal("HardDrop rejected")
			}
			cleared := e.Clearing().Rows
			if len(cleared) != tt.rows {
				t.Fatalf("clearing rows = %v, expected %d rows", cleared, tt.rows)
			}
			for i, r := range cleared {
				if r != cfg.Height-tt.rows+i {
					t.Errorf("clearing rows = %v, expected the bottom %d", cleared, tt.rows)
					break
				}
			}
			afterDrop := e.Score()

			e.Advance(cfg.FlashDuration)
			if e.Status() != core.StatusPlaying {
				t.Fatalf("Status() = %s, expected playing", e.Status())
			}
			if e.Lines() != tt.rows {
				t.Errorf("Lines() = %d, expected %d", e.Lines(), tt.rows)
			}
			if e.Level() != tt.level {
				t.Errorf("Level() = %d, expected %d", e.Level(), tt.level)
			}
			if got := e.Score() - afterDrop; got != tt.points*tt.level {
				t.Errorf("clear awarded %d, expected %d x %d", got, tt.points, tt.level)
			}

			// What is left of the I sits on the floor.
			b := e.Board()
			if b.FilledCount() != 4-tt.rows {
				t.Errorf("FilledCount() = %d, expected %d\n%s", b.FilledCount(), 4-tt.rows, b)
			}
			for r := cfg.Height - (4 - tt.rows); r < cfg.Height; r++ {
				if b.At(5, r) != core.KindI {
					t.Errorf("cell (5,%d) = %s, expected I\n%s", r, b.At(5, r), b)
				}
			}
		})
	}
}

func TestSpawnOverlapEndsGame(t *testing.T) {
	cfg := core.DefaultConfig()
	start := core.NewBoard(cfg.Width, cfg.Height)
	for r := 2; r < cfg.Height; r++ {
		start.Place(core.MatrixFromRows("#"), 4, r, core.KindJ)
	}
	e := newEngine(t, cfg, deal(core.KindO), core.WithBoard(start))

	if !e.HardDrop() {
		t.Fatal("HardDrop rejected")
	}
	if !e.GameOver() || e.Status() != core.StatusGameOver {
		t.Fatalf("Status() = %s, expected game_over", e.Status())
	}
	if _, ok := e.Active(); ok {
		t.Error("no active piece expected after game over")
	}

	score, lines, locked := e.Score(), e.Lines(), e.Locked()
	e.Advance(10 * time.Second)
	if e.MoveLeft() || e.RotateCW() || e.HardDrop() || e.Hold() || e.SoftDropStart() {
		t.Error("commands after game over should be rejected")
	}
	if e.Score() != score || e.Lines() != lines || e.Locked() != locked {
		t.Error("state changed after game over")
	}

	e.Reset()
	if e.GameOver() || e.Score() != 0 || e.Board().FilledCount() != cfg.Height-2 {
		t.Error("Reset did not restore the starting board")
	}
}

func TestLevelAndInterval(t *testing.T) {
	cfg := core.DefaultConfig()
	tests := []struct {
		lines, level int
		interval     time.Duration
	}{
		{0, 1, 800 * time.Millisecond},
		{9, 1, 800 * time.Millisecond},
		{10, 2, 750 * time.Millisecond},
		{55, 6, 550 * time.Millisecond},
		{150, 16, 50 * time.Millisecond},
		{500, 51, 50 * time.Millisecond},
	}
	for _, tt := range tests {
		level := core.LevelForLines(tt.lines, cfg.LinesPerLevel)
		if level != tt.level {
			t.Errorf("LevelForLines(%d) = %d, expected %d", tt.lines, level, tt.level)
		}
		if got := cfg.DropInterval(level); got != tt.interval {
			t.Errorf("DropInterval(%d) = %v, expected %v", level, got, tt.interval)
		}
	}
}

func TestLineClearPoints(t *testing.T) {
	expected := map[int]int{0: 0, 1: 40, 2: 100, 3: 300, 4: 1200, 5: 1200}
	for rows, points := range expected {
		if got := core.LineClearPoints(rows); got != points {
			t.Errorf("LineClearPoints(%d) = %d, expected %d", rows, got, points)
		}
	}
}

// TestRandomPlayInvariants drives the engine with random commands and checks
// legality and progress monotonicity after every step.
func TestRandomPlayInvariants(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.FlashDuration = 40 * time.Millisecond
	e := newEngine(t, cfg, rand.New(rand.NewSource(7)))
	cmd := rand.New(rand.NewSource(99))

	commands := []func() bool{
		e.MoveLeft, e.MoveRight, e.RotateCW, e.RotateCCW,
		e.Hold, e.HardDrop, e.SoftDropStart,
		func() bool { e.SoftDropStop(); return true },
	}

	prevScore, prevLines, prevLevel := 0, 0, 1
	for step := 0; step < 5000; step++ {
		if e.GameOver() {
			e.Reset()
			prevScore, prevLines, prevLevel = 0, 0, 1
		}
		commands[cmd.Intn(len(commands))]()
		e.Advance(time.Duration(cmd.Intn(120)) * time.Millisecond)

		assertLegal(t, e)
		if e.Score() < prevScore || e.Lines() < prevLines || e.Level() < prevLevel {
			t.Fatalf("step %d: progress decreased", step)
		}
		if e.Level() != core.LevelForLines(e.Lines(), cfg.LinesPerLevel) {
			t.Fatalf("step %d: level %d inconsistent with lines %d", step, e.Level(), e.Lines())
		}
		if e.Status() == core.StatusPlaying && len(e.Board().FullRows()) != 0 {
			t.Fatalf("step %d: full rows left on board while playing", step)
		}
		prevScore, prevLines, prevLevel = e.Score(), e.Lines(), e.Level()
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	e := newEngine(t, core.DefaultConfig(), deal(core.KindT, core.KindI))
	s := e.Snapshot()
	if s.Active == nil || s.Ghost == nil {
		t.Fatal("snapshot missing active or ghost")
	}
	if s.Ghost.Row != 18 || s.Next != core.KindI || s.Status != core.StatusPlaying {
		t.Errorf("unexpected snapshot %+v", s)
	}
	s.Cells[19][0] = core.KindZ
	if e.Board().At(0, 19) != core.KindNone {
		t.Error("snapshot shares memory with board")
	}
}
