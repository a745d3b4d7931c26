package core

import platformcore "github.com/vovakirdan/tetris-arcade/internal/core"

// lineClearBase is the base award for clearing 0..4 rows at once.
var lineClearBase = [...]int{0, 40, 100, 300, 1200}

// LineClearPoints returns the base award for clearing rows at once.
// Clears larger than four rows are scored as four.
func LineClearPoints(rows int) int {
	return lineClearBase[platformcore.Clamp(rows, 0, len(lineClearBase)-1)]
}

// LevelForLines returns the level reached after clearing lines.
func LevelForLines(lines, linesPerLevel int) int {
	if linesPerLevel <= 0 {
		return 1
	}
	return lines/linesPerLevel + 1
}
