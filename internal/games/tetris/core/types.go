// Package core implements the falling-block puzzle engine for Tetris.
// This package is UI-agnostic and deterministic: all randomness comes from
// the Randomizer supplied at construction and all timing from Advance.
package core

import "fmt"

// Kind identifies one of the seven piece shapes.
// The zero value KindNone doubles as the "empty" cell token on the board.
type Kind uint8

const (
	KindNone Kind = iota
	KindI
	KindO
	KindT
	KindS
	KindZ
	KindJ
	KindL
)

// KindCount is the number of playable piece kinds.
const KindCount = 7

var kindNames = [...]string{
	KindNone: "",
	KindI:    "I",
	KindO:    "O",
	KindT:    "T",
	KindS:    "S",
	KindZ:    "Z",
	KindJ:    "J",
	KindL:    "L",
}

// String returns the single-letter name of the kind, or "" for KindNone.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "?"
}

// Valid reports whether k is one of the seven playable kinds.
func (k Kind) Valid() bool {
	return k >= KindI && k <= KindL
}

// MarshalText encodes the kind as its letter.
func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("invalid kind %d", k)
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText decodes a letter (or empty string) into a kind.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, ok := ParseKind(string(text))
	if !ok {
		return fmt.Errorf("invalid kind %q", text)
	}
	*k = parsed
	return nil
}

// ParseKind converts a letter name to a Kind. The empty string maps to KindNone.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return KindNone, false
}

// AllKinds returns the playable kinds in catalog order.
func AllKinds() []Kind {
	return []Kind{KindI, KindO, KindT, KindS, KindZ, KindJ, KindL}
}

// Coord is a board position. Row 0 is the top visible row; negative rows
// lie above the visible field.
type Coord struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// Status is the engine's top-level state.
type Status uint8

const (
	// StatusPlaying means a piece is falling and commands are accepted.
	StatusPlaying Status = iota
	// StatusClearing means completed rows are flashing; gameplay is suspended.
	StatusClearing
	// StatusGameOver means a spawn failed; only Reset leaves this state.
	StatusGameOver
)

// String returns the snake_case status name.
func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusClearing:
		return "clearing"
	case StatusGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status as its name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
