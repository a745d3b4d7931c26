package core

import "fmt"

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone          Action = iota
	ActionMoveLeft             // Shift the falling piece one column left
	ActionMoveRight            // Shift the falling piece one column right
	ActionRotateCW             // Quarter turn clockwise
	ActionRotateCCW            // Quarter turn counter-clockwise
	ActionSoftDropStart        // Begin fast descent
	ActionSoftDropStop         // End fast descent
	ActionHardDrop             // Drop to the ghost position and lock
	ActionHold                 // Swap with the hold slot
	ActionPause                // Pause/unpause game
	ActionRestart              // Restart game after game over
	ActionQuit                 // Exit game/session
)

// actionOrder is the order in which a game applies the actions of one frame.
// Hold and rotation resolve before translation so a frame carrying
// "rotate + move + drop" behaves like the same keys pressed in sequence.
var actionOrder = []Action{
	ActionPause,
	ActionRestart,
	ActionHold,
	ActionRotateCW,
	ActionRotateCCW,
	ActionMoveLeft,
	ActionMoveRight,
	ActionSoftDropStart,
	ActionSoftDropStop,
	ActionHardDrop,
	ActionQuit,
}

var actionNames = map[Action]string{
	ActionNone:          "none",
	ActionMoveLeft:      "move_left",
	ActionMoveRight:     "move_right",
	ActionRotateCW:      "rotate_cw",
	ActionRotateCCW:     "rotate_ccw",
	ActionSoftDropStart: "soft_drop_start",
	ActionSoftDropStop:  "soft_drop_stop",
	ActionHardDrop:      "hard_drop",
	ActionHold:          "hold",
	ActionPause:         "pause",
	ActionRestart:       "restart",
	ActionQuit:          "quit",
}

// String returns the snake_case name for the action.
// The same names are accepted by ParseAction.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAction converts an action name (as produced by String) back to an Action.
func ParseAction(name string) (Action, error) {
	for a, n := range actionNames {
		if n == name && a != ActionNone {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", name)
}

// InputFrame represents the input state for a single player during one simulation tick.
// It contains all actions that were triggered during this frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	// Using a map allows checking multiple actions without order dependency.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// FrameOf builds a frame with the given actions set.
func FrameOf(actions ...Action) InputFrame {
	f := NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Empty reports whether no action is set.
func (f InputFrame) Empty() bool {
	for _, v := range f.Actions {
		if v {
			return false
		}
	}
	return true
}

// Ordered returns the triggered actions in application order.
func (f InputFrame) Ordered() []Action {
	var out []Action
	for _, a := range actionOrder {
		if f.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
