// Package script loads YAML input scripts: timed action lists used for
// deterministic replays and scenario tests.
package script

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	platformcore "github.com/vovakirdan/tetris-arcade/internal/core"
)

// Step lists the actions pressed on one tick. Ticks count from 0.
type Step struct {
	Tick    uint64   `yaml:"tick"`
	Actions []string `yaml:"actions"`
}

// Script is a parsed input script.
type Script struct {
	Name     string `yaml:"name"`
	Game     string `yaml:"game"`
	Seed     int64  `yaml:"seed"`
	TickRate int    `yaml:"tick_rate"`
	// MaxTicks bounds the run; 0 means stop after the last scripted tick.
	MaxTicks uint64 `yaml:"max_ticks"`
	Steps    []Step `yaml:"steps"`

	frames map[uint64]platformcore.InputFrame
	last   uint64
}

// Parse decodes and validates a script.
// Steps sharing a tick are merged; unknown action names are errors.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("script: parse: %w", err)
	}
	if s.Game == "" {
		s.Game = "tetris"
	}
	if s.TickRate == 0 {
		s.TickRate = platformcore.DefaultConfig().TickRate
	}
	if s.TickRate < 0 {
		return nil, fmt.Errorf("script: tick_rate must be positive, got %d", s.TickRate)
	}
	if len(s.Steps) == 0 {
		return nil, errors.New("script: no steps")
	}

	s.frames = make(map[uint64]platformcore.InputFrame, len(s.Steps))
	for i, step := range s.Steps {
		frame, ok := s.frames[step.Tick]
		if !ok {
			frame = platformcore.NewInputFrame()
		}
		for _, name := range step.Actions {
			action, err := platformcore.ParseAction(name)
			if err != nil {
				return nil, fmt.Errorf("script: step %d (tick %d): %w", i, step.Tick, err)
			}
			frame.Set(action)
		}
		s.frames[step.Tick] = frame
		if step.Tick > s.last {
			s.last = step.Tick
		}
	}
	sort.SliceStable(s.Steps, func(i, j int) bool { return s.Steps[i].Tick < s.Steps[j].Tick })
	return &s, nil
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// RuntimeConfig returns the seed and tick rate the script was written for.
func (s *Script) RuntimeConfig() platformcore.RuntimeConfig {
	return platformcore.RuntimeConfig{TickRate: s.TickRate, Seed: s.Seed}
}

// LastTick returns the highest scripted tick.
func (s *Script) LastTick() uint64 {
	return s.last
}

// TickLimit returns how many ticks a run of this script should take.
func (s *Script) TickLimit() uint64 {
	if s.MaxTicks > 0 {
		return s.MaxTicks
	}
	return s.last + 1
}

// Source returns an input source replaying the script.
func (s *Script) Source() *Source {
	return &Source{script: s}
}

// Source replays a script tick by tick.
type Source struct {
	script *Script
}

// Next returns the actions scripted for tick, or an empty frame.
func (src *Source) Next(tick uint64) platformcore.InputFrame {
	frame, ok := src.script.frames[tick]
	if !ok {
		return platformcore.NewInputFrame()
	}
	return frame.Clone()
}
