package bot

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"
)

// LuaEvaluator scores placements with a Lua function:
//
//	function evaluate(f)
//	  return -f.holes * 2 + f.lines - f.aggregate_height * 0.5
//	end
//
// Failed calls fall back to another evaluator. Single-goroutine access only.
type LuaEvaluator struct {
	vm       *lua.LState
	fn       lua.LValue
	fallback Evaluator
	logger   *log.Logger
	failures int
}

// NewLuaEvaluator loads a script file that defines evaluate.
func NewLuaEvaluator(path string, fallback Evaluator, logger *log.Logger) (*LuaEvaluator, error) {
	return newLuaEvaluator(func(vm *lua.LState) error { return vm.DoFile(path) }, path, fallback, logger)
}

// NewLuaEvaluatorString loads Lua source that defines evaluate.
func NewLuaEvaluatorString(src string, fallback Evaluator, logger *log.Logger) (*LuaEvaluator, error) {
	return newLuaEvaluator(func(vm *lua.LState) error { return vm.DoString(src) }, "<string>", fallback, logger)
}

func newLuaEvaluator(load func(*lua.LState) error, name string, fallback Evaluator, logger *log.Logger) (*LuaEvaluator, error) {
	if fallback == nil {
		fallback = DefaultHeuristic()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	if err := load(vm); err != nil {
		vm.Close()
		return nil, fmt.Errorf("bot: load %s: %w", name, err)
	}
	fn := vm.GetGlobal("evaluate")
	if fn.Type() != lua.LTFunction {
		vm.Close()
		return nil, errors.New("bot: " + name + " does not define function evaluate")
	}
	return &LuaEvaluator{vm: vm, fn: fn, fallback: fallback, logger: logger}, nil
}

// Evaluate implements Evaluator.
func (e *LuaEvaluator) Evaluate(f Features) float64 {
	t := e.vm.NewTable()
	t.RawSetString("aggregate_height", lua.LNumber(f.AggregateHeight))
	t.RawSetString("lines", lua.LNumber(f.CompleteLines))
	t.RawSetString("holes", lua.LNumber(f.Holes))
	t.RawSetString("bumpiness", lua.LNumber(f.Bumpiness))
	t.RawSetString("max_height", lua.LNumber(f.MaxHeight))

	if err := e.vm.CallByParam(lua.P{
		Fn:      e.fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.fail("lua evaluate error", "error", err)
		return e.fallback.Evaluate(f)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	n, ok := result.(lua.LNumber)
	if !ok {
		e.fail("lua evaluate returned non-number", "type", result.Type().String())
		return e.fallback.Evaluate(f)
	}
	return float64(n)
}

// fail logs the first few failures; a broken script would otherwise flood
// the log once per candidate.
func (e *LuaEvaluator) fail(msg string, keyvals ...any) {
	e.failures++
	if e.failures <= 3 {
		e.logger.Warn(msg, keyvals...)
	}
}

// Failures returns how many calls fell back.
func (e *LuaEvaluator) Failures() int {
	return e.failures
}

// Close releases the Lua VM.
func (e *LuaEvaluator) Close() {
	e.vm.Close()
}
