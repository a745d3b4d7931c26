package bot

// Evaluator scores a candidate placement; higher is better.
type Evaluator interface {
	Evaluate(f Features) float64
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(f Features) float64

// Evaluate calls fn.
func (fn EvaluatorFunc) Evaluate(f Features) float64 {
	return fn(f)
}

// Heuristic is a weighted linear evaluator.
type Heuristic struct {
	Height    float64
	Lines     float64
	Holes     float64
	Bumpiness float64
	MaxHeight float64
}

// DefaultHeuristic returns weights tuned for single-piece lookahead.
func DefaultHeuristic() Heuristic {
	return Heuristic{
		Height:    -0.510066,
		Lines:     0.760666,
		Holes:     -0.35663,
		Bumpiness: -0.184483,
	}
}

// Evaluate implements Evaluator.
func (h Heuristic) Evaluate(f Features) float64 {
	return h.Height*float64(f.AggregateHeight) +
		h.Lines*float64(f.CompleteLines) +
		h.Holes*float64(f.Holes) +
		h.Bumpiness*float64(f.Bumpiness) +
		h.MaxHeight*float64(f.MaxHeight)
}
