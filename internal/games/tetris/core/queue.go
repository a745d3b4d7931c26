package core

// Randomizer supplies uniform integers in [0, n).
// *math/rand.Rand satisfies it.
type Randomizer interface {
	Intn(n int) int
}

// Queue holds the single upcoming piece.
type Queue struct {
	rng  Randomizer
	next Kind
}

// NewQueue creates a queue pre-filled with one random kind.
func NewQueue(rng Randomizer) *Queue {
	q := &Queue{rng: rng}
	q.next = q.random()
	return q
}

// Peek returns the upcoming kind without consuming it.
func (q *Queue) Peek() Kind {
	return q.next
}

// Take returns the upcoming kind and refills the queue.
func (q *Queue) Take() Kind {
	k := q.next
	q.next = q.random()
	return k
}

func (q *Queue) random() Kind {
	return KindI + Kind(q.rng.Intn(KindCount))
}

// HoldSlot stores at most one kind set aside by the player.
type HoldSlot struct {
	Kind      Kind
	Available bool
}
