package zoom

import (
	"math"
	"sync/atomic"
)

// Latch is the single-slot command mailbox shared between command
// producers and the tick context. Writes coalesce: only the latest value
// survives until the next Take.
type Latch struct {
	bits  atomic.Uint64
	dirty atomic.Bool
}

// Submit stores value and marks the latch dirty. Safe from any goroutine;
// never blocks, never fails.
func (l *Latch) Submit(value float64) {
	l.bits.Store(math.Float64bits(value))
	l.dirty.Store(true)
}

// Take clears the dirty flag and, when it was set, returns the stored
// value. The flag is cleared before the value is read: a submit racing
// with Take either lands in this read or re-dirties the latch for the
// next tick.
func (l *Latch) Take() (float64, bool) {
	if !l.dirty.Swap(false) {
		return 0, false
	}
	return math.Float64frombits(l.bits.Load()), true
}
