package room

import "time"

// roundTimer is the single pending callback a room owns. Every schedule or
// cancel bumps the generation, so a callback that was already dispatched
// when it got cancelled finds a stale generation and does nothing.
type roundTimer struct {
	sched Scheduler
	id    int64
	gen   uint64
}

func (t *roundTimer) schedule(delay, interval time.Duration, fire func(gen uint64)) {
	t.cancel()
	gen := t.gen
	t.id = t.sched.AddTimer(delay, interval, func() { fire(gen) })
}

// cancel is idempotent.
func (t *roundTimer) cancel() {
	if t.id != 0 {
		t.sched.RemoveTimer(t.id)
		t.id = 0
	}
	t.gen++
}

func (t *roundTimer) live(gen uint64) bool {
	return t.id != 0 && t.gen == gen
}

func (t *roundTimer) active() bool {
	return t.id != 0
}
