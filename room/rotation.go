package room

// NextDrawer moves the drawer index one step through a roster of count
// players and reports whether it wrapped back to the start.
func NextDrawer(index, count int) (next int, wrapped bool) {
	if count <= 0 {
		return 0, true
	}
	next = index + 1
	if next >= count {
		return 0, true
	}
	return next, false
}

// rotation tracks whose turn it is as players come and go.
type rotation struct {
	index int
	// vacated is set when the drawer left mid-turn. The player who slid into
	// the slot has not drawn yet, so the next advance must not step past them.
	vacated bool
	// wrapPending is set when the vacated slot was the last one.
	wrapPending bool
}

func (r *rotation) reset() {
	*r = rotation{}
}

// remove adjusts the rotation after the player at idx left a roster that now
// has remaining players. current is true when that player held the turn.
func (r *rotation) remove(idx, remaining int, current bool) {
	switch {
	case idx < r.index:
		r.index--
	case idx == r.index && current:
		r.vacated = true
		if r.index >= remaining {
			r.index = 0
			r.wrapPending = true
		}
	}
	if r.index >= remaining {
		r.index = 0
	}
}

// advance hands the turn to the next player and reports whether the round
// counter should move.
func (r *rotation) advance(count int) (wrapped bool) {
	if r.vacated {
		wrapped = r.wrapPending
		r.vacated, r.wrapPending = false, false
		if r.index >= count {
			r.index, wrapped = 0, true
		}
		return wrapped
	}
	r.index, wrapped = NextDrawer(r.index, count)
	return wrapped
}
