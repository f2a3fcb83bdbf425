// Package streak tracks consecutive logging days and whether today has
// already been logged.
package streak

// Tracker holds the streak state machine. LastActive and LoggedDate are
// zero until the first log.
type Tracker struct {
	Streak     int
	LastActive Date
	LoggedDate Date
}

// LoggedToday reports whether today has been logged.
func (t *Tracker) LoggedToday(today Date) bool {
	return !t.LoggedDate.IsZero() && t.LoggedDate == today
}

// MarkLogged records today's log. It returns the streak as it was before
// the transition and false when today was already logged, in which case
// nothing changes.
func (t *Tracker) MarkLogged(today Date) (previous int, ok bool) {
	if t.LoggedToday(today) {
		return t.Streak, false
	}
	previous = t.Streak

	switch {
	case t.LastActive.IsZero():
		t.Streak++
	default:
		// A last active date one day ahead counts as consecutive too.
		switch today.DaysSince(t.LastActive) {
		case 1, -1:
			t.Streak++
		case 0:
		default:
			t.Streak = 1
		}
	}

	t.LastActive = today
	t.LoggedDate = today
	return previous, true
}

// ResetIfLapsed zeroes the streak when more than one day has passed since
// the last log. It reports whether a reset happened.
func (t *Tracker) ResetIfLapsed(today Date) bool {
	if t.LastActive.IsZero() || today.DaysSince(t.LastActive) <= 1 || t.Streak == 0 {
		return false
	}
	t.Streak = 0
	return true
}
