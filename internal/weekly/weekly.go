// Package weekly keeps the rolling window of logged days.
package weekly

import (
	"glucoguard/internal/streak"
	"glucoguard/internal/wellness"
)

// Window is the number of days retained.
const Window = 7

// Day is one logged day.
type Day struct {
	DayLabel string        `json:"day"`
	Score    int           `json:"score"`
	Mood     wellness.Mood `json:"mood"`
	Logged   bool          `json:"logged"`
}

// NewDay builds the entry for a day logged with the given score.
func NewDay(date streak.Date, score int) Day {
	return Day{
		DayLabel: date.Weekday().String()[:3],
		Score:    score,
		Mood:     wellness.MoodFor(score),
		Logged:   true,
	}
}

// Rollup is a FIFO window of at most Window days, oldest first.
type Rollup struct {
	days []Day
}

// NewRollup restores a rollup. Extra leading entries are dropped.
func NewRollup(days []Day) *Rollup {
	r := &Rollup{}
	for _, d := range days {
		r.Append(d)
	}
	return r
}

// Append adds d and evicts the oldest entry beyond the window.
func (r *Rollup) Append(d Day) {
	r.days = append(r.days, d)
	if n := len(r.days); n > Window {
		r.days = append([]Day(nil), r.days[n-Window:]...)
	}
}

// Days returns a copy of the window, oldest first.
func (r *Rollup) Days() []Day {
	return append([]Day{}, r.days...)
}

// Average returns the mean score of the window, or 0 when empty.
func (r *Rollup) Average() int {
	if len(r.days) == 0 {
		return 0
	}
	total := 0
	for _, d := range r.days {
		total += d.Score
	}
	return (total + len(r.days)/2) / len(r.days)
}

// Best returns the highest scoring day.
func (r *Rollup) Best() (Day, bool) {
	if len(r.days) == 0 {
		return Day{}, false
	}
	best := r.days[0]
	for _, d := range r.days[1:] {
		if d.Score > best.Score {
			best = d
		}
	}
	return best, true
}
