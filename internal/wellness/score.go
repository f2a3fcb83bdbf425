// Package wellness turns today's habits into the 0-100 daily score and the
// avatar mood derived from it.
package wellness

import (
	"math"

	"glucoguard/internal/habits"
)

// Baseline is the score of a day with no positive or negative signal.
const Baseline = 50

// Mood is the avatar state shown for a score.
type Mood string

const (
	MoodHigh Mood = "high"
	MoodMid  Mood = "mid"
	MoodLow  Mood = "low"
)

// DailyScore computes the wellness score for h. Out-of-range inputs are
// accepted; the result is always within [0, 100].
func DailyScore(h habits.DailyHabits) int {
	score := float64(Baseline)
	score += math.Max(0, 15-float64(h.SugarItems)*3)
	score += math.Max(0, 10-float64(h.SugaryDrinks)*4)
	score += math.Min(15, float64(h.ActivityMinutes)/2)

	switch {
	case h.SleepHours >= 7 && h.SleepHours <= 9:
		score += 10
	case h.SleepHours >= 6:
		score += 5
	}

	score += float64(h.EnergyMood) * 3

	// Halves round up, matching how scores were always displayed.
	return int(math.Max(0, math.Min(100, math.Floor(score+0.5))))
}

// MoodFor maps a daily score to the avatar mood.
func MoodFor(score int) Mood {
	switch {
	case score >= 70:
		return MoodHigh
	case score >= 40:
		return MoodMid
	default:
		return MoodLow
	}
}
