// Package ledger keeps points, completed challenges and earned badges.
// Awarding is idempotent and points never decrease.
package ledger

import "slices"

const (
	PointsPerChallenge = 25
	PointsPerBadge     = 50
	PointsPerLog       = 10
	PointsPerFoodEntry = 5
)

// Ledger is the gamification state. Challenges and Badges are sets kept in
// award order.
type Ledger struct {
	Points     int
	Challenges []string
	Badges     []string
}

// Level is derived from points and never stored.
func (l *Ledger) Level() int {
	return l.Points/100 + 1
}

// AddPoints adds n points. Non-positive n is ignored.
func (l *Ledger) AddPoints(n int) {
	if n > 0 {
		l.Points += n
	}
}

// CompleteChallenge marks id completed and awards its points. It reports
// false, changing nothing, when id was already completed. Eligibility is
// the caller's concern.
func (l *Ledger) CompleteChallenge(id string) bool {
	if l.HasChallenge(id) {
		return false
	}
	l.Challenges = append(l.Challenges, id)
	l.AddPoints(PointsPerChallenge)
	return true
}

// EarnBadge awards badge id once.
func (l *Ledger) EarnBadge(id string) bool {
	if l.HasBadge(id) {
		return false
	}
	l.Badges = append(l.Badges, id)
	l.AddPoints(PointsPerBadge)
	return true
}

func (l *Ledger) HasChallenge(id string) bool {
	return slices.Contains(l.Challenges, id)
}

func (l *Ledger) HasBadge(id string) bool {
	return slices.Contains(l.Badges, id)
}

// Normalize repairs restored state: negative points become zero and
// duplicate ids are dropped.
func (l *Ledger) Normalize() {
	l.Points = max(0, l.Points)
	l.Challenges = dedupe(l.Challenges)
	l.Badges = dedupe(l.Badges)
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
