package ledger

import (
	"errors"
	"fmt"

	"glucoguard/internal/habits"
)

var (
	// ErrUnknownChallenge is returned for an id missing from the catalog.
	ErrUnknownChallenge = errors.New("unknown challenge")
	// ErrNotEligible is returned when a challenge's condition does not
	// hold for the current habits.
	ErrNotEligible = errors.New("challenge condition not met")
)

// Badge ids awarded by rules.
const (
	BadgeFirstLog  = "first-log"
	BadgeStreak3   = "streak-3"
	BadgeStreak7   = "streak-7"
	BadgeSugarFree = "sugar-free"
	BadgeScanPro   = "scan-pro"
)

// ScanProEntries is the food log size that earns BadgeScanPro.
const ScanProEntries = 10

// Challenge is a catalog entry. Points is the value shown to the user;
// completion always awards PointsPerChallenge.
type Challenge struct {
	ID       string                          `json:"id"`
	Title    string                          `json:"title"`
	Emoji    string                          `json:"emoji"`
	Points   int                             `json:"points"`
	Category string                          `json:"category"`
	Check    func(h habits.DailyHabits) bool `json:"-"`
}

// Badge is a catalog entry.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

var challenges = []Challenge{
	{ID: "c1", Title: "Max 3 junk foods this week", Emoji: "🍔", Points: 30, Category: "food",
		Check: func(h habits.DailyHabits) bool { return h.SugarItems <= 3 }},
	{ID: "c2", Title: "Drink water instead of soda – 5 days", Emoji: "💧", Points: 25, Category: "sugar",
		Check: func(h habits.DailyHabits) bool { return h.SugaryDrinks == 0 }},
	{ID: "c3", Title: "10 mins movement daily", Emoji: "🏃", Points: 20, Category: "exercise",
		Check: func(h habits.DailyHabits) bool { return h.ActivityMinutes >= 10 }},
	{ID: "c4", Title: "Zero sugary drinks today", Emoji: "🥤", Points: 15, Category: "sugar",
		Check: func(h habits.DailyHabits) bool { return h.SugaryDrinks == 0 }},
	// Fruit intake is not tracked
	{ID: "c5", Title: "Eat 2 fruits today", Emoji: "🍎", Points: 15, Category: "food",
		Check: func(habits.DailyHabits) bool { return false }},
	{ID: "c6", Title: "Sleep 8+ hours tonight", Emoji: "🛌", Points: 20, Category: "wellness",
		Check: func(h habits.DailyHabits) bool { return h.SleepHours >= 8 }},
	{ID: "c7", Title: "No candy for 3 days", Emoji: "🍬", Points: 35, Category: "sugar",
		Check: func(h habits.DailyHabits) bool { return h.SugarItems == 0 }},
	{ID: "c8", Title: "Walk 5000 steps today", Emoji: "👟", Points: 25, Category: "exercise",
		Check: func(h habits.DailyHabits) bool { return h.ActivityMinutes >= 30 }},
	{ID: "c9", Title: "Max 2 sugar items today", Emoji: "🍭", Points: 20, Category: "sugar",
		Check: func(h habits.DailyHabits) bool { return h.SugarItems <= 2 }},
	{ID: "c10", Title: "Get 7+ hours of sleep", Emoji: "😴", Points: 15, Category: "wellness",
		Check: func(h habits.DailyHabits) bool { return h.SleepHours >= 7 }},
}

var badges = []Badge{
	{ID: BadgeFirstLog, Name: "First Log", Emoji: "📝", Description: "Logged your first habit"},
	{ID: BadgeStreak3, Name: "3-Day Streak", Emoji: "🔥", Description: "3 days in a row!"},
	{ID: BadgeStreak7, Name: "Week Warrior", Emoji: "⚡", Description: "7-day streak"},
	{ID: BadgeSugarFree, Name: "Sugar Free Day", Emoji: "🏆", Description: "Zero sugar items in a day"},
	{ID: "hydro-hero", Name: "Hydro Hero", Emoji: "💧", Description: "Only water for 3 days"},
	{ID: "move-master", Name: "Move Master", Emoji: "🏅", Description: "30 mins activity 5 days"},
	{ID: BadgeScanPro, Name: "Scan Pro", Emoji: "📸", Description: "Scanned 10 foods"},
	{ID: "level-5", Name: "Level 5", Emoji: "⭐", Description: "Reached level 5"},
}

// Challenges returns the challenge catalog in display order.
func Challenges() []Challenge {
	return append([]Challenge{}, challenges...)
}

// Badges returns the badge catalog in display order.
func Badges() []Badge {
	return append([]Badge{}, badges...)
}

// LookupChallenge finds a challenge by id.
func LookupChallenge(id string) (Challenge, bool) {
	for _, c := range challenges {
		if c.ID == id {
			return c, true
		}
	}
	return Challenge{}, false
}

// LookupBadge finds a badge by id.
func LookupBadge(id string) (Badge, bool) {
	for _, b := range badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

// Eligible checks challenge id against h.
func Eligible(id string, h habits.DailyHabits) error {
	c, ok := LookupChallenge(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChallenge, id)
	}
	if !c.Check(h) {
		return fmt.Errorf("%w: %s", ErrNotEligible, id)
	}
	return nil
}
