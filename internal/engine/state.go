package engine

import (
	"glucoguard/internal/food"
	"glucoguard/internal/habits"
	"glucoguard/internal/risk"
	"glucoguard/internal/streak"
	"glucoguard/internal/weekly"
	"glucoguard/internal/wellness"
)

// State is a point-in-time copy of everything the engine owns.
type State struct {
	Profile             habits.Profile     `json:"profile"`
	Habits              habits.DailyHabits `json:"habits"`
	DailyScore          int                `json:"dailyScore"`
	Avatar              wellness.Mood      `json:"avatar"`
	Risk                risk.DiabetesRisk  `json:"diabetesRisk"`
	Points              int                `json:"points"`
	Level               int                `json:"level"`
	Streak              int                `json:"streak"`
	LastActive          streak.Date        `json:"lastActiveDate"`
	HabitsLoggedToday   bool               `json:"habitsLoggedToday"`
	CompletedChallenges []string           `json:"completedChallenges"`
	Badges              []string           `json:"badges"`
	FoodLog             []food.FoodEntry   `json:"foodLog"`
	Weekly              []weekly.Day       `json:"weeklyData"`
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return State{
		Profile:             e.profile,
		Habits:              e.habits,
		DailyScore:          e.dailyScore,
		Avatar:              e.avatar,
		Risk:                e.risk.Current(),
		Points:              e.ledger.Points,
		Level:               e.ledger.Level(),
		Streak:              e.tracker.Streak,
		LastActive:          e.tracker.LastActive,
		HabitsLoggedToday:   e.tracker.LoggedToday(e.clock.Today()),
		CompletedChallenges: append([]string{}, e.ledger.Challenges...),
		Badges:              append([]string{}, e.ledger.Badges...),
		FoodLog:             append([]food.FoodEntry{}, e.foodLog...),
		Weekly:              e.weekly.Days(),
	}
}

func (e *Engine) Profile() habits.Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profile
}

func (e *Engine) Habits() habits.DailyHabits {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.habits
}

func (e *Engine) DailyScore() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dailyScore
}

// Risk returns the retained risk estimate.
func (e *Engine) Risk() risk.DiabetesRisk {
	return e.risk.Current()
}

func (e *Engine) Points() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Points
}

// Level is derived from points.
func (e *Engine) Level() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Level()
}

func (e *Engine) Streak() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Streak
}

func (e *Engine) HabitsLoggedToday() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.LoggedToday(e.clock.Today())
}

func (e *Engine) FoodLog() []food.FoodEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]food.FoodEntry{}, e.foodLog...)
}

func (e *Engine) Weekly() []weekly.Day {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.weekly.Days()
}

// Today is the engine clock's date.
func (e *Engine) Today() streak.Date {
	return e.clock.Today()
}
