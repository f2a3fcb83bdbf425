// Package engine owns one user's state: profile, habits, scores, streak,
// ledger, food log and weekly history. Every mutation is persisted field by
// field through the store and never fails because of storage or remote
// faults.
package engine

import (
	"errors"
	"sync"

	"github.com/hashicorp/go-hclog"

	"glucoguard/internal/food"
	"glucoguard/internal/habits"
	"glucoguard/internal/ledger"
	"glucoguard/internal/risk"
	"glucoguard/internal/store"
	"glucoguard/internal/streak"
	"glucoguard/internal/weekly"
	"glucoguard/internal/wellness"
)

// Persisted field keys.
const (
	keyProfile    = "profile"
	keyPoints     = "points"
	keyStreak     = "streak"
	keyLastActive = "lastActive"
	keyChallenges = "challenges"
	keyBadges     = "badges"
	keyDailyScore = "dailyScore"
	keyAvatar     = "avatar"
	keyHabits     = "habits"
	keyFoodLog    = "foodLog"
	keyWeekly     = "weeklyData"
	keyLoggedDate = "habitsLoggedDate"
)

var fieldKeys = []string{
	keyProfile, keyPoints, keyStreak, keyLastActive, keyChallenges, keyBadges,
	keyDailyScore, keyAvatar, keyHabits, keyFoodLog, keyWeekly, keyLoggedDate,
}

// Engine is the state owner. Create one per user session with New, call
// Start once, and Close when done.
type Engine struct {
	store  *store.Store
	risk   *risk.Overlay
	clock  streak.Clock
	logger hclog.Logger

	mu         sync.Mutex
	profile    habits.Profile
	habits     habits.DailyHabits
	dailyScore int
	avatar     wellness.Mood
	tracker    streak.Tracker
	ledger     ledger.Ledger
	foodLog    []food.FoodEntry
	weekly     *weekly.Rollup
}

// New restores state from st. Missing or corrupt fields take their
// defaults. A nil overlay means local risk only; a nil clock reads the
// system's local date.
func New(st *store.Store, overlay *risk.Overlay, clock streak.Clock, logger hclog.Logger) *Engine {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if overlay == nil {
		overlay = risk.NewOverlay(nil, nil, logger.Named("risk"))
	}
	if clock == nil {
		clock = streak.SystemClock{}
	}

	e := &Engine{
		store:  st,
		risk:   overlay,
		clock:  clock,
		logger: logger,
	}

	e.load()
	return e
}

func (e *Engine) load() {
	st := e.store
	e.profile = store.Load(st, keyProfile, habits.Profile{})
	e.habits = store.Load(st, keyHabits, habits.DefaultHabits())
	e.dailyScore = store.Load(st, keyDailyScore, wellness.Baseline)
	e.avatar = wellness.MoodFor(e.dailyScore)
	e.tracker = streak.Tracker{
		Streak:     max(0, store.Load(st, keyStreak, 0)),
		LastActive: store.Load(st, keyLastActive, streak.Date{}),
		LoggedDate: store.Load(st, keyLoggedDate, streak.Date{}),
	}
	e.ledger = ledger.Ledger{
		Points:     store.Load(st, keyPoints, 0),
		Challenges: store.Load(st, keyChallenges, []string{}),
		Badges:     store.Load(st, keyBadges, []string{}),
	}
	e.ledger.Normalize()
	e.foodLog = store.Load(st, keyFoodLog, []food.FoodEntry{})
	e.weekly = weekly.NewRollup(store.Load(st, keyWeekly, []weekly.Day{}))
}

// Start applies the passive streak lapse and issues the first risk
// refresh.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := e.clock.Today()
	if e.tracker.ResetIfLapsed(today) {
		e.logger.Info("streak lapsed", "last_active", e.tracker.LastActive.String(), "today", today.String())
		e.store.Save(keyStreak, e.tracker.Streak)
	}
	e.risk.Refresh(e.profile, e.habits)
}

// Close waits for in-flight risk calls.
func (e *Engine) Close() {
	e.risk.Close()
}

// WaitRisk blocks until every issued risk refresh has completed.
func (e *Engine) WaitRisk() {
	e.risk.Wait()
}

// Reset deletes every persisted field and returns the engine to a fresh
// install. The risk estimate goes back to its initial value and answers
// still in flight are ignored.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error
	for _, key := range fieldKeys {
		if err := e.store.Delete(key); err != nil {
			errs = append(errs, err)
		}
	}
	e.load()
	e.risk.Reset()
	e.logger.Info("state reset", "failed_fields", len(errs))
	return errors.Join(errs...)
}

// SetProfile merges p into the profile.
func (e *Engine) SetProfile(p habits.ProfilePatch) habits.Profile {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.profile = p.Apply(e.profile)
	e.store.Save(keyProfile, e.profile)
	e.risk.Refresh(e.profile, e.habits)
	return e.profile
}

// SetHabits merges p into today's habits and recomputes the daily score
// and avatar mood. Risk is refreshed in the background.
func (e *Engine) SetHabits(p habits.HabitsPatch) habits.DailyHabits {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.habits = p.Apply(e.habits)
	e.store.Save(keyHabits, e.habits)

	e.dailyScore = wellness.DailyScore(e.habits)
	e.avatar = wellness.MoodFor(e.dailyScore)
	e.store.Save(keyDailyScore, e.dailyScore)
	e.store.Save(keyAvatar, e.avatar)

	e.risk.Refresh(e.profile, e.habits)
	return e.habits
}

// LogResult describes what a daily log awarded.
type LogResult struct {
	Streak    int        `json:"streak"`
	Points    int        `json:"pointsAwarded"`
	NewBadges []string   `json:"newBadges"`
	Day       weekly.Day `json:"day"`
}

// MarkHabitsLogged records today's log once per day. It returns false when
// today was already logged.
func (e *Engine) MarkHabitsLogged() (LogResult, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := e.clock.Today()
	previous, ok := e.tracker.MarkLogged(today)
	if !ok {
		return LogResult{Streak: e.tracker.Streak, NewBadges: []string{}}, false
	}

	before := e.ledger.Points
	e.ledger.AddPoints(ledger.PointsPerLog)

	// Thresholds compare the streak as it was before this log.
	var earned []string
	if previous >= 2 && e.ledger.EarnBadge(ledger.BadgeStreak3) {
		earned = append(earned, ledger.BadgeStreak3)
	}
	if previous >= 6 && e.ledger.EarnBadge(ledger.BadgeStreak7) {
		earned = append(earned, ledger.BadgeStreak7)
	}
	if e.habits.SugarFree() && e.ledger.EarnBadge(ledger.BadgeSugarFree) {
		earned = append(earned, ledger.BadgeSugarFree)
	}

	day := weekly.NewDay(today, wellness.DailyScore(e.habits))
	e.weekly.Append(day)

	e.store.Save(keyStreak, e.tracker.Streak)
	e.store.Save(keyLastActive, e.tracker.LastActive)
	e.store.Save(keyLoggedDate, e.tracker.LoggedDate)
	e.saveLedger()
	e.store.Save(keyWeekly, e.weekly.Days())

	e.logger.Debug("habits logged", "streak", e.tracker.Streak, "badges", earned)
	return LogResult{
		Streak:    e.tracker.Streak,
		Points:    e.ledger.Points - before,
		NewBadges: nonNil(earned),
		Day:       day,
	}, true
}

// CompleteChallenge marks id completed without checking its condition.
func (e *Engine) CompleteChallenge(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.ledger.CompleteChallenge(id) {
		return false
	}
	e.saveLedger()
	return true
}

// TryCompleteChallenge completes a catalog challenge whose condition holds
// for today's habits. It returns false with a nil error when the challenge
// was already completed.
func (e *Engine) TryCompleteChallenge(id string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ledger.HasChallenge(id) {
		return false, nil
	}
	if err := ledger.Eligible(id, e.habits); err != nil {
		return false, err
	}
	e.ledger.CompleteChallenge(id)
	e.saveLedger()
	return true, nil
}

// EarnBadge awards badge id once.
func (e *Engine) EarnBadge(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.ledger.EarnBadge(id) {
		return false
	}
	e.saveLedger()
	return true
}

// AddPoints adds n points; non-positive n is ignored.
func (e *Engine) AddPoints(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if n <= 0 {
		return
	}
	e.ledger.AddPoints(n)
	e.store.Save(keyPoints, e.ledger.Points)
}

// AddFoodEntry prepends entry to the food log and returns the badges it
// earned.
func (e *Engine) AddFoodEntry(entry food.FoodEntry) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.foodLog = append([]food.FoodEntry{entry}, e.foodLog...)
	e.ledger.AddPoints(ledger.PointsPerFoodEntry)

	var earned []string
	if e.ledger.EarnBadge(ledger.BadgeFirstLog) {
		earned = append(earned, ledger.BadgeFirstLog)
	}
	if len(e.foodLog) >= ledger.ScanProEntries && e.ledger.EarnBadge(ledger.BadgeScanPro) {
		earned = append(earned, ledger.BadgeScanPro)
	}

	e.store.Save(keyFoodLog, e.foodLog)
	e.saveLedger()
	return nonNil(earned)
}

func (e *Engine) saveLedger() {
	e.store.Save(keyPoints, e.ledger.Points)
	e.store.Save(keyChallenges, e.ledger.Challenges)
	e.store.Save(keyBadges, e.ledger.Badges)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
