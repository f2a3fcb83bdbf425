package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"

	"glucoguard/internal/app"
	"glucoguard/internal/config"
	"glucoguard/internal/engine"
	"glucoguard/internal/food"
	"glucoguard/internal/risk"
	"glucoguard/internal/store"
	"glucoguard/internal/streak"
	"glucoguard/internal/weekly"
	"glucoguard/internal/wellness"
)

const adminID = 7

func newTestBot(t *testing.T) *Bot {
	t.Helper()
	clock := streak.NewFixedClock(streak.NewDate(2026, time.October, 15))
	e := engine.New(store.New(store.NewMemoryBackend(), app.FieldPrefix, nil), nil, clock, nil)
	e.Start()
	a := app.NewApp(e, nil, nil, nil, nil)
	t.Cleanup(func() { a.Close() })
	return &Bot{
		app:    a,
		cfg:    &config.Config{AdminTelegramID: adminID, TelegramAllowedUserIDs: []int64{1, adminID}},
		logger: hclog.NewNullLogger(),
	}
}

func TestParseCommand(t *testing.T) {
	cmd, args := parseCommand("/Habits@GlucoGuardBot sugar=1  sleep=8")
	if cmd != "habits" || len(args) != 2 || args[1] != "sleep=8" {
		t.Errorf("Unexpected parse %q %v", cmd, args)
	}
	if cmd, _ := parseCommand("hello there"); cmd != "" {
		t.Errorf("Expected no command, got %q", cmd)
	}
}

func TestReplyFlow(t *testing.T) {
	b := newTestBot(t)

	if out := b.reply(1, "/profile age=15 height=160 weight=90 family=yes sugar=very-high"); !strings.Contains(out, "BMI: 35.2") {
		t.Errorf("Expected profile with BMI, got %q", out)
	}
	if out := b.reply(1, "/habits activity=20"); !strings.Contains(out, "Activity: 20 min") {
		t.Errorf("Expected updated habits, got %q", out)
	}
	if out := b.reply(1, "/habits water=2"); !strings.HasPrefix(out, "❌") {
		t.Errorf("Expected an error for an unknown habit, got %q", out)
	}

	status := b.reply(1, "/status")
	for _, want := range []string{"Today's score: 100", "high (65/100)", "High BMI", "Habits not logged yet"} {
		if !strings.Contains(status, want) {
			t.Errorf("Expected status to contain %q, got:\n%s", want, status)
		}
	}

	if out := b.reply(1, "/log"); !strings.Contains(out, "+60 points") || !strings.Contains(out, "Sugar Free Day") {
		t.Errorf("Unexpected log reply %q", out)
	}
	if out := b.reply(1, "/log"); !strings.Contains(out, "already logged") {
		t.Errorf("Expected repeat log to be refused, got %q", out)
	}

	if out := b.reply(1, "/done c3"); !strings.Contains(out, "Challenge complete") {
		t.Errorf("Expected c3 to complete, got %q", out)
	}
	if out := b.reply(1, "/done c3"); !strings.Contains(out, "Already completed") {
		t.Errorf("Expected c3 to be already completed, got %q", out)
	}
	if out := b.reply(1, "/done c6"); !strings.Contains(out, "Not there yet") {
		t.Errorf("Expected c6 to be ineligible, got %q", out)
	}

	if out := b.reply(1, "/challenges"); !strings.Contains(out, "✅ 🏃 `c3`") {
		t.Errorf("Expected c3 marked complete, got:\n%s", out)
	}
	if out := b.reply(1, "/badges"); !strings.Contains(out, "(1/8)") {
		t.Errorf("Expected one badge, got:\n%s", out)
	}
}

func TestFoodCommand(t *testing.T) {
	b := newTestBot(t)

	out := b.reply(1, "/food Chocolate milk 200 26 5")
	if !strings.Contains(out, "*Chocolate milk*") || !strings.Contains(out, "26g sugar · 5g fat") || !strings.Contains(out, "First Log") {
		t.Errorf("Unexpected food reply %q", out)
	}
	if log := b.app.Engine.FoodLog(); len(log) != 1 || log[0].SugarLevel != food.SugarHigh {
		t.Errorf("Expected one high-sugar entry, got %+v", log)
	}

	if out := b.reply(1, "/food 100 2"); !strings.HasPrefix(out, "Usage") {
		t.Errorf("Expected usage without a name, got %q", out)
	}
}

func TestMetricsAdminOnly(t *testing.T) {
	b := newTestBot(t)

	if out := b.reply(1, "/metrics"); !strings.Contains(out, "Access Denied") {
		t.Errorf("Expected access denied, got %q", out)
	}
	out := b.reply(adminID, "/metrics")
	if !strings.Contains(out, "Usage & Health Report") || !strings.Contains(out, "_No data yet_") {
		t.Errorf("Unexpected report %q", out)
	}
}

func TestAllowed(t *testing.T) {
	b := newTestBot(t)
	if !b.allowed(1) || b.allowed(2) {
		t.Error("Unexpected allow list result")
	}
}

func TestFormatStatusRemoteRisk(t *testing.T) {
	future := 48
	out := formatStatus(engine.State{
		DailyScore: 30,
		Avatar:     wellness.MoodLow,
		Risk:       risk.DiabetesRisk{Level: risk.LevelMedium, Score: 31, FutureScore: &future, Factors: []string{"Cut back on juice"}},
		Level:      2,
		Points:     120,
	})

	for _, want := range []string{"😟 *Today's score: 30*", "🟡", "Future risk: 48/100", "• Cut back on juice", "*Level 2* (120 points)"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in:\n%s", want, out)
		}
	}
}

func TestFormatWeek(t *testing.T) {
	if out := formatWeek(nil); !strings.Contains(out, "No days logged yet") {
		t.Errorf("Unexpected empty week %q", out)
	}

	out := formatWeek([]weekly.Day{
		{DayLabel: "Mon", Score: 40, Mood: wellness.MoodMid},
		{DayLabel: "Tue", Score: 90, Mood: wellness.MoodHigh},
	})
	if !strings.Contains(out, "`Tue ▓▓▓▓▓▓▓▓▓░  90`") || !strings.Contains(out, "Average: *65*") || !strings.Contains(out, "Best: *Tue*") {
		t.Errorf("Unexpected week:\n%s", out)
	}
}
