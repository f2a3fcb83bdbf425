package wellness

import (
	"math"
	"testing"

	"glucoguard/internal/habits"
)

func TestDailyScore(t *testing.T) {
	tests := []struct {
		name   string
		habits habits.DailyHabits
		want   int
	}{
		{"Defaults", habits.DefaultHabits(), 94}, // 50+15+10+0+10+9
		{"ClampHigh", habits.DailyHabits{SugarItems: 0, SugaryDrinks: 0, ActivityMinutes: 120, SleepHours: 8, EnergyMood: 5}, 100}, // 115 -> 100
		{"NoBonuses", habits.DailyHabits{SugarItems: 10, SugaryDrinks: 5, ActivityMinutes: 0, SleepHours: 4, EnergyMood: 0}, 50},   // 50+0+0+0+0+0
		{"ShortSleep", habits.DailyHabits{SugarItems: 1, SugaryDrinks: 1, ActivityMinutes: 10, SleepHours: 6, EnergyMood: 2}, 50 + 12 + 6 + 5 + 5 + 6},
		{"OverSleep", habits.DailyHabits{SugarItems: 5, SugaryDrinks: 3, ActivityMinutes: 0, SleepHours: 10, EnergyMood: 0}, 55},         // above 9h only earns the 6h+ bonus
		{"HalfRoundsUp", habits.DailyHabits{SugarItems: 5, SugaryDrinks: 3, ActivityMinutes: 1, SleepHours: 0, EnergyMood: 0}, 51},       // 50.5 -> 51
		{"NegativeInputs", habits.DailyHabits{SugarItems: 0, SugaryDrinks: 0, ActivityMinutes: -400, SleepHours: 0, EnergyMood: -20}, 0}, // clamp low
		{"HugeSugar", habits.DailyHabits{SugarItems: 1000, SugaryDrinks: 1000, ActivityMinutes: 0, SleepHours: 7, EnergyMood: 0}, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DailyScore(tt.habits); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestDailyScoreBounds(t *testing.T) {
	for sugar := -5; sugar <= 20; sugar += 5 {
		for activity := -100; activity <= 300; activity += 50 {
			for mood := -10; mood <= 10; mood += 5 {
				h := habits.DailyHabits{SugarItems: sugar, SugaryDrinks: sugar, ActivityMinutes: activity, SleepHours: 7, EnergyMood: mood}
				if s := DailyScore(h); s < 0 || s > 100 {
					t.Fatalf("Score %d out of range for %+v", s, h)
				}
			}
		}
	}
}

func TestDailyScoreExtremeInputs(t *testing.T) {
	tests := []struct {
		name   string
		habits habits.DailyHabits
		want   int
	}{
		{"HugeMood", habits.DailyHabits{SleepHours: 8, EnergyMood: math.MaxInt64 / 2}, 100},
		{"HugeNegativeSugar", habits.DailyHabits{SugarItems: math.MinInt64 / 2, SleepHours: 8}, 100},
		{"HugeNegativeMood", habits.DailyHabits{SleepHours: 8, EnergyMood: math.MinInt64 / 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DailyScore(tt.habits); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestMoodFor(t *testing.T) {
	cases := map[int]Mood{100: MoodHigh, 70: MoodHigh, 69: MoodMid, 40: MoodMid, 39: MoodLow, 0: MoodLow}
	for score, want := range cases {
		if got := MoodFor(score); got != want {
			t.Errorf("MoodFor(%d): expected %s, got %s", score, want, got)
		}
	}
}
