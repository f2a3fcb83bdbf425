package streak

import (
	"encoding/json"
	"testing"
	"time"
)

var today = NewDate(2026, time.October, 15)

func TestMarkLogged(t *testing.T) {
	tests := []struct {
		name       string
		tracker    Tracker
		wantStreak int
	}{
		{"FirstEver", Tracker{}, 1},
		{"Yesterday", Tracker{Streak: 3, LastActive: today.AddDays(-1)}, 4},
		{"SameDayReentry", Tracker{Streak: 3, LastActive: today}, 3},
		{"Restart", Tracker{Streak: 9, LastActive: today.AddDays(-5)}, 1},
		{"TwoDaysAgo", Tracker{Streak: 2, LastActive: today.AddDays(-2)}, 1},
		{"LastActiveTomorrow", Tracker{Streak: 3, LastActive: today.AddDays(1)}, 4},
		{"ClockWentBackTwoDays", Tracker{Streak: 2, LastActive: today.AddDays(2)}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := tt.tracker
			prev, ok := tr.MarkLogged(today)
			if !ok {
				t.Fatal("Expected the first log of the day to succeed")
			}
			if prev != tt.tracker.Streak {
				t.Errorf("Expected previous streak %d, got %d", tt.tracker.Streak, prev)
			}
			if tr.Streak != tt.wantStreak {
				t.Errorf("Expected streak %d, got %d", tt.wantStreak, tr.Streak)
			}
			if tr.LastActive != today || !tr.LoggedToday(today) {
				t.Errorf("Expected today to be recorded, got %+v", tr)
			}
		})
	}
}

func TestMarkLoggedOncePerDay(t *testing.T) {
	tr := Tracker{Streak: 1, LastActive: today.AddDays(-1)}

	tr.MarkLogged(today)
	if _, ok := tr.MarkLogged(today); ok {
		t.Error("Expected a repeat log on the same day to be rejected")
	}
	if tr.Streak != 2 {
		t.Errorf("Expected streak 2, got %d", tr.Streak)
	}

	if _, ok := tr.MarkLogged(today.AddDays(1)); !ok || tr.Streak != 3 {
		t.Errorf("Expected next day log to extend the streak, got %d", tr.Streak)
	}
}

func TestResetIfLapsed(t *testing.T) {
	tr := Tracker{Streak: 5, LastActive: today.AddDays(-1)}
	if tr.ResetIfLapsed(today) || tr.Streak != 5 {
		t.Errorf("Expected yesterday's streak to survive, got %d", tr.Streak)
	}

	tr = Tracker{Streak: 5, LastActive: today.AddDays(-2)}
	if !tr.ResetIfLapsed(today) || tr.Streak != 0 {
		t.Errorf("Expected lapsed streak to reset, got %d", tr.Streak)
	}
	if tr.LastActive != today.AddDays(-2) {
		t.Error("Reset must not touch the last active date")
	}

	tr = Tracker{}
	if tr.ResetIfLapsed(today) {
		t.Error("Expected no reset without a last active date")
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(today)
	if err != nil || string(b) != `"2026-10-15"` {
		t.Fatalf("Unexpected encoding %s (%v)", b, err)
	}

	var d Date
	if err := json.Unmarshal(b, &d); err != nil || d != today {
		t.Fatalf("Expected %v, got %v (%v)", today, d, err)
	}

	if err := json.Unmarshal([]byte("null"), &d); err != nil || !d.IsZero() {
		t.Errorf("Expected null to decode as zero date, got %v (%v)", d, err)
	}
	if err := json.Unmarshal([]byte(`"15/10/2026"`), &d); err == nil {
		t.Error("Expected an error for a malformed date")
	}
	if b, _ := json.Marshal(Date{}); string(b) != "null" {
		t.Errorf("Expected zero date to encode as null, got %s", b)
	}
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	// 02:00 UTC is still the previous evening in UTC-5
	d := DateOf(time.Date(2026, time.October, 16, 2, 0, 0, 0, time.UTC).In(loc))
	if d != today {
		t.Errorf("Expected %v, got %v", today, d)
	}
	if today.AddDays(31).DaysSince(today) != 31 {
		t.Error("Expected 31 days across a month boundary")
	}
}

func TestFixedClock(t *testing.T) {
	c := NewFixedClock(today)
	c.Advance(2)
	if c.Today() != NewDate(2026, time.October, 17) {
		t.Errorf("Unexpected date %v", c.Today())
	}
	c.Set(today)
	if c.Today() != today {
		t.Errorf("Unexpected date %v", c.Today())
	}
}
