package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"glucoguard/internal/engine"
)

// resetFlags puts every flag back to its default so runs don't leak into
// each other through the package level command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range []string{"RISK_API_URL", "GEMINI_API_KEY", "GROQ_API_KEY", "FOOD_API_URL", "REDIS_ADDR"} {
		t.Setenv(key, "")
	}
	t.Setenv("GLUCOGUARD_STORE", "sqlite")
	t.Setenv("GLUCOGUARD_LOG_LEVEL", "error")
	return filepath.Join(t.TempDir(), "glucoguard.db")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := run(t, "--help")
	if err != nil {
		t.Fatalf("execute root help: %v", err)
	}
	for _, name := range []string{"status", "habits", "food", "serve"} {
		if !strings.Contains(out, name) {
			t.Errorf("help output missing %q", name)
		}
	}
}

func TestInvalidStoreFlag(t *testing.T) {
	db := isolate(t)
	_, err := run(t, "--db", db, "--store", "bogus", "status")
	if err == nil || !strings.Contains(err.Error(), "invalid --store") {
		t.Fatalf("expected invalid store error, got %v", err)
	}
}

func TestDailyFlow(t *testing.T) {
	db := isolate(t)

	t.Run("profile set", func(t *testing.T) {
		out, err := run(t, "--db", db, "profile", "set", "age=14", "height=160", "weight=50", "sugar=high")
		if err != nil {
			t.Fatalf("profile set: %v", err)
		}
		if !strings.Contains(out, "Age: 14") || !strings.Contains(out, "BMI: 19.5") {
			t.Errorf("unexpected profile output:\n%s", out)
		}
	})

	t.Run("habits set rejects unknown key", func(t *testing.T) {
		if _, err := run(t, "--db", db, "habits", "set", "steps=9000"); err == nil {
			t.Fatal("expected error for unknown habit")
		}
	})

	t.Run("habits set", func(t *testing.T) {
		out, err := run(t, "--db", db, "habits", "set", "activity=60", "sleep=9")
		if err != nil {
			t.Fatalf("habits set: %v", err)
		}
		if !strings.Contains(out, "Activity: 60 min") {
			t.Errorf("unexpected habits output:\n%s", out)
		}
	})

	t.Run("log once per day", func(t *testing.T) {
		out, err := run(t, "--db", db, "log")
		if err != nil {
			t.Fatalf("log: %v", err)
		}
		if !strings.Contains(out, "Streak: 1 days") {
			t.Errorf("unexpected log output:\n%s", out)
		}

		out, err = run(t, "--db", db, "log")
		if err != nil {
			t.Fatalf("second log: %v", err)
		}
		if !strings.Contains(out, "Already logged today") {
			t.Errorf("expected repeat log to be refused, got:\n%s", out)
		}
	})

	t.Run("challenge complete", func(t *testing.T) {
		if _, err := run(t, "--db", db, "challenge", "complete", "c5"); err == nil {
			t.Fatal("expected c5 to be ineligible")
		}
		if _, err := run(t, "--db", db, "challenge", "complete", "c99"); err == nil {
			t.Fatal("expected unknown challenge error")
		}
		out, err := run(t, "--db", db, "challenge", "complete", "c6")
		if err != nil {
			t.Fatalf("complete c6: %v", err)
		}
		if !strings.Contains(out, "Completed c6") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("food add", func(t *testing.T) {
		out, err := run(t, "--db", db, "food", "add", "Apple", "--calories", "95", "--sugar", "19")
		if err != nil {
			t.Fatalf("food add: %v", err)
		}
		if !strings.Contains(out, "Apple: 95 kcal, 19g sugar (moderate)") {
			t.Errorf("unexpected food output:\n%s", out)
		}
	})

	t.Run("food scan without recognizer", func(t *testing.T) {
		img := filepath.Join(t.TempDir(), "missing.jpg")
		if _, err := run(t, "--db", db, "food", "scan", img); err == nil {
			t.Fatal("expected error for missing image")
		}
	})

	t.Run("status json", func(t *testing.T) {
		out, err := run(t, "--db", db, "status", "--json")
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		var s engine.State
		if err := json.Unmarshal([]byte(out), &s); err != nil {
			t.Fatalf("decode status: %v\n%s", err, out)
		}
		if s.Streak != 1 || !s.HabitsLoggedToday {
			t.Errorf("streak = %d, logged = %t", s.Streak, s.HabitsLoggedToday)
		}
		if len(s.FoodLog) != 1 || s.FoodLog[0].Name != "Apple" {
			t.Errorf("food log = %+v", s.FoodLog)
		}
		if len(s.Weekly) != 1 {
			t.Errorf("weekly = %+v", s.Weekly)
		}
		if s.Profile.Age != 14 || s.Habits.ActivityMinutes != 60 {
			t.Errorf("profile %+v habits %+v", s.Profile, s.Habits)
		}
	})

	t.Run("reset", func(t *testing.T) {
		if _, err := run(t, "--db", db, "reset"); err == nil {
			t.Fatal("expected reset without --yes to fail")
		}
		if _, err := run(t, "--db", db, "reset", "--yes"); err != nil {
			t.Fatalf("reset: %v", err)
		}
		out, err := run(t, "--db", db, "status", "--json")
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		var s engine.State
		if err := json.Unmarshal([]byte(out), &s); err != nil {
			t.Fatalf("decode status: %v\n%s", err, out)
		}
		if s.Streak != 0 || s.Points != 0 || len(s.FoodLog) != 0 || s.Profile.Age != 0 {
			t.Errorf("expected fresh state, got %+v", s)
		}
	})

	t.Run("status text after json", func(t *testing.T) {
		out, err := run(t, "--db", db, "status")
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if !strings.HasPrefix(out, "Score: ") {
			t.Errorf("expected text status, got:\n%s", out)
		}
	})
}
