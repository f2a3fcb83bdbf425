package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"

	"glucoguard/internal/database"
	"glucoguard/internal/shared"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "metrics.db"), hclog.NewNullLogger())
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db.SQL)
}

func TestRecordMeta(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	metas := []shared.AgentMeta{
		{AgentName: "FoodVision", Usage: shared.TokenUsage{PromptTokens: 100, CompletionTokens: 20, Model: "gemini"}, Latency: time.Second},
		{AgentName: "RiskPredictor", Latency: 300 * time.Millisecond},
		{AgentName: "RiskPredictor", Latency: 5 * time.Second, Failed: true},
		// Nothing measured; skipped
		{AgentName: "Empty"},
	}
	for _, m := range metas {
		if err := s.RecordMeta(m); err != nil {
			t.Fatalf("RecordMeta failed: %v", err)
		}
	}

	usage, err := s.GetDailyUsage(7)
	if err != nil {
		t.Fatalf("GetDailyUsage failed: %v", err)
	}
	if len(usage) != 1 {
		t.Fatalf("Expected 1 day of usage, got %d", len(usage))
	}
	got := usage[0]
	if got.Date != "2026-10-15" || got.TotalExecution != 3 || got.TotalPrompt != 100 || got.TotalCompletion != 20 || got.Failures != 1 {
		t.Errorf("Unexpected usage %+v", got)
	}
}

func TestCleanup(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	if err := s.Record(ExecutionMetric{AgentName: "old", LatencyMS: 10, Success: true, Timestamp: now.AddDate(0, 0, -40)}); err != nil {
		t.Fatal(err)
	}
	if err := s.Record(ExecutionMetric{AgentName: "new", LatencyMS: 10, Success: true}); err != nil {
		t.Fatal(err)
	}

	deleted, err := s.Cleanup(30)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted record, got %d", deleted)
	}

	usage, _ := s.GetDailyUsage(365)
	if len(usage) != 1 || usage[0].TotalExecution != 1 {
		t.Errorf("Expected only today's record to remain, got %+v", usage)
	}
}

func TestGetSysHealth(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "glucoguard_points.json"), make([]byte, 2048), 0644); err != nil {
		t.Fatal(err)
	}

	h := GetSysHealth(dir, time.Now().Add(-time.Minute))
	if h.StateBytes != 2048 || h.StateDirSize != "2.0 KB" {
		t.Errorf("Expected 2048 bytes (2.0 KB), got %d (%s)", h.StateBytes, h.StateDirSize)
	}
	if h.Goroutines == 0 || h.Uptime < time.Minute {
		t.Errorf("Unexpected health %+v", h)
	}

	if GetSysHealth("", time.Now()).StateBytes != 0 {
		t.Error("Expected zero size for an empty path")
	}
}
