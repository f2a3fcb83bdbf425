package risk

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"glucoguard/internal/habits"
	"glucoguard/internal/shared"
)

// MockPredictor answers with a fixed estimate or error.
type MockPredictor struct {
	mu       sync.Mutex
	Estimate DiabetesRisk
	Err      error
	Calls    int
}

func (m *MockPredictor) Predict(ctx context.Context, req Request) (DiabetesRisk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return DiabetesRisk{}, m.Err
	}
	return m.Estimate.Clone(), nil
}

func (m *MockPredictor) set(estimate DiabetesRisk, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Estimate, m.Err = estimate, err
}

// gatedPredictor holds each call until its sugar intake is released.
type gatedPredictor struct {
	gates   map[int]chan struct{}
	answers map[int]DiabetesRisk
}

func (g *gatedPredictor) Predict(ctx context.Context, req Request) (DiabetesRisk, error) {
	<-g.gates[req.SugarIntake]
	return g.answers[req.SugarIntake], nil
}

type mockRecorder struct {
	mu    sync.Mutex
	metas []shared.AgentMeta
}

func (m *mockRecorder) RecordMeta(meta shared.AgentMeta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metas = append(m.metas, meta)
	return nil
}

var readyProfile = habits.Profile{Age: 15, HeightCm: 160, WeightKg: 90, FamilyDiabetesHistory: true}

func TestOverlayLocalOnly(t *testing.T) {
	o := NewOverlay(nil, nil, nil)
	defer o.Close()

	o.Refresh(habits.Profile{Age: 5}, habits.DefaultHabits())
	if got := o.Current(); got.Score != 0 || got.Level != LevelLow {
		t.Errorf("Expected initial estimate for an incomplete profile, got %+v", got)
	}

	o.Refresh(readyProfile, habits.DefaultHabits())
	if got := o.Current(); got.Score != 55 {
		t.Errorf("Expected local score 55, got %+v", got)
	}

	o.Refresh(readyProfile, habits.DailyHabits{ActivityMinutes: 40, SleepHours: 8})
	if got := o.Current(); got.Score != 40 {
		t.Errorf("Expected local estimate to follow the habits, got %+v", got)
	}
}

func TestOverlayRemoteSupersedes(t *testing.T) {
	predictor := &MockPredictor{Estimate: DiabetesRisk{Level: LevelMedium, Score: 33, Factors: []string{"Keep moving"}}}
	recorder := &mockRecorder{}
	o := NewOverlay(predictor, recorder, nil)
	defer o.Close()

	o.Refresh(readyProfile, habits.DefaultHabits())
	o.Wait()

	got := o.Current()
	if got.Score != 33 || got.Level != LevelMedium || len(got.Factors) != 1 {
		t.Fatalf("Expected remote estimate, got %+v", got)
	}
	if !o.RemoteKnown() {
		t.Error("Expected RemoteKnown after a successful call")
	}
	if len(recorder.metas) != 1 || recorder.metas[0].AgentName != "RiskPredictor" {
		t.Errorf("Expected one RiskPredictor metric, got %+v", recorder.metas)
	}

	t.Run("FailureKeepsEstimate", func(t *testing.T) {
		before, _ := json.Marshal(o.Current())

		predictor.set(DiabetesRisk{}, errors.New("connection refused"))
		// A very different profile would change the local heuristic
		o.Refresh(habits.Profile{Age: 40, HeightCm: 150, WeightKg: 120, DailySugar: habits.SugarVeryHigh}, habits.DailyHabits{SugarItems: 9})
		o.Wait()

		after, _ := json.Marshal(o.Current())
		if string(before) != string(after) {
			t.Errorf("Expected estimate unchanged after failure:\nbefore %s\nafter  %s", before, after)
		}
		if len(recorder.metas) != 2 || !recorder.metas[1].Failed {
			t.Errorf("Expected a failed metric to be recorded, got %+v", recorder.metas)
		}
	})
}

func TestOverlayDiscardsStaleAnswers(t *testing.T) {
	predictor := &gatedPredictor{
		gates: map[int]chan struct{}{1: make(chan struct{}), 2: make(chan struct{})},
		answers: map[int]DiabetesRisk{
			1: {Level: LevelLow, Score: 10, Factors: []string{}},
			2: {Level: LevelHigh, Score: 70, Factors: []string{}},
		},
	}
	o := NewOverlay(predictor, nil, nil)
	defer o.Close()

	o.Refresh(readyProfile, habits.DailyHabits{SugarItems: 1, SleepHours: 7})
	o.Refresh(readyProfile, habits.DailyHabits{SugarItems: 2, SleepHours: 7})

	// Newer request completes first
	close(predictor.gates[2])
	deadline := time.Now().Add(2 * time.Second)
	for !o.RemoteKnown() {
		if time.Now().After(deadline) {
			t.Fatal("Timed out waiting for the newer answer")
		}
		time.Sleep(5 * time.Millisecond)
	}

	close(predictor.gates[1])
	o.Wait()

	if got := o.Current(); got.Score != 70 {
		t.Errorf("Expected the newer answer to survive, got %+v", got)
	}
}

func TestOverlayReset(t *testing.T) {
	predictor := &gatedPredictor{
		gates: map[int]chan struct{}{1: make(chan struct{}), 3: make(chan struct{})},
		answers: map[int]DiabetesRisk{
			1: {Level: LevelHigh, Score: 80, Factors: []string{}},
			3: {Level: LevelMedium, Score: 30, Factors: []string{}},
		},
	}
	o := NewOverlay(predictor, nil, nil)
	defer o.Close()

	o.Refresh(readyProfile, habits.DailyHabits{SugarItems: 1, SleepHours: 7})
	o.Reset()
	if got := o.Current(); got.Score != 0 || got.Level != LevelLow || o.RemoteKnown() {
		t.Fatalf("Expected the initial estimate after reset, got %+v", got)
	}

	// An answer issued before the reset is dropped
	close(predictor.gates[1])
	o.Wait()
	if got := o.Current(); got.Score != 0 || o.RemoteKnown() {
		t.Errorf("Expected the pre-reset answer to be discarded, got %+v", got)
	}

	o.Refresh(readyProfile, habits.DailyHabits{SugarItems: 3, SleepHours: 7})
	close(predictor.gates[3])
	o.Wait()
	if got := o.Current(); got.Score != 30 || !o.RemoteKnown() {
		t.Errorf("Expected answers after the reset to apply, got %+v", got)
	}
}
