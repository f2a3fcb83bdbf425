package risk

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"glucoguard/internal/habits"
	"glucoguard/internal/shared"
)

// Recorder receives one execution record per remote prediction.
type Recorder interface {
	RecordMeta(meta shared.AgentMeta) error
}

// Overlay owns the retained risk estimate. The local heuristic fills it
// until the first remote answer arrives; from then on only remote answers
// replace it and failed calls leave it untouched.
//
// Each Refresh issues a numbered request. A completion older than the
// newest one already applied is discarded, so a slow stale answer cannot
// overwrite a fresher one.
type Overlay struct {
	predictor Predictor
	recorder  Recorder
	logger    hclog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	current     DiabetesRisk
	remoteKnown bool
	issued      uint64
	applied     uint64
}

// NewOverlay creates an overlay. predictor and recorder may be nil; without
// a predictor only the local heuristic is used.
func NewOverlay(predictor Predictor, recorder Recorder, logger hclog.Logger) *Overlay {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Overlay{
		predictor: predictor,
		recorder:  recorder,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		current:   Initial(),
	}
}

// Current returns a copy of the retained estimate.
func (o *Overlay) Current() DiabetesRisk {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current.Clone()
}

// RemoteKnown reports whether a remote estimate has ever been applied.
func (o *Overlay) RemoteKnown() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.remoteKnown
}

// Refresh recomputes the estimate for the given state. It returns
// immediately; the remote call completes in the background.
func (o *Overlay) Refresh(p habits.Profile, h habits.DailyHabits) {
	if !p.RiskReady() {
		return
	}

	o.mu.Lock()
	if !o.remoteKnown {
		o.current = Local(p, h)
	}
	if o.predictor == nil {
		o.mu.Unlock()
		return
	}
	o.issued++
	gen := o.issued
	o.mu.Unlock()

	req := NewRequest(p, h)
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.predict(gen, req)
	}()
}

func (o *Overlay) predict(gen uint64, req Request) {
	start := time.Now()
	estimate, err := o.predictor.Predict(o.ctx, req)
	latency := time.Since(start)

	if o.recorder != nil {
		if rerr := o.recorder.RecordMeta(shared.AgentMeta{AgentName: "RiskPredictor", Latency: latency, Failed: err != nil}); rerr != nil {
			o.logger.Warn("failed to record predictor metrics", "error", rerr)
		}
	}

	if err != nil {
		o.logger.Warn("risk predictor unavailable, keeping previous estimate", "request", gen, "error", err)
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if gen < o.applied {
		o.logger.Debug("discarding superseded risk estimate", "request", gen, "applied", o.applied)
		return
	}
	o.applied = gen
	o.current = estimate
	o.remoteKnown = true
	o.logger.Debug("applied remote risk estimate", "request", gen, "level", estimate.Level, "score", estimate.Score)
}

// Reset drops the retained estimate back to Initial and forgets any remote
// answer. Calls issued before the reset are discarded when they complete.
func (o *Overlay) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.current = Initial()
	o.remoteKnown = false
	o.applied = o.issued + 1
}

// Wait blocks until every in-flight remote call has completed.
func (o *Overlay) Wait() {
	o.wg.Wait()
}

// Close cancels in-flight calls and waits for them to finish.
func (o *Overlay) Close() {
	o.cancel()
	o.wg.Wait()
}
