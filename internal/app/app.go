package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"glucoguard/internal/config"
	"glucoguard/internal/engine"
	"glucoguard/internal/food"
	"glucoguard/internal/metrics"
)

// ErrScanUnavailable is returned by ScanFood when no recognizer is
// configured.
var ErrScanUnavailable = errors.New("food scanning is not configured")

// App holds the application's dependencies. Front ends (CLI, HTTP API,
// Telegram) talk to the engine through it.
type App struct {
	Engine       *engine.Engine
	recognizer   food.Recognizer
	metricsStore *metrics.Store
	cfg          *config.Config
	logger       hclog.Logger
	started      time.Time
	closers      []func() error
}

// NewApp creates and initializes a new App instance. recognizer and
// metricsStore may be nil.
func NewApp(
	eng *engine.Engine,
	recognizer food.Recognizer,
	metricsStore *metrics.Store,
	cfg *config.Config,
	logger hclog.Logger,
) *App {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &App{
		Engine:       eng,
		recognizer:   recognizer,
		metricsStore: metricsStore,
		cfg:          cfg,
		logger:       logger,
		started:      time.Now(),
	}
}

// CanScan reports whether photo scanning is available.
func (a *App) CanScan() bool {
	return a.recognizer != nil
}

// ScanResult is a logged scan.
type ScanResult struct {
	Entry     food.FoodEntry `json:"entry"`
	NewBadges []string       `json:"newBadges"`
}

// ScanFood analyzes a photo against the current profile and logs the
// result.
func (a *App) ScanFood(ctx context.Context, img food.Image) (ScanResult, error) {
	if a.recognizer == nil {
		return ScanResult{}, ErrScanUnavailable
	}

	analysis, err := a.recognizer.Analyze(ctx, img, a.Engine.Profile())
	if err != nil {
		return ScanResult{}, fmt.Errorf("failed to analyze food: %w", err)
	}

	entry := analysis.Entry(time.Now())
	badges := a.Engine.AddFoodEntry(entry)
	a.logger.Info("food scanned", "name", entry.Name, "sugar_level", entry.SugarLevel, "badges", badges)
	return ScanResult{Entry: entry, NewBadges: badges}, nil
}

// LogFood logs a manually entered item.
func (a *App) LogFood(name string, calories, sugar float64, fat *float64) ScanResult {
	entry := food.NewEntry(name, calories, sugar, fat, time.Now())
	return ScanResult{Entry: entry, NewBadges: a.Engine.AddFoodEntry(entry)}
}

// Report is the admin usage and health summary.
type Report struct {
	Usage  []metrics.DailyUsage
	Health metrics.SysHealth
}

// Report gathers the last days of usage with current health data.
func (a *App) Report(days int) (Report, error) {
	var r Report
	if a.metricsStore != nil {
		usage, err := a.metricsStore.GetDailyUsage(days)
		if err != nil {
			return Report{}, fmt.Errorf("failed to fetch usage: %w", err)
		}
		r.Usage = usage
	}
	r.Health = metrics.GetSysHealth(a.statePath(), a.started)
	return r, nil
}

// CleanupMetrics deletes execution records older than days.
func (a *App) CleanupMetrics(days int) (int64, error) {
	if a.metricsStore == nil {
		return 0, nil
	}
	return a.metricsStore.Cleanup(days)
}

func (a *App) statePath() string {
	if a.cfg == nil {
		return ""
	}
	if a.cfg.StoreBackend == config.StoreFile {
		return a.cfg.StateDir
	}
	return a.cfg.DatabasePath
}

// Close stops the engine and releases every resource opened by Bootstrap,
// in reverse order.
func (a *App) Close() error {
	a.Engine.Close()

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
