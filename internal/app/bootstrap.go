package app

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/redis/go-redis/v9"

	"glucoguard/internal/config"
	"glucoguard/internal/database"
	"glucoguard/internal/engine"
	"glucoguard/internal/food"
	"glucoguard/internal/llm"
	"glucoguard/internal/metrics"
	"glucoguard/internal/risk"
	"glucoguard/internal/storage"
	"glucoguard/internal/store"
	"glucoguard/internal/streak"
)

// FieldPrefix namespaces every persisted field.
const FieldPrefix = "glucoguard_"

// Bootstrap opens storage, builds the collaborators named by cfg and
// returns a started App.
func Bootstrap(ctx context.Context, cfg *config.Config, logger hclog.Logger) (*App, error) {
	var closers []func() error
	fail := func(err error) (*App, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		return nil, err
	}

	// The database always backs metrics, whichever store holds the fields.
	db, err := database.NewDB(cfg.DatabasePath, logger.Named("database"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	closers = append(closers, db.Close)
	metricsStore := metrics.NewStore(db.SQL)

	backend, closeBackend, err := OpenBackend(ctx, cfg, db)
	if err != nil {
		return fail(err)
	}
	if closeBackend != nil {
		closers = append(closers, closeBackend)
	}
	logger.Info("field store ready", "backend", cfg.StoreBackend)

	var predictor risk.Predictor
	if cfg.RiskAPIURL != "" {
		predictor = risk.NewClient(cfg.RiskAPIURL, cfg.RiskAPISecret, cfg.RiskAPITimeout)
	}
	overlay := risk.NewOverlay(predictor, metricsStore, logger.Named("risk"))

	recognizer, closeRecognizer, err := newRecognizer(ctx, cfg, metricsStore, logger.Named("food"))
	if err != nil {
		return fail(err)
	}
	if closeRecognizer != nil {
		closers = append(closers, closeRecognizer)
	}

	st := store.New(backend, FieldPrefix, logger.Named("store"))
	eng := engine.New(st, overlay, streak.SystemClock{}, logger.Named("engine"))
	eng.Start()

	a := NewApp(eng, recognizer, metricsStore, cfg, logger)
	a.closers = closers
	return a, nil
}

// OpenBackend returns the field backend selected by cfg.StoreBackend and,
// when the backend holds its own connection, a function to close it.
func OpenBackend(ctx context.Context, cfg *config.Config, db *database.DB) (store.Backend, func() error, error) {
	switch cfg.StoreBackend {
	case config.StoreFile:
		fs, err := storage.NewFieldStore(cfg.StateDir)
		if err != nil {
			return nil, nil, err
		}
		return fs, nil, nil
	case config.StoreRedis:
		rb, err := store.NewRedisBackend(ctx, &redis.Options{
			Addr:     cfg.RedisAddr,
			Username: cfg.RedisUsername,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return rb, rb.Close, nil
	default:
		return store.NewSQLiteBackend(db.SQL), nil, nil
	}
}

// newRecognizer prefers a remote analyze-food service, then Gemini vision
// with Groq (or Gemini itself) as the advisor. It returns nil when neither
// is configured.
func newRecognizer(ctx context.Context, cfg *config.Config, recorder food.Recorder, logger hclog.Logger) (food.Recognizer, func() error, error) {
	if cfg.FoodAPIURL != "" {
		return food.NewRemoteRecognizer(cfg.FoodAPIURL, 60*time.Second), nil, nil
	}
	if cfg.GeminiAPIKey == "" {
		logger.Info("no food recognizer configured, scanning disabled")
		return nil, nil, nil
	}

	gemini, err := llm.NewGeminiClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	var advisor llm.TextGenerator = gemini
	if cfg.GroqAPIKey != "" {
		advisor = llm.NewGroqClient(cfg)
	}
	return food.NewModelRecognizer(gemini, advisor, recorder, logger), gemini.Close, nil
}
