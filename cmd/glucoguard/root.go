package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"glucoguard/internal/app"
	"glucoguard/internal/config"
	"glucoguard/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "glucoguard",
	Short: "glucoguard tracks daily habits, wellness score and diabetes risk",
	Long: "glucoguard keeps one teen's profile, daily habits, streaks, points and food log, " +
		"scores each day and estimates diabetes risk locally or through a remote predictor.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	flags.String("db", "", "Path to SQLite database (env GLUCOGUARD_DB_PATH)")
	flags.String("store", "", "Field store backend: sqlite, file or redis (env GLUCOGUARD_STORE)")
	flags.String("state-dir", "", "Directory for the file store (env GLUCOGUARD_STATE_DIR)")
	flags.String("risk-url", "", "Remote risk predictor URL (env RISK_API_URL)")
	flags.String("log-level", "", "Log level (env GLUCOGUARD_LOG_LEVEL)")
}

// loadConfig reads the environment and applies any persistent flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.NewFromEnv()
	if err != nil {
		return nil, err
	}

	var flagErr error
	cmd.Flags().Visit(func(f *pflag.Flag) {
		v := f.Value.String()
		switch f.Name {
		case "db":
			cfg.DatabasePath = v
		case "store":
			switch v {
			case config.StoreSQLite, config.StoreFile, config.StoreRedis:
				cfg.StoreBackend = v
			default:
				flagErr = fmt.Errorf("invalid --store %q (expected sqlite, file or redis)", v)
			}
		case "state-dir":
			cfg.StateDir = v
		case "risk-url":
			cfg.RiskAPIURL = v
		case "log-level":
			cfg.LogLevel = v
		}
	})
	return cfg, flagErr
}

// withApp bootstraps a session, runs fn and closes the session again.
func withApp(cmd *cobra.Command, fn func(a *app.App) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.New("glucoguard", cfg)

	a, err := app.Bootstrap(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("failed to close cleanly", "error", err)
		}
	}()
	return fn(a)
}
