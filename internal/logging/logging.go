package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/natefinch/lumberjack.v2"

	"glucoguard/internal/config"
)

// New builds the root logger. Output goes to a rotating file when
// cfg.LogFile is set, otherwise to stderr.
func New(name string, cfg *config.Config) hclog.Logger {
	var out io.Writer = os.Stderr
	if cfg.LogFile != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Output:     out,
		Level:      hclog.LevelFromString(cfg.LogLevel),
		JSONFormat: cfg.LogFile != "",
	})
}
