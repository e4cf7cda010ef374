// Package logging provides categorized zap loggers for the Coinfixi console.
// The CLI logs to stderr; the interactive console only logs to a rotated file
// so it never draws over the terminal UI.
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Category names a subsystem logger.
type Category string

const (
	CategoryBoot    Category = "boot"    // startup, config resolution
	CategoryAPI     Category = "api"     // upstream HTTP calls
	CategorySession Category = "session" // login state, session file
	CategoryUI      Category = "ui"      // interactive console
	CategoryGateway Category = "gateway" // fixi serve
	CategoryJournal Category = "journal" // local action journal
)

// Config mirrors config.LoggingConfig to avoid an import cycle.
type Config struct {
	Level      string
	File       string
	JSON       bool
	Console    bool
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Categories map[string]bool
}

var (
	mu         sync.RWMutex
	root       = zap.NewNop()
	categories map[string]bool
	closer     func() error
)

// Initialize builds the root logger. Calling it again replaces the previous
// logger and closes its file.
func Initialize(cfg Config) error {
	level, err := zapcore.ParseLevel(strings.ToLower(orDefault(cfg.Level, "info")))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var cores []zapcore.Core
	var fileCloser func() error

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefaultInt(cfg.MaxSizeMB, 10),
			MaxBackups: orDefaultInt(cfg.MaxBackups, 3),
			MaxAge:     orDefaultInt(cfg.MaxAgeDays, 14),
		}
		cores = append(cores, zapcore.NewCore(encoder(encCfg, cfg.JSON), zapcore.AddSync(rotator), level))
		fileCloser = rotator.Close
	}
	if cfg.Console {
		cores = append(cores, zapcore.NewCore(encoder(encCfg, cfg.JSON), zapcore.Lock(os.Stderr), level))
	}

	var logger *zap.Logger
	if len(cores) == 0 {
		logger = zap.NewNop()
	} else {
		logger = zap.New(zapcore.NewTee(cores...))
	}

	mu.Lock()
	prev := closer
	root = logger
	categories = cfg.Categories
	closer = fileCloser
	mu.Unlock()

	if prev != nil {
		_ = prev()
	}
	return nil
}

func encoder(cfg zapcore.EncoderConfig, asJSON bool) zapcore.Encoder {
	if asJSON {
		return zapcore.NewJSONEncoder(cfg)
	}
	return zapcore.NewConsoleEncoder(cfg)
}

// Use installs l as the root logger. Intended for tests.
func Use(l *zap.Logger) {
	mu.Lock()
	root = l
	categories = nil
	mu.Unlock()
}

// Root returns the root logger.
func Root() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// IsCategoryEnabled reports whether category is enabled. Categories not
// listed in the config are enabled.
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	if categories == nil {
		return true
	}
	enabled, ok := categories[string(category)]
	return !ok || enabled
}

// Get returns the named logger for category, or a no-op logger when the
// category is disabled.
func Get(category Category) *zap.SugaredLogger {
	if !IsCategoryEnabled(category) {
		return zap.NewNop().Sugar()
	}
	return Root().Named(string(category)).Sugar()
}

// Sync flushes buffered entries and closes the log file.
func Sync() {
	mu.Lock()
	l, c := root, closer
	closer = nil
	mu.Unlock()

	_ = l.Sync()
	if c != nil {
		_ = c()
	}
}

// Timer measures an operation and logs its duration on Stop.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop logs the elapsed time at debug level, or warn when over threshold.
func (t *Timer) Stop(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	log := Get(t.category)
	if threshold > 0 && elapsed > threshold {
		log.Warnw("slow operation", "op", t.op, "elapsed", elapsed, "threshold", threshold)
	} else {
		log.Debugw("operation complete", "op", t.op, "elapsed", elapsed)
	}
	return elapsed
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func orDefaultInt(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
