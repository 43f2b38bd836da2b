package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/dailyos/internal/constants"
)

// Rotation limits for the log file.
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

// Logger is nil until Init runs; the package helpers are no-ops until then.
var Logger *log.Logger

var file *lumberjack.Logger

type Config struct {
	Debug     bool
	ConfigDir string
	// Console mirrors output to stderr. The HTTP server turns this on; the TUI
	// must not, or log lines would tear the alt screen.
	Console bool
}

// Path is where Init writes the log for configDir.
func Path(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

// Init replaces the global logger. Calling it again closes the previous file.
func Init(cfg Config) error {
	path := Path(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	_ = Close()

	file = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}

	var w io.Writer = file
	if cfg.Debug || cfg.Console {
		w = io.MultiWriter(os.Stderr, file)
	}
	Logger = log.NewWithOptions(w, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           levelFor(cfg),
		Prefix:          constants.AppName,
	})
	return nil
}

// levelFor keeps the file quiet for CLI and TUI runs, which only need warnings.
func levelFor(cfg Config) log.Level {
	switch {
	case cfg.Debug:
		return log.DebugLevel
	case cfg.Console:
		return log.InfoLevel
	default:
		return log.WarnLevel
	}
}

// Close releases the log file. Logging after Close reopens it.
func Close() error {
	if file == nil {
		return nil
	}
	return file.Close()
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs and exits with status 1, even before Init.
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
