// Package common provides shared utilities for milhas-radar.
package common

import (
	"os"

	"github.com/phuslu/log"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
	"github.com/ternarybob/arbor/writers"
)

// LoggingConfig controls writer selection and levels for the shared logger.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// Logger wraps arbor.ILogger to provide a consistent interface across the
// scraper, stores, and CLI.
type Logger struct {
	arbor.ILogger
}

// discardWriter implements writers.IWriter and drops all output. Used by
// NewSilentLogger so tests never dispatch to globally-registered writers.
type discardWriter struct{}

func (w *discardWriter) Write(p []byte) (int, error)           { return len(p), nil }
func (w *discardWriter) WithLevel(_ log.Level) writers.IWriter { return w }
func (w *discardWriter) GetFilePath() string                   { return "" }
func (w *discardWriter) Close() error                          { return nil }

// NewLoggerFromConfig creates a logger configured from LoggingConfig.
// Supports console (stderr) and file writers; a memory writer is always
// registered for diagnostics.
func NewLoggerFromConfig(cfg LoggingConfig) *Logger {
	level := cfg.Level
	if level == "" {
		level = "info"
	}

	outputs := cfg.Outputs
	if len(outputs) == 0 {
		outputs = []string{"console", "file"}
	}

	l := arbor.NewLogger()
	for _, out := range outputs {
		switch out {
		case "console":
			l = l.WithConsoleWriter(models.WriterConfiguration{
				Type:       models.LogWriterTypeConsole,
				Writer:     os.Stderr,
				TimeFormat: "2006-01-02T15:04:05Z07:00",
			})
		case "file":
			filePath := cfg.FilePath
			if filePath == "" {
				filePath = "logs/milhas-radar.log"
			}
			maxSize := int64(cfg.MaxSizeMB) * 1024 * 1024
			if maxSize <= 0 {
				maxSize = 500 * 1024
			}
			maxBackups := cfg.MaxBackups
			if maxBackups <= 0 {
				maxBackups = 10
			}
			l = l.WithFileWriter(models.WriterConfiguration{
				Type:       models.LogWriterTypeFile,
				FileName:   filePath,
				MaxSize:    maxSize,
				MaxBackups: maxBackups,
				TimeFormat: "2006-01-02T15:04:05Z07:00",
			})
		}
	}

	l = l.WithMemoryWriter(models.WriterConfiguration{
		Type: models.LogWriterTypeMemory,
	}).WithLevelFromString(level)

	return &Logger{ILogger: l}
}

// NewSilentLogger creates a logger that discards all output.
func NewSilentLogger() *Logger {
	return &Logger{ILogger: arbor.NewLogger().WithWriters([]writers.IWriter{&discardWriter{}})}
}

// WithCorrelationId returns a new Logger with a correlation ID set.
// Each scrape batch gets its own ID so per-program outcomes can be traced.
func (l *Logger) WithCorrelationId(id string) *Logger {
	return &Logger{ILogger: l.ILogger.WithCorrelationId(id)}
}
