// Package logging provides the leveled console logger used by every command,
// with an optional rotating JSON log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/backmassage/docnamer/internal/config"
	"github.com/backmassage/docnamer/internal/term"
)

// Log file rotation limits.
const (
	maxLogSizeMB  = 10
	maxLogBackups = 5
	maxLogAgeDays = 30
)

// Logger writes human-readable, optionally colored lines to the console and,
// when a log file is configured, JSON records tagged with the run ID.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	file   *zap.Logger
	rot    *lumberjack.Logger
	runID  string
}

// NewLogger configures colors from cfg and opens cfg.LogFile when set.
// Call Close when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)
	return newLogger(cfg, os.Stdout, os.Stderr)
}

func newLogger(cfg *config.Config, out, errOut io.Writer) (*Logger, error) {
	l := &Logger{out: out, errOut: errOut, runID: uuid.NewString()}
	if cfg.LogFile == "" {
		return l, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	l.rot = &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		MaxAge:     maxLogAgeDays,
		Compress:   true,
	}

	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.MessageKey = "message"
	enc.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(l.rot), zap.DebugLevel)
	l.file = zap.New(core).With(zap.String("run_id", l.runID))
	return l, nil
}

// RunID identifies this process's records in the log file.
func (l *Logger) RunID() string { return l.runID }

// Close flushes and closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	_ = l.file.Sync()
	err := l.rot.Close()
	l.file, l.rot = nil, nil
	return err
}

func (l *Logger) line(level string, c *color.Color, zl zapcore.Level, text string) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.out
	if zl >= zapcore.ErrorLevel {
		out = l.errOut
	}
	_, _ = io.WriteString(out, ts+" "+c.Sprint("["+level+"]")+" "+text+"\n")
	if l.file != nil {
		if ce := l.file.Check(zl, text); ce != nil {
			ce.Write(zap.String("label", level))
		}
	}
}

// Blank writes an empty console line, separating per-file blocks.
func (l *Logger) Blank() {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, "\n")
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.line("INFO", term.Blue, zapcore.InfoLevel, fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.line("SUCCESS", term.Green, zapcore.InfoLevel, fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line("WARN", term.Yellow, zapcore.WarnLevel, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red), to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line("ERROR", term.Red, zapcore.ErrorLevel, fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when verbose; no-op otherwise.
func (l *Logger) Debug(verbose bool, format string, args ...interface{}) {
	if !verbose {
		return
	}
	l.line("DEBUG", term.Cyan, zapcore.DebugLevel, fmt.Sprintf(format, args...))
}

// Record writes a structured event to the log file only (no console line).
// It is a no-op without a log file.
func (l *Logger) Record(event string, fields ...zap.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.Info(event, fields...)
	}
}
