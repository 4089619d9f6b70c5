package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/adyen/storefront-e2e/internal/config"
)

var (
	std  *Logger
	once sync.Once
)

// Logger wraps logrus with colored step and outcome lines
type Logger struct {
	*logrus.Logger
	green  *color.Color
	red    *color.Color
	yellow *color.Color
	cyan   *color.Color
}

// New builds a logger writing to out, and to a rotating file when cfg.File is set
func New(cfg config.LoggerConfig, out io.Writer) *Logger {
	l := &Logger{
		Logger: logrus.New(),
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		cyan:   color.New(color.FgCyan),
	}

	l.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006/01/02 15:04:05",
		FullTimestamp:   true,
		DisableSorting:  true,
	})

	if cfg.File != "" {
		out = io.MultiWriter(out, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		})
	}
	l.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	return l
}

// Default returns the process-wide logger, configured from the environment on first use
func Default() *Logger {
	once.Do(func() {
		std = New(config.LoadLoggerConfig(os.Getenv), os.Stderr)
	})
	return std
}

// Step logs one narrated step of a test
func (l *Logger) Step(test, title string) {
	l.WithField("test", test).Info(l.cyan.Sprint("step: ") + title)
}

// Passed logs a passed test
func (l *Logger) Passed(test string) {
	l.WithField("test", test).Info(l.green.Sprint("PASS"))
}

// Failed logs a failed test with its reason
func (l *Logger) Failed(test string, reason string) {
	l.WithField("test", test).Error(l.red.Sprint("FAIL ") + reason)
}

// Skipped logs a skipped test
func (l *Logger) Skipped(test string, reason string) {
	l.WithField("test", test).Warn(l.yellow.Sprint("SKIP ") + reason)
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Logger.Info(fmt.Sprintf(format, args...))
}

// IsDebugEnabled returns whether debug logging is enabled
func (l *Logger) IsDebugEnabled() bool {
	return l.GetLevel() == logrus.DebugLevel
}
