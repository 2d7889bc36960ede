// Package log writes structured logrus records to a daily file in the logs
// directory. Nothing is written unless logs.write is set.
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/reelbox/reelbox/filesystem"
	"github.com/reelbox/reelbox/key"
	"github.com/reelbox/reelbox/where"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Retention is how long daily log files are kept.
const Retention = 14 * 24 * time.Hour

const dayLayout = "2006-01-02"

var enabled atomic.Bool

// Setup opens today's log file and applies the configured format and level.
// Files older than Retention are removed.
func Setup() error {
	if !viper.GetBool(key.LogsWrite) {
		enabled.Store(false)
		return nil
	}

	dir := where.Logs()
	f, err := filesystem.API().OpenFile(
		filepath.Join(dir, time.Now().Format(dayLayout)+".log"),
		os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644,
	)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)

	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	enabled.Store(true)
	prune(dir, time.Now().Add(-Retention))
	return nil
}

// prune removes daily files dated before cutoff. Other files are left alone.
func prune(dir string, cutoff time.Time) {
	entries, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return
	}

	for _, e := range entries {
		day, err := time.ParseInLocation(dayLayout, strings.TrimSuffix(e.Name(), ".log"), time.Local)
		if err != nil || e.IsDir() || !day.Before(cutoff) {
			continue
		}
		_ = filesystem.API().Remove(filepath.Join(dir, e.Name()))
	}
}

// Logger tags records with the component that produced them.
type Logger struct {
	entry *logrus.Entry
}

// For returns a Logger for the named component.
func For(component string) *Logger {
	return &Logger{entry: logrus.WithField("component", component)}
}

func (l *Logger) WithField(name string, value any) *Logger {
	return &Logger{entry: l.entry.WithField(name, value)}
}

func (l *Logger) WithError(err error) *Logger {
	return &Logger{entry: l.entry.WithError(err)}
}

func (l *Logger) logf(level logrus.Level, format string, args []any) {
	if enabled.Load() {
		l.entry.Logf(level, format, args...)
	}
}

func (l *Logger) Errorf(format string, args ...any) { l.logf(logrus.ErrorLevel, format, args) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(logrus.WarnLevel, format, args) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(logrus.InfoLevel, format, args) }
func (l *Logger) Debugf(format string, args ...any) { l.logf(logrus.DebugLevel, format, args) }
func (l *Logger) Tracef(format string, args ...any) { l.logf(logrus.TraceLevel, format, args) }

// cli logs on behalf of the command line front end.
var cli = For("cli")

func Error(args ...any) {
	cli.logf(logrus.ErrorLevel, "%s", []any{fmt.Sprint(args...)})
}

func Errorf(format string, args ...any) { cli.Errorf(format, args...) }
func Warnf(format string, args ...any)  { cli.Warnf(format, args...) }
func Infof(format string, args ...any)  { cli.Infof(format, args...) }
