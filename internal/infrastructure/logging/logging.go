package logging

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Tee fans log events out to the rotating logfile (info and up) and to
// stderr (warnings and up), so a quiet run leaves the terminal clean while
// the file keeps the full trail.
type Tee struct {
	file    *log.Logger
	console *log.Logger
}

func Setup(logFile string) *Tee {
	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
	}

	file := log.NewWithOptions(rotator, log.Options{
		Level:           log.InfoLevel,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})

	console := log.NewWithOptions(os.Stderr, log.Options{
		Level:           log.WarnLevel,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})

	return &Tee{file: file, console: console}
}

func (t *Tee) Info(msg interface{}, keyvals ...interface{}) {
	t.file.Info(msg, keyvals...)
	t.console.Info(msg, keyvals...)
}

func (t *Tee) Warn(msg interface{}, keyvals ...interface{}) {
	t.file.Warn(msg, keyvals...)
	t.console.Warn(msg, keyvals...)
}

func (t *Tee) Error(msg interface{}, keyvals ...interface{}) {
	t.file.Error(msg, keyvals...)
	t.console.Error(msg, keyvals...)
}
