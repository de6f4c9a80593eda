package logging

import (
	"fmt"
	"io"
	"os"
	"time"
)

// EarlyLog reports startup problems before the service logger is configured,
// for example a missing or invalid config file.
type EarlyLog struct {
	service string
	out     io.Writer
}

func NewEarlyLog(service string) *EarlyLog {
	return &EarlyLog{service: service, out: os.Stderr}
}

// Error logs and returns; the caller decides whether to stop.
func (l *EarlyLog) Error(msg string, args ...interface{}) {
	l.write("error", msg, args...)
}

func (l *EarlyLog) Fatal(msg string, args ...interface{}) {
	l.write("fatal", msg, args...)
	os.Exit(1)
}

func (l *EarlyLog) Warn(msg string, args ...interface{}) {
	l.write("warn", msg, args...)
}

func (l *EarlyLog) Info(msg string, args ...interface{}) {
	l.write("info", msg, args...)
}

func (l *EarlyLog) write(level, msg string, args ...interface{}) {
	fmt.Fprintf(l.out, "%s\t%s\t%s=%s\t%s\n",
		time.Now().UTC().Format(time.RFC3339), level, ServiceNameKey, l.service, fmt.Sprintf(msg, args...))
}
