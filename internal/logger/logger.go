// Package logger builds the JSON line logger shared by every component.
package logger

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// zonedFormatter renders entry timestamps in a fixed location so log lines
// line up with the dates printed on generated documents.
type zonedFormatter struct {
	inner *logrus.JSONFormatter
	loc   *time.Location
}

func (f *zonedFormatter) Format(e *logrus.Entry) ([]byte, error) {
	e.Time = e.Time.In(f.loc)
	return f.inner.Format(e)
}

// New returns a logrus logger writing one JSON object per line to w.
// Unknown levels fall back to info.
func New(w io.Writer, loc *time.Location, level string) *logrus.Logger {
	if loc == nil {
		loc = time.UTC
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	l.SetFormatter(&zonedFormatter{
		inner: &logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "ts",
				logrus.FieldKeyMsg:  "msg",
			},
		},
		loc: loc,
	})
	return l
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *logrus.Logger {
	return New(io.Discard, time.UTC, "panic")
}
