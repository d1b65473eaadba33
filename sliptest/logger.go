// Copyright © 2024 The SLIP authors

package sliptest

import (
	"bytes"
	"testing"
)

// Logger is an io.Writer that forwards complete lines to a testing.TB so
// that interpreter stderr ends up in test output.
type Logger struct {
	t   testing.TB
	buf bytes.Buffer
}

// NewLogger initializes and returns a new Logger.
func NewLogger(t testing.TB) *Logger {
	return &Logger{t: t}
}

func (lg *Logger) Write(b []byte) (int, error) {
	lg.buf.Write(b)
	for {
		i := bytes.IndexByte(lg.buf.Bytes(), '\n')
		if i < 0 {
			return len(b), nil
		}
		lg.t.Log(string(lg.buf.Next(i + 1)))
	}
}

// Flush logs any buffered partial line.
func (lg *Logger) Flush() {
	if lg.buf.Len() > 0 {
		lg.t.Log(lg.buf.String())
		lg.buf.Reset()
	}
}
