package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestLogger records JSON log events emitted during a test.
type TestLogger struct {
	*zerolog.Logger
	buf bytes.Buffer
}

// NewTestLogger returns a trace-level logger writing to memory. The global
// level is restored when the test ends.
func NewTestLogger(t testing.TB) *TestLogger {
	t.Helper()

	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	tl := &TestLogger{}
	l := zerolog.New(&tl.buf).Level(zerolog.TraceLevel)
	tl.Logger = &l
	return tl
}

// Output is everything logged so far.
func (tl *TestLogger) Output() string { return tl.buf.String() }

// Lines splits Output into one entry per event.
func (tl *TestLogger) Lines() []string {
	s := strings.TrimSpace(tl.buf.String())
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// AssertContains fails the test unless substr was logged.
func (tl *TestLogger) AssertContains(t testing.TB, substr string) {
	t.Helper()
	if !strings.Contains(tl.Output(), substr) {
		t.Errorf("log output missing %q:\n%s", substr, tl.Output())
	}
}
