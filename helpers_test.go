package workflow

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func testRegistry() *MapRegistry {
	return NewMapRegistry(
		Descriptor{Key: "Timer", Label: "Timer"},
		Descriptor{Key: "HttpRequest", Label: "HTTP Request"},
		Descriptor{Key: "Logger", Label: "Logger"},
	)
}

// fixedClock returns the same instant on every call.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestEditor(t *testing.T, opts ...Option) *Editor {
	t.Helper()
	base := []Option{
		WithLogger(log.New(io.Discard)),
		WithClock(fixedClock(time.UnixMilli(1700000000000))),
	}
	return NewEditor(testRegistry(), append(base, opts...)...)
}
