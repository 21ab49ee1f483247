package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/vvka-141/webshot/pkg/webshot"
)

// mockCapturer replays results in order; the last entry repeats.
type mockCapturer struct {
	mu      sync.Mutex
	results []captureResult
	calls   int
}

type captureResult struct {
	path  string
	err   error
	panic any
}

func (m *mockCapturer) Capture(_ context.Context, _ webshot.CaptureOptions) (string, error) {
	m.mu.Lock()
	idx := m.calls
	m.calls++
	if idx >= len(m.results) {
		idx = len(m.results) - 1
	}
	r := m.results[idx]
	m.mu.Unlock()

	if r.panic != nil {
		panic(r.panic)
	}
	return r.path, r.err
}

func (m *mockCapturer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type recordingLogger struct {
	mu      sync.Mutex
	verbose []string
}

func (l *recordingLogger) Verbose(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = append(l.verbose, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Info(format string, args ...interface{})  {}
func (l *recordingLogger) Error(format string, args ...interface{}) {}
