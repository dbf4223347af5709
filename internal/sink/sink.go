// Package sink is the append-only output surface a run writes to.
package sink

import (
	"io"
	"strings"
	"sync"
)

// Sink receives run output. Implementations must be safe for concurrent
// use: stdout and stderr chunks of one run, and chunks of concurrent runs,
// arrive from different goroutines.
type Sink interface {
	// Clear empties the surface, if it can.
	Clear()
	// Show brings the surface to the front, if it can.
	Show()
	Append(text string)
	AppendLine(text string)
}

// Writer adapts an io.Writer. Clear and Show are no-ops.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

func (s *Writer) Clear() {}
func (s *Writer) Show()  {}

func (s *Writer) Append(text string) {
	s.mu.Lock()
	_, _ = io.WriteString(s.w, text)
	s.mu.Unlock()
}

func (s *Writer) AppendLine(text string) { s.Append(text + "\n") }

// Buffer keeps everything in memory.
type Buffer struct {
	mu    sync.Mutex
	b     strings.Builder
	shown int
}

func (s *Buffer) Clear() {
	s.mu.Lock()
	s.b.Reset()
	s.mu.Unlock()
}

func (s *Buffer) Show() {
	s.mu.Lock()
	s.shown++
	s.mu.Unlock()
}

func (s *Buffer) Append(text string) {
	s.mu.Lock()
	s.b.WriteString(text)
	s.mu.Unlock()
}

func (s *Buffer) AppendLine(text string) { s.Append(text + "\n") }

// String returns the current content.
func (s *Buffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

// Shown reports how many times Show was called.
func (s *Buffer) Shown() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shown
}

// Discard drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Clear()            {}
func (discard) Show()             {}
func (discard) Append(string)     {}
func (discard) AppendLine(string) {}
