package supervisor

import (
	"strings"
	"sync"

	"github.com/flarebyte/fencerun/internal/sink"
)

// streamWriter forwards every chunk to the sink as it arrives and keeps a
// copy for the outcome.
type streamWriter struct {
	sink   sink.Sink
	prefix string

	mu  sync.Mutex
	buf strings.Builder
}

func (w *streamWriter) Write(p []byte) (int, error) {
	s := string(p)
	w.mu.Lock()
	w.buf.WriteString(s)
	w.mu.Unlock()
	w.sink.Append(w.prefix + s)
	return len(p), nil
}

func (w *streamWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}
