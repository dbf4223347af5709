package lens

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/flarebyte/fencerun/internal/logging"
)

// Source recomputes the lens list.
type Source func() ([]Lens, error)

// Update is one recomputation result.
type Update struct {
	Lenses []Lens
	Err    error
}

// Watcher recomputes lenses whenever one of its files is written, created
// or renamed over. Parent directories are watched, not the files, so
// editors that save via rename are seen.
type Watcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	source  Source
	updates chan Update
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	mu      sync.Mutex
}

// NewWatcher watches paths and recomputes with source.
func NewWatcher(source Source, paths ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	files := map[string]bool{}
	dirs := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			w.Close()
			return nil, err
		}
		files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			w.Close()
			return nil, err
		}
	}
	return &Watcher{
		watcher: w,
		files:   files,
		source:  source,
		updates: make(chan Update, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Updates delivers the initial lens list, then one list per change. It is
// closed after Stop.
func (w *Watcher) Updates() <-chan Update { return w.updates }

// Start begins watching.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.started || w.stopped {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()
	go w.run()
}

// Stop ends watching and waits for the loop to exit. It is safe to call
// more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	started := w.started
	w.mu.Unlock()

	close(w.stopCh)
	if started {
		<-w.doneCh
	} else {
		close(w.updates)
	}
	w.watcher.Close()
}

func (w *Watcher) run() {
	defer close(w.doneCh)
	defer close(w.updates)

	if !w.emit() {
		return
	}
	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.files[filepath.Clean(ev.Name)] {
				continue
			}
			logging.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("document changed")
			if !w.emit() {
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Error().Err(err).Msg("lens watcher error")
		}
	}
}

// emit recomputes and delivers; it returns false once stopped.
func (w *Watcher) emit() bool {
	lenses, err := w.source()
	select {
	case w.updates <- Update{Lenses: lenses, Err: err}:
		return true
	case <-w.stopCh:
		return false
	}
}
