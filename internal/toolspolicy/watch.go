package toolspolicy

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher hot-reloads an agent's tools.json whenever it changes on
// disk, re-validating before swapping the FileStore's cached snapshot.
// Grounded in the teacher's broad use of fsnotify for workspace/config
// watching.
type Watcher struct {
	store   *FileStore
	fsw     *fsnotify.Watcher
	logger  *slog.Logger
	mu      sync.Mutex
	watched map[string]bool
	done    chan struct{}
}

func NewWatcher(store *FileStore, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	w := &Watcher{store: store, fsw: fsw, logger: logger, watched: map[string]bool{}, done: make(chan struct{})}
	go w.run()
	return w, nil
}

// Watch starts watching agentID's tools directory for changes. Safe to
// call repeatedly; a second call for the same agent is a no-op.
func (w *Watcher) Watch(agentID string) error {
	dir := filepath.Dir(w.store.path(agentID))
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watched[agentID] {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return err
	}
	w.watched[agentID] = true
	return nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Base(event.Name) != "tools.json" {
				continue
			}
			w.reload(event.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("tools policy watcher error", "error", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload(path string) {
	agentID := filepath.Base(filepath.Dir(filepath.Dir(path)))
	if _, err := w.store.Load(agentID); err != nil {
		w.logger.Warn("tools policy reload failed, keeping previous snapshot", "agent", agentID, "error", err)
	}
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
