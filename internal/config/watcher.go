package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher watches the rules resource file for changes and invokes onChange
// when it is written or replaced, so the Rule Engine can hot-reload without
// a process restart.
type Watcher struct {
	fsw *fsnotify.Watcher
	done chan struct{}
}

// NewWatcher starts watching path's containing directory (so editors that
// replace the file via rename-into-place are still observed) and fires
// onChange for any create/write event matching path's base name.
func NewWatcher(path string, onChange func()) (*Watcher, error) {
	if path == "" {
		return nil, nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{fsw: fsw, done: make(chan struct{})}
	go func() {
		for {
			select {
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != base {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					onChange()
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("config watcher error")
			case <-w.done:
				return
			}
		}
	}()

	return w, nil
}

// Stop ends the watch goroutine and releases the underlying fsnotify watcher.
func (w *Watcher) Stop() {
	if w == nil {
		return
	}
	close(w.done)
	if w.fsw != nil {
		w.fsw.Close()
	}
}
