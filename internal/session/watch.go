package session

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"coinfixi/internal/logging"
)

// Watch reloads s whenever the session file changes on disk, for example
// when `fixi login` runs in another terminal. onChange runs after each
// reload. Watch blocks until ctx is done.
func (st *Store) Watch(ctx context.Context, s *Session, onChange func(*Session)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory: Save replaces the file by rename.
	dir := filepath.Dir(st.path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	log := logging.Get(logging.CategorySession)
	target := filepath.Clean(st.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if err := st.loadInto(s); err != nil {
				log.Warnw("session reload failed", "error", err)
				continue
			}
			log.Debugw("session reloaded", "op", ev.Op.String())
			if onChange != nil {
				onChange(s)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warnw("session watch error", "error", err)
		}
	}
}
