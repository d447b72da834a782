// Package file provides a ripple.Watcher backed by fsnotify.
package file

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a file for changes and emits its contents.
//
// The parent directory is watched rather than the file itself, so editors
// that save by writing a temporary file and renaming it over the original are
// picked up. Consecutive identical contents are emitted once.
type Watcher struct {
	path string
}

// New creates a Watcher for the file at path.
func New(path string) *Watcher {
	return &Watcher{path: path}
}

// Watch emits the current contents immediately, then again after every
// write, create or rename that lands on the file.
func (w *Watcher) Watch(ctx context.Context) (<-chan []byte, error) {
	if _, err := os.Stat(w.path); err != nil {
		return nil, fmt.Errorf("failed to stat file %s: %w", w.path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	out := make(chan []byte)
	go w.run(ctx, fsw, out)
	return out, nil
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, out chan<- []byte) {
	defer close(out)
	defer fsw.Close()

	target := filepath.Clean(w.path)
	var last []byte

	emit := func() bool {
		data, err := os.ReadFile(w.path)
		if err != nil {
			// Mid-rename; the next event reads the new file.
			return true
		}
		if last != nil && bytes.Equal(data, last) {
			return true
		}
		last = data
		select {
		case out <- data:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !emit() {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !emit() {
				return
			}

		case _, ok := <-fsw.Errors:
			if !ok {
				return
			}
			// Continue watching despite errors
		}
	}
}
