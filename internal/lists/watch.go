package lists

import (
	"context"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// ChangeOp is the kind of change seen on a list file.
type ChangeOp string

const (
	ListCreated  ChangeOp = "created"
	ListModified ChangeOp = "modified"
	ListRemoved  ChangeOp = "removed"
)

// Change describes one list file changing on disk.
type Change struct {
	List string   `json:"list"`
	Op   ChangeOp `json:"op"`
}

// Watcher reports changes to the lists directory.
type Watcher struct {
	watcher *fsnotify.Watcher
	dir     string
}

// NewWatcher creates a watcher for dir. Call Watch to start receiving changes.
func NewWatcher(dir string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{watcher: w, dir: dir}, nil
}

// Watch starts monitoring the directory. The channel closes when ctx is done
// or the watcher is stopped.
func (w *Watcher) Watch(ctx context.Context) (<-chan Change, error) {
	if err := w.watcher.Add(w.dir); err != nil {
		return nil, err
	}

	changes := make(chan Change, 16)

	go func() {
		defer close(changes)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}

				var op ChangeOp
				switch {
				case event.Op&fsnotify.Create == fsnotify.Create:
					op = ListCreated
				case event.Op&fsnotify.Write == fsnotify.Write:
					op = ListModified
				case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
					op = ListRemoved
				default:
					continue
				}

				select {
				case changes <- Change{List: filepath.Base(event.Name), Op: op}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				log.Printf("Warning: lists watcher: %v", err)
			}
		}
	}()

	return changes, nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}
