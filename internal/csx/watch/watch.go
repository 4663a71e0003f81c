// Package watch reports file changes under a directory tree.
package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher forwards write and create events for files under a root
// directory on a channel. Subdirectories present at construction are
// watched, and directories created later are added as they appear.
type Watcher struct {
	fsw     *fsnotify.Watcher
	changed chan string
	errors  chan error
}

// New watches root and its subdirectories.
func New(root string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:     fsw,
		changed: make(chan string, 16),
		errors:  make(chan error, 1),
	}
	err = filepath.WalkDir(root, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		fsw.Close()
		return nil, err
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.changed)
	defer close(w.errors)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					_ = w.fsw.Add(event.Name)
					continue
				}
			}
			w.changed <- strings.ReplaceAll(event.Name, `\`, "/")
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.errors <- err
		}
	}
}

// Changed delivers the path of each written or newly created file. It is
// closed after Close.
func (w *Watcher) Changed() <-chan string {
	return w.changed
}

// Errors delivers watcher errors. It is closed after Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}
