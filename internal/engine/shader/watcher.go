package shader

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/ssrview/internal/logger"
)

// Watcher reports shader source files that changed on disk.
// Events are delivered on Changes and consumed on the render thread.
type Watcher struct {
	watcher *fsnotify.Watcher
	changes chan string
	done    chan struct{}
	wg      sync.WaitGroup
}

// IsSource reports whether a file name looks like a shader stage source.
func IsSource(name string) bool {
	switch filepath.Ext(name) {
	case ".vert", ".frag", ".glsl":
		return true
	}
	return false
}

// Watch starts watching dir for shader source changes.
func Watch(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &Watcher{
		watcher: fw,
		changes: make(chan string, 16),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()

	logger.Info("watching shaders", zap.String("dir", dir))
	return w, nil
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Base(event.Name)
			if !IsSource(name) {
				continue
			}
			select {
			case w.changes <- name:
			default:
				// Reader is behind; it will pick up the latest source anyway.
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("shader watcher error", zap.Error(err))
		}
	}
}

// Changes delivers base names of modified shader files.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
