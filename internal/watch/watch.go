// Package watch reports when a trace file changes on disk, so a viewer can
// follow a simulation that is still writing its output.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of writes a simulator makes per frame.
const DefaultDebounce = 200 * time.Millisecond

// Watcher sends the watched path on Events after the file was written or
// replaced and then stayed quiet for the debounce period.
type Watcher struct {
	fw       *fsnotify.Watcher
	path     string
	debounce time.Duration
	events   chan string
	errors   chan error
	done     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
	closeErr error
}

// New watches path's directory, so editors and writers that replace the file
// by rename are still seen.
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		fw:       fw,
		path:     abs,
		debounce: debounce,
		events:   make(chan string, 1),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run(path)
	return w, nil
}

// Events delivers the path as given to New. Pending events coalesce.
func (w *Watcher) Events() <-chan string { return w.events }

func (w *Watcher) Errors() <-chan error { return w.errors }

// Close stops watching and closes Events and Errors. It is safe to call
// more than once.
func (w *Watcher) Close() error {
	w.once.Do(func() {
		close(w.done)
		w.closeErr = w.fw.Close()
		w.wg.Wait()
		close(w.events)
		close(w.errors)
	})
	return w.closeErr
}

func (w *Watcher) run(name string) {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		case <-timer.C:
			select {
			case w.events <- name:
			default:
			}
		}
	}
}
