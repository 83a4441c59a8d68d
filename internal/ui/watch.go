package ui

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gravitrone/paramedit/internal/logging"
)

// DefaultWatchDebounce collapses editor save bursts into one reload.
const DefaultWatchDebounce = 300 * time.Millisecond

type recordChangedMsg struct{}

// RecordWatcher reports changes to a record file. The parent directory is
// watched rather than the file, since atomic saves replace the file inode.
type RecordWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	changes chan struct{}
	done    chan struct{}
	once    sync.Once
	logger  *zap.Logger
}

// WatchRecord starts watching path.
func WatchRecord(path string, debounce time.Duration, logger *zap.Logger) (*RecordWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve record path: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch record directory: %w", err)
	}

	w := &RecordWatcher{
		path:    abs,
		watcher: watcher,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
		logger:  logging.OrNop(logger),
	}
	go w.run(debounce)
	return w, nil
}

func (w *RecordWatcher) run(debounce time.Duration) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, w.notify)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("record watcher error", zap.Error(err))
		}
	}
}

func (w *RecordWatcher) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

// Wait returns a command that blocks until the next change. It yields nil
// once the watcher is closed.
func (w *RecordWatcher) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-w.changes:
			return recordChangedMsg{}
		case <-w.done:
			return nil
		}
	}
}

// Close stops the watcher. It is safe to call more than once.
func (w *RecordWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}
