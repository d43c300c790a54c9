package store

import (
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	zlog "github.com/rs/zerolog/log"
)

const watchCoalesceWindow = 200 * time.Millisecond

// Watcher observes a project directory tree and coalesces raw filesystem
// events into tree-change notifications. New sub-directories are watched as
// they appear, so edits anywhere in the tree are observed.
type Watcher struct {
	projectDir string
	fsWatcher  *fsnotify.Watcher
	changes    chan struct{}

	closeOnce sync.Once
	done      chan struct{}
}

// NewWatcher starts watching projectDir and all directories beneath it.
func NewWatcher(projectDir string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		projectDir: projectDir,
		fsWatcher:  fsWatcher,
		changes:    make(chan struct{}, 1),
		done:       make(chan struct{}),
	}

	if err := w.addRecursive(projectDir); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	go w.run()
	return w, nil
}

// Changes delivers one (possibly coalesced) notification per burst of
// filesystem activity. The channel is never closed while the watcher runs;
// receivers should also select on their own shutdown signal.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsWatcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) run() {
	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Create) {
				// a created directory needs its own watch; ignore the error
				// since the entry may already be gone
				if err := w.addRecursive(event.Name); err != nil {
					zlog.Debug().Err(err).Str("path", event.Name).Msg("Failed to watch new directory")
				}
			}
			if timer == nil {
				timer = time.NewTimer(watchCoalesceWindow)
				timerCh = timer.C
			} else {
				timer.Reset(watchCoalesceWindow)
			}
		case <-timerCh:
			timer = nil
			timerCh = nil
			select {
			case w.changes <- struct{}{}:
			default:
				// a notification is already pending
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			zlog.Warn().Err(err).Str("projectDir", w.projectDir).Msg("Filesystem watcher error")
		}
	}
}
