package registry

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"modelhost/internal/common/fsutil"
)

const defaultWatchDebounce = 500 * time.Millisecond

// Watcher triggers a callback when entries are added to, removed from, or
// renamed inside the models directory. Bursts of events (a large model being
// copied in) collapse into one callback after the debounce interval.
type Watcher struct {
	dir      string
	debounce time.Duration
	onChange func()
	log      zerolog.Logger
	watcher  *fsnotify.Watcher
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewWatcher creates a watcher for dir. A debounce <= 0 uses the default.
func NewWatcher(dir string, debounce time.Duration, onChange func(), log zerolog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{dir: dir, debounce: debounce, onChange: onChange, log: log, ctx: ctx, cancel: cancel, done: make(chan struct{})}
}

// Start begins watching. It fails if the directory cannot be watched.
func (w *Watcher) Start() error {
	abs, err := fsutil.ResolveDir(w.dir)
	if err != nil {
		return err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(abs); err != nil {
		_ = fw.Close()
		return err
	}
	w.watcher = fw
	w.log.Info().Str("dir", abs).Dur("debounce", w.debounce).Msg("models watcher started")
	go w.watch()
	return nil
}

// Stop stops watching and waits for the loop to exit.
func (w *Watcher) Stop() error {
	w.cancel()
	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) watch() {
	defer close(w.done)
	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-w.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// Writes inside an existing file do not change the catalog.
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("models dir change")
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			timerC = timer.C
		case <-timerC:
			timerC = nil
			w.onChange()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("models watcher error")
		}
	}
}
