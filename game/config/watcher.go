package config

import (
	"context"
	"log"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/wricardo/explorer-quest/game/engine"
)

// DefaultReloadDelay coalesces the burst of events an editor save produces
const DefaultReloadDelay = 200 * time.Millisecond

// Watcher reloads the manager's level cache when level files change on disk
type Watcher struct {
	manager  *Manager
	watcher  *fsnotify.Watcher
	delay    time.Duration
	onReload func()
}

// NewWatcher watches the manager's level directory
func NewWatcher(m *Manager) (*Watcher, error) {
	if m.LevelDir() == "" {
		return nil, ErrNoLevelDir
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(m.LevelDir()); err != nil {
		_ = w.Close()
		return nil, err
	}

	return &Watcher{manager: m, watcher: w, delay: DefaultReloadDelay}, nil
}

// OnReload registers a callback run after every successful reload
func (w *Watcher) OnReload(fn func()) {
	w.onReload = fn
}

// Run processes file events until ctx is done, then closes the watcher
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.delay)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			if !pending {
				timer.Reset(w.delay)
				pending = true
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[LEVELS] watch error: %v", err)
		case <-timer.C:
			pending = false
			if err := w.manager.RefreshCache(); err != nil {
				log.Printf("[LEVELS] reload failed: %v", err)
				continue
			}
			log.Printf("[LEVELS] reloaded levels from %s", w.manager.LevelDir())
			if w.onReload != nil {
				w.onReload()
			}
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	return engine.FormatFromPath(event.Name) != ""
}
