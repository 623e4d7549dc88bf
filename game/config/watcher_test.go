package config

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWatcherRequiresDirectory(t *testing.T) {
	m, _ := NewManager("")
	if _, err := NewWatcher(m); !errors.Is(err, ErrNoLevelDir) {
		t.Errorf("Expected ErrNoLevelDir, got %v", err)
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(m)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	w.delay = 20 * time.Millisecond

	reloaded := make(chan struct{}, 4)
	w.OnReload(func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	writeFile(t, dir, "meadow.yaml", meadowYAML)

	// a create and a write may arrive as separate reloads; wait for the one
	// that sees the complete file
	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-reloaded:
		case <-deadline:
			t.Fatal("Timed out waiting for reload")
		}
		if _, err := m.LoadLevel("meadow"); err == nil {
			break
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Error("Run did not stop after cancel")
	}
}
