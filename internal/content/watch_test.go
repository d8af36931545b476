package content

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatchSeedReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.yaml")
	if err := os.WriteFile(path, []byte("skills:\n  - {name: Go, icon: fa-golang}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu     sync.Mutex
		loaded []*Seed
	)
	done := make(chan error, 1)
	go func() {
		done <- WatchSeed(ctx, path, logger, func(s *Seed) error {
			mu.Lock()
			defer mu.Unlock()
			loaded = append(loaded, s)
			return nil
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)

	// An invalid file is skipped.
	if err := os.WriteFile(path, []byte("skills:\n  - {name: Go}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(400 * time.Millisecond)

	if err := os.WriteFile(path, []byte("skills:\n  - {name: Go, icon: fa-golang}\n  - {name: SQL, icon: fa-database}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	eventually(t, 3*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(loaded) > 0 && len(loaded[len(loaded)-1].Skills) == 2
	}, "seed was not reloaded")

	// Unrelated files in the same directory are ignored.
	mu.Lock()
	before := len(loaded)
	mu.Unlock()
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(400 * time.Millisecond)
	mu.Lock()
	if len(loaded) != before {
		t.Errorf("reloads after unrelated write = %d, want %d", len(loaded), before)
	}
	mu.Unlock()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WatchSeed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
