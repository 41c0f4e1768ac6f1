package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	b, err := NewBase(dir)
	if err != nil {
		t.Fatalf("NewBase failed: %v", err)
	}

	w, err := NewWatcher(b)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	w.debounceDur = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	override := `
domain: visa
preferred_default: hot
entries:
  - key: hot
    name: Hot Reloaded Visa
    timeline: 1 week
`
	if err := os.WriteFile(filepath.Join(dir, "visa.yaml"), []byte(override), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if b.Snapshot(DomainVisa).Has("hot") {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatalf("watcher did not reload within deadline (stats: %+v)", w.Stats())
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	b, err := NewBase(t.TempDir())
	if err != nil {
		t.Fatalf("NewBase failed: %v", err)
	}
	w, err := NewWatcher(b)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	w.Stop()
	w.Stop() // second call must not panic or block
}
