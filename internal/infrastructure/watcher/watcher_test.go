package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const waitTimeout = 5 * time.Second

func startWatcher(t *testing.T, root string, ignore IgnoreFunc) <-chan struct{} {
	t.Helper()

	w, err := New(50*time.Millisecond, ignore, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.AddTree(root); err != nil {
		t.Fatalf("AddTree() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan struct{}, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx, func() { changes <- struct{}{} })
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		w.Close()
	})
	return changes
}

func waitChange(t *testing.T, changes <-chan struct{}) {
	t.Helper()
	select {
	case <-changes:
	case <-time.After(waitTimeout):
		t.Fatal("no change notification received")
	}
}

func TestWatcher_NotifiesOnChange(t *testing.T) {
	root := t.TempDir()
	changes := startWatcher(t, root, nil)

	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	waitChange(t, changes)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	root := t.TempDir()
	changes := startWatcher(t, root, nil)

	for i := 0; i < 5; i++ {
		name := filepath.Join(root, string(rune('a'+i))+".txt")
		if err := os.WriteFile(name, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	waitChange(t, changes)

	select {
	case <-changes:
		t.Error("a burst of writes should produce a single notification")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	changes := startWatcher(t, root, nil)

	sub := filepath.Join(root, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	waitChange(t, changes)

	if err := os.WriteFile(filepath.Join(sub, "b.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	waitChange(t, changes)
}

func TestWatcher_IgnoredPaths(t *testing.T) {
	root := t.TempDir()
	changes := startWatcher(t, root, func(path string) bool {
		return strings.HasPrefix(filepath.Base(path), "folder_structure_")
	})

	if err := os.WriteFile(filepath.Join(root, "folder_structure_x.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changes:
		t.Error("ignored path should not trigger a notification")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestAddTree_InvalidRoot(t *testing.T) {
	w, err := New(0, nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if err := w.AddTree(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("AddTree() should fail for a missing root")
	}
}
