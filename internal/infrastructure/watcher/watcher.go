// Package watcher はフォルダツリーの変更を監視します
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"ScanFold/internal/infrastructure/logging"
)

// DefaultDebounce は変更通知をまとめる既定の待ち時間です
const DefaultDebounce = 500 * time.Millisecond

// IgnoreFunc が true を返したパスの変更は無視されます
type IgnoreFunc func(path string) bool

// Watcher はツリー内のすべてのディレクトリを監視し、変更が落ち着いた時点で通知します
type Watcher struct {
	fsw      *fsnotify.Watcher
	logger   logging.Logger
	debounce time.Duration
	ignore   IgnoreFunc
}

// New は新しい Watcher を作成します
func New(debounce time.Duration, ignore IgnoreFunc, logger logging.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if ignore == nil {
		ignore = func(string) bool { return false }
	}
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Watcher{fsw: fsw, logger: logger, debounce: debounce, ignore: ignore}, nil
}

// AddTree は root 以下のディレクトリをすべて監視対象に加えます。
// シンボリックリンクはたどりません
func (w *Watcher) AddTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			w.logger.Log(logging.LevelWarn, fmt.Sprintf("cannot walk '%s'", path), err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Log(logging.LevelWarn, fmt.Sprintf("cannot watch '%s'", path), err)
		}
		return nil
	})
}

// Run は ctx がキャンセルされるまでイベントを処理し、
// 最後の変更から debounce 経過するごとに onChange を呼び出します
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.handleEvent(event) {
				continue
			}
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			pending = true
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Log(logging.LevelWarn, "watcher error", err)
		case <-timer.C:
			pending = false
			onChange()
		}
	}
}

// handleEvent は再生成が必要な変更であれば true を返します
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if w.ignore(event.Name) {
		return false
	}
	if event.Op == fsnotify.Chmod {
		return false
	}
	if event.Has(fsnotify.Create) {
		// 新しいディレクトリも監視する
		if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
			if err := w.AddTree(event.Name); err != nil {
				w.logger.Log(logging.LevelWarn, fmt.Sprintf("cannot watch '%s'", event.Name), err)
			}
		}
	}
	w.logger.Log(logging.LevelDebug, fmt.Sprintf("change detected: %s %s", event.Op, event.Name), nil)
	return true
}

// Close は監視を終了します
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
