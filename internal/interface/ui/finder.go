package ui

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"

	"ScanFold/internal/infrastructure/filesystem"
)

// DefaultFinderDepth は候補を集める深さの上限です
const DefaultFinderDepth = 4

// DirectoryFinder は端末上のあいまい検索でディレクトリを選択します
type DirectoryFinder struct {
	validator filesystem.DirectoryValidator
	maxDepth  int
	find      func(candidates []string) (int, error)
}

// NewDirectoryFinder は新しい DirectoryFinder インスタンスを作成します
func NewDirectoryFinder(validator filesystem.DirectoryValidator) *DirectoryFinder {
	return &DirectoryFinder{
		validator: validator,
		maxDepth:  DefaultFinderDepth,
		find:      runFuzzyFinder,
	}
}

// Candidates は root 以下のディレクトリを候補として集めます。root 自身も含みます
func (f *DirectoryFinder) Candidates(root string) ([]string, error) {
	var candidates []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// 読めないディレクトリは候補から外して続行する
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if rel != "." && strings.Count(rel, string(filepath.Separator))+1 > f.maxDepth {
			return fs.SkipDir
		}
		candidates = append(candidates, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect directories under %s: %w", root, err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no directories found under %s", root)
	}
	return candidates, nil
}

// SelectDirectory は root 以下から1つのディレクトリを選ばせます
func (f *DirectoryFinder) SelectDirectory(root string) (string, error) {
	candidates, err := f.Candidates(root)
	if err != nil {
		return "", err
	}

	idx, err := f.find(candidates)
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return "", ErrCancelled
	}
	if err != nil {
		return "", fmt.Errorf("fuzzy finder error: %w", err)
	}
	if idx < 0 || idx >= len(candidates) {
		return "", fmt.Errorf("fuzzy finder returned index %d out of range", idx)
	}

	selected := candidates[idx]
	if err := f.validator.ValidateDirectoryPath(selected); err != nil {
		return "", fmt.Errorf("invalid directory selected: %w", err)
	}
	return selected, nil
}

func runFuzzyFinder(candidates []string) (int, error) {
	return fuzzyfinder.Find(
		candidates,
		func(i int) string {
			return candidates[i]
		},
		fuzzyfinder.WithPromptString("scan> "),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Select a directory to scan. Enter to confirm, Esc to abort."
			}
			return previewDirectory(candidates[i], h)
		}),
	)
}

// previewDirectory は直下の要素を最大 limit 行まで表示します
func previewDirectory(path string, limit int) string {
	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Sprintf("Path: %s\nError: %v", path, err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Path: %s\nEntries: %d\n\n", path, len(entries))
	for i, entry := range entries {
		if limit > 0 && i >= limit-3 {
			b.WriteString("...\n")
			break
		}
		name := entry.Name()
		if entry.IsDir() {
			name += "/"
		}
		b.WriteString(name + "\n")
	}
	return b.String()
}
