// Package filesystem はファイルシステム操作を提供します
package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"ScanFold/internal/domain/model"
	"ScanFold/internal/infrastructure/logging"
)

// DirectoryValidator はディレクトリの検証機能を提供するインターフェースです
type DirectoryValidator interface {
	ValidateDirectoryPath(path string) error
}

// DirectoryLister はディレクトリ直下の要素を列挙するインターフェースです
type DirectoryLister interface {
	DirectoryValidator
	ListDirectory(dir string) ([]Child, error)
}

// Child はディレクトリ直下の1要素です
type Child struct {
	Name  string
	IsDir bool
}

// Scanner はファイルシステムを読み取るための構造体です
type Scanner struct {
	logger  logging.Logger
	readDir func(name string) ([]fs.DirEntry, error)
}

// NewScanner は新しい Scanner インスタンスを作成します
func NewScanner(logger logging.Logger) *Scanner {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Scanner{
		logger:  logger,
		readDir: os.ReadDir,
	}
}

// ValidateDirectoryPath はパスが存在するディレクトリであることを確認します。
// 相対パスも受け付けます
func (s *Scanner) ValidateDirectoryPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: no directory path given", model.ErrInvalidRoot)
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s does not exist: %v", model.ErrInvalidRoot, path, err)
	}

	if !fileInfo.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", model.ErrInvalidRoot, path)
	}

	return nil
}

// ListDirectory はディレクトリ直下の要素を名前順で返します。
// シンボリックリンクはリンク先に関係なくディレクトリとして扱いません
func (s *Scanner) ListDirectory(dir string) ([]Child, error) {
	entries, err := s.readDir(dir)
	if err != nil {
		s.logger.Log(logging.LevelWarn, fmt.Sprintf("failed to list directory '%s'", dir), err)
		return nil, fmt.Errorf("failed to list directory %s: %w", dir, err)
	}

	// os.ReadDir はファイル名順に並べて返す
	children := make([]Child, 0, len(entries))
	for _, entry := range entries {
		children = append(children, Child{
			Name:  entry.Name(),
			IsDir: entry.IsDir(),
		})
	}
	return children, nil
}
