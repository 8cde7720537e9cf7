// Package ui はユーザーインターフェース機能を提供します
package ui

import (
	"errors"
	"fmt"

	"github.com/sqweek/dialog"

	"ScanFold/internal/infrastructure/filesystem"
)

// ErrCancelled はユーザーが選択を取り消した場合のエラーです
var ErrCancelled = errors.New("selection cancelled")

// DirectorySelector はネイティブのダイアログでディレクトリを選択します
type DirectorySelector struct {
	// validator はディレクトリパスの検証を行うインターフェースです
	validator filesystem.DirectoryValidator
	browse    func(title string) (string, error)
}

// NewDirectorySelector は新しい DirectorySelector インスタンスを作成します
func NewDirectorySelector(validator filesystem.DirectoryValidator) *DirectorySelector {
	return &DirectorySelector{
		validator: validator,
		browse: func(title string) (string, error) {
			return dialog.Directory().Title(title).Browse()
		},
	}
}

// SelectDirectory はダイアログを表示してディレクトリを選択します
func (d *DirectorySelector) SelectDirectory(title string) (string, error) {
	selectedDir, err := d.browse(title)
	if errors.Is(err, dialog.ErrCancelled) {
		return "", ErrCancelled
	}
	if err != nil {
		return "", fmt.Errorf("directory dialog failed: %w", err)
	}

	if err := d.validator.ValidateDirectoryPath(selectedDir); err != nil {
		return "", fmt.Errorf("invalid directory selected: %w", err)
	}

	return selectedDir, nil
}
