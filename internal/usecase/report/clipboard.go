package report

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// ClipboardWriter はクリップボードへの書き込みを行うインターフェースです
type ClipboardWriter interface {
	WriteAll(text string) error
}

// SystemClipboard は OS のクリップボードを使います
type SystemClipboard struct{}

// WriteAll はテキストをクリップボードに書き込みます
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not available on this system")
	}
	return clipboard.WriteAll(text)
}
