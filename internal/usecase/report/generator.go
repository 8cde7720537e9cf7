// Package report はレポート生成機能を提供します
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	OutputFilePrefix = "folder_structure_"
	OutputFileSuffix = ".txt"
	TimestampLayout  = "20060102_150405"
	SeparatorWidth   = 60
)

// Generator はレポートファイルの名前とヘッダーを扱います
type Generator struct{}

// NewGenerator は新しい Generator インスタンスを作成します
func NewGenerator() *Generator {
	return &Generator{}
}

// FileName はルートと日時からレポートのファイル名を作ります
func (g *Generator) FileName(root string, t time.Time) string {
	return fmt.Sprintf("%s%s_%s%s", OutputFilePrefix, RootName(root), t.Format(TimestampLayout), OutputFileSuffix)
}

// CreateOutputFile は出力ファイルを作成します
func (g *Generator) CreateOutputFile(outputDir, root string, t time.Time) (*os.File, string, error) {
	if outputDir == "" {
		outputDir = "."
	}
	outputPath := filepath.Join(outputDir, g.FileName(root, t))

	outputFile, err := os.Create(outputPath)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to create output file: %v", ErrWriteReport, err)
	}

	return outputFile, outputPath, nil
}

// WriteHeader はレポートのヘッダーを書き込みます
func (g *Generator) WriteHeader(w io.Writer, root string, t time.Time) error {
	_, err := fmt.Fprintf(w, "Folder structure of: %s\nGenerated on: %s\n%s\n\n",
		root, FormatTimestamp(t), strings.Repeat("=", SeparatorWidth))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteReport, err)
	}
	return nil
}
