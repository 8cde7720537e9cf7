package report

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"ScanFold/internal/domain/model"
	"ScanFold/internal/infrastructure/filesystem"
	"ScanFold/internal/infrastructure/logging"
)

const (
	// DisplayTimeLayout はレポート内の日時の書式です
	DisplayTimeLayout = "2006-01-02 15:04:05"
	// RootFallbackName はベース名を持たないルートの表示名です
	RootFallbackName = "root"

	indentUnit   = "  "
	folderPrefix = "[FOLDER] "
)

// ErrWriteReport はレポートの出力先に書き込めない場合のエラーです
var ErrWriteReport = errors.New("cannot write report")

// MetadataSource はエントリのメタデータを取得するインターフェースです
type MetadataSource interface {
	Read(path string) model.EntryMetadata
}

// TreeRenderer はディレクトリツリーを深さ優先で走査し、行を出力します。
// 走査ごとの状態は持たないため、複数のリクエストで共有できます
type TreeRenderer struct {
	lister   filesystem.DirectoryLister
	metadata MetadataSource
	logger   logging.Logger
}

// NewTreeRenderer は新しい TreeRenderer インスタンスを作成します
func NewTreeRenderer(lister filesystem.DirectoryLister, metadata MetadataSource, logger logging.Logger) *TreeRenderer {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &TreeRenderer{
		lister:   lister,
		metadata: metadata,
		logger:   logger,
	}
}

// Render はレポート本文を sink に1行ずつ書き込みます
func (r *TreeRenderer) Render(ctx context.Context, req model.ScanRequest, sink io.Writer) (model.ScanResult, error) {
	w := bufio.NewWriter(sink)
	result, err := r.walk(ctx, req, func(line string) error {
		if _, err := w.WriteString(line); err != nil {
			return err
		}
		return w.WriteByte('\n')
	})
	if err != nil {
		return result, err
	}
	if err := w.Flush(); err != nil {
		return result, fmt.Errorf("%w: %v", ErrWriteReport, err)
	}
	return result, nil
}

// Lines はレポート本文を行のスライスとして返します
func (r *TreeRenderer) Lines(ctx context.Context, req model.ScanRequest) ([]string, model.ScanResult, error) {
	var lines []string
	result, err := r.walk(ctx, req, func(line string) error {
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		return nil, result, err
	}
	return lines, result, nil
}

// walk は明示的なスタックで前順走査を行います。ディレクトリごとに
// 見出し行、直下のファイル行、空行の順に出力します
func (r *TreeRenderer) walk(ctx context.Context, req model.ScanRequest, emit func(string) error) (model.ScanResult, error) {
	var result model.ScanResult

	if err := r.lister.ValidateDirectoryPath(req.Root); err != nil {
		if !errors.Is(err, model.ErrInvalidRoot) {
			err = fmt.Errorf("%w: %v", model.ErrInvalidRoot, err)
		}
		return result, err
	}

	write := func(line string) error {
		if err := emit(line); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteReport, err)
		}
		result.Lines++
		return nil
	}

	stack := []model.DirectoryEntry{{
		Path:  req.Root,
		Name:  RootName(req.Root),
		Kind:  model.KindDirectory,
		Depth: 0,
	}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		result.Directories++

		if err := write(r.directoryLine(dir, req.IncludeDetails)); err != nil {
			return result, err
		}

		children, err := r.lister.ListDirectory(dir.Path)
		if err != nil {
			result.SoftFailures = append(result.SoftFailures, model.SoftFailure{Path: dir.Path, Err: err})
			children = nil
		}

		var subdirs []model.DirectoryEntry
		for _, child := range children {
			entry := model.DirectoryEntry{
				Path:  filepath.Join(dir.Path, child.Name),
				Name:  child.Name,
				Kind:  model.KindFile,
				Depth: dir.Depth + 1,
			}
			if child.IsDir {
				entry.Kind = model.KindDirectory
				subdirs = append(subdirs, entry)
				continue
			}
			result.Files++
			if err := write(r.fileLine(entry, req.IncludeDetails)); err != nil {
				return result, err
			}
		}

		if err := write(""); err != nil {
			return result, err
		}

		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}

	if len(result.SoftFailures) > 0 {
		r.logger.Log(logging.LevelWarn, fmt.Sprintf("%d directories could not be listed under '%s'", len(result.SoftFailures), req.Root), nil)
	}

	return result, nil
}

func (r *TreeRenderer) directoryLine(dir model.DirectoryEntry, details bool) string {
	indent := Indent(dir.Depth)
	if !details {
		return indent + dir.Name + "/"
	}
	meta := r.metadata.Read(dir.Path)
	if !meta.Available {
		return indent + folderPrefix + dir.Name
	}
	return indent + folderPrefix + dir.Name + detailSuffix(meta)
}

func (r *TreeRenderer) fileLine(file model.DirectoryEntry, details bool) string {
	indent := Indent(file.Depth)
	if !details {
		return indent + file.Name
	}
	meta := r.metadata.Read(file.Path)
	if !meta.Available {
		return indent + file.Name
	}
	return indent + file.Name + detailSuffix(meta)
}

func detailSuffix(meta model.EntryMetadata) string {
	return fmt.Sprintf(" (size: %d bytes, modified: %s)", meta.Size, FormatTimestamp(meta.ModTime))
}

// Indent は深さに応じたインデントを返します
func Indent(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat(indentUnit, depth)
}

// FormatTimestamp はローカル時刻で日時を整形します
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(DisplayTimeLayout)
}

// RootName はルートの表示名を返します。"." は絶対パスから解決し、
// ベース名を持たないパス（ファイルシステムのルート等）は RootFallbackName になります
func RootName(root string) string {
	cleaned := filepath.Clean(strings.TrimSpace(root))
	base := filepath.Base(cleaned)
	if base == "." || base == ".." {
		if abs, err := filepath.Abs(cleaned); err == nil {
			base = filepath.Base(abs)
		}
	}
	switch {
	case base == "", base == ".", base == "..", base == "/", base == string(filepath.Separator):
		return RootFallbackName
	case strings.HasSuffix(base, ":"):
		return RootFallbackName
	}
	return base
}
