package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"ScanFold/internal/domain/model"
	"ScanFold/internal/infrastructure/logging"
)

// Options はレポートの出力先を指定します
type Options struct {
	// OutputDir はレポートファイルを保存するディレクトリです
	OutputDir string
	// PDF はテキストと同名の PDF も作成するかどうかを示します
	PDF bool
	// Clipboard はレポートをクリップボードにもコピーするかどうかを示します
	Clipboard bool
}

// Report は生成したレポートの情報です
type Report struct {
	Root        string
	Path        string
	PDFPath     string
	GeneratedAt time.Time
	CompletedAt time.Time
	Copied      bool
	Result      model.ScanResult
}

// Service はスキャンからレポート出力までをまとめて実行します
type Service struct {
	renderer  *TreeRenderer
	generator *Generator
	logger    logging.Logger
	clipboard ClipboardWriter
	pdf       PDFWriter
	now       func() time.Time
}

// NewService は新しい Service インスタンスを作成します
func NewService(renderer *TreeRenderer, generator *Generator, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Service{
		renderer:  renderer,
		generator: generator,
		logger:    logger,
		clipboard: SystemClipboard{},
		pdf:       PDFExporter{},
		now:       time.Now,
	}
}

// SetClipboard はクリップボードの実装を差し替えます
func (s *Service) SetClipboard(c ClipboardWriter) {
	s.clipboard = c
}

// SetPDFWriter は PDF 出力の実装を差し替えます
func (s *Service) SetPDFWriter(p PDFWriter) {
	s.pdf = p
}

// Validate はルートがスキャン可能なディレクトリであることを確認します
func (s *Service) Validate(root string) error {
	return s.renderer.lister.ValidateDirectoryPath(strings.TrimSpace(root))
}

// Generate はレポートを作成してファイルに保存します。
// ファイル名の日時はスキャン完了時点のものです
func (s *Service) Generate(ctx context.Context, req model.ScanRequest, opts Options) (*Report, error) {
	req.Root = strings.TrimSpace(req.Root)
	if err := s.Validate(req.Root); err != nil {
		s.logger.Log(logging.LevelError, "invalid scan root", err)
		return nil, err
	}

	started := s.now()
	var buf bytes.Buffer
	if err := s.generator.WriteHeader(&buf, req.Root, started); err != nil {
		return nil, err
	}

	result, err := s.renderer.Render(ctx, req, &buf)
	if err != nil {
		s.logger.Log(logging.LevelError, fmt.Sprintf("scan of '%s' failed", req.Root), err)
		return nil, err
	}
	completed := s.now()

	outputFile, outputPath, err := s.generator.CreateOutputFile(opts.OutputDir, req.Root, completed)
	if err != nil {
		s.logger.Log(logging.LevelError, "failed to create report file", err)
		return nil, err
	}
	if _, err := outputFile.Write(buf.Bytes()); err != nil {
		outputFile.Close()
		s.logger.Log(logging.LevelError, "failed to write report file", err)
		return nil, fmt.Errorf("%w: %v", ErrWriteReport, err)
	}
	if err := outputFile.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteReport, err)
	}

	report := &Report{
		Root:        req.Root,
		Path:        outputPath,
		GeneratedAt: started,
		CompletedAt: completed,
		Result:      result,
	}

	if opts.PDF {
		pdfPath := strings.TrimSuffix(outputPath, OutputFileSuffix) + ".pdf"
		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		if err := s.pdf.WritePDF(pdfPath, "Folder structure of "+req.Root, lines); err != nil {
			s.logger.Log(logging.LevelError, "failed to write pdf report", err)
			return report, err
		}
		report.PDFPath = pdfPath
	}

	if opts.Clipboard {
		if err := s.clipboard.WriteAll(buf.String()); err != nil {
			s.logger.Log(logging.LevelWarn, "failed to copy report to clipboard", err)
		} else {
			report.Copied = true
		}
	}

	s.logger.Log(logging.LevelInfo, fmt.Sprintf("report saved to %s (%s, %d directories, %d files)",
		outputPath, result.Outcome(), result.Directories, result.Files), nil)
	return report, nil
}

// Stream はヘッダーと本文を w に直接書き込みます。ファイルは作成しません
func (s *Service) Stream(ctx context.Context, req model.ScanRequest, w io.Writer) (*Report, error) {
	req.Root = strings.TrimSpace(req.Root)
	if err := s.Validate(req.Root); err != nil {
		return nil, err
	}

	started := s.now()
	if err := s.generator.WriteHeader(w, req.Root, started); err != nil {
		return nil, err
	}
	result, err := s.renderer.Render(ctx, req, w)
	if err != nil {
		s.logger.Log(logging.LevelError, fmt.Sprintf("scan of '%s' failed", req.Root), err)
		return nil, err
	}

	return &Report{
		Root:        req.Root,
		GeneratedAt: started,
		CompletedAt: s.now(),
		Result:      result,
	}, nil
}
