// Package gui はGUIを提供します
package gui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"ScanFold/internal/domain/model"
	"ScanFold/internal/infrastructure/logging"
	"ScanFold/internal/usecase/report"
)

// Default window size constants
const (
	DefaultWindowWidth  = 500
	DefaultWindowHeight = 200
	WindowTitle         = "Folder Scanner"
)

// ユーザー向けメッセージ
const (
	msgSelectFolder   = "Please select a folder."
	msgInvalidFolder  = "Selected path is not a valid directory."
	msgScanning       = "Scanning..."
	msgScanFailed     = "Error during scan"
	msgScanCompleteAt = "Scan complete! Saved to:\n%s"
)

// ReportService はGUIから呼び出すレポート生成機能です
type ReportService interface {
	Validate(root string) error
	Generate(ctx context.Context, req model.ScanRequest, opts report.Options) (*report.Report, error)
}

// App はフォルダ選択・詳細オプション・スキャンボタン・進捗表示を持つウィンドウです
type App struct {
	window  fyne.Window
	service ReportService
	options report.Options
	logger  logging.Logger

	pathEntry  *widget.Entry
	details    *widget.Check
	scanButton *widget.Button
	progress   *widget.ProgressBarInfinite
	status     *widget.Label

	wg sync.WaitGroup
}

// NewApp はウィンドウを構築します。表示は Run で行います
func NewApp(a fyne.App, service ReportService, options report.Options, includeDetails bool, logger logging.Logger) *App {
	if logger == nil {
		logger = logging.Nop{}
	}
	g := &App{
		window:  a.NewWindow(WindowTitle),
		service: service,
		options: options,
		logger:  logger,
	}

	g.pathEntry = widget.NewEntry()
	g.pathEntry.SetPlaceHolder("Folder path")
	browse := widget.NewButton("Browse", g.browseFolder)
	g.details = widget.NewCheck("Include file sizes and modification dates", nil)
	g.details.SetChecked(includeDetails)
	g.scanButton = widget.NewButton("Scan and Save", g.startScan)
	g.scanButton.Importance = widget.HighImportance
	g.progress = widget.NewProgressBarInfinite()
	g.progress.Stop()
	g.status = widget.NewLabel("")
	g.status.Wrapping = fyne.TextWrapWord

	g.window.SetContent(container.NewVBox(
		widget.NewLabel("Select folder to scan:"),
		container.NewBorder(nil, nil, nil, browse, g.pathEntry),
		g.details,
		g.scanButton,
		g.progress,
		g.status,
	))
	g.window.Resize(fyne.NewSize(DefaultWindowWidth, DefaultWindowHeight))
	return g
}

// Run はウィンドウを表示し、閉じられるまでイベントループを実行します
func (g *App) Run() {
	g.window.ShowAndRun()
}

// browseFolder はFyneのフォルダダイアログで選択したパスを入力欄に設定します
func (g *App) browseFolder() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(fmt.Errorf("folder selection failed: %w", err), g.window)
			return
		}
		if uri == nil {
			return
		}
		g.pathEntry.SetText(uri.Path())
	}, g.window)
}

// startScan は入力を検証し、スキャンを別の goroutine で実行します
func (g *App) startScan() {
	folder := strings.TrimSpace(g.pathEntry.Text)
	if folder == "" {
		g.showError(errors.New(msgSelectFolder))
		return
	}
	if err := g.service.Validate(folder); err != nil {
		g.logger.Log(logging.LevelWarn, fmt.Sprintf("rejected folder '%s'", folder), err)
		g.showError(errors.New(msgInvalidFolder))
		return
	}

	g.scanButton.Disable()
	g.progress.Start()
	g.status.SetText(msgScanning)

	req := model.NewScanRequest(folder, g.details.Checked)
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		r, err := g.service.Generate(context.Background(), req, g.options)
		g.finishScan(r, err)
	}()
}

func (g *App) finishScan(r *report.Report, err error) {
	g.progress.Stop()
	g.scanButton.Enable()

	if err != nil {
		g.status.SetText(msgScanFailed)
		dialog.ShowError(fmt.Errorf("an error occurred:\n%w", err), g.window)
		return
	}

	msg := fmt.Sprintf(msgScanCompleteAt, r.Path)
	if n := len(r.Result.SoftFailures); n > 0 {
		msg += fmt.Sprintf("\n(%d folders could not be read)", n)
	}
	g.status.SetText(msg)
	dialog.ShowInformation("Success", fmt.Sprintf("Folder structure saved to:\n%s", r.Path), g.window)
}

func (g *App) showError(err error) {
	g.status.SetText(err.Error())
	dialog.ShowError(err, g.window)
}
