package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"ScanFold/internal/usecase/report"
)

// ScanFunc はスキャンを実行する関数です
type ScanFunc func(ctx context.Context) (*report.Report, error)

type scanDoneMsg struct {
	report *report.Report
	err    error
}

// progressModel はスキャン完了までスピナーを表示する bubbletea のモデルです
type progressModel struct {
	spinner     spinner.Model
	root        string
	ctx         context.Context
	cancel      context.CancelFunc
	scan        ScanFunc
	done        bool
	interrupted bool
	report      *report.Report
	err         error
}

func newProgressModel(ctx context.Context, root string, scan ScanFunc) progressModel {
	ctx, cancel := context.WithCancel(ctx)
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return progressModel{
		spinner: s,
		root:    root,
		ctx:     ctx,
		cancel:  cancel,
		scan:    scan,
	}
}

func (m progressModel) runScan() tea.Msg {
	r, err := m.scan(m.ctx)
	return scanDoneMsg{report: r, err: err}
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runScan)
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scanDoneMsg:
		m.done = true
		m.report = msg.report
		m.err = msg.err
		m.cancel()
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			// スキャンはディレクトリの境界で中断され、scanDoneMsg が届く
			m.interrupted = true
			m.cancel()
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	if m.interrupted {
		return fmt.Sprintf("%s Stopping scan of %s...\n", m.spinner.View(), m.root)
	}
	return fmt.Sprintf("%s Scanning %s...\n", m.spinner.View(), m.root)
}

// RunWithSpinner はスキャンを別の goroutine で実行し、完了まで out にスピナーを表示します
func RunWithSpinner(ctx context.Context, root string, out io.Writer, scan ScanFunc) (*report.Report, error) {
	program := tea.NewProgram(newProgressModel(ctx, root, scan), tea.WithOutput(out))
	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("progress display failed: %w", err)
	}
	m, ok := final.(progressModel)
	if !ok {
		return nil, fmt.Errorf("unexpected progress model %T", final)
	}
	return m.report, m.err
}
