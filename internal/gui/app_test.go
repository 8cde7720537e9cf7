package gui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"

	"ScanFold/internal/domain/model"
	"ScanFold/internal/usecase/report"
)

type mockService struct {
	validateError error
	generateError error
	report        *report.Report
	requests      []model.ScanRequest
}

func (m *mockService) Validate(root string) error {
	return m.validateError
}

func (m *mockService) Generate(ctx context.Context, req model.ScanRequest, opts report.Options) (*report.Report, error) {
	m.requests = append(m.requests, req)
	return m.report, m.generateError
}

func TestApp_StartScan(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		details       bool
		service       *mockService
		wantStatus    string
		wantGenerated bool
	}{
		{
			name:       "フォルダ未選択",
			path:       "  ",
			service:    &mockService{},
			wantStatus: msgSelectFolder,
		},
		{
			name:       "無効なフォルダ",
			path:       "/data/file.txt",
			service:    &mockService{validateError: model.ErrInvalidRoot},
			wantStatus: msgInvalidFolder,
		},
		{
			name:          "スキャン成功",
			path:          "/data/T",
			details:       true,
			service:       &mockService{report: &report.Report{Path: "/out/folder_structure_T_20240101_000000.txt"}},
			wantStatus:    "Scan complete! Saved to:\n/out/folder_structure_T_20240101_000000.txt",
			wantGenerated: true,
		},
		{
			name:          "スキャン失敗",
			path:          "/data/T",
			service:       &mockService{generateError: errors.New("disk full")},
			wantStatus:    msgScanFailed,
			wantGenerated: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := test.NewApp()
			defer a.Quit()

			g := NewApp(a, tt.service, report.Options{OutputDir: "/out"}, tt.details, nil)
			g.pathEntry.SetText(tt.path)

			test.Tap(g.scanButton)
			g.wg.Wait()

			if !strings.HasPrefix(g.status.Text, tt.wantStatus) {
				t.Errorf("status = %q, want prefix %q", g.status.Text, tt.wantStatus)
			}
			if g.scanButton.Disabled() {
				t.Error("scan button should be enabled again")
			}
			if generated := len(tt.service.requests) > 0; generated != tt.wantGenerated {
				t.Fatalf("generated = %v, want %v", generated, tt.wantGenerated)
			}
			if tt.wantGenerated {
				req := tt.service.requests[0]
				if req.Root != tt.path || req.IncludeDetails != tt.details {
					t.Errorf("request = %+v", req)
				}
			}
		})
	}
}

func TestApp_SoftFailureStatus(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	service := &mockService{report: &report.Report{
		Path: "/out/r.txt",
		Result: model.ScanResult{
			SoftFailures: []model.SoftFailure{{Path: "/data/T/locked", Err: errors.New("permission denied")}},
		},
	}}
	g := NewApp(a, service, report.Options{}, false, nil)
	g.pathEntry.SetText("/data/T")

	test.Tap(g.scanButton)
	g.wg.Wait()

	if !strings.Contains(g.status.Text, "1 folders could not be read") {
		t.Errorf("status = %q", g.status.Text)
	}
}
