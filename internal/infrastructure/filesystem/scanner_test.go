package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ScanFold/internal/domain/model"
	"ScanFold/internal/infrastructure/logging"
)

type mockLogger struct {
	logs []struct {
		level   string
		message string
		err     error
	}
}

func (m *mockLogger) Log(level, message string, err error) {
	m.logs = append(m.logs, struct {
		level   string
		message string
		err     error
	}{level, message, err})
}

func TestScanner_ValidateDirectoryPath(t *testing.T) {
	logger := &mockLogger{}
	scanner := NewScanner(logger)

	tempDir := t.TempDir()
	regularFile := filepath.Join(tempDir, "file.txt")
	if err := os.WriteFile(regularFile, []byte("x"), 0644); err != nil {
		t.Fatalf("テストファイルの作成に失敗: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{
			name:    "有効なディレクトリパス",
			path:    tempDir,
			wantErr: false,
		},
		{
			name:    "相対パス",
			path:    ".",
			wantErr: false,
		},
		{
			name:    "空のパス",
			path:    "",
			wantErr: true,
		},
		{
			name:    "空白のみのパス",
			path:    "   ",
			wantErr: true,
		},
		{
			name:    "存在しないパス",
			path:    filepath.Join(tempDir, "notexist"),
			wantErr: true,
		},
		{
			name:    "通常ファイル",
			path:    regularFile,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := scanner.ValidateDirectoryPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDirectoryPath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, model.ErrInvalidRoot) {
				t.Errorf("ValidateDirectoryPath() error = %v, want ErrInvalidRoot", err)
			}
		})
	}
}

func TestScanner_ListDirectory(t *testing.T) {
	logger := &mockLogger{}
	scanner := NewScanner(logger)

	tempDir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt", ".hidden"} {
		if err := os.WriteFile(filepath.Join(tempDir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("テストファイルの作成に失敗: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(tempDir, "sub"), 0755); err != nil {
		t.Fatalf("テストディレクトリの作成に失敗: %v", err)
	}

	children, err := scanner.ListDirectory(tempDir)
	if err != nil {
		t.Fatalf("ListDirectory() error = %v", err)
	}

	want := []Child{
		{Name: ".hidden"},
		{Name: "a.txt"},
		{Name: "b.txt"},
		{Name: "sub", IsDir: true},
	}
	if len(children) != len(want) {
		t.Fatalf("ListDirectory() got %d children, want %d: %+v", len(children), len(want), children)
	}
	for i := range want {
		if children[i] != want[i] {
			t.Errorf("children[%d] = %+v, want %+v", i, children[i], want[i])
		}
	}
}

func TestScanner_ListDirectory_SymlinkIsNotDir(t *testing.T) {
	scanner := NewScanner(&mockLogger{})

	tempDir := t.TempDir()
	target := filepath.Join(tempDir, "target")
	if err := os.Mkdir(target, 0755); err != nil {
		t.Fatalf("テストディレクトリの作成に失敗: %v", err)
	}
	if err := os.Symlink(target, filepath.Join(tempDir, "link")); err != nil {
		t.Skipf("symlink not supported: %v", err)
	}

	children, err := scanner.ListDirectory(tempDir)
	if err != nil {
		t.Fatalf("ListDirectory() error = %v", err)
	}
	for _, child := range children {
		if child.Name == "link" && child.IsDir {
			t.Error("symlink to directory should not be reported as a directory")
		}
	}
}

func TestScanner_ListDirectory_Error(t *testing.T) {
	logger := &mockLogger{}
	scanner := NewScanner(logger)
	scanner.readDir = func(string) ([]fs.DirEntry, error) {
		return nil, fs.ErrPermission
	}

	_, err := scanner.ListDirectory("/locked")
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("ListDirectory() error = %v, want ErrPermission", err)
	}

	var foundWarn bool
	for _, log := range logger.logs {
		if log.level == logging.LevelWarn && strings.Contains(log.message, "/locked") {
			foundWarn = true
		}
	}
	if !foundWarn {
		t.Error("一覧取得失敗のWARNログが出力されていません")
	}
}
