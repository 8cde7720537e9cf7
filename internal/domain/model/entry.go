// package model はドメインモデルを定義します
package model

import (
	"errors"
	"time"
)

// ErrInvalidRoot はスキャン対象のルートが存在しない、またはディレクトリでない場合のエラーです
var ErrInvalidRoot = errors.New("invalid root")

// EntryKind はエントリの種別を表します
type EntryKind int

const (
	// KindDirectory はディレクトリを表します
	KindDirectory EntryKind = iota
	// KindFile はファイル（ディレクトリ以外のすべて）を表します
	KindFile
)

// String は種別の表示名を返します
func (k EntryKind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

// DirectoryEntry は走査中に生成されるファイルシステムの要素を表します
type DirectoryEntry struct {
	// Path は要素のパスを表します
	Path string
	// Name は表示に使う名前を表します
	Name string
	// Kind は要素の種別を表します
	Kind EntryKind
	// Depth はルートディレクトリからの深さを表します（ルートは0）
	Depth int
}

// IsDir はディレクトリであるかどうかを示します
func (e DirectoryEntry) IsDir() bool {
	return e.Kind == KindDirectory
}

// EntryMetadata はサイズと更新日時、または取得不能であることを表します
type EntryMetadata struct {
	// Available はメタデータが取得できたかどうかを示します
	Available bool
	// Size はバイト単位のサイズです
	Size int64
	// ModTime は最終更新日時です
	ModTime time.Time
}

// Unavailable は取得不能を表すメタデータを返します
func Unavailable() EntryMetadata {
	return EntryMetadata{}
}

// ScanRequest は1回のスキャンを決める不変の入力です
type ScanRequest struct {
	// Root はスキャン対象のディレクトリパスです
	Root string
	// IncludeDetails はサイズと更新日時を出力するかどうかを示します
	IncludeDetails bool
}

// NewScanRequest は ScanRequest を作成します
func NewScanRequest(root string, includeDetails bool) ScanRequest {
	return ScanRequest{Root: root, IncludeDetails: includeDetails}
}

// SoftFailure はスキャン全体を中断しない局所的な失敗です
type SoftFailure struct {
	Path string
	Err  error
}

func (f SoftFailure) Error() string {
	return f.Path + ": " + f.Err.Error()
}

// Outcome はスキャンの結果区分です
type Outcome int

const (
	// OutcomeCompleted はすべてのディレクトリを読み込めたことを表します
	OutcomeCompleted Outcome = iota
	// OutcomeCompletedWithSoftFailures は一部のディレクトリを読み込めなかったことを表します
	OutcomeCompletedWithSoftFailures
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeCompletedWithSoftFailures:
		return "completed with soft failures"
	default:
		return "unknown"
	}
}

// ScanResult はスキャンの集計結果です
type ScanResult struct {
	Directories  int
	Files        int
	Lines        int
	SoftFailures []SoftFailure
}

// Outcome はソフトエラーの有無から結果区分を返します
func (r ScanResult) Outcome() Outcome {
	if len(r.SoftFailures) > 0 {
		return OutcomeCompletedWithSoftFailures
	}
	return OutcomeCompleted
}
