package filesystem

import (
	"os"

	"ScanFold/internal/domain/model"
)

// MetadataReader はパスのサイズと更新日時を取得します。
// 失敗してもエラーは返さず、取得不能のメタデータを返します
type MetadataReader struct {
	stat func(name string) (os.FileInfo, error)
}

// NewMetadataReader は os.Stat を使う MetadataReader を作成します
func NewMetadataReader() *MetadataReader {
	return &MetadataReader{stat: os.Stat}
}

// NewMetadataReaderWithStat は任意の stat 関数を使う MetadataReader を作成します
func NewMetadataReaderWithStat(stat func(name string) (os.FileInfo, error)) *MetadataReader {
	if stat == nil {
		stat = os.Stat
	}
	return &MetadataReader{stat: stat}
}

// Read はメタデータを取得します
func (r *MetadataReader) Read(path string) model.EntryMetadata {
	info, err := r.stat(path)
	if err != nil || info == nil {
		return model.Unavailable()
	}
	size := info.Size()
	if size < 0 {
		return model.Unavailable()
	}
	return model.EntryMetadata{
		Available: true,
		Size:      size,
		ModTime:   info.ModTime(),
	}
}
