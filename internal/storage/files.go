package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// UploadedFile describes one file in the upload directory. FilePath is
// relative to the upload directory's parent ("file/report.pdf"), which is
// the form the front-end hands back when it asks for an extraction.
type UploadedFile struct {
	Filename     string `json:"filename"`
	FilePath     string `json:"filePath"`
	FileSize     int64  `json:"fileSize"`
	ModifiedTime int64  `json:"modifiedTime,omitempty"`
}

// EnsureDir creates dir (and parents) if it does not exist.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// UniquePath returns a path under dir for filename that no existing file
// occupies, appending _1, _2, ... before the extension until free.
func UniquePath(dir, filename string) string {
	path := filepath.Join(dir, filename)
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	for counter := 1; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		path = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
	}
}

// SaveUpload streams src into a new file at path and returns the byte
// count written.
func SaveUpload(src io.Reader, path string) (int64, error) {
	dst, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		return written, err
	}
	return written, dst.Close()
}

// RelPath returns path relative to dir's parent, the stable form used in
// upload responses and extraction requests ("file/report.pdf").
func RelPath(dir, path string) string {
	return filepath.Join(filepath.Base(dir), filepath.Base(path))
}

// ListDir returns every regular file directly under dir. A missing dir
// reads as empty, matching a fresh install.
func ListDir(dir string) ([]UploadedFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []UploadedFile{}, nil
		}
		return nil, err
	}

	files := make([]UploadedFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, UploadedFile{
			Filename:     entry.Name(),
			FilePath:     RelPath(dir, entry.Name()),
			FileSize:     info.Size(),
			ModifiedTime: info.ModTime().Unix(),
		})
	}
	return files, nil
}
