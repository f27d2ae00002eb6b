package geojson

import (
	"context"
	"os"
	"time"
)

// File is a GeoJSON document on disk.
type File struct {
	path string
}

// NewFile returns a handle for path. The file does not need to exist.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the file path.
func (f *File) Path() string { return f.path }

// Exists reports whether the file exists.
func (f *File) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

// LastModified returns the modification time, or the zero time when the file is missing.
func (f *File) LastModified() time.Time {
	info, err := os.Stat(f.path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// Size returns the size in bytes, or 0 when the file is missing.
func (f *File) Size() int64 {
	info, err := os.Stat(f.path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Read parses the file.
func (f *File) Read(ctx context.Context) (*Document, error) {
	return LoadFromFile(ctx, f.path)
}

// Write saves doc to the file.
func (f *File) Write(ctx context.Context, doc *Document) error {
	return doc.SaveToFile(ctx, f.path)
}
