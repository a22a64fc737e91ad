// Package storage defines the file-system abstraction that vocabulary files
// are read from and written to.
package storage

import "time"

// FileInfo describes one stored vocabulary file.
type FileInfo struct {
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Provider is the interface for vocabulary file operations. All paths are
// relative to the provider root.
type Provider interface {
	// List returns metadata for every file under dir whose name ends in ext.
	List(dir, ext string) ([]FileInfo, error)
	// Read returns the raw bytes of the file at path. A missing file yields
	// an error matching os.ErrNotExist.
	Read(path string) ([]byte, error)
	// Write atomically replaces the file at path with content.
	Write(path string, content []byte) error
	// Abs resolves path to an absolute location under the root.
	Abs(path string) (string, error)
}
