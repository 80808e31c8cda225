// Package writer puts generated files on disk.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	DirPerm  = 0755
	FilePerm = 0644
)

// FilesystemError reports an output location that could not be created or a
// file that could not be written.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// EnsureDir creates dir and its parents; an existing directory is fine
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return &FilesystemError{Op: "create directory", Path: dir, Err: err}
	}
	return nil
}

// WriteFile overwrites path with content
func WriteFile(path string, content []byte) error {
	if err := os.WriteFile(path, content, FilePerm); err != nil {
		return &FilesystemError{Op: "write file", Path: path, Err: err}
	}
	return nil
}

// WriteFileAll creates the parent directory of path, then writes it
func WriteFileAll(path string, content []byte) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return WriteFile(path, content)
}
