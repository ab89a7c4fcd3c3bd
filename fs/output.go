// Package fs provides file-based output with atomic update semantics.
package fs

import (
	"errors"
	"os"
	"path/filepath"
)

// OutputFile is an io.Writer for a file that only appears at its final path
// on Commit. Data is written to path.tmp, then moved atomically on Commit;
// Abort discards it and leaves any existing file untouched.
type OutputFile struct {
	path string
	file *os.File
	done bool
}

// CreateOutputFile creates the temporary file backing path. Parent
// directories are created as needed.
func CreateOutputFile(path string) (*OutputFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.Create(tempPath(path))
	if err != nil {
		return nil, err
	}
	return &OutputFile{path: path, file: f}, nil
}

func tempPath(path string) string {
	return path + ".tmp"
}

// Path returns the final path of the file.
func (o *OutputFile) Path() string {
	return o.path
}

// Write writes to the temporary file.
func (o *OutputFile) Write(p []byte) (int, error) {
	if o.done {
		return 0, os.ErrClosed
	}
	return o.file.Write(p)
}

// Commit flushes the temporary file and renames it over the final path.
func (o *OutputFile) Commit() error {
	if o.done {
		return os.ErrClosed
	}
	o.done = true

	if err := o.file.Sync(); err != nil {
		return errors.Join(err, o.discard())
	}
	if err := o.file.Close(); err != nil {
		return errors.Join(err, os.Remove(tempPath(o.path)))
	}
	return os.Rename(tempPath(o.path), o.path)
}

// Abort removes the temporary file. It is a no-op after Commit.
func (o *OutputFile) Abort() error {
	if o.done {
		return nil
	}
	o.done = true
	return o.discard()
}

func (o *OutputFile) discard() error {
	closeErr := o.file.Close()
	if err := os.Remove(tempPath(o.path)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return closeErr
}
