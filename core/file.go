package core

import (
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to a temporary file next to path, then renames it into place,
// so concurrent readers never observe a partially written file. Parent directories are created as needed.
func WriteFileAtomic(path string, data []byte) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	absDir := filepath.Dir(absPath)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return err
	}

	f, err := os.CreateTemp(absDir, ".tmp-"+filepath.Base(absPath)+"-*")
	if err != nil {
		return err
	}
	tmpPath := f.Name()
	defer os.Remove(tmpPath) // No-op after a successful rename.

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, absPath)
}

// FileExists checks if a file exists and is not a directory.
func FileExists(filename string) (bool, error) {
	info, err := os.Stat(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}
