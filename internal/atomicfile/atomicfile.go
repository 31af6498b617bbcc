// Package atomicfile replaces files without exposing partial content.
//
// Data is written to a temporary sibling of the destination and renamed
// into place once it has been flushed to disk.
package atomicfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const defaultPerm os.FileMode = 0o644

// WriteFile replaces path with data.
//
// A zero perm keeps the mode of an existing file, or 0644 for a new one.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	return Write(path, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// Write replaces path with whatever fn writes. If fn fails the destination
// is left untouched.
func Write(path string, perm os.FileMode, fn func(w io.Writer) error) error {
	if perm == 0 {
		perm = existingMode(path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	// Not every filesystem supports chmod.
	_ = tmp.Chmod(perm)

	buf := bufio.NewWriter(tmp)
	if err := fn(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}

	if err := rename(tmpPath, path); err != nil {
		return err
	}
	committed = true
	return nil
}

func existingMode(path string) os.FileMode {
	if st, err := os.Stat(path); err == nil && st.Mode().IsRegular() {
		return st.Mode().Perm()
	}
	return defaultPerm
}

// rename moves src over dst. Windows refuses to rename over an existing
// file, so the second attempt removes dst first.
func rename(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	_ = os.Remove(dst)
	if err2 := os.Rename(src, dst); err2 != nil {
		return fmt.Errorf("rename %s to %s: %w", src, dst, err)
	}
	return nil
}
