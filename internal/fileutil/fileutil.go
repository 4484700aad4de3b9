// Package fileutil holds the file copy primitives used when restoring clips
// from the replacement pool.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrSameFile is returned when the source and destination resolve to the
// same inode.
var ErrSameFile = errors.New("source and destination are the same file")

// ReplaceFile overwrites dst with the bytes of src, or creates it when absent.
// The copy lands in a temporary sibling first and is verified by size and
// SHA256 before being renamed over dst, so a failed copy never leaves dst
// truncated. The source's mode and modification time are carried over.
// It returns the number of bytes written.
func ReplaceFile(src, dst string) (int64, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("stat source: %w", err)
	}
	if !srcInfo.Mode().IsRegular() {
		return 0, fmt.Errorf("source %s is not a regular file", src)
	}
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(srcInfo, dstInfo) {
		return 0, ErrSameFile
	}

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("ensure destination directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	written, err := copyVerified(src, srcInfo.Size(), tmp)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		return 0, err
	}
	if err := os.Chmod(tmpPath, srcInfo.Mode().Perm()); err != nil {
		return 0, fmt.Errorf("preserve mode: %w", err)
	}
	if err := os.Chtimes(tmpPath, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		return 0, fmt.Errorf("preserve mtime: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return 0, fmt.Errorf("replace %s: %w", dst, err)
	}
	committed = true
	return written, nil
}

func copyVerified(src string, expectedSize int64, out *os.File) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(out, dstHasher), io.TeeReader(in, srcHasher))
	if err != nil {
		return written, err
	}
	if err := out.Sync(); err != nil {
		return written, err
	}
	if written != expectedSize {
		return written, fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", expectedSize, written)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		return written, fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}
	return written, nil
}
