// Package files implements the filesystem side of file analysis and editing:
// whole-file UTF-8 reads with a distinct not-text error kind, and writes
// guarded by a backup-before-overwrite policy.
package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	// ErrNotFound means the file does not exist, even case-insensitively.
	ErrNotFound = errors.New("file not found")
	// ErrNotText means the file exists but is not valid UTF-8 text.
	ErrNotText = errors.New("file is not valid UTF-8 text")
)

// Resolve returns the path to read for the requested file. When the exact
// path is missing, the same directory is scanned for a case-insensitive name
// match before giving up.
func Resolve(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	dir := filepath.Dir(path)
	target := strings.ToLower(filepath.Base(path))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.ToLower(entry.Name()) == target {
			return filepath.Join(dir, entry.Name()), nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNotFound, path)
}

// ReadText reads the whole file as UTF-8 text. Non-text content is reported
// as ErrNotText rather than returned mangled.
func ReadText(path string) (string, error) {
	resolved, err := Resolve(path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", resolved, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrNotText, resolved)
	}

	return string(data), nil
}

// BackupPath is the sibling path that receives the pre-edit content.
func BackupPath(path string) string {
	return path + ".backup"
}

// WriteWithBackup replaces the file's content. When createBackup is set and
// the file already exists, its current content is written to the sibling
// backup path first; a failed backup aborts the write so the original is
// never lost.
func WriteWithBackup(path, content string, createBackup bool) (backupPath string, err error) {
	if createBackup {
		if original, readErr := os.ReadFile(path); readErr == nil {
			backupPath = BackupPath(path)
			if err := os.WriteFile(backupPath, original, 0644); err != nil {
				return "", fmt.Errorf("writing backup %s: %w", backupPath, err)
			}
		}
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return backupPath, fmt.Errorf("writing %s: %w", path, err)
	}
	return backupPath, nil
}
