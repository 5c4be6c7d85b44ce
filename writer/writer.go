// Package writer performs atomic file writes: content goes to a temporary
// file in the target directory and is moved into place with a rename, so a
// crash mid-write never leaves a half-written page file.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config controls atomic writing behavior.
type Config struct {
	UseFsync   bool   // force fsync before rename, durability over speed
	TempSuffix string // suffix for temporary files
}

// DefaultConfig provides sensible defaults.
func DefaultConfig() Config {
	return Config{
		UseFsync:   false,
		TempSuffix: ".pinpoint.tmp",
	}
}

// Writer writes files atomically.
type Writer struct {
	config Config
}

// New creates a writer with the given config.
func New(config Config) *Writer {
	if config.TempSuffix == "" {
		config.TempSuffix = DefaultConfig().TempSuffix
	}
	return &Writer{config: config}
}

// WriteFile atomically replaces path's content, preserving its mode when
// the file already exists.
func (w *Writer) WriteFile(path, content string) error {
	var mode os.FileMode = 0o644
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	tempPath := path + w.config.TempSuffix
	f, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write content: %w", err)
	}
	if w.config.UseFsync {
		if err := f.Sync(); err != nil {
			f.Close()
			os.Remove(tempPath)
			return fmt.Errorf("failed to sync: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to atomic rename: %w", err)
	}
	return nil
}

// Remove deletes a file, tolerating its absence.
func (w *Writer) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
