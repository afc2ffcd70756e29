// Package filesystem saves report exports to a directory.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"storefront/internal/application/report"
)

type Downloader struct {
	dir string
	// Saved is the path of the last file written.
	Saved string
}

func NewDownloader(dir string) *Downloader {
	if dir == "" {
		dir = "."
	}
	return &Downloader{dir: dir}
}

// Download writes to a temporary file first so a failed export never leaves a partial report.
func (d *Downloader) Download(_ context.Context, e report.Export) error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	name := filepath.Base(e.Filename)
	tmp, err := os.CreateTemp(d.dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(e.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}

	target := filepath.Join(d.dir, name)
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("move %s: %w", name, err)
	}
	d.Saved = target
	return nil
}
