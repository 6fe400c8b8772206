package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrEmptyName is returned for uploads without a usable file name.
var ErrEmptyName = errors.New("empty file name")

// Uploads keeps user uploads on local disk under Dir.
type Uploads struct {
	Dir string
	Now func() time.Time
}

func NewUploads(dir string) (*Uploads, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Uploads{Dir: dir, Now: time.Now}, nil
}

// Save writes r to "<unix>_<name>" and returns the stored path. name is
// reduced to its base so a client cannot escape Dir.
func (u *Uploads) Save(name string, r io.Reader) (string, error) {
	base := cleanName(name)
	if base == "" {
		return "", ErrEmptyName
	}
	now := time.Now
	if u.Now != nil {
		now = u.Now
	}
	path := filepath.Join(u.Dir, fmt.Sprintf("%d_%s", now().Unix(), base))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// CleanupOlderThan deletes regular files in Dir whose mtime is more than
// maxAge before now. Per-file errors do not stop the sweep; the first one
// is returned alongside the count of removed files.
func (u *Uploads) CleanupOlderThan(now time.Time, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(u.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	var firstErr error
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if now.Sub(info.ModTime()) <= maxAge {
			continue
		}
		if err := os.Remove(filepath.Join(u.Dir, e.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		removed++
	}
	return removed, firstErr
}

func cleanName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return strings.TrimSpace(base)
}
