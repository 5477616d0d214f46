package media

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const (
	photosDir = "photos"
	videosDir = "videos"
)

// Staging is a transient directory tree holding copied media until it is
// packaged. Cleanup must be called on every exit path.
type Staging struct {
	Root string
}

// NewStaging creates a fresh staging tree under parent (the OS temp dir
// when parent is empty).
func NewStaging(parent string) (*Staging, error) {
	if parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return nil, fmt.Errorf("create staging parent: %w", err)
		}
	}
	root, err := os.MkdirTemp(parent, "x-to-dayone-")
	if err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	s := &Staging{Root: root}
	for _, d := range []string{s.PhotosDir(), s.VideosDir()} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			s.Cleanup()
			return nil, fmt.Errorf("create staging dir: %w", err)
		}
	}
	return s, nil
}

func (s *Staging) PhotosDir() string { return filepath.Join(s.Root, photosDir) }
func (s *Staging) VideosDir() string { return filepath.Join(s.Root, videosDir) }

// Photos returns the staged photo paths in name order.
func (s *Staging) Photos() ([]string, error) { return listDir(s.PhotosDir()) }

// Videos returns the staged video paths in name order.
func (s *Staging) Videos() ([]string, error) { return listDir(s.VideosDir()) }

// Cleanup removes the staging tree. Safe to call more than once.
func (s *Staging) Cleanup() error {
	if s == nil || s.Root == "" {
		return nil
	}
	return os.RemoveAll(s.Root)
}

func listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}
