package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// URLPrefix is the route prefix locally stored files are served under.
const URLPrefix = "/uploads/"

// LocalStore writes uploads under a directory on disk and hands out
// server-relative URLs.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (s *LocalStore) Upload(_ context.Context, body io.Reader, folder, filename, _ string) (string, error) {
	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	path := filepath.Join(dir, filename)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	}
	return URLPrefix + folder + "/" + filename, nil
}

// Path maps a locally served URL back to a filesystem path. The second
// return is false for remote URLs and for anything escaping the root.
func (s *LocalStore) Path(url string) (string, bool) {
	if !strings.HasPrefix(url, URLPrefix) {
		return "", false
	}
	rel := filepath.Clean(strings.TrimPrefix(url, URLPrefix))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.Join(s.root, rel), true
}

// Remove deletes the file behind a locally served URL. Remote URLs and
// already-deleted files are silently ignored.
func (s *LocalStore) Remove(url string) error {
	path, ok := s.Path(url)
	if !ok {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}
