package media

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ err error }

func (f *failingStore) Upload(context.Context, io.Reader, string, string, string) (string, error) {
	return "", f.err
}

func TestUploaderFallsBackToLocal(t *testing.T) {
	dir := t.TempDir()
	up := NewUploader(&failingStore{err: ErrUnavailable}, NewLocalStore(dir), zerolog.Nop())

	url, err := up.Upload(context.Background(), strings.NewReader("payload"), "screenshots", "a.png", "image/png")
	require.NoError(t, err)
	require.Equal(t, "/uploads/screenshots/a.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "screenshots", "a.png"))
	require.NoError(t, err)
	require.Equal(t, "payload", string(data))
}

func TestUploaderPrefersRemote(t *testing.T) {
	dir := t.TempDir()
	remote := &recordingStore{url: "https://cdn.example.org/screenshots/a.png"}
	up := NewUploader(remote, NewLocalStore(dir), zerolog.Nop())

	url, err := up.Upload(context.Background(), strings.NewReader("payload"), "screenshots", "a.png", "image/png")
	require.NoError(t, err)
	require.Equal(t, remote.url, url)
	require.NoFileExists(t, filepath.Join(dir, "screenshots", "a.png"))
}

type recordingStore struct{ url string }

func (r *recordingStore) Upload(context.Context, io.Reader, string, string, string) (string, error) {
	return r.url, nil
}

func TestUploaderNoRemote(t *testing.T) {
	dir := t.TempDir()
	up := NewUploader(nil, NewLocalStore(dir), zerolog.Nop())

	url, err := up.Upload(context.Background(), strings.NewReader("x"), "gallery", "b.jpg", "image/jpeg")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/uploads/gallery/"))
}

func TestLocalRemoveIgnoresRemoteURLs(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)

	_, err := store.Upload(context.Background(), strings.NewReader("x"), "gallery", "c.png", "image/png")
	require.NoError(t, err)

	require.NoError(t, store.Remove("https://cdn.example.org/gallery/c.png"))
	require.FileExists(t, filepath.Join(dir, "gallery", "c.png"))

	require.NoError(t, store.Remove("/uploads/gallery/c.png"))
	require.NoFileExists(t, filepath.Join(dir, "gallery", "c.png"))

	// Idempotent on repeat.
	require.NoError(t, store.Remove("/uploads/gallery/c.png"))
}

func TestLocalPathRejectsTraversal(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	_, ok := store.Path("/uploads/../etc/passwd")
	require.False(t, ok)
	_, ok = store.Path("https://cdn.example.org/a.png")
	require.False(t, ok)

	path, ok := store.Path("/uploads/screenshots/a.png")
	require.True(t, ok)
	require.True(t, strings.HasSuffix(path, filepath.Join("screenshots", "a.png")))
}

func TestUniqueFilenameKeepsExtension(t *testing.T) {
	name := UniqueFilename("Photo.JPG")
	require.True(t, strings.HasSuffix(name, ".jpg"))
	require.NotEqual(t, name, UniqueFilename("Photo.JPG"))
}
