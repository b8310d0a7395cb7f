package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/samiti-foundation/server/internal/domain/site"
	"github.com/samiti-foundation/server/internal/media"
)

// stubSiteRepo implements only what the gallery handler touches.
type stubSiteRepo struct {
	images map[int64]*site.Image
}

func (s *stubSiteRepo) GetIntro(context.Context) (*site.Intro, error) { return nil, site.ErrNotFound }

func (s *stubSiteRepo) UpsertIntro(context.Context, string) (*site.Intro, error) {
	return nil, errors.New("not implemented")
}

func (s *stubSiteRepo) ListImages(context.Context) ([]site.Image, error) {
	var out []site.Image
	for _, img := range s.images {
		out = append(out, *img)
	}
	return out, nil
}

func (s *stubSiteRepo) CreateImage(_ context.Context, url, caption string) (*site.Image, error) {
	img := &site.Image{ID: int64(len(s.images) + 1), URL: url, Caption: caption, CreatedAt: time.Now()}
	s.images[img.ID] = img
	return img, nil
}

func (s *stubSiteRepo) GetImage(_ context.Context, id int64) (*site.Image, error) {
	img, ok := s.images[id]
	if !ok {
		return nil, site.ErrNotFound
	}
	return img, nil
}

func (s *stubSiteRepo) DeleteImage(_ context.Context, id int64) error {
	if _, ok := s.images[id]; !ok {
		return site.ErrNotFound
	}
	delete(s.images, id)
	return nil
}

func (s *stubSiteRepo) ListTeamMembers(context.Context) ([]site.TeamMember, error) { return nil, nil }

func (s *stubSiteRepo) GetTeamMember(context.Context, int64) (*site.TeamMember, error) {
	return nil, site.ErrNotFound
}

func (s *stubSiteRepo) CreateTeamMember(context.Context, site.TeamMemberParams) (*site.TeamMember, error) {
	return nil, errors.New("not implemented")
}

func (s *stubSiteRepo) UpdateTeamMember(context.Context, int64, site.TeamMemberParams) (*site.TeamMember, error) {
	return nil, site.ErrNotFound
}

func (s *stubSiteRepo) DeleteTeamMember(context.Context, int64) error { return site.ErrNotFound }

func (s *stubSiteRepo) GetContactInfo(context.Context) (*site.ContactInfo, error) {
	return nil, site.ErrNotFound
}

func (s *stubSiteRepo) UpsertContactInfo(context.Context, site.ContactInfoParams) (*site.ContactInfo, error) {
	return nil, errors.New("not implemented")
}

func newImagesHandler(t *testing.T, repo *stubSiteRepo) (*ImagesHandler, string) {
	t.Helper()
	dir := t.TempDir()
	uploader := media.NewUploader(nil, media.NewLocalStore(dir), zerolog.Nop())
	service := site.NewService(repo, zerolog.Nop())
	return NewImagesHandler(service, uploader, 5<<20, "test"), dir
}

func deleteImageRequest(id string) *http.Request {
	req := httptest.NewRequest("DELETE", "/api/v1/admin/images/"+id, nil)
	req.SetPathValue("id", id)
	return req
}

func TestDeleteImageRemovesLocalFile(t *testing.T) {
	repo := &stubSiteRepo{images: map[int64]*site.Image{}}
	handler, dir := newImagesHandler(t, repo)

	path := filepath.Join(dir, "gallery", "pic.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))
	repo.images[1] = &site.Image{ID: 1, URL: "/uploads/gallery/pic.png"}

	rec := httptest.NewRecorder()
	handler.Delete(rec, deleteImageRequest("1"))

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NoFileExists(t, path)
	require.Empty(t, repo.images)
}

func TestDeleteImageLeavesRemoteURLAlone(t *testing.T) {
	repo := &stubSiteRepo{images: map[int64]*site.Image{
		1: {ID: 1, URL: "https://cdn.example.org/gallery/pic.png"},
	}}
	handler, _ := newImagesHandler(t, repo)

	rec := httptest.NewRecorder()
	handler.Delete(rec, deleteImageRequest("1"))

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, repo.images)
}

func TestDeleteImageNotFound(t *testing.T) {
	handler, _ := newImagesHandler(t, &stubSiteRepo{images: map[int64]*site.Image{}})

	rec := httptest.NewRecorder()
	handler.Delete(rec, deleteImageRequest("42"))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestDeleteImageBadID(t *testing.T) {
	handler, _ := newImagesHandler(t, &stubSiteRepo{images: map[int64]*site.Image{}})

	rec := httptest.NewRecorder()
	handler.Delete(rec, deleteImageRequest("abc"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
