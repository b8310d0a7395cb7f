package media

import (
	"context"
	"io"

	"github.com/rs/zerolog"
)

// Uploader tries remote object storage first and falls back to the local
// store, so a missing or failing bucket degrades service instead of
// rejecting uploads.
type Uploader struct {
	remote Store
	local  *LocalStore
	logger zerolog.Logger
}

func NewUploader(remote Store, local *LocalStore, logger zerolog.Logger) *Uploader {
	return &Uploader{
		remote: remote,
		local:  local,
		logger: logger.With().Str("component", "media").Logger(),
	}
}

func (u *Uploader) Upload(ctx context.Context, body io.Reader, folder, filename, contentType string) (string, error) {
	if u.remote != nil {
		url, err := u.remote.Upload(ctx, body, folder, filename, contentType)
		if err == nil {
			return url, nil
		}
		u.logger.Warn().Err(err).Str("folder", folder).Msg("remote upload failed, storing locally")
		if seeker, ok := body.(io.Seeker); ok {
			if _, err := seeker.Seek(0, io.SeekStart); err != nil {
				return "", err
			}
		}
	}
	return u.local.Upload(ctx, body, folder, filename, contentType)
}

// RemoveLocal best-effort deletes a locally stored file. Remote URLs are
// left alone.
func (u *Uploader) RemoveLocal(url string) {
	if err := u.local.Remove(url); err != nil {
		u.logger.Warn().Err(err).Str("url", url).Msg("failed to remove local upload")
	}
}

// LocalPath resolves a locally served URL to its filesystem path.
func (u *Uploader) LocalPath(url string) (string, bool) {
	return u.local.Path(url)
}
