package upload

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path"

	"github.com/rs/zerolog"

	"upload-gateway/internal/config"
	"upload-gateway/internal/infrastructure/metrics"
	"upload-gateway/internal/infrastructure/storage"
)

const fallbackContentType = "application/octet-stream"

func init() {
	// Go's builtin extension table lacks several types common for uploads
	// and otherwise falls back to the host's mime.types. Pin them so grant
	// derivation behaves the same on every deployment.
	_ = mime.AddExtensionType(".txt", "text/plain")
	_ = mime.AddExtensionType(".md", "text/markdown")
	_ = mime.AddExtensionType(".csv", "text/csv")
	_ = mime.AddExtensionType(".mp4", "video/mp4")
	_ = mime.AddExtensionType(".zip", "application/zip")
}

// ErrEmptyFilename rejects grant requests without an object name.
var ErrEmptyFilename = errors.New("filename must not be empty")

// GrantIssuer mints signed upload grants for client-driven uploads.
type GrantIssuer struct {
	cfg   *config.Config
	store storage.ObjectStore
	log   zerolog.Logger
}

func NewGrantIssuer(cfg *config.Config, store storage.ObjectStore, log zerolog.Logger) *GrantIssuer {
	return &GrantIssuer{
		cfg:   cfg,
		store: store,
		log:   log.With().Str("component", "grant-issuer").Logger(),
	}
}

// Issue produces a signed upload grant for {prefix}/{filename}. Write grants
// are bound to a content type, derived from the filename extension when the
// caller does not supply one. Resumable grants start an upload session and
// leave the content type to the session itself.
func (g *GrantIssuer) Issue(ctx context.Context, filename string, action storage.UploadAction, contentType string) (*Grant, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}

	if action == storage.ActionWrite && contentType == "" {
		contentType = ContentTypeForFilename(filename)
	}
	if action == storage.ActionResumable {
		contentType = ""
	}

	res, err := g.store.SignUploadURL(ctx, &storage.SignRequest{
		ObjectPath:  g.cfg.ObjectPath(filename),
		Action:      action,
		ContentType: contentType,
		TTL:         g.cfg.SignedURLTTL,
	})
	if err != nil {
		metrics.RecordSignedURL(string(action), "error")
		return nil, fmt.Errorf("issue %s grant for %q: %w", action, filename, err)
	}

	metrics.RecordSignedURL(string(action), "success")
	g.log.Info().
		Str("filename", filename).
		Str("action", string(action)).
		Str("content_type", contentType).
		Msg("issued upload grant")

	return &Grant{
		GCSPath:     g.cfg.GCSPath(filename),
		SignedURL:   res.URL,
		Action:      action,
		ExpiresAt:   res.ExpiresAt,
		ContentType: contentType,
	}, nil
}

// ContentTypeForFilename maps a filename extension to a MIME type, falling
// back to a generic binary type for unknown extensions. Parameters such as
// charset are stripped so the value can bind a signed URL's Content-Type.
func ContentTypeForFilename(filename string) string {
	full := mime.TypeByExtension(path.Ext(filename))
	if full == "" {
		return fallbackContentType
	}
	mediaType, _, err := mime.ParseMediaType(full)
	if err != nil {
		return fallbackContentType
	}
	return mediaType
}
