package upload

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"upload-gateway/internal/config"
	"upload-gateway/internal/infrastructure/metrics"
	"upload-gateway/internal/infrastructure/storage"
)

// sniffLen matches the number of leading bytes mimetype needs for detection.
const sniffLen = 3072

// Uploader streams caller-supplied bytes straight into the object store.
type Uploader struct {
	cfg   *config.Config
	store storage.ObjectStore
	log   zerolog.Logger
}

func NewUploader(cfg *config.Config, store storage.ObjectStore, log zerolog.Logger) *Uploader {
	return &Uploader{
		cfg:   cfg,
		store: store,
		log:   log.With().Str("component", "passthrough-uploader").Logger(),
	}
}

// Upload copies r into {prefix}/{filename} until the source is exhausted or
// either side fails, and returns the resulting gs:// path. The copy reads no
// faster than the store writer accepts, and closing the writer on an error
// path aborts the partial object write. Reconciling partially written state
// after an abort is the blob store's responsibility.
func (u *Uploader) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if filename == "" {
		return "", ErrEmptyFilename
	}

	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", fmt.Errorf("read upload stream for %q: %w", filename, err)
	}
	contentType := mimetype.Detect(head).String()

	objectPath := u.cfg.ObjectPath(filename)
	w := u.store.NewWriter(ctx, objectPath, contentType)

	written, err := io.Copy(w, br)
	if err != nil {
		_ = w.Close()
		metrics.RecordUpload(contentType, "error", 0)
		return "", fmt.Errorf("stream %q to %q: %w", filename, objectPath, err)
	}
	if err := w.Close(); err != nil {
		metrics.RecordUpload(contentType, "error", 0)
		return "", fmt.Errorf("finalize %q: %w", objectPath, err)
	}

	metrics.RecordUpload(contentType, "success", written)
	u.log.Info().
		Str("object", objectPath).
		Str("content_type", contentType).
		Int64("bytes", written).
		Msg("stored direct upload")

	return u.cfg.GCSPath(filename), nil
}
