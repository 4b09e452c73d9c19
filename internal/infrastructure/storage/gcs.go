package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// GCSStore implements ObjectStore against a Google Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
	log    zerolog.Logger
}

// NewGCSStore creates a GCSStore for the given bucket. opts are passed
// through to the underlying GCS client, allowing credential injection.
func NewGCSStore(ctx context.Context, bucket string, log zerolog.Logger, opts ...option.ClientOption) (*GCSStore, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}
	return &GCSStore{
		client: client,
		bucket: bucket,
		log:    log.With().Str("component", "gcs-store").Logger(),
	}, nil
}

// SignUploadURL produces a V4 signed URL authorizing the requested upload
// action. Write grants become direct PUT URLs bound to the content type;
// resumable grants become POST URLs that start an upload session.
func (s *GCSStore) SignUploadURL(ctx context.Context, req *SignRequest) (*SignResult, error) {
	expiresAt := time.Now().Add(req.TTL)
	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Expires: expiresAt,
	}

	switch req.Action {
	case ActionResumable:
		opts.Method = http.MethodPost
		opts.Headers = []string{"x-goog-resumable:start"}
	case ActionWrite:
		opts.Method = http.MethodPut
		opts.ContentType = req.ContentType
	default:
		return nil, fmt.Errorf("unsupported upload action %q", req.Action)
	}

	url, err := s.client.Bucket(s.bucket).SignedURL(req.ObjectPath, opts)
	if err != nil {
		return nil, fmt.Errorf("sign %s URL for %q: %w", req.Action, req.ObjectPath, err)
	}

	s.log.Info().
		Str("object", req.ObjectPath).
		Str("action", string(req.Action)).
		Time("expires_at", expiresAt).
		Msg("generated signed upload URL")

	return &SignResult{URL: url, ExpiresAt: expiresAt}, nil
}

// NewWriter opens a streaming write to the object. The GCS writer applies
// backpressure to the producer through its internal chunk buffer and aborts
// the upload when ctx is cancelled.
func (s *GCSStore) NewWriter(ctx context.Context, objectPath, contentType string) io.WriteCloser {
	w := s.client.Bucket(s.bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	return w
}

// Close releases the underlying GCS client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
