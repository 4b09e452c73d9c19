// Package storage provides an abstraction over the blob store backing the
// gateway: time-limited signed upload URLs and streaming object writes. The
// GCS implementation is the production backend; the interface allows
// alternative implementations for testing.
package storage

import (
	"context"
	"io"
	"time"
)

// UploadAction selects the kind of signed upload credential to produce.
type UploadAction string

const (
	// ActionWrite authorizes a single-shot direct PUT of the object.
	ActionWrite UploadAction = "write"

	// ActionResumable starts a resumable upload session.
	ActionResumable UploadAction = "resumable"
)

// SignRequest describes a signed upload URL to be produced.
type SignRequest struct {
	// ObjectPath is the object path within the configured bucket.
	ObjectPath string

	// Action is the upload mode the URL authorizes.
	Action UploadAction

	// ContentType binds the URL to an outgoing Content-Type header.
	// Ignored for resumable sessions.
	ContentType string

	// TTL is the validity window of the URL.
	TTL time.Duration
}

// SignResult is the outcome of a successful signing request.
type SignResult struct {
	// URL provides time-limited upload access to the object.
	URL string

	// ExpiresAt is when the URL becomes invalid.
	ExpiresAt time.Time
}

// ObjectStore persists objects and mints signed upload URLs.
type ObjectStore interface {
	// SignUploadURL produces a time-limited upload URL for an object path.
	SignUploadURL(ctx context.Context, req *SignRequest) (*SignResult, error)

	// NewWriter opens a streaming write to the object path. The returned
	// writer must be closed to finalize the object; closing with an
	// unfinished copy or a cancelled context aborts the write.
	NewWriter(ctx context.Context, objectPath, contentType string) io.WriteCloser
}
