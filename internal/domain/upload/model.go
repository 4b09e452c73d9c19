// Package upload contains the gateway's core pipeline: issuing scoped upload
// grants, streaming direct uploads, filtering storage notifications and
// dispatching background jobs for finalized objects.
package upload

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"upload-gateway/internal/infrastructure/storage"
)

// EventObjectFinalize marks a completed, durably stored object. Other event
// types (deletes, metadata updates, archive transitions) never produce jobs.
const EventObjectFinalize = "OBJECT_FINALIZE"

// Grant is a time-boxed credential authorizing one upload to one object
// path. Grants are never persisted and are immutable once issued.
type Grant struct {
	GCSPath     string
	SignedURL   string
	Action      storage.UploadAction
	ExpiresAt   time.Time
	ContentType string
}

// Notification is a storage event delivered by Pub/Sub push. Deliveries are
// at-least-once: multiple notifications may describe the same finalize event.
type Notification struct {
	BucketID         string
	EventType        string
	ObjectID         string
	ObjectGeneration string
	PayloadFormat    string
	MessageID        string
	Subscription     string
}

// GCSPath returns the gs:// URI of the object the notification describes.
func (n *Notification) GCSPath() string {
	return fmt.Sprintf("gs://%s/%s", n.BucketID, n.ObjectID)
}

// DedupID derives a stable task identifier from the physical finalize event,
// so redeliveries of the same object generation collapse onto one task.
// Returns "" when the generation attribute is absent, which disables
// deduplication for that delivery.
func (n *Notification) DedupID() string {
	if n.ObjectGeneration == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(n.ObjectID + "@" + n.ObjectGeneration))
	return "job-" + hex.EncodeToString(sum[:])[:40]
}

// Job is a dispatched unit of background work. The task queue is the system
// of record for its existence; the gateway keeps no job state.
type Job struct {
	ID      string
	GCSPath string
	TaskID  string
}
