package upload

import (
	"strings"

	"upload-gateway/internal/config"
)

// Filter decides whether an authenticated notification concerns this
// gateway. Irrelevant notifications must be acknowledged, not rejected,
// or Pub/Sub keeps redelivering them.
type Filter struct {
	bucket string
	prefix string
}

func NewFilter(cfg *config.Config) *Filter {
	return &Filter{
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}
}

// Relevant reports whether the notification should produce a job, with a
// short reason for the log when it should not.
func (f *Filter) Relevant(n *Notification) (bool, string) {
	if n.EventType != EventObjectFinalize {
		return false, "event type is not " + EventObjectFinalize
	}
	if n.BucketID != f.bucket {
		return false, "bucket " + n.BucketID + " is not the configured bucket"
	}
	if !strings.HasPrefix(n.ObjectID, f.prefix) {
		return false, "object is outside the configured prefix"
	}
	return true, ""
}
