package handlers

import (
	"github.com/rs/zerolog"

	"upload-gateway/internal/domain/upload"
)

// Provider wires HTTP handlers.
type Provider struct {
	Upload       *UploadHandler
	Notification *NotificationHandler
}

func NewProvider(issuer *upload.GrantIssuer, uploader *upload.Uploader, filter *upload.Filter, dispatcher *upload.Dispatcher, log zerolog.Logger) *Provider {
	return &Provider{
		Upload:       NewUploadHandler(issuer, uploader, log),
		Notification: NewNotificationHandler(filter, dispatcher, log),
	}
}
