package requests

import (
	"upload-gateway/internal/domain/upload"
)

// SignedURLRequest asks for a signed upload URL for a single file.
type SignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType"`
}

// PushNotification is the Pub/Sub push envelope delivered per storage event.
type PushNotification struct {
	Message      PushMessage `json:"message"`
	Subscription string      `json:"subscription"`
}

// PushMessage carries the event attributes and the base64 payload.
type PushMessage struct {
	Attributes  PushAttributes `json:"attributes"`
	Data        string         `json:"data"`
	MessageID   string         `json:"messageId"`
	PublishTime string         `json:"publishTime"`
}

// PushAttributes are the storage notification attributes. All values arrive
// as strings on the wire, including the object generation.
type PushAttributes struct {
	BucketID           string `json:"bucketId"`
	EventTime          string `json:"eventTime"`
	EventType          string `json:"eventType"`
	NotificationConfig string `json:"notificationConfig"`
	ObjectID           string `json:"objectId"`
	ObjectGeneration   string `json:"objectGeneration"`
	PayloadFormat      string `json:"payloadFormat"`
}

// ToDomain converts the push envelope to the domain notification.
func (p *PushNotification) ToDomain() *upload.Notification {
	return &upload.Notification{
		BucketID:         p.Message.Attributes.BucketID,
		EventType:        p.Message.Attributes.EventType,
		ObjectID:         p.Message.Attributes.ObjectID,
		ObjectGeneration: p.Message.Attributes.ObjectGeneration,
		PayloadFormat:    p.Message.Attributes.PayloadFormat,
		MessageID:        p.Message.MessageID,
		Subscription:     p.Subscription,
	}
}
