package httpserver_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upload-gateway/internal/config"
	"upload-gateway/internal/domain/upload"
	"upload-gateway/internal/infrastructure/auth"
	"upload-gateway/internal/infrastructure/storage"
	"upload-gateway/internal/infrastructure/taskqueue"
	"upload-gateway/internal/interfaces/httpserver"
)

const notifierEmail = "storage-sa@project.iam.gserviceaccount.com"

type fakeStore struct{}

func (*fakeStore) SignUploadURL(ctx context.Context, req *storage.SignRequest) (*storage.SignResult, error) {
	return &storage.SignResult{
		URL:       "https://storage.example/signed/" + req.ObjectPath,
		ExpiresAt: time.Now().Add(req.TTL),
	}, nil
}

func (*fakeStore) NewWriter(ctx context.Context, objectPath, contentType string) io.WriteCloser {
	return nopWriteCloser{}
}

type nopWriteCloser struct{}

func (nopWriteCloser) Write(p []byte) (int, error) { return len(p), nil }
func (nopWriteCloser) Close() error                { return nil }

type fakeQueue struct {
	submissions int
}

func (q *fakeQueue) Submit(ctx context.Context, sub *taskqueue.Submission) (string, error) {
	q.submissions++
	return "projects/p/locations/r/queues/q/tasks/1", nil
}

// fakeVerifier accepts the token "valid-push-token" as the expected notifier
// and rejects everything else.
type fakeVerifier struct{}

func (*fakeVerifier) Verify(ctx context.Context, token string) (*auth.TokenPayload, error) {
	if token != "valid-push-token" {
		return nil, errors.New("signature mismatch")
	}
	return &auth.TokenPayload{
		Issuer: "https://accounts.google.com",
		Claims: map[string]interface{}{
			"email":          notifierEmail,
			"email_verified": true,
		},
	}, nil
}

func newGateway(t *testing.T) (http.Handler, *fakeQueue) {
	t.Helper()
	cfg := &config.Config{
		ServiceName:             "upload-gateway",
		Environment:             "test",
		Bucket:                  "test-bucket",
		Prefix:                  "upload",
		SignedURLTTL:            15 * time.Minute,
		PushServiceAccountEmail: notifierEmail,
	}

	store := &fakeStore{}
	queue := &fakeQueue{}
	log := zerolog.Nop()

	authenticator := auth.NewAuthenticator(&fakeVerifier{}, cfg, log)
	issuer := upload.NewGrantIssuer(cfg, store, log)
	uploader := upload.NewUploader(cfg, store, log)
	filter := upload.NewFilter(cfg)
	dispatcher := upload.NewDispatcher(queue, log)

	server := httpserver.New(cfg, log, issuer, uploader, filter, dispatcher, authenticator)
	return server.Handler(), queue
}

func notificationBody(eventType string) string {
	return fmt.Sprintf(`{
		"message": {
			"attributes": {
				"bucketId": "test-bucket",
				"eventType": %q,
				"objectId": "upload/f.png",
				"objectGeneration": "1700000000000000",
				"payloadFormat": "JSON_API_V1"
			},
			"data": "e30=",
			"messageId": "msg-1"
		},
		"subscription": "projects/p/subscriptions/upload-events"
	}`, eventType)
}

func TestGateway_Ping(t *testing.T) {
	handler, _ := newGateway(t)

	req, _ := http.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestGateway_NotificationWithoutAuthHeader(t *testing.T) {
	handler, queue := newGateway(t)

	req, _ := http.NewRequest("POST", "/uploadNotification", strings.NewReader(notificationBody("OBJECT_FINALIZE")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, queue.submissions, "no task may be submitted for an unauthenticated push")
}

func TestGateway_NotificationWithBadToken(t *testing.T) {
	handler, queue := newGateway(t)

	req, _ := http.NewRequest("POST", "/uploadNotification", strings.NewReader(notificationBody("OBJECT_FINALIZE")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer forged-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, queue.submissions)
}

func TestGateway_AuthenticatedFinalizeCreatesJob(t *testing.T) {
	handler, queue := newGateway(t)

	req, _ := http.NewRequest("POST", "/uploadNotification", strings.NewReader(notificationBody("OBJECT_FINALIZE")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer valid-push-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, queue.submissions, "exactly one task submission per relevant notification")
}

func TestGateway_AuthenticatedDeleteAcknowledged(t *testing.T) {
	handler, queue := newGateway(t)

	req, _ := http.NewRequest("POST", "/uploadNotification", strings.NewReader(notificationBody("OBJECT_DELETE")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer valid-push-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, queue.submissions, "irrelevant events are acknowledged without dispatch")
}

func TestGateway_SignedURLRoute(t *testing.T) {
	handler, _ := newGateway(t)

	req, _ := http.NewRequest("POST", "/uploadSignedUrl", strings.NewReader(`{"filename":"a.txt"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"gcsPath":"gs://test-bucket/upload/a.txt"`)
	assert.Contains(t, w.Body.String(), `"expectedContentType":"text/plain"`)
}

func TestGateway_Metrics(t *testing.T) {
	handler, _ := newGateway(t)

	req, _ := http.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
