package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"upload-gateway/internal/domain/upload"
	"upload-gateway/internal/infrastructure/storage"
	"upload-gateway/internal/interfaces/httpserver/requests"
	"upload-gateway/internal/interfaces/httpserver/responses"
)

// UploadHandler exposes the direct upload and signed URL endpoints.
type UploadHandler struct {
	issuer   *upload.GrantIssuer
	uploader *upload.Uploader
	log      zerolog.Logger
}

func NewUploadHandler(issuer *upload.GrantIssuer, uploader *upload.Uploader, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		issuer:   issuer,
		uploader: uploader,
		log:      log.With().Str("component", "upload-handler").Logger(),
	}
}

// Direct accepts a single multipart file and streams it into storage. The
// file part is forwarded to the store as it is read off the wire; nothing is
// buffered to disk.
func (h *UploadHandler) Direct(c *gin.Context) {
	part, err := firstFilePart(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: err.Error()})
		return
	}
	defer part.Close()

	h.log.Info().Str("filename", part.FileName()).Msg("receiving direct upload")

	gcsPath, err := h.uploader.Upload(c.Request.Context(), part.FileName(), part)
	if err != nil {
		h.log.Error().Err(err).Str("filename", part.FileName()).Msg("direct upload failed")
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Error: "upload failed"})
		return
	}

	c.JSON(http.StatusCreated, responses.UploadResponse{GCSPath: gcsPath})
}

// SignedURL issues a write grant: a V4 signed PUT URL bound to the expected
// content type.
func (h *UploadHandler) SignedURL(c *gin.Context) {
	var req requests.SignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: err.Error()})
		return
	}

	grant, err := h.issuer.Issue(c.Request.Context(), req.Filename, storage.ActionWrite, req.ContentType)
	if err != nil {
		h.log.Error().Err(err).Str("filename", req.Filename).Msg("signing upload URL failed")
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Error: "failed to sign upload URL"})
		return
	}

	c.Header("Location", grant.SignedURL)
	c.JSON(http.StatusCreated, responses.SignedURLResponse{
		GCSPath:             grant.GCSPath,
		SignedURL:           grant.SignedURL,
		ExpectedContentType: grant.ContentType,
	})
}

// Resumable issues a resumable grant: a signed URL that starts an upload
// session the client drives to completion.
func (h *UploadHandler) Resumable(c *gin.Context) {
	var req requests.SignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: err.Error()})
		return
	}

	grant, err := h.issuer.Issue(c.Request.Context(), req.Filename, storage.ActionResumable, "")
	if err != nil {
		h.log.Error().Err(err).Str("filename", req.Filename).Msg("signing resumable session failed")
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Error: "failed to start resumable upload"})
		return
	}

	c.Header("Location", grant.SignedURL)
	c.JSON(http.StatusCreated, responses.ResumableResponse{
		GCSPath:    grant.GCSPath,
		SessionURL: grant.SignedURL,
	})
}

// firstFilePart walks the multipart body and returns the first file part,
// whatever its field name. Form fields without a filename are skipped.
func firstFilePart(r *http.Request) (*multipart.Part, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, errors.New("multipart body required")
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, errors.New("no file part in request")
		}
		if err != nil {
			return nil, errors.New("malformed multipart body")
		}
		if part.FileName() != "" {
			return part, nil
		}
		_ = part.Close()
	}
}
