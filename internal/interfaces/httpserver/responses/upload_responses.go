package responses

// UploadResponse reports where a direct upload landed.
type UploadResponse struct {
	GCSPath string `json:"gcsPath"`
}

// SignedURLResponse carries a write grant for a client-driven upload.
type SignedURLResponse struct {
	GCSPath             string `json:"gcsPath"`
	SignedURL           string `json:"signedUrl"`
	ExpectedContentType string `json:"expectedContentType"`
}

// ResumableResponse carries a resumable upload session starter.
type ResumableResponse struct {
	GCSPath    string `json:"gcsPath"`
	SessionURL string `json:"sessionUrl"`
}

// JobResponse reports the job created for a finalized object.
type JobResponse struct {
	JobID   string `json:"jobId"`
	TaskID  string `json:"taskId"`
	GCSPath string `json:"gcsPath"`
}

// ErrorResponse is the generic error body. Provider error detail stays in
// the logs, never in the response.
type ErrorResponse struct {
	Error string `json:"error"`
}
