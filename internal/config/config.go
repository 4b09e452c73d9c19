package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the upload gateway.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"upload-gateway"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"PORT" envDefault:"8000"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Storage (required, no defaults)
	Bucket string `env:"BUCKET_NAME,notEmpty"`
	Prefix string `env:"BUCKET_PREFIX" envDefault:"upload"`

	// Signed upload URLs
	SignedURLTTL time.Duration `env:"SIGNED_URL_TTL" envDefault:"15m"`

	// Cloud Tasks
	QueueName      string `env:"QUEUE_NAME,notEmpty"`
	ProjectID      string `env:"PROJECT_ID,notEmpty"`
	Region         string `env:"REGION,notEmpty"`
	TaskHandlerURL string `env:"TASK_HANDLER_URL,notEmpty"`

	// Service account the queue uses to call the task handler.
	TaskServiceAccountEmail string `env:"TASKS_SERVICE_ACCOUNT_EMAIL,notEmpty"`

	// Service account Pub/Sub uses to push upload notifications to us.
	PushServiceAccountEmail string `env:"STORAGE_SERVICE_ACCOUNT_EMAIL,notEmpty"`

	// Expected audience of the push ID token. Optional; when empty the token
	// audience is not pinned and identity rests on the subject email check.
	PushAudience string `env:"PUSH_AUDIENCE"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.Bucket = strings.TrimSpace(cfg.Bucket)
	cfg.Prefix = strings.Trim(strings.TrimSpace(cfg.Prefix), "/")
	if cfg.Prefix == "" {
		cfg.Prefix = "upload"
	}
	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = 15 * time.Minute
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// ObjectPath returns the bucket-relative object path for an uploaded file.
func (c *Config) ObjectPath(filename string) string {
	return fmt.Sprintf("%s/%s", c.Prefix, filename)
}

// GCSPath returns the fully qualified gs:// URI for an uploaded file.
func (c *Config) GCSPath(filename string) string {
	return fmt.Sprintf("gs://%s/%s", c.Bucket, c.ObjectPath(filename))
}

// QueuePath returns the fully qualified Cloud Tasks queue resource name.
func (c *Config) QueuePath() string {
	return fmt.Sprintf("projects/%s/locations/%s/queues/%s", c.ProjectID, c.Region, c.QueueName)
}
