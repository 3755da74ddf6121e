package aws

import (
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// WithLogger sets a custom slog.Logger instance for the Controller struct to use for logging operations.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Controller) {
		a.logger = logger
	}
}

// WithConfig uses the given AWS configuration instead of the default credential chain.
func WithConfig(cfg aws.Config) Option {
	return func(a *Controller) {
		a.config = &cfg
	}
}

// WithS3UsePathStyle forces path-style S3 addressing, as required by most S3-compatible stores.
func WithS3UsePathStyle(enabled bool) Option {
	return func(a *Controller) {
		a.s3UsePathStyle = enabled
	}
}
