package processor

import (
	"context"
	"log/slog"

	"github.com/isometry/messenger-echo-bot/internal/echo"
)

// Archiver stores a raw payload under a key derived from id.
type Archiver interface {
	PutS3Object(ctx context.Context, id string, bucket string, body []byte) error
}

type s3UploaderPostProcessor struct {
	base
	archiver Archiver
	bucket   string
	enabled  bool
}

// NewS3UploaderPostProcessor creates a post-processor archiving the raw body of every processed envelope.
// Upload failures are logged and never change the response.
func NewS3UploaderPostProcessor(archiver Archiver, enabled bool, bucket string, opts ...Option) Processor {
	_inst := &s3UploaderPostProcessor{
		base:     newBase("post-processor:s3-uploader"),
		archiver: archiver,
		enabled:  enabled,
		bucket:   bucket,
	}
	applyOpts(_inst, opts...)
	return _inst
}

func (p *s3UploaderPostProcessor) Process(req any) (bus *echo.Bus, err error) {
	parsedBus, ok := req.(*echo.Bus)
	if !ok {
		return nil, echo.NewInternalError("invalid request type. expected *echo.Bus got %T", req)
	}
	bus = parsedBus

	if !p.enabled || p.archiver == nil {
		p.logger.Debug("s3 upload is disabled")
		return bus, nil
	}

	id := "unknown"
	if bus.Envelope != nil && bus.Envelope.Object != "" {
		id = bus.Envelope.Object
	}
	ctx := bus.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if err = p.archiver.PutS3Object(ctx, id, p.bucket, bus.Body); err != nil {
		p.logger.Warn("failed to store payload in S3", slog.Any("error", err))
		return bus, nil
	}
	p.logger.Debug("payload stored in S3", slog.String("bucket", p.bucket))
	return bus, nil
}
