// Package aws provides the Controller struct that wraps AWS services and provides S3 and SSM functionality with context and logging support.
package aws

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/smithy-go/logging"
	"github.com/isometry/messenger-echo-bot/internal/helpers"
	"github.com/pkg/errors"
)

// Controller wraps the S3 and SSM clients used for payload archiving and credential retrieval.
type Controller struct {
	logger *slog.Logger

	config         *aws.Config
	s3UsePathStyle bool
	s3Client       *s3.Client
	ssmClient      *ssm.Client
}

// Option defines a function type used to configure an instance of the Controller struct.
type Option func(*Controller)

// NewController initializes a Controller with customizable options and default configurations if unspecified.
// The default AWS configuration chain is only consulted when no configuration was supplied.
func NewController(ctx context.Context, opts ...Option) (*Controller, error) {
	_inst := &Controller{}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	_inst.logger = _inst.logger.With("controller", "aws")
	if _inst.config == nil {
		_inst.logger.Debug("loading default AWS configuration...")
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load AWS configuration")
		}
		_inst.config = &cfg
	}
	_inst.config.Logger = newAWSLogger(_inst.logger)

	_inst.s3Client = s3.NewFromConfig(*_inst.config, func(o *s3.Options) {
		o.UsePathStyle = _inst.s3UsePathStyle
	})
	_inst.ssmClient = ssm.NewFromConfig(*_inst.config)
	return _inst, nil
}

// GetSecret retrieves a parameter value from SSM Parameter Store.
// If encrypted is true, the SecureString is returned decrypted.
func (a *Controller) GetSecret(ctx context.Context, key string, encrypted bool) (*string, error) {
	a.logger.With("key", key).Debug("fetching SSM secret...")
	ssmResponse, err := a.ssmClient.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(key),
		WithDecryption: aws.Bool(encrypted),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load SSM parameters")
	}
	if ssmResponse.Parameter == nil || ssmResponse.Parameter.Value == nil {
		return nil, errors.Errorf("SSM parameter %s has no value", key)
	}
	return ssmResponse.Parameter.Value, nil
}

// PutS3Object uploads a JSON document to the bucket under a key made of the current UTC timestamp and the id.
// An empty bucket name is a no-op.
func (a *Controller) PutS3Object(ctx context.Context, id string, bucket string, body []byte) error {
	if bucket == "" {
		return nil
	}
	key := fmt.Sprintf("%s.%s", time.Now().UTC().Format(time.RFC3339Nano), id)
	a.logger.Debug("uploading object...", slog.String("bucket", bucket), slog.String("key", key))
	_, err := a.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.Wrap(err, "failed to put object to S3")
	}
	return nil
}

type awsLogger struct {
	logger *slog.Logger
}

func newAWSLogger(logger *slog.Logger) *awsLogger {
	return &awsLogger{logger}
}

func (a *awsLogger) Logf(classification logging.Classification, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	switch classification {
	case logging.Warn:
		a.logger.Warn(msg, slog.String("source", "aws-sdk"))
	default:
		a.logger.Debug(msg, slog.String("source", "aws-sdk"))
	}
}
