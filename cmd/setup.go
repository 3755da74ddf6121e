package cmd

import (
	"context"
	"log/slog"

	"github.com/isometry/messenger-echo-bot/internal/config"
	awscontroller "github.com/isometry/messenger-echo-bot/internal/controllers/aws"
	"github.com/isometry/messenger-echo-bot/internal/controllers/messenger"
	"github.com/isometry/messenger-echo-bot/internal/echo"
	"github.com/isometry/messenger-echo-bot/internal/handler"
	"github.com/isometry/messenger-echo-bot/internal/metrics"
	"github.com/isometry/messenger-echo-bot/internal/runtime"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// setup wires the controllers, handler and runtime from the loaded configuration.
func setup(ctx context.Context, logger *slog.Logger) (*runtime.Runtime, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	var awsController *awscontroller.Controller
	if config.Messenger.AuthMode == messenger.AuthModeSSM || config.Global.S3.Upload.Enabled {
		logger.Debug("creating AWS controller...")
		var err error
		awsController, err = awscontroller.NewController(ctx,
			awscontroller.WithLogger(logger.With("component", "aws")),
			awscontroller.WithS3UsePathStyle(config.Global.S3.UsePathStyle))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create AWS controller")
		}
	}

	logger.Debug("creating messenger controller...")
	messengerOpts := []messenger.Option{
		messenger.WithLogger(logger.With("component", "messenger")),
		messenger.WithMetrics(m),
		messenger.WithTimeout(config.Send.Timeout),
		messenger.WithGraphAPIBase(config.Messenger.GraphAPIBase),
		messenger.WithRateLimit(config.Send.RatePerSecond),
		messenger.WithAuthMode(config.Messenger.AuthMode),
		messenger.WithSSMKey(config.Messenger.SSMKey),
		messenger.WithCredentials(messenger.Credentials{
			PageAccessToken: config.Messenger.PageAccessToken,
			VerifyToken:     config.Messenger.VerifyToken,
			AppSecret:       config.Messenger.AppSecret,
		}),
	}
	if awsController != nil {
		messengerOpts = append(messengerOpts, messenger.WithSecretFetcher(awsController))
	}
	messengerController, err := messenger.NewController(messengerOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create messenger controller")
	}
	if err = messengerController.RetrieveCredentials(ctx); err != nil {
		// Retried on every request until it succeeds.
		logger.Warn("failed to retrieve messenger credentials", slog.Any("error", err))
	}

	if config.Messenger.ServerURL == "" {
		logger.Warn("server URL is not configured. asset and account linking URLs in replies will be relative and rejected by the platform")
	}

	logger.Debug("creating webhook handler...")
	handlerOpts := []handler.Option{
		handler.WithLogger(logger.With("component", "handler")),
		handler.WithMetrics(m),
		handler.WithMessenger(messengerController),
		handler.WithResponder(echo.NewResponder(
			echo.WithServerURL(config.Messenger.ServerURL),
			echo.WithReplyPrefix(config.Messenger.ReplyPrefix))),
		handler.WithAuthorizationCode(config.Messenger.AuthorizationCode),
		handler.WithEnabledEvents(config.Messenger.Events...),
	}
	if awsController != nil {
		handlerOpts = append(handlerOpts, handler.WithS3Upload(awsController, config.Global.S3.Upload.Enabled, config.Global.S3.Upload.BucketName))
	}
	hdl, err := handler.NewHandler(handlerOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create webhook handler")
	}

	logger.Debug("creating runtime...")
	return runtime.NewRuntime(hdl,
		runtime.WithLogger(logger.With("component", "runtime")),
		runtime.WithPathPrefix(config.Service.Path),
		runtime.WithAssetsDir(config.Service.AssetsDir),
		runtime.WithMetricsGatherer(registry),
		runtime.WithLambdaPayloadType(config.Lambda.PayloadType),
	), nil
}
