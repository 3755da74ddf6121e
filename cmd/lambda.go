package cmd

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/isometry/messenger-echo-bot/internal/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func cmdLambda() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lambda",
		Short: "Serve the webhook as an AWS Lambda function",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger = logger.With("mode", config.ModeLambda)

			rt, err := setup(cmd.Context(), logger)
			if err != nil {
				return errors.Wrap(err, "failed to setup lambda")
			}
			h, err := rt.LambdaHandler()
			if err != nil {
				return errors.Wrap(err, "failed to setup lambda")
			}

			logger.Info("lambda starting...", "payloadType", config.Lambda.PayloadType)
			lambda.StartWithOptions(h, lambda.WithContext(cmd.Context()))
			return nil
		},
	}

	bindEnvMap(cmd, lambdaEnvMapString)

	return cmd
}
