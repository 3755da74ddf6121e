package cmd

import (
	"time"

	"github.com/isometry/messenger-echo-bot/internal/config"
	"github.com/isometry/messenger-echo-bot/internal/helpers"
)

var envMapString = map[*string]boundEnvVar[string]{
	&config.Global.Mode: {
		Name:        "mode",
		Description: "The application runtime mode. Possible values are 'lambda' and 'service'",
		Short:       helpers.Ptr("m"),
	},
	&config.Messenger.AuthMode: {
		Name:        "messenger-auth-mode",
		Description: "Credentials provider. Supported values are 'token' and 'ssm'",
		Short:       helpers.Ptr("A"),
	},
	&config.Messenger.SSMKey: {
		Name:        "messenger-ssm-key",
		Description: "The SSM parameter holding the JSON credentials document when using the 'ssm' auth mode",
	},
	&config.Messenger.VerifyToken: {
		Name:        "messenger-verify-token",
		Description: "The token expected during the webhook subscription handshake",
		Env:         helpers.Ptr("MESSENGER_VALIDATION_TOKEN"),
		Hidden:      true,
	},
	&config.Messenger.PageAccessToken: {
		Name:        "messenger-page-access-token",
		Description: "The page access token used to call the Send API",
		Hidden:      true,
	},
	&config.Messenger.AppSecret: {
		Name:        "messenger-app-secret",
		Description: "The app secret used to validate inbound payload signatures. If not specified, no validation is performed",
		Hidden:      true,
	},
	&config.Messenger.ServerURL: {
		Name:        "server-url",
		Description: "The public base URL used to build asset and account linking links",
		Env:         helpers.Ptr("SERVER_URL"),
	},
	&config.Messenger.GraphAPIBase: {
		Name:        "messenger-graph-api-base",
		Description: "The Graph API root the Send API path is appended to",
	},
	&config.Messenger.ReplyPrefix: {
		Name:        "messenger-reply-prefix",
		Description: "The prefix prepended to every text reply",
	},
	&config.Messenger.AuthorizationCode: {
		Name:        "messenger-authorization-code",
		Description: "The authorization code returned on successful account linking",
	},
	&config.Global.S3.Upload.BucketName: {
		Name:        "payload-s3-upload-bucket",
		Description: "The S3 bucket to use when archiving inbound payloads",
		Env:         helpers.Ptr("PAYLOAD_S3_BUCKET"),
	},
}

var envMapBool = map[*bool]boundEnvVar[bool]{
	&config.Global.Logging.CallerTrace: {
		Name:        "verbosity-caller-trace",
		Description: "Enable caller trace in logs",
		Short:       helpers.Ptr("V"),
	},
	&config.Global.S3.Upload.Enabled: {
		Name:        "payload-s3-upload",
		Description: "Enable S3 archiving of inbound payloads",
		Env:         helpers.Ptr("PAYLOAD_S3_UPLOAD"),
	},
	&config.Global.S3.UsePathStyle: {
		Name:        "s3-use-path-style",
		Description: "Use path-style S3 addressing, as required by S3-compatible stores",
	},
}

var envMapCount = map[*int]boundEnvVar[int]{
	&config.Global.Logging.Verbosity: {
		Name:        "verbosity",
		Description: "Increase logger verbosity (default WarnLevel)",
		Short:       helpers.Ptr("v"),
	},
}

var envMapStringSlice = map[*[]string]boundEnvVar[[]string]{
	&config.Messenger.Events: {
		Name:        "messenger-events",
		Description: "The webhook event categories to act on",
	},
}

var envMapDuration = map[*time.Duration]boundEnvVar[time.Duration]{
	&config.Send.Timeout: {
		Name:        "send-timeout",
		Description: "The timeout for a single Send API call",
	},
}

var envMapFloat = map[*float64]boundEnvVar[float64]{
	&config.Send.RatePerSecond: {
		Name:        "send-rate-per-second",
		Description: "The maximum rate of Send API calls. Zero disables the limit",
	},
}
