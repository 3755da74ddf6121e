// Package config provides a centralized entrypoint for the application parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"go.yaml.in/yaml/v3"
)

const (
	// ModeService runs the bot as a long-lived HTTP server.
	ModeService = "service"
	// ModeLambda runs the bot as an AWS Lambda function behind API Gateway or a function URL.
	ModeLambda = "lambda"
)

var (
	// Global is a struct that contains the global configuration.
	Global global
	// Messenger is a struct that contains the Messenger platform configuration.
	Messenger messenger
	// Send is a struct that contains the Send API client configuration.
	Send send
	// Service is a struct that contains the configuration for the service mode.
	Service service
	// Lambda is a struct that contains the configuration for the lambda mode.
	Lambda lambda
)

type global struct {
	// Mode is the runtime mode of the application.
	Mode string `yaml:"mode,omitempty" default:"service"`
	// Logging is a struct that contains the logging configuration.
	Logging struct {
		// Verbosity is the verbosity level of the application. It represents slog levels.
		Verbosity int `yaml:"verbosity,omitempty"`
		// CallerTrace is a flag that enables the caller trace in the logger.
		CallerTrace bool `yaml:"callerTrace,omitempty"`
	} `yaml:"logging,omitempty"`
	// S3 is a struct that contains the configuration for archiving inbound payloads to S3.
	S3 struct {
		Upload struct {
			BucketName string `yaml:"bucketName,omitempty"`
			Enabled    bool   `yaml:"enabled,omitempty"`
		} `yaml:"upload,omitempty"`
		// UsePathStyle addresses buckets as <endpoint>/<bucket>, as required by S3-compatible stores.
		UsePathStyle bool `yaml:"usePathStyle,omitempty"`
	} `yaml:"s3,omitempty"`
}

type messenger struct {
	// AuthMode selects where credentials come from: 'token' (config/env) or 'ssm'.
	AuthMode string `yaml:"authMode,omitempty" default:"token"`
	// SSMKey is the SSM parameter holding the JSON credentials document when AuthMode is 'ssm'.
	SSMKey string `yaml:"ssmKey,omitempty"`
	// VerifyToken is the shared secret echoed during the webhook subscription handshake.
	VerifyToken string `yaml:"verifyToken,omitempty"`
	// PageAccessToken is the Send API credential.
	PageAccessToken string `yaml:"pageAccessToken,omitempty"`
	// AppSecret enables X-Hub-Signature-256 validation of inbound payloads when set.
	AppSecret string `yaml:"appSecret,omitempty"`
	// ServerURL is the public base URL used to build asset and authorize links in replies.
	ServerURL string `yaml:"serverURL,omitempty"`
	// GraphAPIBase is the Graph API root the Send API path is appended to.
	GraphAPIBase string `yaml:"graphAPIBase,omitempty" default:"https://graph.facebook.com/v2.6"`
	// ReplyPrefix is prepended to every text reply.
	ReplyPrefix string `yaml:"replyPrefix,omitempty" default:"P: "`
	// AuthorizationCode is the code appended to the account linking redirect.
	AuthorizationCode string `yaml:"authorizationCode,omitempty" default:"1234567890"`
	// Events is the list of event categories the dispatcher acts on.
	Events []string `yaml:"events,omitempty" default:"[\"optin\", \"message\", \"delivery\", \"postback\", \"read\", \"account_linking\"]"`
}

type send struct {
	// Timeout bounds a single Send API call.
	Timeout time.Duration `yaml:"timeout,omitempty" default:"10s"`
	// RatePerSecond caps outbound calls. Zero disables the limit.
	RatePerSecond float64 `yaml:"ratePerSecond,omitempty"`
}

type service struct {
	Path      string        `yaml:"path,omitempty" default:"/"`
	Addr      string        `yaml:"addr,omitempty"`
	Port      string        `yaml:"port,omitempty" default:"8080"`
	Timeout   time.Duration `yaml:"timeout,omitempty" default:"30s"`
	AssetsDir string        `yaml:"assetsDir,omitempty"`
}

type lambda struct {
	PayloadType string `yaml:"payloadType,omitempty" default:"api-gateway-v2"`
}

// SetDefaults sets the default values for the configuration.
func SetDefaults() error {
	return errors.Join(
		defaults.Set(&Global),
		defaults.Set(&Messenger),
		defaults.Set(&Send),
		defaults.Set(&Service),
		defaults.Set(&Lambda),
	)
}

// Reset clears every configuration section.
func Reset() {
	Global = global{}
	Messenger = messenger{}
	Send = send{}
	Service = service{}
	Lambda = lambda{}
}

// LoadFromFile loads the configuration from a file.
func LoadFromFile(path string) error {
	if len(path) == 0 {
		return nil
	}
	fstat, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // If the file does not exist, we ignore it.
	}
	if fstat.IsDir() {
		return fmt.Errorf("configuration file %s is a directory", path)
	}
	if !fstat.Mode().IsRegular() {
		return fmt.Errorf("configuration file %s is not a regular file", path)
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	type all struct {
		Global    global    `yaml:"global,omitempty"`
		Messenger messenger `yaml:"messenger,omitempty"`
		Send      send      `yaml:"send,omitempty"`
		Service   service   `yaml:"service,omitempty"`
		Lambda    lambda    `yaml:"lambda,omitempty"`
	}
	var a all
	if err = yaml.Unmarshal(content, &a); err != nil {
		return fmt.Errorf("failed to unmarshal configuration file %s: %w", path, err)
	}
	Global = a.Global
	Messenger = a.Messenger
	Send = a.Send
	Service = a.Service
	Lambda = a.Lambda

	return nil
}
