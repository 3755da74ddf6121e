// Package messenger provides the Send API Controller and credentials management.
package messenger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/isometry/messenger-echo-bot/internal/helpers"
	"github.com/isometry/messenger-echo-bot/internal/metrics"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const (
	// DefaultGraphAPIBase is the Graph API root the Send API path is appended to.
	DefaultGraphAPIBase = "https://graph.facebook.com/v2.6"
	// DefaultTimeout bounds a single Send API call, well under the platform delivery window.
	DefaultTimeout = 10 * time.Second

	AuthModeToken = "token"
	AuthModeSSM   = "ssm"
)

// ErrMissingPageAccessToken is returned when credentials were resolved but carry no page access token.
var ErrMissingPageAccessToken = errors.New("missing page access token")

// SecretFetcher retrieves a parameter from a secret store.
type SecretFetcher interface {
	GetSecret(ctx context.Context, key string, encrypted bool) (*string, error)
}

// Credentials holds the Messenger app secrets.
type Credentials struct {
	PageAccessToken string `json:"page_access_token,omitempty"`
	VerifyToken     string `json:"verify_token,omitempty"`
	AppSecret       string `json:"app_secret,omitempty"`
}

// Option is a functional option used to configure a Controller instance.
type Option func(*Controller)

// Controller talks to the Messenger Send API.
type Controller struct {
	logger  *slog.Logger
	metrics *metrics.Metrics

	httpClient   *http.Client
	timeout      time.Duration
	graphAPIBase string
	limiter      *rate.Limiter

	authMode      string
	ssmKey        string
	secretFetcher SecretFetcher

	mu          sync.RWMutex
	credentials Credentials
	loaded      bool
}

// NewController initializes a new Controller with the provided options, setting defaults where necessary.
func NewController(opts ...Option) (*Controller, error) {
	_inst := &Controller{authMode: AuthModeToken}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	_inst.authMode = strings.TrimSpace(strings.ToLower(_inst.authMode))
	_inst.logger = _inst.logger.With("controller", "messenger", slog.String("authMode", _inst.authMode))
	if _inst.graphAPIBase == "" {
		_inst.graphAPIBase = DefaultGraphAPIBase
	}
	_inst.graphAPIBase = strings.TrimRight(_inst.graphAPIBase, "/")
	if _inst.timeout <= 0 {
		_inst.timeout = DefaultTimeout
	}
	if _inst.httpClient == nil {
		_inst.httpClient = &http.Client{Timeout: _inst.timeout}
	}

	switch _inst.authMode {
	case AuthModeToken:
	case AuthModeSSM:
		if _inst.ssmKey == "" {
			return nil, errors.New("ssm auth mode requires an SSM key")
		}
		if _inst.secretFetcher == nil {
			return nil, errors.New("ssm auth mode requires a secret fetcher")
		}
	default:
		return nil, fmt.Errorf("unsupported auth mode: %s", _inst.authMode)
	}
	return _inst, nil
}

// RetrieveCredentials loads the credentials for the configured auth mode.
// SSM credentials are fetched once and cached; values from SSM override the statically configured ones.
func (c *Controller) RetrieveCredentials(ctx context.Context) error {
	switch c.authMode {
	case AuthModeToken:
		c.mu.RLock()
		defer c.mu.RUnlock()
		if c.credentials.PageAccessToken == "" {
			return ErrMissingPageAccessToken
		}
		return nil
	case AuthModeSSM:
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.loaded {
			c.logger.Debug("using cached credentials...")
			if c.credentials.PageAccessToken == "" {
				return ErrMissingPageAccessToken
			}
			return nil
		}
		c.logger.Debug("retrieving credentials from SSM...", slog.String("key", c.ssmKey))
		secret, err := c.secretFetcher.GetSecret(ctx, c.ssmKey, true)
		if err != nil {
			return errors.Wrap(err, "failed to fetch credentials from SSM")
		}
		var fetched Credentials
		if err = json.Unmarshal([]byte(*secret), &fetched); err != nil {
			return errors.Wrap(err, "failed to unmarshal credentials")
		}
		if fetched.PageAccessToken != "" {
			c.credentials.PageAccessToken = fetched.PageAccessToken
		}
		if fetched.VerifyToken != "" {
			c.credentials.VerifyToken = fetched.VerifyToken
		}
		if fetched.AppSecret != "" {
			c.credentials.AppSecret = fetched.AppSecret
		}
		c.loaded = true
		if c.credentials.PageAccessToken == "" {
			return ErrMissingPageAccessToken
		}
		return nil
	default:
		return fmt.Errorf("unsupported auth mode: %s", c.authMode)
	}
}

// Credentials returns a copy of the current credentials.
func (c *Controller) Credentials() Credentials {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.credentials
}
