package messenger

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/isometry/messenger-echo-bot/internal/metrics"
	"golang.org/x/time/rate"
)

// WithLogger sets a custom logger for the Controller instance to use for logging operations.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithMetrics records Send API outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithHTTPClient replaces the HTTP client used for Send API calls. The timeout option is ignored when set.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Controller) {
		c.httpClient = client
	}
}

// WithTimeout bounds each Send API call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Controller) {
		c.timeout = timeout
	}
}

// WithGraphAPIBase overrides the Graph API root.
func WithGraphAPIBase(base string) Option {
	return func(c *Controller) {
		c.graphAPIBase = base
	}
}

// WithRateLimit caps outbound calls to perSecond. Zero or less disables the limit.
func WithRateLimit(perSecond float64) Option {
	return func(c *Controller) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithAuthMode sets the credentials source. Supported values are 'token' and 'ssm'.
func WithAuthMode(mode string) Option {
	return func(c *Controller) {
		c.authMode = mode
	}
}

// WithSSMKey sets the SSM parameter holding the JSON credentials document.
func WithSSMKey(key string) Option {
	return func(c *Controller) {
		c.ssmKey = key
	}
}

// WithSecretFetcher sets the secret store used in 'ssm' auth mode.
func WithSecretFetcher(fetcher SecretFetcher) Option {
	return func(c *Controller) {
		c.secretFetcher = fetcher
	}
}

// WithCredentials sets the statically configured credentials.
func WithCredentials(creds Credentials) Option {
	return func(c *Controller) {
		c.credentials = creds
	}
}
