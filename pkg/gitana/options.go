package gitana

import (
	"crypto/tls"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Option configures the HTTP client used to talk to Cloud CMS
type Option func(*settings)

type settings struct {
	httpClient         *http.Client
	insecureSkipVerify bool
	timeout            time.Duration
	logger             *zap.Logger
}

func defaultSettings() settings {
	return settings{
		logger: zap.NewNop(),
	}
}

// WithHTTPClient uses a preconfigured HTTP client.
//
// WithInsecureSkipVerify and WithTimeout have no effect on a client provided this way.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		s.httpClient = c
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
//
// This only affects the transport built for this client, e.g. to inspect API calls
// through an intercepting proxy.
func WithInsecureSkipVerify(enabled bool) Option {
	return func(s *settings) {
		s.insecureSkipVerify = enabled
	}
}

// WithTimeout sets an overall timeout on every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.timeout = d
	}
}

// WithLogger traces requests at the debug level
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

func (s settings) client() *http.Client {
	if s.httpClient != nil {
		return s.httpClient
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if s.insecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402
	}
	return &http.Client{
		Transport: transport,
		Timeout:   s.timeout,
	}
}
