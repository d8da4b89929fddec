package gitana

import (
	"context"
	"io/ioutil"
	"net/http"

	"github.com/oneconcern/cmsctl/pkg/gitana/status"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Ping the API server with basic authentication.
//
// The response body is returned along with an *APIError when the status is not 200 OK.
func Ping(ctx context.Context, baseURL, username, password string, opts ...Option) (body string, err error) {
	s := defaultSettings()
	for _, apply := range opts {
		apply(&s)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/ping", nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(username, password)

	s.logger.Debug("ping", zap.String("url", req.URL.Redacted()))
	resp, err := s.client().Do(req)
	if err != nil {
		return "", status.ErrTransport.Wrap(err)
	}
	defer func() {
		err = multierr.Append(err, resp.Body.Close())
	}()

	payload, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", status.ErrTransport.Wrap(err)
	}
	body = string(payload)
	if resp.StatusCode != http.StatusOK {
		return body, newAPIError(req, resp.StatusCode, payload)
	}
	return body, nil
}
