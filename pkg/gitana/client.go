// Package gitana is a narrow client for the Cloud CMS API.
//
// It covers what cmsctl needs: authenticate, resolve a branch, then read, create,
// query and touch nodes on that branch. Calls are blocking and honor the context
// passed along.
package gitana

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/oneconcern/cmsctl/pkg/gitana/status"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// client performs JSON requests against the API, relative to some base URL
type client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// APIError describes a non-successful response from the API
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string

	kind error
}

func newAPIError(req *http.Request, code int, body []byte) *APIError {
	e := &APIError{
		Method:     req.Method,
		URL:        req.URL.Redacted(),
		StatusCode: code,
		Body:       strings.TrimSpace(string(body)),
	}
	switch code {
	case http.StatusNotFound:
		e.kind = status.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		e.kind = status.ErrUnauthorized
	default:
		e.kind = status.ErrRemote
	}
	return e
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if m := e.message(); m != "" {
		msg += ": " + m
	}
	return msg
}

// Unwrap yields one of status.ErrNotFound, status.ErrUnauthorized or status.ErrRemote
func (e *APIError) Unwrap() error {
	return e.kind
}

// message extracts the message from a Cloud CMS error payload, or falls back on the raw body
func (e *APIError) message() string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.UnmarshalFromString(e.Body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return e.Body
}

func (c *client) url(path string, params url.Values) string {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// do sends a request with an optional JSON body and decodes the JSON response into out, when not nil.
func (c *client) do(ctx context.Context, method, path string, params url.Values, in, out interface{}) (err error) {
	var body io.Reader
	if in != nil {
		var buf []byte
		buf, err = json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, params), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("cloud cms request", zap.String("method", method), zap.String("url", req.URL.Redacted()))
	resp, err := c.http.Do(req)
	if err != nil {
		return status.ErrTransport.Wrap(err)
	}
	defer func() {
		err = multierr.Append(err, resp.Body.Close())
	}()

	payload, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return status.ErrTransport.Wrap(err)
	}
	c.logger.Debug("cloud cms response",
		zap.String("method", method),
		zap.String("url", req.URL.Redacted()),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(req, resp.StatusCode, payload)
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err = json.Unmarshal(payload, out); err != nil {
		return status.ErrDecode.Wrapf("%s %s: %v", method, req.URL.Redacted(), err)
	}
	return nil
}

// resultMap is the envelope of API responses listing objects
type resultMap struct {
	TotalRows int      `json:"total_rows"`
	Rows      []Object `json:"rows"`
}

func escape(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}
