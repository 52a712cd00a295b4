package connectors

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultRetryAttempts   = 5
	defaultRetryBaseDelay  = 500 * time.Millisecond
	defaultRetryMaxBackoff = 8 * time.Second
	defaultTimeout         = 15 * time.Second
)

func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}

	if r == nil {
		return false
	}

	code := r.StatusCode()

	if code >= 500 && code <= 599 {
		return true
	}
	if code == 429 {
		return true
	}
	if code == 408 {
		return true
	}
	return false
}

// isRetryableRead only retries idempotent GET requests.
func isRetryableRead(r *resty.Response, err error) bool {
	if r != nil && r.Request != nil && r.Request.Method != http.MethodGet {
		return false
	}
	return isRetryableResp(r, err)
}

// checkResponse maps the HTTP status onto the connector error taxonomy and
// decodes a successful body into out when out is not nil.
func checkResponse(service, endpoint string, resp *resty.Response, out any) error {
	code := resp.StatusCode()
	if code == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if code < 200 || code > 299 {
		return &APIError{Service: service, StatusCode: code, Message: string(resp.Body())}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &DecodeError{Service: service, Endpoint: endpoint, Err: err}
	}
	return nil
}
