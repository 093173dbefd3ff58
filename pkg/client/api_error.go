package client

import (
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/teamup-uiuc/teamup/pkg/tmerr"
)

// APIError is the error body the server sends for a failed call.
type APIError struct {
	StatusCode int        `json:"-"`
	Kind       tmerr.Kind `json:"error"`
	Message    string     `json:"message"`
}

func (e *APIError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("teamup api (HTTP Status: %d): %s", e.StatusCode, e.Message)
	}

	return fmt.Sprintf("teamup api (HTTP Status: %d): %s: %s", e.StatusCode, e.Kind, e.Message)
}

// toAPIError builds an *APIError from a non 2xx response. Bodies that are not JSON are
// kept as the message.
func toAPIError(resp *resty.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode()}
	if err := json.Unmarshal(resp.Body(), apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = resp.String()
	}

	return apiErr
}

// KindOf returns the error kind of an *APIError, or "" for other errors.
func KindOf(err error) tmerr.Kind {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Kind
	}

	return ""
}
