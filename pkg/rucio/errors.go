package rucio

import (
	"fmt"
	"net/http"

	"github.com/lsst-dm/curation-tools/pkg/rucio/status"
	jsoniter "github.com/json-iterator/go"
)

// Error is a failure reported by the data management service.
//
// The service conveys the python exception class and message through
// response headers (and a JSON body on newer releases).
type Error struct {
	Class   string `json:"ExceptionClass"`
	Message string `json:"ExceptionMessage"`
	Status  int    `json:"-"`
}

func (e *Error) Error() string {
	if e.Class == "" {
		return fmt.Sprintf("service error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Class, e.Message)
}

// Unwrap maps well-known exception classes and statuses to sentinel
// errors, so callers test with errors.Is rather than string matching.
func (e *Error) Unwrap() error {
	switch e.Class {
	case "DataIdentifierNotFound", "RuleNotFound", "RSENotFound", "ScopeNotFound":
		return status.ErrNotFound
	case "DataIdentifierAlreadyExists", "DuplicateRule", "FileAlreadyExists", "Duplicate":
		return status.ErrExists
	case "CannotAuthenticate":
		return status.ErrUnauthorized
	case "AccessDenied", "AccountNotFound":
		return status.ErrAccessDenied
	}
	switch {
	case e.Status == http.StatusNotFound:
		return status.ErrNotFound
	case e.Status == http.StatusConflict:
		return status.ErrExists
	case e.Status == http.StatusUnauthorized:
		return status.ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return status.ErrAccessDenied
	case e.Status >= http.StatusInternalServerError:
		return status.ErrServer
	}
	return status.ErrAPI
}

// newAPIError builds an Error from a failed response
func newAPIError(resp *http.Response, body []byte) *Error {
	apiErr := &Error{
		Class:   resp.Header.Get("ExceptionClass"),
		Message: resp.Header.Get("ExceptionMessage"),
		Status:  resp.StatusCode,
	}
	if apiErr.Class == "" && len(body) > 0 {
		// newer servers report the exception in the body only
		_ = jsoniter.Unmarshal(body, apiErr)
	}
	if apiErr.Message == "" {
		apiErr.Message = resp.Status
	}
	return apiErr
}

// retriable tells whether a failed call is worth replaying
func retriable(err error) bool {
	var apiErr *Error
	if ok := asError(err, &apiErr); ok {
		return apiErr.Status >= http.StatusInternalServerError
	}
	// network-level failures
	return err != nil
}
