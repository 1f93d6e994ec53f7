// Package status declares error constants returned by the rucio
// client, so callers may test failures with errors.Is without
// depending on the wire representation of service exceptions.
package status

import "github.com/lsst-dm/curation-tools/pkg/errors"

var (
	// ErrNotFound indicates that the target DID or rule does not exist
	ErrNotFound = errors.New("not found")

	// ErrExists indicates that the DID or rule already exists
	ErrExists = errors.New("exists already")

	// ErrUnauthorized indicates an authentication failure
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAccessDenied indicates that the account lacks the necessary permission
	ErrAccessDenied = errors.New("access denied")

	// ErrServer indicates a server-side failure, possibly transient
	ErrServer = errors.New("server error")

	// ErrAPI indicates any other service API error
	ErrAPI = errors.New("service API error")
)
