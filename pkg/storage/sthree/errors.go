package sthree

import (
	"net/http"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/lsst-dm/curation-tools/pkg/storage/status"
)

func isNotFound(err error) bool {
	rerr, ok := err.(awserr.RequestFailure)
	return ok && rerr.StatusCode() == http.StatusNotFound
}

// mapAPIError maps AWS API errors to storage sentinel errors
func mapAPIError(err error) error {
	if err == nil {
		return nil
	}
	if rerr, ok := err.(awserr.RequestFailure); ok {
		switch rerr.StatusCode() {
		case http.StatusNotFound:
			return status.ErrNotExists.Wrap(err)
		case http.StatusUnauthorized:
			return status.ErrUnauthorized.Wrap(err)
		case http.StatusForbidden:
			return status.ErrForbidden.Wrap(err)
		}
	}
	if aerr, ok := err.(awserr.Error); ok {
		switch aerr.Code() {
		case s3ErrNoSuchKey, s3ErrNoSuchBucket:
			return status.ErrNotExists.Wrap(err)
		}
	}
	return status.ErrStorageAPI.Wrap(err)
}

const (
	s3ErrNoSuchKey    = "NoSuchKey"
	s3ErrNoSuchBucket = "NoSuchBucket"
)
