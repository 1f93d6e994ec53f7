// Package storage abstracts the K/V object stores the curation tools
// read release files from.
//
// Typically this is something file system-like. Implementations are an
// S3 bucket and the local file system.
package storage

import (
	"context"
	"io"
)

// Store implementations know how to access entries in an object store
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(context.Context, string, io.Reader) error
	// KeysPrefix returns a page of keys under some prefix, starting after
	// a continuation token. The returned token is empty when the listing
	// is complete.
	KeysPrefix(ctx context.Context, token, prefix, delimiter string, count int) ([]string, string, error)
}

// PipeIO copies a reader to a writer with a modest buffer
func PipeIO(writer io.Writer, reader io.Reader) (n int64, err error) {
	pr, pw := io.Pipe()
	errC := make(chan error, 1)
	go func() {
		defer pw.Close()
		_, err := io.Copy(pw, reader)
		errC <- err
	}()
	written, err := io.Copy(writer, pr)
	if err != nil {
		return written, err
	}
	if cerr := <-errC; cerr != nil {
		return written, cerr
	}
	return written, nil
}
