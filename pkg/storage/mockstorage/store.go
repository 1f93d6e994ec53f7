// Package mockstorage provides a mock implementation of the
// storage.Store interface for testing purposes.
package mockstorage

import (
	"context"
	"io"

	"github.com/lsst-dm/curation-tools/pkg/storage"
)

var _ storage.Store = &StoreMock{}

// StoreMock implements storage.Store with function fields so tests
// override only the calls they care about
type StoreMock struct {
	StringFunc     func() string
	HasFunc        func(context.Context, string) (bool, error)
	GetFunc        func(context.Context, string) (io.ReadCloser, error)
	PutFunc        func(context.Context, string, io.Reader) error
	KeysPrefixFunc func(ctx context.Context, token, prefix, delimiter string, count int) ([]string, string, error)
}

func (s *StoreMock) String() string {
	if s.StringFunc == nil {
		return "mock"
	}
	return s.StringFunc()
}

func (s *StoreMock) Has(ctx context.Context, key string) (bool, error) {
	return s.HasFunc(ctx, key)
}

func (s *StoreMock) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.GetFunc(ctx, key)
}

func (s *StoreMock) Put(ctx context.Context, key string, rdr io.Reader) error {
	return s.PutFunc(ctx, key, rdr)
}

func (s *StoreMock) KeysPrefix(ctx context.Context, token, prefix, delimiter string, count int) ([]string, string, error) {
	return s.KeysPrefixFunc(ctx, token, prefix, delimiter, count)
}
