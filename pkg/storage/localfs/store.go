// Package localfs provides a local file system implementation of the
// storage.Store interface, backed by afero.
package localfs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lsst-dm/curation-tools/pkg/storage"
	"github.com/lsst-dm/curation-tools/pkg/storage/status"
	"github.com/spf13/afero"
)

// New creates a Store serving objects from a directory tree.
// When fs is nil, the current working directory is used as the root.
func New(fs afero.Fs) storage.Store {
	if fs == nil {
		fs = afero.NewBasePathFs(afero.NewOsFs(), ".")
	}
	return &localFS{fs: fs}
}

type localFS struct {
	fs afero.Fs
}

func (l *localFS) String() string {
	return "localfs"
}

func (l *localFS) Has(_ context.Context, key string) (bool, error) {
	fi, err := l.fs.Stat(key)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, status.ErrStorageAPI.Wrap(err)
	}
	return !fi.IsDir(), nil
}

func (l *localFS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	has, err := l.Has(ctx, key)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, status.ErrNotExists
	}
	f, err := l.fs.Open(key)
	if err != nil {
		return nil, status.ErrStorageAPI.Wrap(err)
	}
	return f, nil
}

func (l *localFS) Put(_ context.Context, key string, source io.Reader) error {
	if dir := filepath.Dir(key); dir != "" {
		if err := l.fs.MkdirAll(dir, 0700); err != nil {
			return status.ErrStorageAPI.WrapMessage(err, "ensuring directories for "+key)
		}
	}
	target, err := l.fs.OpenFile(key, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return status.ErrStorageAPI.WrapMessage(err, "creating "+key)
	}
	defer target.Close()
	if _, err = storage.PipeIO(target, source); err != nil {
		return status.ErrStorageAPI.WrapMessage(err, "writing "+key)
	}
	return nil
}

func (l *localFS) KeysPrefix(_ context.Context, token, prefix, _ string, count int) ([]string, string, error) {
	all := make([]string, 0, count)
	root := "."
	err := afero.Walk(l.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		key := filepath.ToSlash(path)
		key = strings.TrimPrefix(key, "./")
		if strings.HasPrefix(key, prefix) {
			all = append(all, key)
		}
		return nil
	})
	if err != nil {
		return nil, "", status.ErrStorageAPI.Wrap(err)
	}
	sort.Strings(all)

	keys := make([]string, 0, count)
	for _, key := range all {
		if token != "" && key <= token {
			continue
		}
		keys = append(keys, key)
		if len(keys) >= count {
			return keys, key, nil
		}
	}
	return keys, "", nil
}
