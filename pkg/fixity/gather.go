package fixity

import (
	"context"
	"fmt"

	"github.com/lsst-dm/curation-tools/pkg/model"
	"github.com/lsst-dm/curation-tools/pkg/storage"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// MetaGetter is the part of the service client needed to read current
// file metadata
type MetaGetter interface {
	GetMetadata(ctx context.Context, did model.DID) (model.Meta, error)
}

// Gather produces fixity corrections for a list of file DIDs: for each
// DID, the replica object is checksummed from the store and compared
// against the metadata currently registered with the service.
//
// The store key of a replica is the DID name.
func Gather(ctx context.Context, client MetaGetter, store storage.Store, dids model.DIDs, opts ...Option) (model.Corrections, error) {
	settings := newSettings(opts...)

	corrections := make(model.Corrections, 0, len(dids))
	var err error
	for _, did := range dids {
		remote, gerr := client.GetMetadata(ctx, did)
		if gerr != nil {
			err = multierr.Append(err, fmt.Errorf("reading metadata for %s: %w", did, gerr))
			continue
		}

		rdr, gerr := store.Get(ctx, did.Name)
		if gerr != nil {
			err = multierr.Append(err, fmt.Errorf("reading replica %s from %s: %w", did.Name, store, gerr))
			continue
		}
		computed, derr := Digest(rdr, settings.bufferSize)
		_ = rdr.Close()
		if derr != nil {
			err = multierr.Append(err, fmt.Errorf("checksumming %s: %w", did, derr))
			continue
		}

		settings.l.Info("gathered metadata",
			zap.String("did", did.String()),
			zap.String("adler32", computed.Adler32),
			zap.Int64("bytes", computed.Bytes),
			zap.Bool("differs", !computed.Equal(remote)),
		)
		corrections = append(corrections, model.Correction{
			Scope:   did.Scope,
			Name:    did.Name,
			Adler32: computed.Adler32,
			MD5:     computed.MD5,
			Bytes:   computed.Bytes,
			Old:     remote,
		})
	}
	return corrections, err
}
