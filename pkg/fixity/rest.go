package fixity

import (
	"context"

	"github.com/lsst-dm/curation-tools/pkg/model"
)

// MetaClient is the part of the service API the REST applier needs
type MetaClient interface {
	MetaGetter
	SetMetadataBulk(ctx context.Context, did model.DID, meta map[string]interface{}) error
}

// RESTApplier updates file metadata through the service REST API
type RESTApplier struct {
	client MetaClient
}

// NewRESTApplier builds an applier on top of a service API client
func NewRESTApplier(client MetaClient) *RESTApplier {
	return &RESTApplier{client: client}
}

func (a *RESTApplier) GetMeta(ctx context.Context, did model.DID) (model.Meta, error) {
	return a.client.GetMetadata(ctx, did)
}

func (a *RESTApplier) SetMeta(ctx context.Context, did model.DID, meta model.Meta) error {
	return a.client.SetMetadataBulk(ctx, did, map[string]interface{}{
		"adler32": meta.Adler32,
		"md5":     meta.MD5,
		"bytes":   meta.Bytes,
	})
}
