package fixity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lsst-dm/curation-tools/pkg/model"
)

// PGApplier updates file metadata directly in the service database,
// bypassing the REST API. This is the fallback for bulk corrections
// where per-DID REST round trips are too slow, or when the API refuses
// to touch checksum columns.
type PGApplier struct {
	pool *pgxpool.Pool
}

// NewPGApplier connects to the service database. The DSN is a regular
// postgres connection string.
func NewPGApplier(ctx context.Context, dsn string) (*PGApplier, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PGApplier{pool: pool}, nil
}

// Close releases the underlying connection pool
func (a *PGApplier) Close() {
	a.pool.Close()
}

func (a *PGApplier) GetMeta(ctx context.Context, did model.DID) (model.Meta, error) {
	var meta model.Meta
	err := a.pool.QueryRow(ctx,
		`SELECT adler32, md5, bytes FROM dids WHERE scope = $1 AND name = $2`,
		did.Scope, did.Name,
	).Scan(&meta.Adler32, &meta.MD5, &meta.Bytes)
	if err == pgx.ErrNoRows {
		return meta, fmt.Errorf("no such DID in database: %s", did)
	}
	if err != nil {
		return meta, fmt.Errorf("reading metadata for %s: %w", did, err)
	}
	return meta, nil
}

func (a *PGApplier) SetMeta(ctx context.Context, did model.DID, meta model.Meta) error {
	tag, err := a.pool.Exec(ctx,
		`UPDATE dids SET adler32 = $1, md5 = $2, bytes = $3 WHERE scope = $4 AND name = $5`,
		meta.Adler32, meta.MD5, meta.Bytes, did.Scope, did.Name,
	)
	if err != nil {
		return fmt.Errorf("updating metadata for %s: %w", did, err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("expected to update 1 row for %s, updated %d", did, tag.RowsAffected())
	}
	return nil
}
