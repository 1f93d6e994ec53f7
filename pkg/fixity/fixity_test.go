package fixity

import (
	"bytes"
	"context"
	"crypto/md5" // #nosec
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/lsst-dm/curation-tools/pkg/model"
	"github.com/lsst-dm/curation-tools/pkg/storage/mockstorage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type metaMock struct {
	meta    map[string]model.Meta
	updates map[string]model.Meta
	getErr  error
	setErr  error
}

func (m *metaMock) GetMetadata(_ context.Context, did model.DID) (model.Meta, error) {
	if m.getErr != nil {
		return model.Meta{}, m.getErr
	}
	meta, ok := m.meta[did.String()]
	if !ok {
		return model.Meta{}, fmt.Errorf("no such DID: %s", did)
	}
	return meta, nil
}

func (m *metaMock) SetMetadataBulk(_ context.Context, did model.DID, meta map[string]interface{}) error {
	if m.setErr != nil {
		return m.setErr
	}
	updated := model.Meta{
		Adler32: meta["adler32"].(string),
		MD5:     meta["md5"].(string),
		Bytes:   meta["bytes"].(int64),
	}
	if m.updates == nil {
		m.updates = make(map[string]model.Meta)
	}
	m.updates[did.String()] = updated
	m.meta[did.String()] = updated
	return nil
}

func (m *metaMock) GetMeta(ctx context.Context, did model.DID) (model.Meta, error) {
	return m.GetMetadata(ctx, did)
}

func (m *metaMock) SetMeta(ctx context.Context, did model.DID, meta model.Meta) error {
	return m.SetMetadataBulk(ctx, did, map[string]interface{}{
		"adler32": meta.Adler32,
		"md5":     meta.MD5,
		"bytes":   meta.Bytes,
	})
}

func TestDigest(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		meta, err := Digest(bytes.NewReader(nil), 0)
		require.NoError(t, err)
		assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", meta.MD5)
		assert.Equal(t, "00000001", meta.Adler32)
		assert.EqualValues(t, 0, meta.Bytes)
	})

	t.Run("known vector", func(t *testing.T) {
		meta, err := Digest(strings.NewReader("Wikipedia"), 0)
		require.NoError(t, err)
		assert.Equal(t, "11e60398", meta.Adler32)
		assert.EqualValues(t, 9, meta.Bytes)
	})

	t.Run("buffer smaller than input", func(t *testing.T) {
		payload := bytes.Repeat([]byte("curation"), 1024)
		sum := md5.Sum(payload) // #nosec
		meta, err := Digest(bytes.NewReader(payload), 16)
		require.NoError(t, err)
		assert.Equal(t, hex.EncodeToString(sum[:]), meta.MD5)
		assert.EqualValues(t, len(payload), meta.Bytes)
	})

	t.Run("read error propagates", func(t *testing.T) {
		_, err := Digest(io.MultiReader(strings.NewReader("partial"), failingReader{}), 4)
		require.Error(t, err)
	})
}

type failingReader struct{}

func (failingReader) Read(_ []byte) (int, error) {
	return 0, fmt.Errorf("broken pipe")
}

func digestOf(t *testing.T, payload string) model.Meta {
	t.Helper()
	meta, err := Digest(strings.NewReader(payload), 0)
	require.NoError(t, err)
	return meta
}

func TestGather(t *testing.T) {
	dids := model.DIDs{
		{Scope: "lsst", Name: "raw/file1.fits"},
		{Scope: "lsst", Name: "raw/file2.fits"},
	}
	objects := map[string]string{
		"raw/file1.fits": "first replica payload",
		"raw/file2.fits": "second replica payload",
	}
	store := &mockstorage.StoreMock{
		GetFunc: func(_ context.Context, key string) (io.ReadCloser, error) {
			payload, ok := objects[key]
			if !ok {
				return nil, fmt.Errorf("no such object: %s", key)
			}
			return io.NopCloser(strings.NewReader(payload)), nil
		},
	}

	t.Run("records old and new triples", func(t *testing.T) {
		client := &metaMock{meta: map[string]model.Meta{
			"lsst:raw/file1.fits": {Adler32: "deadbeef", MD5: "0bad", Bytes: 1},
			"lsst:raw/file2.fits": digestOf(t, objects["raw/file2.fits"]),
		}}
		corrections, err := Gather(context.Background(), client, store, dids)
		require.NoError(t, err)
		require.Len(t, corrections, 2)

		assert.Equal(t, "raw/file1.fits", corrections[0].Name)
		assert.Equal(t, model.Meta{Adler32: "deadbeef", MD5: "0bad", Bytes: 1}, corrections[0].Old)
		assert.Equal(t, digestOf(t, objects["raw/file1.fits"]), corrections[0].New())

		// second record already matches
		assert.True(t, corrections[1].Old.Equal(corrections[1].New()))
	})

	t.Run("continues past missing replicas", func(t *testing.T) {
		client := &metaMock{meta: map[string]model.Meta{
			"lsst:raw/file1.fits": {Adler32: "deadbeef", MD5: "0bad", Bytes: 1},
			"lsst:raw/gone.fits":  {Adler32: "cafe", MD5: "dead", Bytes: 2},
		}}
		corrections, err := Gather(context.Background(), client, store, model.DIDs{
			{Scope: "lsst", Name: "raw/gone.fits"},
			{Scope: "lsst", Name: "raw/file1.fits"},
		})
		require.Error(t, err)
		require.Len(t, corrections, 1)
		assert.Equal(t, "raw/file1.fits", corrections[0].Name)
	})
}

func TestCheck(t *testing.T) {
	corrections := model.Corrections{
		{Scope: "lsst", Name: "a.fits", Adler32: "11e60398", MD5: "aa", Bytes: 9,
			Old: model.Meta{Adler32: "11e60398", MD5: "aa", Bytes: 9}},
		{Scope: "lsst", Name: "b.fits", Adler32: "11e60398", MD5: "bb", Bytes: 9,
			Old: model.Meta{Adler32: "deadbeef", MD5: "bb", Bytes: 10}},
	}
	report := Check(corrections)
	assert.Equal(t, 1, report.Match)
	assert.Equal(t, 1, report.Update)
	assert.Equal(t, []string{"adler32", "bytes"}, report.Diffs["lsst:b.fits"])
	assert.Equal(t, "Match: 1, Update: 1", report.String())
}

func TestApply(t *testing.T) {
	mkCorrections := func() model.Corrections {
		return model.Corrections{
			{Scope: "lsst", Name: "stale.fits", Adler32: "0000aaaa", MD5: "ffff", Bytes: 42,
				Old: model.Meta{Adler32: "0000bbbb", MD5: "eeee", Bytes: 42}},
			{Scope: "lsst", Name: "done.fits", Adler32: "0000cccc", MD5: "dddd", Bytes: 7,
				Old: model.Meta{Adler32: "0000ffff", MD5: "0000", Bytes: 7}},
			{Scope: "lsst", Name: "drift.fits", Adler32: "00001111", MD5: "2222", Bytes: 3,
				Old: model.Meta{Adler32: "00003333", MD5: "4444", Bytes: 3}},
		}
	}
	mkClient := func() *metaMock {
		return &metaMock{meta: map[string]model.Meta{
			// matches the record's old triple: eligible
			"lsst:stale.fits": {Adler32: "0000bbbb", MD5: "eeee", Bytes: 42},
			// already carries the new triple
			"lsst:done.fits": {Adler32: "0000cccc", MD5: "dddd", Bytes: 7},
			// matches neither old nor new
			"lsst:drift.fits": {Adler32: "9999aaaa", MD5: "bbbb", Bytes: 3},
		}}
	}

	t.Run("updates only verified records", func(t *testing.T) {
		client := mkClient()
		report, err := Apply(context.Background(), client, mkCorrections())
		require.NoError(t, err)
		assert.Equal(t, 1, report.Count(StatusUpdated))
		assert.Equal(t, 1, report.Count(StatusAlreadyUpdated))
		assert.Equal(t, 1, report.Count(StatusMismatch))

		require.Len(t, client.updates, 1)
		assert.Equal(t, model.Meta{Adler32: "0000aaaa", MD5: "ffff", Bytes: 42}, client.updates["lsst:stale.fits"])
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		client := mkClient()
		report, err := Apply(context.Background(), client, mkCorrections(), WithDryRun(true))
		require.NoError(t, err)
		assert.True(t, report.DryRun)
		assert.Equal(t, 1, report.Count(StatusPlanned))
		assert.Equal(t, 0, report.Count(StatusUpdated))
		assert.Empty(t, client.updates)
	})

	t.Run("write failure is reported and aggregated", func(t *testing.T) {
		client := mkClient()
		client.setErr = fmt.Errorf("access denied")
		report, err := Apply(context.Background(), client, mkCorrections())
		require.Error(t, err)
		assert.Equal(t, 1, report.Count(StatusFailed))
		assert.Equal(t, 1, report.Count(StatusAlreadyUpdated))
	})

	t.Run("invalid record is reported", func(t *testing.T) {
		client := mkClient()
		report, err := Apply(context.Background(), client, model.Corrections{
			{Scope: "lsst", Name: "nochecksum.fits", Bytes: 1},
		})
		require.Error(t, err)
		assert.Equal(t, 1, report.Count(StatusFailed))
	})
}

func TestRESTApplier(t *testing.T) {
	client := &metaMock{meta: map[string]model.Meta{
		"lsst:x.fits": {Adler32: "0000aaaa", MD5: "ffff", Bytes: 5},
	}}
	applier := NewRESTApplier(client)
	did := model.DID{Scope: "lsst", Name: "x.fits"}

	meta, err := applier.GetMeta(context.Background(), did)
	require.NoError(t, err)
	assert.Equal(t, "0000aaaa", meta.Adler32)

	next := model.Meta{Adler32: "0000bbbb", MD5: "eeee", Bytes: 5}
	require.NoError(t, applier.SetMeta(context.Background(), did, next))
	meta, err = applier.GetMeta(context.Background(), did)
	require.NoError(t, err)
	assert.Equal(t, next, meta)
}
