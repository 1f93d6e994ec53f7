package status

import (
	"testing"

	"github.com/lsst-dm/curation-tools/pkg/errors"
	ruciostatus "github.com/lsst-dm/curation-tools/pkg/rucio/status"
	"github.com/stretchr/testify/assert"
)

func TestSentinelsDisjoint(t *testing.T) {
	// storage sentinels must not match the service client sentinels:
	// a missing object on storage is not a missing DID
	assert.False(t, errors.Is(ErrNotFound, ruciostatus.ErrNotFound))
	assert.False(t, errors.Is(ruciostatus.ErrNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrUnauthorized, ruciostatus.ErrUnauthorized))
	assert.False(t, errors.Is(ruciostatus.ErrUnauthorized, ErrUnauthorized))

	assert.True(t, errors.Is(ErrNotFound.Wrap(ErrStorageAPI), ErrNotFound))
	assert.True(t, errors.Is(ErrUnauthorized, ErrUnauthorized))
}
