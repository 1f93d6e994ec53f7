package release

import (
	"strings"
	"testing"

	"github.com/lsst-dm/curation-tools/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectionsCSV = `Container,N datasets,Notes
Coadds,1500,all tracts
Catalogs,42,
,,skipped blank line
Raw,7,direct ingest
`

func TestExtractManifest(t *testing.T) {
	manifest, err := ExtractManifest(strings.NewReader(selectionsCSV),
		WithScope("dp1"),
		WithContainerPrefix("Container/"),
	)
	require.NoError(t, err)

	assert.Equal(t, model.ReleaseManifest{
		"dp1:Container/Coadds":   1500,
		"dp1:Container/Catalogs": 42,
		"dp1:Container/Raw":      7,
	}, manifest)
}

func TestExtractManifestCustomColumns(t *testing.T) {
	doc := `name,count
A,1
B,2
`
	manifest, err := ExtractManifest(strings.NewReader(doc),
		WithContainerColumn("name"),
		WithCountColumn("count"),
	)
	require.NoError(t, err)
	assert.Len(t, manifest, 2)
	assert.Equal(t, model.Count(2), manifest["B"])
}

func TestExtractManifestErrors(t *testing.T) {
	_, err := ExtractManifest(strings.NewReader("other,columns\n1,2\n"))
	require.Error(t, err)

	_, err = ExtractManifest(strings.NewReader("Container,N datasets\nA,not-a-number\n"))
	require.Error(t, err)

	_, err = ExtractManifest(strings.NewReader("Container,N datasets\n"))
	require.Error(t, err)
}
