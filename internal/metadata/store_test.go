package metadata_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contrast/internal/errors"
	"contrast/internal/metadata"
	"contrast/pkg/types"
)

func openStore(t *testing.T) *metadata.Store {
	t.Helper()
	store, err := metadata.Open(filepath.Join(t.TempDir(), "metadata.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleMetadata() *types.Metadata {
	return &types.Metadata{
		Filename:      "benchy.gcode",
		Slicer:        "PrusaSlicer",
		SlicerVersion: "2.7.1",
		Size:          123456,
		Modified:      time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC),
		ScannedAt:     time.Date(2024, 2, 11, 8, 30, 0, 0, time.UTC),
		Options: types.Options{
			"layer_height": 0.2,
			"perimeters":   int64(3),
			"fill_density": "20%",
			"spiral_vase":  false,
			"notes":        nil,
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Insert(sampleMetadata()))

	md, err := store.Get("benchy.gcode")
	require.NoError(t, err)

	assert.Equal(t, "benchy.gcode", md.Filename)
	assert.Equal(t, "PrusaSlicer", md.Slicer)
	assert.Equal(t, "2.7.1", md.SlicerVersion)
	assert.Equal(t, int64(123456), md.Size)
	assert.True(t, md.Modified.Equal(time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)))

	// Numeric types must survive the JSON round trip unchanged.
	assert.Equal(t, 0.2, md.Options["layer_height"])
	assert.Equal(t, int64(3), md.Options["perimeters"])
	assert.Equal(t, "20%", md.Options["fill_density"])
	assert.Equal(t, false, md.Options["spiral_vase"])
	assert.Contains(t, md.Options, "notes")
	assert.Nil(t, md.Options["notes"])
}

func TestStoreGetUsesBasename(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.Insert(sampleMetadata()))

	md, err := store.Get("/some/dir/benchy.gcode")
	require.NoError(t, err)
	assert.Equal(t, "benchy.gcode", md.Filename)
}

func TestStoreGetNotFound(t *testing.T) {
	store := openStore(t)

	_, err := store.Get("missing.gcode")
	require.Error(t, err)
	assert.True(t, errors.IsMetadataNotFound(err))
}

func TestStoreInsertReplaces(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.Insert(sampleMetadata()))

	updated := sampleMetadata()
	updated.SlicerVersion = "2.8.0"
	updated.Options = types.Options{"layer_height": 0.3}
	require.NoError(t, store.Insert(updated))

	md, err := store.Get("benchy.gcode")
	require.NoError(t, err)
	assert.Equal(t, "2.8.0", md.SlicerVersion)
	assert.Equal(t, types.Options{"layer_height": 0.3}, md.Options)
}

func TestStoreUpdateOptions(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.Insert(sampleMetadata()))

	md, err := store.UpdateOptions("benchy.gcode", types.Options{"perimeters": int64(4)})
	require.NoError(t, err)
	assert.Equal(t, types.Options{"perimeters": int64(4)}, md.Options)

	md, err = store.Get("benchy.gcode")
	require.NoError(t, err)
	assert.Equal(t, types.Options{"perimeters": int64(4)}, md.Options)
}

func TestStoreDelete(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.Insert(sampleMetadata()))
	require.NoError(t, store.Delete("benchy.gcode"))

	_, err := store.Get("benchy.gcode")
	assert.True(t, errors.IsMetadataNotFound(err))
}

func TestStoreList(t *testing.T) {
	store := openStore(t)

	first := sampleMetadata()
	second := sampleMetadata()
	second.Filename = "calicat.gcode"
	second.Slicer = "OrcaSlicer"
	require.NoError(t, store.Insert(first))
	require.NoError(t, store.Insert(second))

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "benchy.gcode", records[0].Filename)
	assert.Equal(t, "calicat.gcode", records[1].Filename)
	assert.Nil(t, records[0].Options, "listing omits the options payload")
}
