package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contrast/pkg/types"
)

func TestOptionsNamesSorted(t *testing.T) {
	opts := types.Options{"b": 1, "a": 2, "c": 3}
	assert.Equal(t, []string{"a", "b", "c"}, opts.Names())
}

func TestOptionsClone(t *testing.T) {
	opts := types.Options{"layer_height": 0.2}
	clone := opts.Clone()
	clone["layer_height"] = 0.3

	assert.Equal(t, 0.2, opts["layer_height"])
	assert.Equal(t, 0.3, clone["layer_height"])
}

func TestOptionsJSONRoundTripKeepsTypes(t *testing.T) {
	opts := types.Options{
		"layer_height": 0.2,
		"perimeters":   int64(3),
		"fill_density": "20%",
		"spiral_vase":  true,
		"notes":        nil,
	}

	encoded, err := opts.ToJSON()
	require.NoError(t, err)

	decoded, err := types.OptionsFromJSON(encoded)
	require.NoError(t, err)

	assert.Equal(t, 0.2, decoded["layer_height"])
	assert.Equal(t, int64(3), decoded["perimeters"])
	assert.Equal(t, "20%", decoded["fill_density"])
	assert.Equal(t, true, decoded["spiral_vase"])
	assert.Nil(t, decoded["notes"])
}

func TestOptionsFromJSONInvalid(t *testing.T) {
	_, err := types.OptionsFromJSON("{not json")
	assert.Error(t, err)
}

func TestValueEqual(t *testing.T) {
	assert.True(t, types.ValueEqual(int64(3), float64(3)))
	assert.True(t, types.ValueEqual(0.2, 0.2))
	assert.True(t, types.ValueEqual("20%", "20%"))
	assert.True(t, types.ValueEqual(nil, nil))
	assert.False(t, types.ValueEqual(nil, int64(0)))
	assert.False(t, types.ValueEqual(int64(3), int64(4)))
	assert.False(t, types.ValueEqual("3", int64(3)), "strings do not coerce")
}

func TestMetadataHasOptions(t *testing.T) {
	md := &types.Metadata{Filename: "benchy.gcode"}
	assert.False(t, md.HasOptions())

	md.Options = types.Options{"layer_height": 0.2}
	assert.True(t, md.HasOptions())
}
