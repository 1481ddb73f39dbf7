package slicer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gobwas/glob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contrast/internal/errors"
	"contrast/internal/slicer"
)

const prusaFixture = `; generated by PrusaSlicer 2.7.1+linux-x64-GTK3 on 2024-02-10 at 12:00:00 UTC
M104 S215
G1 X10 Y10 E1.5
; prusaslicer_config = begin
; layer_height = 0.2
; perimeters = 3
; fill_density = 20%
; elefant_foot_compensation = 0.2
; brim_separation = 0.1
; spiral_vase = false
; notes = none
; thumbnails_format = PNG
; prusaslicer_config = end
`

func writeGcode(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "part.gcode")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestPrusaParse(t *testing.T) {
	path := writeGcode(t, prusaFixture)

	parser, err := slicer.New("PrusaSlicer", path, slicer.Params{})
	require.NoError(t, err)

	opts, err := parser.Parse()
	require.NoError(t, err)

	assert.Equal(t, 0.2, opts["layer_height"])
	assert.Equal(t, int64(3), opts["perimeters"])
	assert.Equal(t, "20%", opts["fill_density"])
	assert.Equal(t, false, opts["spiral_vase"])
	assert.Nil(t, opts["notes"])
	assert.Contains(t, opts, "notes")
}

func TestPrusaParseRawValues(t *testing.T) {
	path := writeGcode(t, prusaFixture)

	parser, err := slicer.New("PrusaSlicer", path, slicer.Params{RawValues: true})
	require.NoError(t, err)

	opts, err := parser.Parse()
	require.NoError(t, err)

	assert.Equal(t, "0.2", opts["layer_height"])
	assert.Equal(t, "3", opts["perimeters"])
	assert.Equal(t, "false", opts["spiral_vase"])
}

func TestPrusaParseIgnoreGlobs(t *testing.T) {
	path := writeGcode(t, prusaFixture)

	params := slicer.Params{Ignore: []glob.Glob{glob.MustCompile("thumbnails*")}}
	parser, err := slicer.New("PrusaSlicer", path, params)
	require.NoError(t, err)

	opts, err := parser.Parse()
	require.NoError(t, err)

	assert.NotContains(t, opts, "thumbnails_format")
	assert.Contains(t, opts, "layer_height")
}

func TestParseSmallBuffer(t *testing.T) {
	path := writeGcode(t, prusaFixture)

	parser, err := slicer.New("PrusaSlicer", path, slicer.Params{BufferSize: 256})
	require.NoError(t, err)

	opts, err := parser.Parse()
	require.NoError(t, err)
	assert.Len(t, opts, 8)
}

func TestParseNoSettingsBlock(t *testing.T) {
	path := writeGcode(t, "G28\nG1 X5\n")

	parser, err := slicer.New("PrusaSlicer", path, slicer.Params{})
	require.NoError(t, err)

	_, err = parser.Parse()
	require.Error(t, err)
	assert.True(t, errors.IsNoOptions(err))
}

func TestParseStartMarkerWithoutEnd(t *testing.T) {
	path := writeGcode(t, "; prusaslicer_config = begin\n; layer_height = 0.2\n")

	parser, err := slicer.New("PrusaSlicer", path, slicer.Params{})
	require.NoError(t, err)

	_, err = parser.Parse()
	require.Error(t, err)
}

func TestParseMissingFile(t *testing.T) {
	parser, err := slicer.New("PrusaSlicer", filepath.Join(t.TempDir(), "nope.gcode"), slicer.Params{})
	require.NoError(t, err)

	_, err = parser.Parse()
	require.Error(t, err)
	assert.True(t, errors.IsFileNotFound(err))
}

func TestNewUnknownSlicer(t *testing.T) {
	_, err := slicer.New("FancySlicer", "x.gcode", slicer.Params{})
	require.Error(t, err)
	assert.True(t, errors.IsUnknownSlicer(err))
}

func TestOptionLocalLookup(t *testing.T) {
	path := writeGcode(t, prusaFixture)
	parser, err := slicer.New("PrusaSlicer", path, slicer.Params{})
	require.NoError(t, err)
	_, err = parser.Parse()
	require.NoError(t, err)

	opt, ok := parser.Option("layer_height", false)
	require.True(t, ok)
	assert.Equal(t, "layer_height", opt.Name)
	assert.Equal(t, 0.2, opt.Value)

	_, ok = parser.Option("no_such_option", false)
	assert.False(t, ok)
}

// A foreign option name resolves through the alias table, and the registered
// modifier flips values expressed with the opposite sign.
func TestOptionAliasWithModifier(t *testing.T) {
	path := writeGcode(t, prusaFixture)
	parser, err := slicer.New("PrusaSlicer", path, slicer.Params{})
	require.NoError(t, err)
	_, err = parser.Parse()
	require.NoError(t, err)

	// Orca's xy_offset_layer_0 is PrusaSlicer's elefant_foot_compensation
	// with the sign inverted.
	opt, ok := parser.Option("xy_offset_layer_0", true)
	require.True(t, ok)
	assert.Equal(t, "elefant_foot_compensation", opt.Name)
	assert.Equal(t, -0.2, opt.Value)

	// Bambu's brim_gap maps onto brim_separation, also sign-inverted.
	opt, ok = parser.Option("brim_gap", true)
	require.True(t, ok)
	assert.Equal(t, "brim_separation", opt.Name)
	assert.Equal(t, -0.1, opt.Value)

	// Alias resolution is off unless asked for.
	_, ok = parser.Option("xy_offset_layer_0", false)
	assert.False(t, ok)
}

func TestSetOptionsPreloads(t *testing.T) {
	parser, err := slicer.New("PrusaSlicer", "unused.gcode", slicer.Params{})
	require.NoError(t, err)

	parser.SetOptions(map[string]any{"layer_height": 0.3})

	opt, ok := parser.Option("layer_height", false)
	require.True(t, ok)
	assert.Equal(t, 0.3, opt.Value)
}
