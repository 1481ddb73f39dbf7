package slicer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contrast/internal/errors"
	"contrast/internal/slicer"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		header  string
		name    string
		version string
	}{
		{"; generated by PrusaSlicer 2.7.1+linux-x64-GTK3 on 2024-02-10 at 12:00:00 UTC", "PrusaSlicer", "2.7.1+linux-x64-GTK3"},
		{"; generated by SuperSlicer 2.5.59 on 2024-02-10", "SuperSlicer", "2.5.59"},
		{"; generated by OrcaSlicer 1.9.0 on 2024-02-10", "OrcaSlicer", "1.9.0"},
		{"; BambuStudio 01.08.00.57", "BambuStudio", "01.08.00.57"},
		{";Generated with Cura_SteamEngine 5.4.0", "Cura", "5.4.0"},
		{"; generated by Slic3r 1.3.0 on 2024-02-10", "Slic3r", "1.3.0"},
	}

	for _, tc := range cases {
		path := writeGcode(t, tc.header+"\nG28\nG1 X1\n")
		id, err := slicer.Detect(path)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.name, id.Name)
		assert.Equal(t, tc.version, id.Version)
	}
}

func TestDetectUnknown(t *testing.T) {
	path := writeGcode(t, "; sliced by something homemade\nG28\n")

	_, err := slicer.Detect(path)
	require.Error(t, err)
	assert.True(t, errors.IsUnknownSlicer(err))
}

func TestDetectSignatureOnLaterHeaderLine(t *testing.T) {
	path := writeGcode(t, ";FLAVOR:Marlin\n;TIME:1234\n;Generated with Cura_SteamEngine 5.4.0\nG28\n")

	id, err := slicer.Detect(path)
	require.NoError(t, err)
	assert.Equal(t, "Cura", id.Name)
}
