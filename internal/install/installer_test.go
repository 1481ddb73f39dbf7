package install_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contrast/internal/errors"
	"contrast/internal/install"
)

// setupTarget builds a valid install target: a moonraker.conf, an install
// directory and a source tree with a nested component file.
func setupTarget(t *testing.T) (configFile, installDir, sourceDir string) {
	t.Helper()
	base := t.TempDir()

	configFile = filepath.Join(base, "moonraker.conf")
	require.NoError(t, os.WriteFile(configFile, []byte("[server]\nhost: 0.0.0.0\n"), 0644))

	installDir = filepath.Join(base, "moonraker-install")
	require.NoError(t, os.MkdirAll(installDir, 0755))

	sourceDir = filepath.Join(base, "components")
	require.NoError(t, os.MkdirAll(filepath.Join(sourceDir, "slicers"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sourceDir, "slicer.py"), []byte("# component\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(sourceDir, "slicers", "prusa.py"), []byte("# adapter\n"), 0644))

	return configFile, installDir, sourceDir
}

func TestRunInstallsComponentsAndSection(t *testing.T) {
	configFile, installDir, sourceDir := setupTarget(t)

	installer := install.New(configFile, installDir, sourceDir, "slicer")
	require.NoError(t, installer.Run())

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n[slicer]\n")

	target := filepath.Join(installDir, "moonraker", "components")
	assert.FileExists(t, filepath.Join(target, "slicer.py"))
	assert.FileExists(t, filepath.Join(target, "slicers", "prusa.py"))
}

func TestRunIsIdempotent(t *testing.T) {
	configFile, installDir, sourceDir := setupTarget(t)

	installer := install.New(configFile, installDir, sourceDir, "slicer")
	require.NoError(t, installer.Run())

	first, err := os.ReadFile(configFile)
	require.NoError(t, err)

	require.NoError(t, installer.Run())

	second, err := os.ReadFile(configFile)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second), "re-running must leave the config byte-identical")
}

func TestRunDetectsSectionAnywhereInFile(t *testing.T) {
	configFile, installDir, sourceDir := setupTarget(t)
	require.NoError(t, os.WriteFile(configFile, []byte("[slicer]\n[server]\n"), 0644))

	installer := install.New(configFile, installDir, sourceDir, "slicer")
	require.NoError(t, installer.Run())

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)
	assert.Equal(t, "[slicer]\n[server]\n", string(data))
}

func TestRunIgnoresSectionLookalikes(t *testing.T) {
	configFile, installDir, sourceDir := setupTarget(t)
	// A prefixed section or a commented marker must not count as present.
	require.NoError(t, os.WriteFile(configFile, []byte("[slicer extra]\n#[slicer]\n"), 0644))

	installer := install.New(configFile, installDir, sourceDir, "slicer")
	require.NoError(t, installer.Run())

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n[slicer]\n")
}

func TestRunMissingConfigFile(t *testing.T) {
	_, installDir, sourceDir := setupTarget(t)
	missing := filepath.Join(t.TempDir(), "moonraker.conf")

	installer := install.New(missing, installDir, sourceDir, "slicer")
	err := installer.Run()
	require.Error(t, err)
	assert.True(t, errors.IsFileNotFound(err))

	// The failed precondition must block the copy entirely.
	assert.NoDirExists(t, filepath.Join(installDir, "moonraker"))
}

func TestRunConfigFileIsDirectory(t *testing.T) {
	configFile, installDir, sourceDir := setupTarget(t)
	require.NoError(t, os.Remove(configFile))
	require.NoError(t, os.MkdirAll(configFile, 0755))

	installer := install.New(configFile, installDir, sourceDir, "slicer")
	err := installer.Run()
	require.Error(t, err)
	assert.True(t, errors.IsFileNotFound(err))
}

func TestRunMissingInstallDir(t *testing.T) {
	configFile, _, sourceDir := setupTarget(t)
	missing := filepath.Join(t.TempDir(), "nope")

	installer := install.New(configFile, missing, sourceDir, "slicer")
	err := installer.Run()
	require.Error(t, err)
	assert.True(t, errors.IsFileNotFound(err))

	// No section may be appended when a precondition fails.
	data, readErr := os.ReadFile(configFile)
	require.NoError(t, readErr)
	assert.NotContains(t, string(data), "[slicer]")
}

func TestRunOverwritesExistingComponents(t *testing.T) {
	configFile, installDir, sourceDir := setupTarget(t)

	target := filepath.Join(installDir, "moonraker", "components")
	require.NoError(t, os.MkdirAll(target, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "slicer.py"), []byte("stale\n"), 0644))

	installer := install.New(configFile, installDir, sourceDir, "slicer")
	require.NoError(t, installer.Run())

	data, err := os.ReadFile(filepath.Join(target, "slicer.py"))
	require.NoError(t, err)
	assert.Equal(t, "# component\n", string(data))
}

func TestRunMissingSourceDir(t *testing.T) {
	configFile, installDir, _ := setupTarget(t)

	installer := install.New(configFile, installDir, filepath.Join(t.TempDir(), "nothing"), "slicer")
	err := installer.Run()
	require.Error(t, err)
}
