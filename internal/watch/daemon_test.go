package watch_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contrast/internal/config"
	"contrast/internal/metadata"
	"contrast/internal/watch"
	"contrast/pkg/types"
)

const prusaGcode = `; generated by PrusaSlicer 2.7.1 on 2024-02-10 at 12:00:00 UTC
G28
; prusaslicer_config = begin
; layer_height = 0.2
; perimeters = 3
; prusaslicer_config = end
`

func setupDaemon(t *testing.T) (*metadata.Store, *watch.Daemon, string) {
	t.Helper()
	base := t.TempDir()
	cfg := config.NewTestConfig(base)
	cfg.Watch.Enabled = true

	gcodesDir := cfg.Gcodes.Dirs[0]
	require.NoError(t, os.MkdirAll(gcodesDir, 0755))

	store, err := metadata.Open(cfg.Database.Path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	daemon, err := watch.NewDaemon(cfg, metadata.NewScanner(store, cfg))
	require.NoError(t, err)

	return store, daemon, gcodesDir
}

func TestDaemonScansNewGcodeFile(t *testing.T) {
	store, daemon, gcodesDir := setupDaemon(t)

	scanned := make(chan *types.Metadata, 1)
	daemon.SetCallback(func(job watch.ScanJob, md *types.Metadata, err error) {
		if err == nil {
			select {
			case scanned <- md:
			default:
			}
		}
	})

	require.NoError(t, daemon.Start())
	defer daemon.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(gcodesDir, "benchy.gcode"), []byte(prusaGcode), 0644))

	select {
	case md := <-scanned:
		assert.Equal(t, "benchy.gcode", md.Filename)
		assert.Equal(t, "PrusaSlicer", md.Slicer)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the daemon to scan the file")
	}

	stored, err := store.Get("benchy.gcode")
	require.NoError(t, err)
	assert.Equal(t, 0.2, stored.Options["layer_height"])

	status := daemon.Status()
	assert.True(t, status.Running)
	assert.GreaterOrEqual(t, status.FilesScanned, 1)
}

func TestDaemonIgnoresNonGcodeFiles(t *testing.T) {
	store, daemon, gcodesDir := setupDaemon(t)

	require.NoError(t, daemon.Start())
	defer daemon.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(gcodesDir, "notes.txt"), []byte("hello"), 0644))

	// Give the watcher a moment; nothing should land in the store.
	time.Sleep(300 * time.Millisecond)

	records, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDaemonStartTwice(t *testing.T) {
	_, daemon, _ := setupDaemon(t)

	require.NoError(t, daemon.Start())
	defer daemon.Stop()

	assert.Error(t, daemon.Start())
}

func TestDaemonStatusBeforeStart(t *testing.T) {
	_, daemon, _ := setupDaemon(t)

	status := daemon.Status()
	assert.False(t, status.Running)
	assert.Zero(t, status.FilesScanned)
}

func TestDaemonRequiresWatchableDirectory(t *testing.T) {
	base := t.TempDir()
	cfg := config.NewTestConfig(base)
	cfg.Gcodes.Dirs = []string{filepath.Join(base, "does-not-exist")}

	store, err := metadata.Open(cfg.Database.Path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	daemon, err := watch.NewDaemon(cfg, metadata.NewScanner(store, cfg))
	require.NoError(t, err)

	assert.Error(t, daemon.Start())
}
