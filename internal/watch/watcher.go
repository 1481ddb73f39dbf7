// Package watch runs a background daemon that notices new gcode files and
// scans their settings into the metadata store.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"contrast/internal/log"
)

// FileModification represents a file event detected by the watcher.
type FileModification struct {
	Path      string
	Info      os.FileInfo
	Timestamp time.Time
	Op        fsnotify.Op
}

// Watcher monitors gcode directories for new or rewritten files using
// fsnotify. Only files whose base name matches one of the configured
// patterns are reported.
type Watcher struct {
	directories []string
	patterns    []glob.Glob
	fileModChan chan FileModification
	stopChan    chan struct{}
	fsWatcher   *fsnotify.Watcher
	mutex       sync.RWMutex
	running     bool
}

// NewWatcher creates a directory watcher filtering on the given filename
// patterns.
func NewWatcher(patterns []glob.Glob) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		directories: []string{},
		patterns:    patterns,
		fileModChan: make(chan FileModification, 64),
		stopChan:    make(chan struct{}),
		fsWatcher:   fsWatcher,
	}, nil
}

// AddDirectory adds a directory to watch.
func (w *Watcher) AddDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}

	w.mutex.Lock()
	found := false
	for _, existing := range w.directories {
		if existing == dir {
			found = true
			break
		}
	}
	if !found {
		w.directories = append(w.directories, dir)
	}
	w.mutex.Unlock()

	log.LogWithFields(log.F("directory", dir)).Info("Watching gcode directory")
	return nil
}

// FileChannel returns the channel that delivers matching file events.
func (w *Watcher) FileChannel() <-chan FileModification {
	return w.fileModChan
}

func (w *Watcher) matches(path string) bool {
	name := filepath.Base(path)
	for _, pattern := range w.patterns {
		if pattern.Match(name) {
			return true
		}
	}
	return false
}

// Start begins delivering events. Create and Write events on regular files
// matching the patterns are forwarded; everything else is dropped.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.mutex.Unlock()

	go func() {
		for {
			select {
			case event, ok := <-w.fsWatcher.Events:
				if !ok {
					return
				}

				if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
					continue
				}
				if !w.matches(event.Name) {
					continue
				}

				// The file may already be gone again by the time we stat it.
				info, err := os.Stat(event.Name)
				if err != nil {
					if !os.IsNotExist(err) {
						log.LogWithFields(log.F("file", event.Name), log.F("error", err)).Error("Error stating file")
					}
					continue
				}
				if info.IsDir() {
					continue
				}

				mod := FileModification{
					Path:      event.Name,
					Info:      info,
					Timestamp: time.Now(),
					Op:        event.Op,
				}

				select {
				case w.fileModChan <- mod:
				default:
					log.LogWithFields(log.F("file", event.Name)).Warn("Event channel is full, dropped event")
				}

			case err, ok := <-w.fsWatcher.Errors:
				if !ok {
					return
				}
				log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

			case <-w.stopChan:
				return
			}
		}
	}()

	log.Info("Watcher started")
	return nil
}

// Stop halts the watcher and closes the event channel.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.running {
		return
	}

	close(w.stopChan)
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	w.running = false
	close(w.fileModChan)

	log.Info("Watcher stopped")
}

// IsRunning returns whether the watcher is currently active.
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// GetDirectories returns the list of directories being watched.
func (w *Watcher) GetDirectories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	dirs := make([]string, len(w.directories))
	copy(dirs, w.directories)
	return dirs
}
