package watch

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	concurrentqueue "github.com/sahatsawats/concurrent-queue"

	"contrast/internal/config"
	"contrast/internal/log"
	"contrast/internal/metadata"
	"contrast/pkg/types"
)

// ScanJob is one queued file scan.
type ScanJob struct {
	ID     uuid.UUID
	Path   string
	Queued time.Time
}

// DaemonStatus reports the daemon's current state.
type DaemonStatus struct {
	Running          bool
	WatchDirectories []string
	LastActivity     time.Time
	FilesScanned     int
	ScanErrors       int
}

// Daemon watches the gcode directories and scans new files into the metadata
// store using a pool of workers fed from a shared job queue.
type Daemon struct {
	cfg     *config.Config
	watcher *Watcher
	scanner *metadata.Scanner

	jobs *concurrentqueue.ConcurrentQueue[ScanJob]
	wake chan struct{}
	stop chan struct{}
	wg   sync.WaitGroup

	scanned      int
	scanErrors   int
	lastActivity time.Time

	// Called after each completed scan; md is nil when the scan failed.
	callback func(job ScanJob, md *types.Metadata, err error)

	mutex   sync.RWMutex
	running bool
}

// NewDaemon creates the scan daemon.
func NewDaemon(cfg *config.Config, scanner *metadata.Scanner) (*Daemon, error) {
	watcher, err := NewWatcher(cfg.GcodeGlobs())
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher for daemon: %w", err)
	}

	return &Daemon{
		cfg:          cfg,
		watcher:      watcher,
		scanner:      scanner,
		jobs:         concurrentqueue.New[ScanJob](),
		wake:         make(chan struct{}, 1024),
		lastActivity: time.Now(),
	}, nil
}

// SetCallback registers a function invoked after every scan attempt.
func (d *Daemon) SetCallback(cb func(ScanJob, *types.Metadata, error)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = cb
}

// Start watches the configured gcode directories and launches the scan
// workers.
func (d *Daemon) Start() error {
	d.mutex.Lock()
	if d.running {
		d.mutex.Unlock()
		return fmt.Errorf("daemon is already running")
	}
	d.running = true
	d.stop = make(chan struct{})
	d.mutex.Unlock()

	for _, dir := range d.cfg.Gcodes.Dirs {
		if err := d.watcher.AddDirectory(dir); err != nil {
			return fmt.Errorf("error adding watch directory %s: %w", dir, err)
		}
	}
	if len(d.watcher.GetDirectories()) == 0 {
		return fmt.Errorf("no directories to watch")
	}

	if err := d.watcher.Start(); err != nil {
		return fmt.Errorf("error starting watcher: %w", err)
	}

	workers := d.cfg.Watch.Workers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}

	go d.pumpEvents()

	log.LogWithFields(log.F("workers", workers)).Info("Scan daemon started")
	return nil
}

// Stop halts the daemon and waits for in-flight scans to finish.
func (d *Daemon) Stop() {
	d.mutex.Lock()
	if !d.running {
		d.mutex.Unlock()
		return
	}
	d.running = false
	d.mutex.Unlock()

	d.watcher.Stop()
	close(d.stop)
	d.wg.Wait()

	log.Info("Scan daemon stopped")
}

// Status returns the daemon's current statistics.
func (d *Daemon) Status() DaemonStatus {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	return DaemonStatus{
		Running:          d.running,
		WatchDirectories: d.watcher.GetDirectories(),
		LastActivity:     d.lastActivity,
		FilesScanned:     d.scanned,
		ScanErrors:       d.scanErrors,
	}
}

// pumpEvents turns watcher events into queued scan jobs.
func (d *Daemon) pumpEvents() {
	for event := range d.watcher.FileChannel() {
		job := ScanJob{
			ID:     uuid.New(),
			Path:   event.Path,
			Queued: event.Timestamp,
		}

		d.mutex.Lock()
		d.lastActivity = event.Timestamp
		d.mutex.Unlock()

		d.jobs.Enqueue(job)
		select {
		case d.wake <- struct{}{}:
		default:
		}

		log.LogWithFields(log.F("job", job.ID.String()), log.F("file", event.Path)).Debug("Queued gcode scan")
	}
}

// worker drains the job queue. A debounce delay before each scan gives the
// slicer or upload a moment to finish writing the file.
func (d *Daemon) worker() {
	defer d.wg.Done()

	debounce := time.Duration(d.cfg.Watch.Debounce) * time.Millisecond

	// One wake token is sent per queued job, so a token always has a job
	// behind it and Dequeue never races past the queue's tail.
	for {
		select {
		case <-d.stop:
			return
		case <-d.wake:
		}

		if d.jobs.IsEmpty() {
			continue
		}
		job := d.jobs.Dequeue()

		if debounce > 0 {
			select {
			case <-d.stop:
				return
			case <-time.After(debounce):
			}
		}

		d.runJob(job)
	}
}

func (d *Daemon) runJob(job ScanJob) {
	md, err := d.scanner.Scan(job.Path, true)

	d.mutex.Lock()
	if err != nil {
		d.scanErrors++
	} else {
		d.scanned++
	}
	d.lastActivity = time.Now()
	cb := d.callback
	d.mutex.Unlock()

	if err != nil {
		log.LogWithFields(log.F("job", job.ID.String()), log.F("file", job.Path), log.F("error", err)).Warn("Gcode scan failed")
	}

	if cb != nil {
		cb(job, md, err)
	}
}
