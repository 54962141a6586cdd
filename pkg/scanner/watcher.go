package scanner

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sati-bodhi/ui-canvas-framework/pkg/registry"
)

// DefaultDebounce groups bursts of file events into a single rescan.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches the layer roots and triggers a full rescan after
// changes settle. A full rescan keeps the manifest, layer projections,
// and stats consistent without incremental bookkeeping; scans on these
// trees are cheap.
type Watcher struct {
	fsw      *fsnotify.Watcher
	scanner  *Scanner
	store    *registry.Store
	root     string
	cfg      ScanConfig
	debounce time.Duration
	logger   *slog.Logger

	// OnScan, if set, is called with the report of each completed
	// rescan.
	OnScan func(*Report)

	timer   *time.Timer
	timerMu sync.Mutex

	// rescanMu serializes rescans. The debounce timer only spaces out
	// starts; without this, a timer firing while a scan is still running
	// would write the store from two goroutines.
	rescanMu sync.Mutex

	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// NewWatcher creates a watcher over the configured layer roots.
func NewWatcher(scanner *Scanner, store *registry.Store, projectRoot string, cfg ScanConfig, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		fsw:      fsw,
		scanner:  scanner,
		store:    store,
		root:     projectRoot,
		cfg:      cfg,
		debounce: DefaultDebounce,
		logger:   logger,
		stopChan: make(chan struct{}),
	}, nil
}

// Start registers the layer roots (and their subdirectories) and begins
// processing events in a background goroutine. Missing roots are
// skipped; they will be picked up on the next Start.
func (w *Watcher) Start() error {
	watched := 0
	for _, layer := range registry.AllLayers() {
		root, ok := w.cfg.LayerRoots[layer]
		if !ok {
			continue
		}
		absRoot := filepath.Join(w.root, root)
		if _, err := os.Stat(absRoot); os.IsNotExist(err) {
			w.logger.Debug("layer root absent, not watching", "root", root)
			continue
		}

		err := filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if info.IsDir() {
				if err := w.fsw.Add(path); err != nil {
					w.logger.Warn("failed to watch directory", "path", path, "error", err)
				} else {
					watched++
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("setup watches: %w", err)
		}
	}
	if watched == 0 {
		return fmt.Errorf("no layer directories to watch under %s", w.root)
	}

	w.logger.Info("watching for changes", "directories", watched)
	go w.eventLoop()
	return nil
}

// Stop stops the watcher. Idempotent.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)

	w.timerMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timerMu.Unlock()

	return w.fsw.Close()
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// New directories need to be added to the watch set; everything
	// else just schedules a rescan.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.fsw.Add(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
		}
	}

	w.logger.Debug("file event", "op", event.Op.String(), "path", event.Name)
	w.scheduleRescan()
}

// scheduleRescan resets the debounce timer; the rescan fires once
// events stop arriving for the debounce window.
func (w *Watcher) scheduleRescan() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.rescan)
}

func (w *Watcher) rescan() {
	w.rescanMu.Lock()
	defer w.rescanMu.Unlock()

	report, err := w.scanner.Run(w.root, w.cfg, w.store)
	if err != nil {
		w.logger.Error("rescan failed", "error", err)
		return
	}
	if w.OnScan != nil {
		w.OnScan(report)
	}
}
