package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher re-imports a seed file whenever it changes on disk.
type Watcher struct {
	path     string
	importer *Importer
	debounce time.Duration
	onReload func(*ImportResult)

	lastFingerprint string
}

// NewWatcher creates a watcher for path. onReload runs after each import that
// changed the catalogue; it may be nil.
func NewWatcher(path string, importer *Importer, onReload func(*ImportResult)) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("seed path is required")
	}
	if importer == nil {
		return nil, errors.New("importer cannot be nil")
	}

	return &Watcher{
		path:     filepath.Clean(path),
		importer: importer,
		debounce: defaultDebounce,
		onReload: onReload,
	}, nil
}

// SetDebounce changes the quiet period between the last change and the reload.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Prime records the fingerprint of the catalogue already loaded so an
// unchanged file does not trigger a reload.
func (w *Watcher) Prime(fingerprint string) {
	w.lastFingerprint = fingerprint
}

// Run watches until ctx is cancelled. The parent directory is watched because
// editors often replace files instead of writing them in place.
func (w *Watcher) Run(ctx context.Context) (err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch seed directory: %w", err)
	}

	log.Printf("Watching %s for catalogue changes", w.path)

	// Idle until the first event; Stop leaves no stale tick on C.
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.debounce)

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("File watcher error: %v", werr)

		case <-timer.C:
			w.reload(ctx)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		log.Printf("Catalogue reload failed: %v", err)
		return
	}

	if Fingerprint(data) == w.lastFingerprint {
		return
	}

	result, err := w.importer.Import(ctx, data, w.path)
	if err != nil {
		log.Printf("Catalogue reload failed: %v", err)
		return
	}
	w.lastFingerprint = result.Fingerprint

	if w.onReload != nil {
		w.onReload(result)
	}
}
