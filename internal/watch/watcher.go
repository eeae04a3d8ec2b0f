package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Chain-Defenders/forge-defender/internal/config"
	"github.com/Chain-Defenders/forge-defender/internal/ui"
)

// debounceDelay coalesces the event bursts editors and forge emit into a
// single onChange call.
const debounceDelay = 500 * time.Millisecond

// Watcher watches the configured test directories and invokes onChange
// after Solidity sources are created, written, renamed or removed.
type Watcher struct {
	config   *config.Config
	log      *ui.Logger
	onChange func()
	skipDirs map[string]bool
}

// New creates a Watcher.
func New(cfg *config.Config, log *ui.Logger, onChange func()) *Watcher {
	skipMap := make(map[string]bool)
	for _, dir := range cfg.SkipDirs {
		skipMap[dir] = true
	}
	return &Watcher{
		config:   cfg,
		log:      log,
		onChange: onChange,
		skipDirs: skipMap,
	}
}

// Watch blocks until the context is cancelled, invoking onChange after
// each debounced burst of relevant file-system events.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	watched := 0
	for _, root := range w.config.TestRoots() {
		n, err := w.addTree(fw, root)
		if err != nil {
			w.log.Warnf("not watching %s: %v", root, err)
			continue
		}
		watched += n
	}
	if watched == 0 {
		return fmt.Errorf("no test directories could be watched under %s", w.config.ProjectPath)
	}
	w.log.Infof("watching %d directories for changes", watched)

	var debounce *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			// New subdirectories need their own watch.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if _, err := w.addTree(fw, event.Name); err != nil {
						w.log.Debugf("not watching %s: %v", event.Name, err)
					}
				}
			}
			if !relevant(event) {
				continue
			}
			w.log.Debugf("change: %s %s", event.Op, event.Name)
			if debounce == nil {
				debounce = time.NewTimer(debounceDelay)
			} else {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(debounceDelay)
			}
			fire = debounce.C

		case <-fire:
			fire = nil
			w.onChange()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warnf("watch error: %v", err)
		}
	}
}

// relevant reports whether an event concerns a Solidity source.
func relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	return strings.HasSuffix(event.Name, ".sol")
}

// addTree registers root and all its non-skipped subdirectories, returning
// how many directories were added.
func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) (int, error) {
	added := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root {
			if strings.HasPrefix(name, ".") || w.skipDirs[name] {
				return filepath.SkipDir
			}
		}
		if err := fw.Add(path); err != nil {
			return err
		}
		added++
		return nil
	})
	return added, err
}
