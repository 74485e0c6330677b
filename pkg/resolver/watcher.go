package resolver

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-pkgz/lgr"
)

// Watcher reloads lookup tables when files in the decoders directory change.
// A failed reload keeps the previous tables.
type Watcher struct {
	Dir      string
	Resolver *Resolver
	Debounce time.Duration // quiet period before reload, editors write files in several steps
}

// Run watches the directory until ctx is canceled
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.Dir, err)
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = time.Second
	}
	lgr.Printf("[INFO] watching lookup tables in %s", w.Dir)

	var timer *time.Timer
	var reload <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !isTableFile(ev.Name) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			lgr.Printf("[DEBUG] lookup table event %s", ev)
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			reload = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			lgr.Printf("[WARN] lookup table watcher: %v", err)
		case <-reload:
			reload = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	t, err := LoadTables(w.Dir)
	if err != nil {
		lgr.Printf("[WARN] can't reload lookup tables, keeping previous: %v", err)
		return
	}
	w.Resolver.Swap(t)
	lgr.Printf("[INFO] lookup tables reloaded, %d companies, %d tickers, %d symbols", len(t.Names), len(t.Tickers), len(t.Symbols))
}

func isTableFile(path string) bool {
	switch filepath.Base(path) {
	case NamesFile, TickersFile, SymbolsFile:
		return true
	}
	return false
}
