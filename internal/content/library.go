package content

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tomz197/railshooter/internal/object"
	"github.com/tomz197/railshooter/internal/parts"
)

// Library holds the current catalogs and swaps them when files change. It is
// shared by every session and safe for concurrent use; the catalogs it hands
// out are never mutated.
type Library struct {
	dir string

	mu      sync.RWMutex
	bosses  object.BossCatalog
	parts   parts.Catalog
	version uint64
}

// NewLibrary loads both catalogs from dir (or the embedded copies).
func NewLibrary(dir string) (*Library, error) {
	bosses, err := LoadBossCatalog(dir)
	if err != nil {
		return nil, err
	}
	partsCatalog, err := LoadPartsCatalog(dir)
	if err != nil {
		return nil, err
	}
	return &Library{dir: dir, bosses: bosses, parts: partsCatalog}, nil
}

// Bosses returns the current boss tiers.
func (l *Library) Bosses() object.BossCatalog {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.bosses
}

// Parts returns the current shop parts.
func (l *Library) Parts() parts.Catalog {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.parts
}

// Version increases on every successful reload.
func (l *Library) Version() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

// Reload re-reads the named file. On error the previous catalog stays.
func (l *Library) Reload(name string) error {
	switch cleanPath(name) {
	case BossesFile:
		c, err := LoadBossCatalog(l.dir)
		if err != nil {
			return err
		}
		l.mu.Lock()
		l.bosses = c
		l.version++
		l.mu.Unlock()
	case PartsFile:
		c, err := LoadPartsCatalog(l.dir)
		if err != nil {
			return err
		}
		l.mu.Lock()
		l.parts = c
		l.version++
		l.mu.Unlock()
	default:
		return fmt.Errorf("content: %s is not a content file", name)
	}
	return nil
}

// Watch applies the watcher's events until ctx is done or the watcher
// closes.
func (l *Library) Watch(ctx context.Context, w *Watcher, logger *log.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case name, ok := <-w.Events:
			if !ok {
				return
			}
			if err := l.Reload(name); err != nil {
				logger.Warn("content reload failed", "file", name, "err", err)
				continue
			}
			logger.Info("content reloaded", "file", name, "version", l.Version())
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("content watcher error", "err", err)
		}
	}
}
