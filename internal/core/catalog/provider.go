package catalog

import (
	"context"
	"os"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	perr "incant/internal/platform/errors"
	"incant/internal/platform/logger"
)

// LoadFile compiles a catalog from a file on disk
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeConfiguration, "catalog: read %s", path)
	}
	return Parse(data)
}

// Provider hands out the current Snapshot and supports atomic replacement.
// Readers always see a complete catalog; a broken reload keeps the previous
// snapshot in place
type Provider struct {
	cur atomic.Pointer[Snapshot]
	log logger.Logger
}

// NewProvider wraps an already-compiled snapshot
func NewProvider(snap *Snapshot, log logger.Logger) *Provider {
	p := &Provider{log: log}
	p.cur.Store(snap)
	return p
}

// Snapshot returns the current compiled catalog
func (p *Provider) Snapshot() *Snapshot { return p.cur.Load() }

// Swap installs a new snapshot
func (p *Provider) Swap(s *Snapshot) { p.cur.Store(s) }

// Watch reloads the catalog whenever path changes, until ctx is done.
// Reload failures are logged and the previous snapshot stays live
func (p *Provider) Watch(ctx context.Context, path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "catalog: start watcher")
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return perr.Wrapf(err, perr.ErrorCodeConfiguration, "catalog: watch %s", path)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
					continue
				}
				snap, err := LoadFile(path)
				if err != nil {
					p.log.Warn().Err(err).Str("path", path).Msg("catalog reload failed, keeping previous snapshot")
					continue
				}
				p.Swap(snap)
				p.log.Info().Str("path", path).Int("version", snap.Version).Msg("catalog reloaded")
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				p.log.Warn().Err(err).Msg("catalog watcher error")
			}
		}
	}()
	return nil
}
