// Package watch re-renders the figures whenever the staged images
// change on disk. Events are debounced so a burst of writes (an
// editor save, a copy of several files) triggers one render.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Debounce window between the last file event and the re-render.
const defaultDebounce = 500 * time.Millisecond

// Watcher observes a directory of staged PNGs and invokes a render
// callback after changes settle.
type Watcher struct {
	dir      string
	debounce time.Duration
	log      zerolog.Logger
	render   func() error
}

// New builds a watcher over dir calling render after each settled
// burst of changes.
func New(dir string, log zerolog.Logger, render func() error) *Watcher {
	return &Watcher{
		dir:      dir,
		debounce: defaultDebounce,
		log:      log,
		render:   render,
	}
}

// Run blocks, re-rendering on changes, until ctx is cancelled. The
// initial render happens immediately so the figures directory is
// populated even when nothing changes afterwards.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	if err := w.render(); err != nil {
		w.log.Error().Err(err).Msg("initial render failed")
	}
	w.log.Info().Str("dir", w.dir).Msg("watching for changes")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !isImageEvent(event) {
				continue
			}
			w.log.Debug().Str("file", filepath.Base(event.Name)).Str("op", event.Op.String()).Msg("change detected")
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watch error")

		case <-timer.C:
			pending = false
			if err := w.render(); err != nil {
				w.log.Error().Err(err).Msg("render failed")
			}
		}
	}
}

// isImageEvent reports whether the event is a content change of a
// staged PNG.
func isImageEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return strings.EqualFold(filepath.Ext(event.Name), ".png")
}
