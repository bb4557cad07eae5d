// ============================================================================
// trump - expression language front-end
// ============================================================================
//
// Package:     watch
// Description: Re-parses a source file whenever it changes on disk
// Author:      abyanmajid
// Created:     2026-10-17
// License:     MIT
// ============================================================================

package watch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	mdwerror "github.com/abyanmajid/trump/foundation/core/error"
	mdwlog "github.com/abyanmajid/trump/foundation/core/log"
	"github.com/abyanmajid/trump/foundation/lang"
	"github.com/abyanmajid/trump/pkg/core/logging"
)

// DefaultDebounce collapses the burst of events editors emit on save
const DefaultDebounce = 200 * time.Millisecond

// Callback receives each parse. err is set when the file could not be read
// or the engine rejected it; syntax errors arrive as diagnostics in result.
type Callback func(result *lang.Result, err error)

// Config holds watcher configuration
type Config struct {
	Path     string
	Debounce time.Duration
	Engine   *lang.Engine
	Logger   *mdwlog.Logger
}

// Watcher re-parses one file on change
type Watcher struct {
	path     string
	debounce time.Duration
	engine   *lang.Engine
	logger   *logging.Logger
}

// New creates a watcher for cfg.Path
func New(cfg Config) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, mdwerror.New("watch path is required").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("watch.New")
	}
	path, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to resolve watch path").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("watch.New")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Engine == nil {
		cfg.Engine = lang.NewEngine(lang.Options{Logger: cfg.Logger})
	}

	return &Watcher{
		path:     path,
		debounce: cfg.Debounce,
		engine:   cfg.Engine,
		logger:   logging.Wrap("watch", cfg.Logger),
	}, nil
}

// Path returns the absolute watched path
func (w *Watcher) Path() string {
	return w.path
}

// Run parses the file once, then again after every change, until ctx is done.
// The parent directory is watched so that editors which replace the file on
// save keep being followed.
func (w *Watcher) Run(ctx context.Context, cb Callback) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return mdwerror.Wrap(err, "failed to create watcher").
			WithCode(mdwerror.CodeInternal).
			WithOperation("watch.Run")
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return mdwerror.Wrap(err, "failed to watch directory").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("watch.Run").
			WithDetail("path", w.path)
	}

	w.logger.Info("Watching file", "path", w.path)
	cb(w.parse())

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping file watcher", "path", w.path)
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			w.logger.Debug("File event", "op", event.Op.String())
			timer.Reset(w.debounce)

		case <-timer.C:
			cb(w.parse())

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)
		}
	}
}

func (w *Watcher) parse() (*lang.Result, error) {
	source, err := os.ReadFile(w.path)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to read source file").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("watch.parse").
			WithDetail("path", w.path)
	}
	return w.engine.Parse(string(source))
}
