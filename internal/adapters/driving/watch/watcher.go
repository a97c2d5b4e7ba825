// Package watch re-runs the extraction whenever its input files change.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/qapairs/internal/core/domain"
	"github.com/custodia-labs/qapairs/internal/core/ports/driving"
	"github.com/custodia-labs/qapairs/internal/logger"
)

const (
	// DefaultQuiet is how long the inputs must stay unchanged before a run.
	DefaultQuiet = 500 * time.Millisecond

	// DefaultMinInterval is the minimum time between two runs.
	DefaultMinInterval = 2 * time.Second
)

// ResultFunc receives the outcome of every triggered run.
type ResultFunc func(extraction *domain.Extraction, err error)

// Option configures a Watcher.
type Option func(*Watcher)

// WithQuiet sets the quiet period that ends a burst of events.
func WithQuiet(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.quiet = d
		}
	}
}

// WithMinInterval sets the minimum time between two runs.
func WithMinInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithResultFunc sets the callback invoked after every run.
func WithResultFunc(fn ResultFunc) Option {
	return func(w *Watcher) {
		w.onResult = fn
	}
}

// Watcher watches input files and directories. Files are watched through
// their parent directory so editors that replace files are still seen.
type Watcher struct {
	service  driving.ExtractionService
	files    map[string]struct{}
	dirs     map[string]struct{}
	quiet    time.Duration
	limiter  *rate.Limiter
	onResult ResultFunc
}

// New creates a watcher over the given paths. Empty paths are ignored.
func New(service driving.ExtractionService, paths []string, opts ...Option) *Watcher {
	w := &Watcher{
		service: service,
		files:   make(map[string]struct{}),
		dirs:    make(map[string]struct{}),
		quiet:   DefaultQuiet,
		limiter: rate.NewLimiter(rate.Every(DefaultMinInterval), 1),
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = filepath.Clean(p)
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			w.dirs[abs] = struct{}{}
			continue
		}
		w.files[abs] = struct{}{}
	}
	return w
}

// Targets returns the directories the watcher subscribes to.
func (w *Watcher) Targets() []string {
	seen := make(map[string]struct{})
	var targets []string
	add := func(dir string) {
		if _, ok := seen[dir]; ok {
			return
		}
		seen[dir] = struct{}{}
		targets = append(targets, dir)
	}
	for dir := range w.dirs {
		add(dir)
	}
	for file := range w.files {
		add(filepath.Dir(file))
	}
	return targets
}

// Run blocks until ctx is done, running one extraction per settled burst
// of relevant events.
func (w *Watcher) Run(ctx context.Context) error {
	if w.service == nil {
		return eris.Wrap(domain.ErrInvalidInput, "watch: extraction service is required")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return eris.Wrap(err, "creating file watcher")
	}
	defer fsw.Close()

	for _, dir := range w.Targets() {
		if err := fsw.Add(dir); err != nil {
			return eris.Wrapf(err, "watching %s", dir)
		}
		logger.Debug("watching %s", dir)
	}

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				logger.L().Debug("input changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
				settle = time.After(w.quiet)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case <-settle:
			settle = nil
			if err := w.limiter.Wait(ctx); err != nil {
				return nil //nolint:nilerr // cancelled while waiting
			}
			w.runOnce(ctx)
		}
	}
}

// runOnce performs one extraction and reports it.
func (w *Watcher) runOnce(ctx context.Context) {
	extraction, err := w.service.Extract(ctx)
	if err != nil {
		logger.Error("extraction failed: %v", err)
	}
	if w.onResult != nil {
		w.onResult(extraction, err)
	}
}

// relevant reports whether an event touches a watched input.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}

	name, err := filepath.Abs(event.Name)
	if err != nil {
		name = filepath.Clean(event.Name)
	}
	if strings.HasPrefix(filepath.Base(name), ".") {
		return false
	}
	if _, ok := w.files[name]; ok {
		return true
	}
	_, ok := w.dirs[filepath.Dir(name)]
	return ok
}
