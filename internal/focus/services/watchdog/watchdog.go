// Package watchdog keeps the hosts file converged. It reconciles on a fixed
// interval and additionally watches the hosts directory so external edits
// (manual tampering, other tools rewriting the file) are repaired within the
// debounce window instead of waiting for the next tick.
package watchdog

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/common/log"
	syncsvc "github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/services/sync"
)

// Reconciler is the slice of the sync service the watchdog drives.
type Reconciler interface {
	Reconcile(ctx context.Context, force bool) (syncsvc.Result, error)
}

const defaultDebounce = 500 * time.Millisecond

type Service struct {
	reconciler Reconciler
	hostsPath  string
	interval   time.Duration
	debounce   time.Duration
	logger     log.Logger
}

type Options struct {
	Reconciler Reconciler
	HostsPath  string
	Interval   time.Duration
	Debounce   time.Duration
	Logger     log.Logger
}

func New(opts Options) *Service {
	d := opts.Debounce
	if d <= 0 {
		d = defaultDebounce
	}
	l := opts.Logger
	if l == nil {
		l = log.NewNoopLogger()
	}
	return &Service{
		reconciler: opts.Reconciler,
		hostsPath:  opts.HostsPath,
		interval:   opts.Interval,
		debounce:   d,
		logger:     l,
	}
}

// Run blocks until ctx is cancelled. One reconcile pass runs immediately so a
// freshly started watchdog repairs drift without waiting a full interval. A
// failed filesystem watch degrades to interval-only operation.
func (s *Service) Run(ctx context.Context) error {
	s.apply(ctx)

	var events chan fsnotify.Event
	var errs chan error
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.logger.Warn(map[string]any{"error": err.Error()}, "fs watch unavailable, interval-only mode")
	} else {
		defer watcher.Close()
		dir := filepath.Dir(s.hostsPath)
		if err := watcher.Add(dir); err != nil {
			s.logger.Warn(map[string]any{"dir": dir, "error": err.Error()}, "fs watch failed, interval-only mode")
		} else {
			events = watcher.Events
			errs = watcher.Errors
		}
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Debounce timer starts drained; file events arm it.
	debounce := time.NewTimer(s.debounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	s.logger.Info(map[string]any{
		"path":     s.hostsPath,
		"interval": s.interval.String(),
		"watching": events != nil,
	}, "watchdog started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(nil, "watchdog stopped")
			return ctx.Err()
		case <-ticker.C:
			s.apply(ctx)
		case ev := <-events:
			if s.relevant(ev) {
				debounce.Reset(s.debounce)
			}
		case err := <-errs:
			s.logger.Warn(map[string]any{"error": err.Error()}, "fs watch error")
		case <-debounce.C:
			s.logger.Info(map[string]any{"path": s.hostsPath}, "hosts file changed externally")
			s.apply(ctx)
		}
	}
}

// relevant filters watcher noise down to mutations of the hosts file itself.
// Rename and remove matter because atomic writers replace the file.
func (s *Service) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != filepath.Clean(s.hostsPath) {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) ||
		ev.Op.Has(fsnotify.Rename) || ev.Op.Has(fsnotify.Remove)
}

func (s *Service) apply(ctx context.Context) {
	res, err := s.reconciler.Reconcile(ctx, false)
	if err != nil {
		s.logger.Error(map[string]any{"error": err.Error()}, "reconcile failed")
		return
	}
	if res.Changed {
		s.logger.Info(map[string]any{"entries": res.Entries}, "drift repaired")
	}
}
