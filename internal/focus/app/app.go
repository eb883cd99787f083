// Package app wires configuration, repositories, and services into a running
// application and exposes the CLI surface.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/common/clock"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/common/log"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/infra/config"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/platform"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/repos/blocklist"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/repos/blocklist/bloom"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/repos/blocklist/lru"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/repos/catalog"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/repos/hostsfile"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/repos/state"
	authsvc "github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/services/auth"
	syncsvc "github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/services/sync"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/services/watchdog"
)

const (
	version = "1.0.0"
	appName = "deepfocus"

	bloomFPRate   = 0.01
	guardInterval = 5 * time.Second
)

// Application holds the wired components.
type Application struct {
	Config   *config.AppConfig
	Store    *state.Store
	Hosts    *hostsfile.Repo
	Sync     *syncsvc.Service
	Auth     *authsvc.Service
	Watchdog *watchdog.Service
	Guard    *platform.ProcessGuard

	logger log.Logger
}

// Build loads configuration, configures logging, and constructs every layer.
func Build() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	if err := log.Configure(cfg.Env, cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("logging configuration error: %w", err)
	}
	logger := log.GetLogger()
	clk := &clock.RealClock{}

	store, err := state.Open(cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("opening state store: %w", err)
	}

	hosts := hostsfile.New(cfg.HostsPath, cfg.BackupDir, int(cfg.BackupKeep), cfg.RedirectIP, clk, logger)

	cache, err := lru.New(int(cfg.CacheSize))
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("building decision cache: %w", err)
	}
	index := blocklist.NewRepository(cache, bloom.NewFactory(), bloomFPRate)

	var flusher syncsvc.Flusher
	if cfg.FlushDNS {
		flusher = platform.NewDNSFlusher(logger)
	}

	syncService := syncsvc.New(syncsvc.Options{
		Hosts:      hosts,
		State:      store,
		Catalog:    catalog.Builtin{},
		Flusher:    flusher,
		Index:      index,
		Clock:      clk,
		Logger:     logger,
		RedirectIP: cfg.RedirectIP,
	})

	wd := watchdog.New(watchdog.Options{
		Reconciler: syncService,
		HostsPath:  cfg.HostsPath,
		Interval:   time.Duration(cfg.Interval) * time.Second,
		Logger:     logger,
	})

	var guard *platform.ProcessGuard
	if cfg.ProcessGuard {
		guard = platform.NewProcessGuard(cfg.GuardProcessList(), guardInterval, logger)
	}

	return &Application{
		Config:   cfg,
		Store:    store,
		Hosts:    hosts,
		Sync:     syncService,
		Auth:     authsvc.New(store),
		Watchdog: wd,
		Guard:    guard,
		logger:   logger,
	}, nil
}

// Close releases held resources.
func (a *Application) Close() error {
	return a.Store.Close()
}

// Run starts protection in the foreground: enforced categories are reset, the
// watchdog converges the hosts file, and the process guard (when configured)
// sweeps alongside. Blocks until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	a.logger.Info(map[string]any{
		"version":  version,
		"hosts":    a.Config.HostsPath,
		"interval": a.Config.Interval,
	}, "starting protection")

	if !platform.IsElevated() {
		a.logger.Warn(nil, "not running elevated, hosts file writes will likely fail")
	}

	if err := a.Auth.InitializeMainPassword(); err != nil {
		return fmt.Errorf("initializing main password: %w", err)
	}
	if err := a.Sync.ResetEnforced(); err != nil {
		return fmt.Errorf("resetting enforced groups: %w", err)
	}

	if a.Guard != nil && a.Guard.Enabled() {
		go func() {
			_ = a.Guard.Run(ctx)
		}()
	}

	err := a.Watchdog.Run(ctx)
	if err == context.Canceled {
		a.logger.Info(nil, "protection stopped")
		return nil
	}
	return err
}
