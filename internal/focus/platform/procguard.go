package platform

import (
	"context"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/common/log"
)

// ProcessGuard terminates configured processes while protection is active.
// Hosts blocking stops name resolution but not applications that were already
// running or that bypass DNS; the guard closes that gap for named binaries.
// Disabled unless process names are configured.
type ProcessGuard struct {
	names    map[string]struct{}
	interval time.Duration
	logger   log.Logger
}

func NewProcessGuard(names []string, interval time.Duration, logger log.Logger) *ProcessGuard {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			set[n] = struct{}{}
		}
	}
	return &ProcessGuard{names: set, interval: interval, logger: logger}
}

// Enabled reports whether any process names are configured.
func (g *ProcessGuard) Enabled() bool { return len(g.names) > 0 }

// Run scans and kills matching processes until ctx is cancelled.
func (g *ProcessGuard) Run(ctx context.Context) error {
	if !g.Enabled() {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	g.logger.Info(map[string]any{"targets": len(g.names)}, "process guard started")
	for {
		select {
		case <-ctx.Done():
			g.logger.Info(nil, "process guard stopped")
			return ctx.Err()
		case <-ticker.C:
			g.sweep(ctx)
		}
	}
}

// sweep kills every running process whose executable name is on the list.
func (g *ProcessGuard) sweep(ctx context.Context) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		g.logger.Warn(map[string]any{"error": err.Error()}, "process scan failed")
		return
	}
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		if _, ok := g.names[strings.ToLower(name)]; !ok {
			continue
		}
		if err := p.KillWithContext(ctx); err != nil {
			g.logger.Warn(map[string]any{"pid": p.Pid, "name": name, "error": err.Error()}, "kill failed")
			continue
		}
		g.logger.Info(map[string]any{"pid": p.Pid, "name": name}, "blocked process terminated")
	}
}
