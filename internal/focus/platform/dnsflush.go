// Package platform holds the OS-facing pieces: resolver cache flushing,
// privilege checks, login autostart, and the optional process guard.
package platform

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/common/log"
)

const flushTimeout = 10 * time.Second

// DNSFlusher invalidates the OS resolver cache so hosts file changes take
// effect without waiting for cached lookups to expire.
type DNSFlusher struct {
	logger log.Logger
}

func NewDNSFlusher(logger log.Logger) *DNSFlusher {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &DNSFlusher{logger: logger}
}

// Flush runs the platform's cache-flush commands. Failures are logged and
// folded into the returned error, but a missing tool on one platform never
// panics or blocks; callers treat the whole operation as best-effort.
func (f *DNSFlusher) Flush(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()

	var lastErr error
	for _, argv := range flushCommands() {
		cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
		if out, err := cmd.CombinedOutput(); err != nil {
			f.logger.Debug(map[string]any{
				"cmd":    strings.Join(argv, " "),
				"output": strings.TrimSpace(string(out)),
				"error":  err.Error(),
			}, "dns flush command failed")
			lastErr = err
			continue
		}
		f.logger.Debug(map[string]any{"cmd": strings.Join(argv, " ")}, "dns cache flushed")
		return nil
	}
	return lastErr
}
