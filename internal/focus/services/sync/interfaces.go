package sync

import (
	"context"

	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/domain"
)

// HostsRepo is the hosts file boundary: the service only sees managed entries
// and snapshots, never raw file contents.
type HostsRepo interface {
	ManagedEntries() ([]domain.Entry, error)
	SetManagedEntries(entries []domain.Entry, managed map[string]struct{}) error
	Backup(force bool) (domain.Snapshot, error)
	Snapshots() ([]domain.Snapshot, error)
	Restore(snapshotPath string) error
}

// StateStore persists group toggles, custom domains, and per-group imports.
type StateStore interface {
	GroupEnabled(name string, def bool) bool
	SetGroupEnabled(name string, enabled bool) error
	CustomDomains() ([]string, error)
	AddCustomDomain(domain string) error
	RemoveCustomDomain(domain string) error
	HasCustomDomain(domain string) bool
	ImportedDomains(group string) ([]string, error)
	AddImportedDomains(group string, domains []string) (int, error)
}

// Catalog exposes the built-in groups.
type Catalog interface {
	Groups() []domain.Group
	Lookup(name string) (domain.Group, bool)
	Enforced(name string) bool
}

// Flusher invalidates the OS resolver cache after the hosts file changes.
type Flusher interface {
	Flush(ctx context.Context) error
}

// BlockIndex is the queryable mirror of the active block set.
type BlockIndex interface {
	Update(rules []domain.Rule, updatedUnix int64) error
	Decide(name string) domain.Decision
}
