// Package sync reconciles the desired block set against the hosts file.
// The desired set is derived from the catalog, the persisted group toggles,
// per-group imports, and the user's custom domains; reconciliation is a no-op
// when the managed region already matches.
package sync

import (
	"context"
	"fmt"

	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/common/clock"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/common/log"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/common/utils"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/domain"
)

// CustomGroup labels entries sourced from user custom domains.
const CustomGroup = "custom"

type Service struct {
	hosts      HostsRepo
	state      StateStore
	catalog    Catalog
	flusher    Flusher
	index      BlockIndex
	clock      clock.Clock
	logger     log.Logger
	redirectIP string
}

type Options struct {
	Hosts      HostsRepo
	State      StateStore
	Catalog    Catalog
	Flusher    Flusher
	Index      BlockIndex
	Clock      clock.Clock
	Logger     log.Logger
	RedirectIP string
}

func New(opts Options) *Service {
	c := opts.Clock
	if c == nil {
		c = clock.RealClock{}
	}
	l := opts.Logger
	if l == nil {
		l = log.NewNoopLogger()
	}
	return &Service{
		hosts:      opts.Hosts,
		state:      opts.State,
		catalog:    opts.Catalog,
		flusher:    opts.Flusher,
		index:      opts.Index,
		clock:      c,
		logger:     l,
		redirectIP: opts.RedirectIP,
	}
}

// Result summarizes one reconciliation pass.
type Result struct {
	Changed bool
	Entries int
}

// GroupStatus is one row of the status report.
type GroupStatus struct {
	Name    string
	Kind    domain.GroupKind
	Enabled bool
	Domains int
}

// Status is the overall block-state report.
type Status struct {
	Groups  []GroupStatus
	Custom  []string
	Entries int
}

// Desired computes the entry list the managed region should contain, plus the
// matching exact rules for the block index. Enabled catalog groups contribute
// their built-in and imported domains; custom domains are expanded to their
// variations (www and apex forms). The first group to claim a domain keeps it.
func (s *Service) Desired() ([]domain.Entry, []domain.Rule, error) {
	now := s.clock.Now()
	seen := make(map[string]struct{})
	var entries []domain.Entry
	var rules []domain.Rule

	add := func(name, group string) {
		cn := utils.CanonicalDomain(name)
		if cn == "" {
			return
		}
		if _, ok := seen[cn]; ok {
			return
		}
		e, err := domain.NewEntry(s.redirectIP, cn, group)
		if err != nil {
			s.logger.Warn(map[string]any{"domain": cn, "group": group, "error": err.Error()}, "skipping invalid entry")
			return
		}
		r, err := domain.NewExactRule(cn, group, now)
		if err != nil {
			s.logger.Warn(map[string]any{"domain": cn, "group": group, "error": err.Error()}, "skipping invalid rule")
			return
		}
		seen[cn] = struct{}{}
		entries = append(entries, e)
		rules = append(rules, r)
	}

	for _, g := range s.catalog.Groups() {
		if !s.state.GroupEnabled(g.Name, g.Enabled) {
			continue
		}
		for _, d := range g.Domains {
			add(d, g.Name)
		}
		imported, err := s.state.ImportedDomains(g.Name)
		if err != nil {
			return nil, nil, fmt.Errorf("loading imports for %s: %w", g.Name, err)
		}
		for _, d := range imported {
			add(d, g.Name)
		}
	}

	custom, err := s.state.CustomDomains()
	if err != nil {
		return nil, nil, fmt.Errorf("loading custom domains: %w", err)
	}
	for _, d := range custom {
		for _, v := range utils.DomainVariations(d) {
			add(v, CustomGroup)
		}
	}

	return entries, rules, nil
}

// managedDomains is the universe of names the tool may ever write: every
// catalog domain plus imports and custom variations, regardless of toggles.
// Stray untagged redirect lines for these are absorbed on write, so a hand
// edit cannot keep a disabled group's domain blocked.
func (s *Service) managedDomains() (map[string]struct{}, error) {
	out := make(map[string]struct{})
	add := func(name string) {
		if cn := utils.CanonicalDomain(name); cn != "" {
			out[cn] = struct{}{}
		}
	}
	for _, g := range s.catalog.Groups() {
		for _, d := range g.Domains {
			add(d)
		}
		imported, err := s.state.ImportedDomains(g.Name)
		if err != nil {
			return nil, fmt.Errorf("loading imports for %s: %w", g.Name, err)
		}
		for _, d := range imported {
			add(d)
		}
	}
	custom, err := s.state.CustomDomains()
	if err != nil {
		return nil, fmt.Errorf("loading custom domains: %w", err)
	}
	for _, d := range custom {
		for _, v := range utils.DomainVariations(d) {
			add(v)
		}
	}
	return out, nil
}

// Reconcile brings the hosts file in line with the desired block set and
// refreshes the block index. The hosts file is only touched when the managed
// region differs (or force is set); the resolver cache is flushed after any
// write so stale lookups do not outlive the change.
func (s *Service) Reconcile(ctx context.Context, force bool) (Result, error) {
	desired, rules, err := s.Desired()
	if err != nil {
		return Result{}, err
	}

	current, err := s.hosts.ManagedEntries()
	if err != nil {
		return Result{}, err
	}

	changed := !entriesEqual(current, desired)
	if changed || force {
		managed, err := s.managedDomains()
		if err != nil {
			return Result{}, err
		}
		if err := s.hosts.SetManagedEntries(desired, managed); err != nil {
			// One retry covers transient interference from other writers
			// (editors, AV tools) holding the file briefly.
			s.logger.Warn(map[string]any{"error": err.Error()}, "hosts write failed, retrying once")
			if err = s.hosts.SetManagedEntries(desired, managed); err != nil {
				return Result{}, err
			}
		}
		s.flush(ctx)
	}

	if s.index != nil {
		if err := s.index.Update(rules, s.clock.Now().Unix()); err != nil {
			s.logger.Warn(map[string]any{"error": err.Error()}, "block index update failed")
		}
	}

	if changed {
		s.logger.Info(map[string]any{"entries": len(desired)}, "block set applied")
	}
	return Result{Changed: changed, Entries: len(desired)}, nil
}

// EnableGroup turns a catalog group on and reconciles.
func (s *Service) EnableGroup(ctx context.Context, name string) error {
	return s.setGroup(ctx, name, true)
}

// DisableGroup turns a catalog group off and reconciles. Callers gate this on
// password verification; the service itself only flips state.
func (s *Service) DisableGroup(ctx context.Context, name string) error {
	return s.setGroup(ctx, name, false)
}

func (s *Service) setGroup(ctx context.Context, name string, enabled bool) error {
	cn := utils.CanonicalDomain(name)
	if _, ok := s.catalog.Lookup(cn); !ok {
		return fmt.Errorf("unknown group: %s", name)
	}
	if err := s.state.SetGroupEnabled(cn, enabled); err != nil {
		return err
	}
	_, err := s.Reconcile(ctx, false)
	return err
}

// ResetEnforced re-enables every enforced catalog group. Runs at startup so a
// disable of an enforced category never survives a restart.
func (s *Service) ResetEnforced() error {
	for _, g := range s.catalog.Groups() {
		if !s.catalog.Enforced(g.Name) {
			continue
		}
		if err := s.state.SetGroupEnabled(g.Name, true); err != nil {
			return err
		}
	}
	return nil
}

// AddCustom validates and records a custom domain, then reconciles.
func (s *Service) AddCustom(ctx context.Context, raw string) error {
	d := utils.SanitizeDomain(raw)
	if err := utils.ValidateDomain(d); err != nil {
		return err
	}
	if err := s.state.AddCustomDomain(d); err != nil {
		return err
	}
	_, err := s.Reconcile(ctx, false)
	return err
}

// RemoveCustom drops a custom domain and reconciles.
func (s *Service) RemoveCustom(ctx context.Context, raw string) error {
	d := utils.SanitizeDomain(raw)
	if !s.state.HasCustomDomain(d) {
		return fmt.Errorf("domain not in custom list: %s", d)
	}
	if err := s.state.RemoveCustomDomain(d); err != nil {
		return err
	}
	_, err := s.Reconcile(ctx, false)
	return err
}

// Import appends rule names to a catalog group's import list and reconciles.
// Returns how many domains were newly added.
func (s *Service) Import(ctx context.Context, group string, rules []domain.Rule) (int, error) {
	cn := utils.CanonicalDomain(group)
	if _, ok := s.catalog.Lookup(cn); !ok {
		return 0, fmt.Errorf("unknown group: %s", group)
	}
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.Name)
	}
	added, err := s.state.AddImportedDomains(cn, names)
	if err != nil {
		return 0, err
	}
	if _, err := s.Reconcile(ctx, false); err != nil {
		return added, err
	}
	return added, nil
}

// RefreshIndex rebuilds the block index from the desired set without touching
// the hosts file. Read-only commands use this so they work unelevated.
func (s *Service) RefreshIndex() error {
	if s.index == nil {
		return nil
	}
	_, rules, err := s.Desired()
	if err != nil {
		return err
	}
	return s.index.Update(rules, s.clock.Now().Unix())
}

// Check reports whether a domain is in the active block set.
func (s *Service) Check(name string) domain.Decision {
	if s.index == nil {
		return domain.EmptyDecision()
	}
	return s.index.Decide(utils.SanitizeDomain(name))
}

// Status reports group toggles, custom domains, and the desired entry count.
func (s *Service) Status() (Status, error) {
	var st Status
	for _, g := range s.catalog.Groups() {
		imported, err := s.state.ImportedDomains(g.Name)
		if err != nil {
			return Status{}, err
		}
		st.Groups = append(st.Groups, GroupStatus{
			Name:    g.Name,
			Kind:    g.Kind,
			Enabled: s.state.GroupEnabled(g.Name, g.Enabled),
			Domains: len(g.Domains) + len(imported),
		})
	}
	custom, err := s.state.CustomDomains()
	if err != nil {
		return Status{}, err
	}
	st.Custom = custom

	entries, _, err := s.Desired()
	if err != nil {
		return Status{}, err
	}
	st.Entries = len(entries)
	return st, nil
}

// Snapshots lists hosts file backups, newest first.
func (s *Service) Snapshots() ([]domain.Snapshot, error) {
	return s.hosts.Snapshots()
}

// Backup takes an explicit hosts file snapshot.
func (s *Service) Backup() (domain.Snapshot, error) {
	return s.hosts.Backup(true)
}

// Restore replaces the hosts file with a snapshot and flushes the resolver
// cache. The block set is deliberately not re-applied; the next reconcile or
// watchdog tick will do that.
func (s *Service) Restore(ctx context.Context, snapshotPath string) error {
	if err := s.hosts.Restore(snapshotPath); err != nil {
		return err
	}
	s.flush(ctx)
	return nil
}

func (s *Service) flush(ctx context.Context) {
	if s.flusher == nil {
		return
	}
	if err := s.flusher.Flush(ctx); err != nil {
		s.logger.Warn(map[string]any{"error": err.Error()}, "dns cache flush failed")
	}
}

func entriesEqual(a, b []domain.Entry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
