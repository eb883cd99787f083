package hostsfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/common/clock"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/common/log"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/domain"
)

func newTestRepo(t *testing.T, keep int) (*Repo, string, *clock.MockClock) {
	t.Helper()
	dir := t.TempDir()
	hosts := filepath.Join(dir, "hosts")
	clk := &clock.MockClock{}
	clk.Set(time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local))
	repo := New(hosts, filepath.Join(dir, "backups"), keep, "127.0.0.1", clk, log.NewNoopLogger())
	return repo, hosts, clk
}

func TestLoad_MissingFileUsesTemplate(t *testing.T) {
	repo, _, _ := newTestRepo(t, 3)

	doc, err := repo.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(doc.Entries) != 0 {
		t.Fatalf("template should have no managed entries, got %v", doc.Entries)
	}
	found := false
	for _, l := range doc.Passthrough {
		if strings.Contains(l, "localhost") {
			found = true
		}
	}
	if !found {
		t.Fatalf("template missing localhost line: %v", doc.Passthrough)
	}
}

func TestStoreAndLoad_RoundTrip(t *testing.T) {
	repo, hosts, _ := newTestRepo(t, 3)
	if err := os.WriteFile(hosts, []byte("127.0.0.1 localhost\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := repo.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	e1, _ := domain.NewEntry("127.0.0.1", "facebook.com", "facebook")
	e2, _ := domain.NewEntry("127.0.0.1", "fb.com", "facebook")
	doc.SetEntries([]domain.Entry{e1, e2})

	if err := repo.Store(doc); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}

	got, err := repo.Load()
	if err != nil {
		t.Fatalf("re-Load returned error: %v", err)
	}
	domains := got.Domains()
	if domains["facebook.com"] != "facebook" || domains["fb.com"] != "facebook" {
		t.Fatalf("round trip lost entries: %v", domains)
	}
	if got.Passthrough[0] != "127.0.0.1 localhost" {
		t.Fatalf("pass-through changed: %v", got.Passthrough)
	}

	// No partial temp files left behind.
	files, _ := os.ReadDir(filepath.Dir(hosts))
	for _, f := range files {
		if strings.HasPrefix(f.Name(), ".hosts-") {
			t.Errorf("temp file left behind: %s", f.Name())
		}
	}
}

func TestStore_RecreatesMissingFile(t *testing.T) {
	repo, hosts, _ := newTestRepo(t, 3)

	doc, err := repo.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	e, _ := domain.NewEntry("127.0.0.1", "example.com", "custom")
	doc.SetEntries([]domain.Entry{e})
	if err := repo.Store(doc); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}

	data, err := os.ReadFile(hosts)
	if err != nil {
		t.Fatalf("hosts file not recreated: %v", err)
	}
	if !strings.Contains(string(data), "127.0.0.1 localhost") {
		t.Errorf("recreated file missing template content:\n%s", data)
	}
	if !strings.Contains(string(data), "example.com") {
		t.Errorf("recreated file missing managed entry:\n%s", data)
	}
}

func TestSetManagedEntries_RoundTrip(t *testing.T) {
	repo, _, _ := newTestRepo(t, 3)
	e, _ := domain.NewEntry("127.0.0.1", "facebook.com", "facebook")

	if err := repo.SetManagedEntries([]domain.Entry{e}, nil); err != nil {
		t.Fatalf("SetManagedEntries returned error: %v", err)
	}
	got, err := repo.ManagedEntries()
	if err != nil {
		t.Fatalf("ManagedEntries returned error: %v", err)
	}
	if len(got) != 1 || got[0] != e {
		t.Fatalf("managed entries = %v", got)
	}
}

func TestSetManagedEntries_AbsorbsUntaggedStrays(t *testing.T) {
	repo, hosts, _ := newTestRepo(t, 3)
	stale := "127.0.0.1 localhost\n127.0.0.1 facebook.com\n"
	if err := os.WriteFile(hosts, []byte(stale), 0o644); err != nil {
		t.Fatal(err)
	}

	// Writing an empty block set must still clear the stale line, or the
	// domain would stay blocked after its group is disabled.
	managed := map[string]struct{}{"facebook.com": {}, "fb.com": {}}
	if err := repo.SetManagedEntries(nil, managed); err != nil {
		t.Fatalf("SetManagedEntries returned error: %v", err)
	}

	data, err := os.ReadFile(hosts)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "facebook.com") {
		t.Fatalf("stale untagged line survived:\n%s", data)
	}
	if !strings.Contains(string(data), "127.0.0.1 localhost") {
		t.Fatalf("unmanaged line lost:\n%s", data)
	}
}

func TestBackup_SkipHeuristicAndForce(t *testing.T) {
	repo, hosts, clk := newTestRepo(t, 5)
	if err := os.WriteFile(hosts, []byte("127.0.0.1 localhost\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	snap, err := repo.Backup(false)
	if err != nil {
		t.Fatalf("Backup returned error: %v", err)
	}
	if snap.Path == "" {
		t.Fatal("first backup should not be skipped")
	}

	// Unchanged size within the minimum gap: skipped.
	clk.Advance(time.Minute)
	snap, err = repo.Backup(false)
	if err != nil {
		t.Fatalf("Backup returned error: %v", err)
	}
	if snap.Path != "" {
		t.Fatal("expected backup skip for unchanged file")
	}

	// Force overrides the heuristic.
	clk.Advance(time.Second)
	snap, err = repo.Backup(true)
	if err != nil {
		t.Fatalf("forced Backup returned error: %v", err)
	}
	if snap.Path == "" {
		t.Fatal("forced backup should not be skipped")
	}

	// A size change also defeats the heuristic.
	if err := os.WriteFile(hosts, []byte("127.0.0.1 localhost\n# grew\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	clk.Advance(time.Second)
	snap, err = repo.Backup(false)
	if err != nil {
		t.Fatalf("Backup returned error: %v", err)
	}
	if snap.Path == "" {
		t.Fatal("expected backup after size change")
	}
}

func TestBackup_Rotation(t *testing.T) {
	repo, hosts, clk := newTestRepo(t, 3)
	if err := os.WriteFile(hosts, []byte("a\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		clk.Advance(time.Second)
		if _, err := repo.Backup(true); err != nil {
			t.Fatalf("Backup %d returned error: %v", i, err)
		}
	}

	snaps, err := repo.Snapshots()
	if err != nil {
		t.Fatalf("Snapshots returned error: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("expected 3 retained snapshots, got %d", len(snaps))
	}
	// Newest first.
	for i := 1; i < len(snaps); i++ {
		if snaps[i].CreatedAt.After(snaps[i-1].CreatedAt) {
			t.Fatalf("snapshots not sorted newest-first: %v", snaps)
		}
	}
}

func TestRestore(t *testing.T) {
	repo, hosts, _ := newTestRepo(t, 3)
	original := "127.0.0.1 localhost\n# original\n"
	if err := os.WriteFile(hosts, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	snap, err := repo.Backup(true)
	if err != nil || snap.Path == "" {
		t.Fatalf("Backup failed: %v", err)
	}

	if err := os.WriteFile(hosts, []byte("tampered\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := repo.Restore(snap.Path); err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}

	data, _ := os.ReadFile(hosts)
	if string(data) != original {
		t.Fatalf("restore mismatch: %q", data)
	}
}

func TestSnapshots_EmptyDir(t *testing.T) {
	repo, _, _ := newTestRepo(t, 3)
	snaps, err := repo.Snapshots()
	if err != nil {
		t.Fatalf("Snapshots returned error: %v", err)
	}
	if len(snaps) != 0 {
		t.Fatalf("expected no snapshots, got %v", snaps)
	}
}
