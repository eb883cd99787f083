package hostsfile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/common/clock"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/common/log"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/domain"
)

// ErrPermission indicates the hosts file could not be opened or replaced for
// lack of privileges. Callers surface this as "run as administrator".
var ErrPermission = errors.New("hosts file access denied")

// defaultTemplate recreates a minimal hosts file when the real one is missing.
const defaultTemplate = "# Hosts file recreated by DeepFocus\n127.0.0.1 localhost\n::1 localhost\n"

const (
	backupPrefix = "hosts_backup_"
	backupSuffix = ".txt"
	// Backups closer together than this are skipped unless the file size
	// changed or the caller forces one.
	backupMinGap = time.Hour
)

// Repo owns all filesystem access to the hosts file and its backups.
type Repo struct {
	mu         sync.Mutex
	path       string
	backupDir  string
	keep       int
	redirectIP string
	clock      clock.Clock
	logger     log.Logger

	lastBackupAt   time.Time
	lastBackupSize int64
}

// New constructs a Repo. keep bounds the rotated snapshot count.
func New(path, backupDir string, keep int, redirectIP string, clk clock.Clock, logger log.Logger) *Repo {
	if keep < 1 {
		keep = 1
	}
	return &Repo{
		path:       path,
		backupDir:  backupDir,
		keep:       keep,
		redirectIP: redirectIP,
		clock:      clk,
		logger:     logger,
	}
}

// Path returns the managed hosts file location.
func (r *Repo) Path() string { return r.path }

// Load reads and parses the hosts file. A missing file yields the default
// template document, so the first Store recreates it. Permission failures
// wrap ErrPermission.
func (r *Repo) Load() (*Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked()
}

func (r *Repo) loadLocked() (*Document, error) {
	data, err := os.ReadFile(r.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		r.logger.Warn(map[string]any{"path": r.path}, "hosts file missing, using default template")
		data = []byte(defaultTemplate)
	case errors.Is(err, fs.ErrPermission):
		return nil, fmt.Errorf("reading %s: %w", r.path, ErrPermission)
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", r.path, err)
	}
	return Parse(bytes.NewReader(data), r.redirectIP, r.logger)
}

// Store takes a backup snapshot then atomically replaces the hosts file with
// the rendered document: write to a temp file in the same directory, then
// rename over the original so no partial state is ever observable.
func (r *Repo) Store(doc *Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.storeLocked(doc)
}

func (r *Repo) storeLocked(doc *Document) error {
	if _, err := r.backupLocked(false); err != nil {
		// A failed backup is not fatal; the write still proceeds.
		r.logger.Warn(map[string]any{"error": err.Error()}, "backup failed, writing without snapshot")
	}

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return fmt.Errorf("rendering hosts file: %w", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".hosts-*")
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("creating temp file in %s: %w", dir, ErrPermission)
		}
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after successful rename

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp hosts file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		r.logger.Debug(map[string]any{"error": err.Error()}, "chmod on temp hosts file failed")
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp hosts file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("replacing %s: %w", r.path, ErrPermission)
		}
		return fmt.Errorf("replacing %s: %w", r.path, err)
	}

	r.logger.Info(map[string]any{
		"path":    r.path,
		"entries": len(doc.Entries),
	}, "hosts file written")
	return nil
}

// ManagedEntries returns the entries currently inside the managed region.
func (r *Repo) ManagedEntries() ([]domain.Entry, error) {
	doc, err := r.Load()
	if err != nil {
		return nil, err
	}
	return doc.Entries, nil
}

// SetManagedEntries replaces the managed region with the given entries while
// preserving everything outside it. Untagged redirect lines whose domains are
// in the managed set are absorbed by the same write, so a stale hand edit
// cannot keep a domain blocked after its group is disabled. The
// read-modify-write runs under the repo lock so concurrent callers cannot
// interleave.
func (r *Repo) SetManagedEntries(entries []domain.Entry, managed map[string]struct{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.loadLocked()
	if err != nil {
		return err
	}
	if n := doc.Absorb(r.redirectIP, managed); n > 0 {
		r.logger.Info(map[string]any{"lines": n}, "absorbed stray redirect lines")
	}
	doc.SetEntries(entries)
	return r.storeLocked(doc)
}

// Backup copies the current hosts file into the backup directory. When force
// is false the copy is skipped if the size is unchanged and the last backup
// is recent. Rotation keeps the newest configured count.
func (r *Repo) Backup(force bool) (domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backupLocked(force)
}

func (r *Repo) backupLocked(force bool) (domain.Snapshot, error) {
	info, err := os.Stat(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Snapshot{}, nil // nothing to back up
		}
		return domain.Snapshot{}, fmt.Errorf("stat %s: %w", r.path, err)
	}

	now := r.clock.Now()
	if !force && !r.lastBackupAt.IsZero() &&
		info.Size() == r.lastBackupSize && now.Sub(r.lastBackupAt) < backupMinGap {
		r.logger.Debug(nil, "backup skipped, no significant change")
		return domain.Snapshot{}, nil
	}

	if err := os.MkdirAll(r.backupDir, 0o755); err != nil {
		return domain.Snapshot{}, fmt.Errorf("creating backup dir: %w", err)
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("reading %s for backup: %w", r.path, err)
	}

	name := backupPrefix + now.Format("20060102_150405") + backupSuffix
	dest := filepath.Join(r.backupDir, name)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return domain.Snapshot{}, fmt.Errorf("writing backup %s: %w", dest, err)
	}

	r.lastBackupAt = now
	r.lastBackupSize = info.Size()
	r.rotateLocked()

	snap := domain.Snapshot{Path: dest, CreatedAt: now, Size: int64(len(data))}
	r.logger.Debug(map[string]any{"backup": dest}, "hosts file backed up")
	return snap, nil
}

// rotateLocked deletes the oldest backups beyond the retention count.
// Failures are logged and skipped; a locked file is retried on the next write.
func (r *Repo) rotateLocked() {
	snaps, err := r.snapshotsLocked()
	if err != nil {
		r.logger.Debug(map[string]any{"error": err.Error()}, "backup rotation listing failed")
		return
	}
	for i := r.keep; i < len(snaps); i++ {
		if err := os.Remove(snaps[i].Path); err != nil {
			r.logger.Debug(map[string]any{"backup": snaps[i].Path, "error": err.Error()}, "could not remove old backup")
		}
	}
}

// Snapshots lists existing backups, newest first.
func (r *Repo) Snapshots() ([]domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotsLocked()
}

func (r *Repo) snapshotsLocked() ([]domain.Snapshot, error) {
	entries, err := os.ReadDir(r.backupDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", r.backupDir, err)
	}

	var snaps []domain.Snapshot
	for _, de := range entries {
		name := de.Name()
		if de.IsDir() || len(name) <= len(backupPrefix)+len(backupSuffix) ||
			name[:len(backupPrefix)] != backupPrefix || filepath.Ext(name) != backupSuffix {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		stamp := name[len(backupPrefix) : len(name)-len(backupSuffix)]
		created, err := time.ParseInLocation("20060102_150405", stamp, time.Local)
		if err != nil {
			created = info.ModTime()
		}
		snaps = append(snaps, domain.Snapshot{
			Path:      filepath.Join(r.backupDir, name),
			CreatedAt: created,
			Size:      info.Size(),
		})
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].CreatedAt.After(snaps[j].CreatedAt) })
	return snaps, nil
}

// Restore copies a backup snapshot over the hosts file.
func (r *Repo) Restore(snapshotPath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(snapshotPath)
	if err != nil {
		return fmt.Errorf("reading backup %s: %w", snapshotPath, err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("restoring %s: %w", r.path, ErrPermission)
		}
		return fmt.Errorf("restoring %s: %w", r.path, err)
	}
	r.logger.Info(map[string]any{"backup": snapshotPath}, "hosts file restored from backup")
	return nil
}
