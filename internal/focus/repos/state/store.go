package state

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/common/utils"
)

var (
	bucketGroups   = []byte("groups")
	bucketCustom   = []byte("custom")
	bucketSettings = []byte("settings")
	bucketImports  = []byte("imports")
)

// Well-known settings keys.
const (
	SettingLanguage     = "language"
	SettingAutoStart    = "auto_start"
	SettingMainPassword = "main_password_hash"

	// groupPasswordPrefix namespaces per-group password hashes inside the
	// settings bucket.
	groupPasswordPrefix = "group_password."
)

// Store persists block state and settings in a local bbolt database:
// group enabled flags, user custom domains (insertion-ordered), and a small
// string key-value settings space.
type Store struct {
	db *bbolt.DB
}

// Open creates or opens the state database at path and ensures buckets exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketGroups, bucketCustom, bucketSettings, bucketImports} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing state db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// GroupEnabled returns the stored enabled flag for a group, or def when the
// group has never been toggled.
func (s *Store) GroupEnabled(name string, def bool) bool {
	enabled := def
	_ = s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketGroups).Get([]byte(name))
		if len(v) == 1 {
			enabled = v[0] == 1
		}
		return nil
	})
	return enabled
}

// SetGroupEnabled stores the enabled flag for a group.
func (s *Store) SetGroupEnabled(name string, enabled bool) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		v := []byte{0}
		if enabled {
			v[0] = 1
		}
		return tx.Bucket(bucketGroups).Put([]byte(name), v)
	})
}

// GroupStates returns every explicitly stored group flag.
func (s *Store) GroupStates() (map[string]bool, error) {
	out := make(map[string]bool)
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketGroups).ForEach(func(k, v []byte) error {
			if len(v) == 1 {
				out[string(k)] = v[0] == 1
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CustomDomains returns the user's custom domains in insertion order.
func (s *Store) CustomDomains() ([]string, error) {
	type seqDomain struct {
		seq    uint64
		domain string
	}
	var items []seqDomain
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCustom).ForEach(func(k, v []byte) error {
			if len(v) == 8 {
				items = append(items, seqDomain{binary.BigEndian.Uint64(v), string(k)})
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].seq < items[j].seq })
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.domain
	}
	return out, nil
}

// AddCustomDomain records a custom domain. Adding an existing domain is a
// no-op that preserves its original position.
func (s *Store) AddCustomDomain(domain string) error {
	domain = utils.CanonicalDomain(domain)
	if domain == "" {
		return fmt.Errorf("custom domain must not be empty")
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketCustom)
		if b.Get([]byte(domain)) != nil {
			return nil
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		v := make([]byte, 8)
		binary.BigEndian.PutUint64(v, seq)
		return b.Put([]byte(domain), v)
	})
}

// RemoveCustomDomain deletes a custom domain. Unknown domains are a no-op.
func (s *Store) RemoveCustomDomain(domain string) error {
	domain = utils.CanonicalDomain(domain)
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCustom).Delete([]byte(domain))
	})
}

// HasCustomDomain reports whether a custom domain is recorded.
func (s *Store) HasCustomDomain(domain string) bool {
	domain = utils.CanonicalDomain(domain)
	var found bool
	_ = s.db.View(func(tx *bbolt.Tx) error {
		found = tx.Bucket(bucketCustom).Get([]byte(domain)) != nil
		return nil
	})
	return found
}

// ImportedDomains returns domains imported into a group, in import order.
func (s *Store) ImportedDomains(group string) ([]string, error) {
	type seqDomain struct {
		seq    uint64
		domain string
	}
	var items []seqDomain
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketImports).Bucket([]byte(group))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			if len(v) == 8 {
				items = append(items, seqDomain{binary.BigEndian.Uint64(v), string(k)})
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].seq < items[j].seq })
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.domain
	}
	return out, nil
}

// AddImportedDomains appends domains to a group's import list, skipping ones
// already present, and returns how many were newly added.
func (s *Store) AddImportedDomains(group string, domains []string) (int, error) {
	if strings.TrimSpace(group) == "" {
		return 0, fmt.Errorf("import group must not be empty")
	}
	added := 0
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.Bucket(bucketImports).CreateBucketIfNotExists([]byte(group))
		if err != nil {
			return err
		}
		for _, d := range domains {
			d = utils.CanonicalDomain(d)
			if d == "" || b.Get([]byte(d)) != nil {
				continue
			}
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			v := make([]byte, 8)
			binary.BigEndian.PutUint64(v, seq)
			if err := b.Put([]byte(d), v); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// ClearImportedDomains drops a group's entire import list.
func (s *Store) ClearImportedDomains(group string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketImports)
		if b.Bucket([]byte(group)) == nil {
			return nil
		}
		return b.DeleteBucket([]byte(group))
	})
}

// Setting returns a settings value and whether it was present.
func (s *Store) Setting(key string) (string, bool) {
	var val string
	var ok bool
	_ = s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketSettings).Get([]byte(key))
		if v != nil {
			val, ok = string(v), true
		}
		return nil
	})
	return val, ok
}

// SetSetting stores a settings value.
func (s *Store) SetSetting(key, value string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSettings).Put([]byte(key), []byte(value))
	})
}

// DeleteSetting removes a settings value. Unknown keys are a no-op.
func (s *Store) DeleteSetting(key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSettings).Delete([]byte(key))
	})
}

// MainPassword returns the stored main password hash, if any.
func (s *Store) MainPassword() (string, bool) {
	return s.Setting(SettingMainPassword)
}

// SetMainPassword stores the main password hash; an empty hash removes it.
func (s *Store) SetMainPassword(hash string) error {
	if hash == "" {
		return s.DeleteSetting(SettingMainPassword)
	}
	return s.SetSetting(SettingMainPassword, hash)
}

// GroupPassword returns the stored password hash for a group, if any.
func (s *Store) GroupPassword(group string) (string, bool) {
	return s.Setting(groupPasswordPrefix + group)
}

// SetGroupPassword stores a password hash for a group; an empty hash removes it.
func (s *Store) SetGroupPassword(group, hash string) error {
	if hash == "" {
		return s.DeleteSetting(groupPasswordPrefix + group)
	}
	return s.SetSetting(groupPasswordPrefix+group, hash)
}
