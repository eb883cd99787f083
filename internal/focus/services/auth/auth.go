// Package auth gates destructive operations behind passwords. A main password
// covers global actions (disabling protection, restoring backups); optional
// per-group passwords lock individual groups.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLen    = 16
	keyLen     = 32
	iterations = 100_000
)

// DefaultPassword seeds the main password on first run so there is never a
// window where protection can be disabled without any password at all. Users
// are expected to replace it through ChangeMainPassword.
const DefaultPassword = "0000"

var (
	ErrNoPassword       = errors.New("no password set")
	ErrPasswordMismatch = errors.New("password does not match")
)

// Store persists password hashes.
type Store interface {
	MainPassword() (string, bool)
	SetMainPassword(hash string) error
	GroupPassword(group string) (string, bool)
	SetGroupPassword(group, hash string) error
}

type Service struct {
	store Store
}

func New(store Store) *Service { return &Service{store: store} }

// HashPassword derives a PBKDF2-HMAC-SHA256 key from the password with a
// fresh random salt and encodes salt||key as base64.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	key := pbkdf2.Key([]byte(password), salt, iterations, keyLen, sha256.New)
	return base64.StdEncoding.EncodeToString(append(salt, key...)), nil
}

// VerifyPassword re-derives the key with the stored salt and compares in
// constant time.
func VerifyPassword(password, encoded string) bool {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) != saltLen+keyLen {
		return false
	}
	salt, want := raw[:saltLen], raw[saltLen:]
	got := pbkdf2.Key([]byte(password), salt, iterations, keyLen, sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

// HasMainPassword reports whether a main password is configured.
func (s *Service) HasMainPassword() bool {
	_, ok := s.store.MainPassword()
	return ok
}

// SetMainPassword stores the initial main password. Changing an existing
// password goes through ChangeMainPassword.
func (s *Service) SetMainPassword(password string) error {
	if password == "" {
		return errors.New("password must not be empty")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return s.store.SetMainPassword(hash)
}

// InitializeMainPassword stores the default password hash when no main
// password exists yet. A no-op otherwise.
func (s *Service) InitializeMainPassword() error {
	if _, ok := s.store.MainPassword(); ok {
		return nil
	}
	hash, err := HashPassword(DefaultPassword)
	if err != nil {
		return err
	}
	return s.store.SetMainPassword(hash)
}

// MainPasswordIsDefault reports whether the main password is still the seeded
// default (or nothing has been stored yet).
func (s *Service) MainPasswordIsDefault() bool {
	hash, ok := s.store.MainPassword()
	if !ok {
		return true
	}
	return VerifyPassword(DefaultPassword, hash)
}

// VerifyMain checks a password attempt against the stored main password.
// A fresh install is seeded with the default password on the first attempt,
// which then only passes for the default.
func (s *Service) VerifyMain(password string) error {
	hash, ok := s.store.MainPassword()
	if !ok {
		if err := s.InitializeMainPassword(); err != nil {
			return err
		}
		if subtle.ConstantTimeCompare([]byte(password), []byte(DefaultPassword)) != 1 {
			return ErrPasswordMismatch
		}
		return nil
	}
	if !VerifyPassword(password, hash) {
		return ErrPasswordMismatch
	}
	return nil
}

// ChangeMainPassword swaps the main password after verifying the old one.
// On a fresh install the old password is the default.
func (s *Service) ChangeMainPassword(oldPassword, newPassword string) error {
	if err := s.VerifyMain(oldPassword); err != nil {
		return err
	}
	return s.SetMainPassword(newPassword)
}

// HasGroupPassword reports whether a group carries its own lock.
func (s *Service) HasGroupPassword(group string) bool {
	_, ok := s.store.GroupPassword(group)
	return ok
}

// SetGroupPassword locks a group behind its own password.
func (s *Service) SetGroupPassword(group, password string) error {
	if password == "" {
		return errors.New("password must not be empty")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return s.store.SetGroupPassword(group, hash)
}

// VerifyGroup checks an attempt against a group's password, falling back to
// the main password for groups without their own lock.
func (s *Service) VerifyGroup(group, password string) error {
	hash, ok := s.store.GroupPassword(group)
	if !ok {
		return s.VerifyMain(password)
	}
	if !VerifyPassword(password, hash) {
		return ErrPasswordMismatch
	}
	return nil
}

// ClearGroupPassword removes a group's lock after verifying it.
func (s *Service) ClearGroupPassword(group, password string) error {
	if _, ok := s.store.GroupPassword(group); !ok {
		return ErrNoPassword
	}
	if err := s.VerifyGroup(group, password); err != nil {
		return err
	}
	return s.store.SetGroupPassword(group, "")
}
