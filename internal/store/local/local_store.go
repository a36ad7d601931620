// File: internal/store/local/local_store.go

// Package local persists whole-collection snapshots to per-device storage,
// keyed by fixed string keys. Writes are atomic (temp file + fsync +
// rename) so a crash leaves either the old or the new complete snapshot.
package local

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ampersand-labs/homework/internal/domain"
)

// Fixed storage keys. The _v4 suffix matches the stored format version and
// must track any breaking change to the snapshot shape.
const (
	KeyChats     = "homework_chats_v4"
	KeyTemplates = "homework_templates_v4"
	KeySettings  = "homework_settings_v4"
	KeyUser      = "homework_user"
)

// Store is a per-device key-value snapshot store backed by one JSON file
// per key.
type Store struct {
	baseDir string
}

// New creates a store rooted at baseDir, creating it if needed.
func New(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// BaseDir returns the storage root.
func (s *Store) BaseDir() string { return s.baseDir }

func (s *Store) path(key string) string {
	return filepath.Join(s.baseDir, key+".json")
}

// put marshals v with stable field ordering and writes it atomically.
// Writing the same value twice produces identical bytes.
func (s *Store) put(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return atomicWriteFile(s.path(key), data, 0o644)
}

// get unmarshals the stored value for key into v. A missing or malformed
// entry is treated as "not yet initialized": ok is false and no error is
// returned.
func (s *Store) get(key string, v any) (ok bool, err error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, nil
	}
	return true, nil
}

// Delete removes the stored value for key. Deleting an absent key is not an
// error.
func (s *Store) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SaveChats rewrites the entire chat collection snapshot.
func (s *Store) SaveChats(chats []domain.Chat) error {
	return s.put(KeyChats, chats)
}

// LoadChats returns the stored chat collection. Absent or malformed storage
// yields an empty collection, not an error.
func (s *Store) LoadChats() ([]domain.Chat, error) {
	var chats []domain.Chat
	ok, err := s.get(KeyChats, &chats)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return chats, nil
}

// SaveTemplates rewrites the entire template collection snapshot.
func (s *Store) SaveTemplates(templates []domain.StyleTemplate) error {
	return s.put(KeyTemplates, templates)
}

// LoadTemplates returns the stored template collection, or ok=false when no
// usable snapshot exists so the caller can seed the starter set.
func (s *Store) LoadTemplates() ([]domain.StyleTemplate, bool, error) {
	var templates []domain.StyleTemplate
	ok, err := s.get(KeyTemplates, &templates)
	if err != nil {
		return nil, false, err
	}
	return templates, ok, nil
}

// SaveSettings replaces the settings record wholesale.
func (s *Store) SaveSettings(settings domain.AppSettings) error {
	return s.put(KeySettings, settings)
}

// LoadSettings returns the stored settings, defaulting when absent.
func (s *Store) LoadSettings() (domain.AppSettings, error) {
	settings := domain.DefaultSettings()
	ok, err := s.get(KeySettings, &settings)
	if err != nil {
		return domain.DefaultSettings(), err
	}
	if !ok {
		return domain.DefaultSettings(), nil
	}
	return settings, nil
}

// SaveUser caches the current user record.
func (s *Store) SaveUser(user domain.User) error {
	return s.put(KeyUser, user)
}

// LoadUser returns the cached user, or nil when no session is stored.
func (s *Store) LoadUser() (*domain.User, error) {
	var user domain.User
	ok, err := s.get(KeyUser, &user)
	if err != nil {
		return nil, err
	}
	if !ok || user.ID == "" {
		return nil, nil
	}
	return &user, nil
}

// ClearUser drops the cached user record. Collections are left on disk.
func (s *Store) ClearUser() error {
	return s.Delete(KeyUser)
}

// atomicWriteFile writes data to a temp file in the target directory, syncs
// it, and renames it over the destination.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	cleanup := func(e error) error {
		f.Close()
		os.Remove(tmp)
		return e
	}
	if _, err := f.Write(data); err != nil {
		return cleanup(fmt.Errorf("write snapshot: %w", err))
	}
	if err := f.Sync(); err != nil {
		return cleanup(fmt.Errorf("sync snapshot: %w", err))
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp, perm); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
