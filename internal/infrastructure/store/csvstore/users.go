// Package csvstore implements the file-backed persistence layer: one
// credential table (users.csv) and one append-only history file per student.
// All files live under a single data directory so a class archive is a
// couple of renames.
package csvstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/smartclassroom/classroom-api/internal/core/domain"
)

const usersFileName = "users.csv"

var usersHeader = []string{"username", "password_hash", "role"}

// UserStore persists user records in a header-rowed CSV table. The full
// record set is held in memory; every successful Create rewrites the table
// through a synced temp file and an atomic rename, so a concurrent
// FindByUsername never observes a partial write.
type UserStore struct {
	path string

	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewUserStore opens (or creates) users.csv under dataDir and loads every
// existing record.
func NewUserStore(dataDir string) (*UserStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", domain.ErrStorage, err)
	}

	s := &UserStore{
		path:  filepath.Join(dataDir, usersFileName),
		users: make(map[string]*domain.User),
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *UserStore) load() error {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		// First start: create the table with just the header row.
		return s.flushLocked()
	}
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", domain.ErrStorage, s.path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("%w: parse %s: %v", domain.ErrStorage, s.path, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: %s: missing header row", domain.ErrStorage, s.path)
	}
	if !equalHeader(records[0], usersHeader) {
		return fmt.Errorf("%w: %s: unexpected header %v", domain.ErrStorage, s.path, records[0])
	}

	for _, rec := range records[1:] {
		if len(rec) != len(usersHeader) {
			return fmt.Errorf("%w: %s: malformed row %v", domain.ErrStorage, s.path, rec)
		}
		s.users[rec[0]] = &domain.User{
			Username:     rec[0],
			PasswordHash: rec[1],
			Role:         rec[2],
		}
	}
	return nil
}

// Create stores a new user record. The updated table is durably on disk
// before Create returns success.
func (s *UserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := validStudentName(user.Username); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}

	clone := *user
	s.users[user.Username] = &clone
	if err := s.flushLocked(); err != nil {
		delete(s.users, user.Username)
		return nil, err
	}

	out := clone
	return &out, nil
}

// FindByUsername returns the stored record, or domain.ErrUserNotFound.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

// flushLocked rewrites the whole table. Callers hold s.mu (or are the sole
// owner during construction).
func (s *UserStore) flushLocked() error {
	rows := make([][]string, 0, len(s.users)+1)
	rows = append(rows, usersHeader)

	names := make([]string, 0, len(s.users))
	for name := range s.users {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		u := s.users[name]
		rows = append(rows, []string{u.Username, u.PasswordHash, u.Role})
	}

	return writeFileAtomic(s.path, func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.WriteAll(rows); err != nil {
			return err
		}
		w.Flush()
		return w.Error()
	})
}

// Ping reports whether the backing table is reachable. Used by readiness.
func (s *UserStore) Ping(ctx context.Context) error {
	if _, err := os.Stat(s.path); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return nil
}

// writeFileAtomic writes via a synced temp file in the target directory and
// renames it over the destination.
func writeFileAtomic(path string, fill func(*os.File) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", domain.ErrStorage, err)
	}
	defer os.Remove(tmp.Name())

	if err := fill(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %v", domain.ErrStorage, path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync %s: %v", domain.ErrStorage, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", domain.ErrStorage, path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: rename %s: %v", domain.ErrStorage, path, err)
	}
	return nil
}

func equalHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if strings.TrimSpace(got[i]) != want[i] {
			return false
		}
	}
	return true
}

// validStudentName guards the file-per-student layout: a username becomes a
// file name, so path separators and relative segments are rejected.
func validStudentName(name string) error {
	if name == "" ||
		strings.ContainsAny(name, `/\`) ||
		strings.Contains(name, "..") ||
		name != strings.TrimSpace(name) {
		return domain.ErrInvalidUsername
	}
	return nil
}
