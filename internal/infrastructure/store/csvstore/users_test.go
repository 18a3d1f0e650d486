package csvstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartclassroom/classroom-api/internal/core/domain"
)

func TestUserStore_CreateAndFind(t *testing.T) {
	dir := t.TempDir()
	store, err := NewUserStore(dir)
	if err != nil {
		t.Fatalf("NewUserStore: %v", err)
	}

	created, err := store.Create(context.Background(), &domain.User{
		Username:     "ana",
		PasswordHash: "$2a$10$hash",
		Role:         domain.RoleStudent,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Username != "ana" {
		t.Fatalf("unexpected user: %+v", created)
	}

	found, err := store.FindByUsername(context.Background(), "ana")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if found.PasswordHash != "$2a$10$hash" || found.Role != domain.RoleStudent {
		t.Fatalf("unexpected record: %+v", found)
	}
}

func TestUserStore_Duplicate(t *testing.T) {
	store, err := NewUserStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewUserStore: %v", err)
	}

	user := &domain.User{Username: "ben", PasswordHash: "h1", Role: domain.RoleStudent}
	if _, err := store.Create(context.Background(), user); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	dup := &domain.User{Username: "ben", PasswordHash: "h2", Role: domain.RoleTeacher}
	if _, err := store.Create(context.Background(), dup); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	// The existing record must be unchanged.
	found, err := store.FindByUsername(context.Background(), "ben")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if found.PasswordHash != "h1" || found.Role != domain.RoleStudent {
		t.Fatalf("record changed by failed create: %+v", found)
	}
}

func TestUserStore_DurableAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewUserStore(dir)
	if err != nil {
		t.Fatalf("NewUserStore: %v", err)
	}
	if _, err := store.Create(context.Background(), &domain.User{
		Username: "carol", PasswordHash: "h", Role: domain.RoleTeacher,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	reopened, err := NewUserStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	found, err := reopened.FindByUsername(context.Background(), "carol")
	if err != nil {
		t.Fatalf("FindByUsername after reopen: %v", err)
	}
	if found.Role != domain.RoleTeacher {
		t.Fatalf("unexpected record after reopen: %+v", found)
	}
}

func TestUserStore_NotFound(t *testing.T) {
	store, err := NewUserStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewUserStore: %v", err)
	}
	if _, err := store.FindByUsername(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserStore_RejectsUnsafeUsernames(t *testing.T) {
	store, err := NewUserStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewUserStore: %v", err)
	}

	for _, name := range []string{"", "a/b", `a\b`, "..", " padded "} {
		u := &domain.User{Username: name, PasswordHash: "h", Role: domain.RoleStudent}
		if _, err := store.Create(context.Background(), u); !errors.Is(err, domain.ErrInvalidUsername) {
			t.Fatalf("username %q: expected ErrInvalidUsername, got %v", name, err)
		}
	}
}

func TestUserStore_CorruptTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, usersFileName)
	if err := os.WriteFile(path, []byte("not,the\nexpected,header\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	if _, err := NewUserStore(dir); !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage for corrupt table, got %v", err)
	}
}

func TestUserStore_TableHasHeader(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewUserStore(dir); err != nil {
		t.Fatalf("NewUserStore: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, usersFileName))
	if err != nil {
		t.Fatalf("read table: %v", err)
	}
	if !strings.HasPrefix(string(raw), "username,password_hash,role") {
		t.Fatalf("missing header row: %q", string(raw))
	}
}
