package services

import (
	"context"
	"errors"
	"testing"

	"github.com/districhem/backoffice/internal/domain/entities"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
	"github.com/districhem/backoffice/internal/ports"
)

func newUserFixture() (*UserService, *fakeUserRepo, *fakeHistoryRepo) {
	userRepo := &fakeUserRepo{
		users: []entities.User{
			{ID: 1, Login: "admin", PasswordHash: LegacyHashPassword("admin-pass"), IsAdmin: 1},
			{ID: 4, Login: "vendeur", PasswordHash: LegacyHashPassword("vendeur-pass"), IsAdmin: 0},
		},
	}
	historyRepo := &fakeHistoryRepo{}
	svc := NewUserService(userRepo, NewHistoryService(historyRepo, logger.NewNop()), logger.NewNop())
	return svc, userRepo, historyRepo
}

func TestUserList_BlanksHashes(t *testing.T) {
	svc, userRepo, _ := newUserFixture()

	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, u := range users {
		if u.PasswordHash != "" {
			t.Errorf("hash leaked for %q", u.Login)
		}
	}
	// The stored table keeps its hashes.
	if userRepo.users[0].PasswordHash == "" {
		t.Error("List must not mutate the stored table")
	}
}

func TestUserCreate(t *testing.T) {
	svc, userRepo, historyRepo := newUserFixture()

	user, err := svc.Create(context.Background(), 1, ports.CreateUserRequest{
		Login:    "magasinier",
		Password: "stock-pass",
		IsAdmin:  0,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// IDs 1 and 4 exist; next is 5.
	if user.ID != 5 {
		t.Errorf("expected ID 5, got %d", user.ID)
	}
	if user.PasswordHash != "" {
		t.Error("Create must not return the hash")
	}

	stored, err := userRepo.FindByLogin(context.Background(), "magasinier")
	if err != nil {
		t.Fatalf("created user missing: %v", err)
	}
	// New accounts use the upgraded hash scheme.
	if !stored.HasBcryptHash() {
		t.Errorf("expected bcrypt hash, got %q", stored.PasswordHash)
	}

	if len(historyRepo.entries) != 1 {
		t.Errorf("expected 1 history entry, got %d", len(historyRepo.entries))
	}
}

func TestUserCreate_DuplicateLogin(t *testing.T) {
	svc, userRepo, _ := newUserFixture()

	_, err := svc.Create(context.Background(), 1, ports.CreateUserRequest{Login: "admin", Password: "whatever"})
	if !errors.Is(err, entities.ErrDuplicateLogin) {
		t.Fatalf("expected ErrDuplicateLogin, got %v", err)
	}
	if len(userRepo.users) != 2 {
		t.Error("duplicate login must not be persisted")
	}
}

func TestUserDelete(t *testing.T) {
	svc, userRepo, _ := newUserFixture()

	if err := svc.Delete(context.Background(), 1, 4); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := userRepo.FindByLogin(context.Background(), "vendeur"); !errors.Is(err, entities.ErrUserNotFound) {
		t.Error("user still present after delete")
	}

	err := svc.Delete(context.Background(), 1, 42)
	if !errors.Is(err, entities.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
