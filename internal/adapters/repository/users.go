package repository

import (
	"context"
	"fmt"

	"github.com/districhem/backoffice/internal/domain/entities"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
	"github.com/districhem/backoffice/internal/ports"
)

// UserRepositoryImpl implements the UserRepository interface on the
// users table file.
type UserRepositoryImpl struct {
	*table[entities.User]
}

// NewUserRepository creates a new user repository
func NewUserRepository(store ports.RemoteStore, appLogger *logger.Logger) ports.UserRepository {
	return &UserRepositoryImpl{
		table: newTable[entities.User](store, entities.FileUsers, appLogger),
	}
}

func (r *UserRepositoryImpl) GetAll(ctx context.Context) ([]entities.User, error) {
	return r.getAll(ctx)
}

func (r *UserRepositoryImpl) GetForEdit(ctx context.Context) ([]entities.User, string, error) {
	return r.getForEdit(ctx)
}

// Save replaces the users table. Logins and ids must be unique across
// the slice being written.
func (r *UserRepositoryImpl) Save(ctx context.Context, users []entities.User, revision, message string) (string, error) {
	ids := make(map[int]struct{}, len(users))
	logins := make(map[string]struct{}, len(users))
	for i := range users {
		if _, dup := ids[users[i].ID]; dup {
			return "", fmt.Errorf("user id %d duplicated", users[i].ID)
		}
		ids[users[i].ID] = struct{}{}

		if _, dup := logins[users[i].Login]; dup {
			return "", fmt.Errorf("login %q: %w", users[i].Login, entities.ErrDuplicateLogin)
		}
		logins[users[i].Login] = struct{}{}
	}

	return r.save(ctx, users, revision, message)
}

func (r *UserRepositoryImpl) InvalidateRevision() {
	r.invalidate()
}

// FindByLogin returns the user with the given login. The match is
// case-sensitive, no normalization.
func (r *UserRepositoryImpl) FindByLogin(ctx context.Context, login string) (*entities.User, error) {
	users, err := r.getAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Login == login {
			return &users[i], nil
		}
	}
	return nil, entities.ErrUserNotFound
}
