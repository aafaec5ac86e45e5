package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/districhem/backoffice/internal/domain/entities"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
	"github.com/districhem/backoffice/internal/ports"
)

// UserService manages back-office accounts.
type UserService struct {
	userRepo ports.UserRepository
	history  *HistoryService
	logger   *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo ports.UserRepository, history *HistoryService, appLogger *logger.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		history:  history,
		logger:   appLogger,
	}
}

// List returns every account with the password hash blanked.
func (s *UserService) List(ctx context.Context) ([]entities.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]entities.User, len(users))
	for i := range users {
		out[i] = users[i]
		out[i].PasswordHash = ""
	}
	return out, nil
}

// Create adds an account. The login must be unique; the id is max + 1.
func (s *UserService) Create(ctx context.Context, actorID int, req ports.CreateUserRequest) (*entities.User, error) {
	users, revision, err := s.userRepo.GetForEdit(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	maxID := 0
	for i := range users {
		if users[i].Login == req.Login {
			return nil, entities.ErrDuplicateLogin
		}
		if users[i].ID > maxID {
			maxID = users[i].ID
		}
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := entities.User{
		ID:           maxID + 1,
		Login:        req.Login,
		PasswordHash: hash,
		IsAdmin:      req.IsAdmin,
	}
	users = append(users, user)

	opID := uuid.New().String()
	message := fmt.Sprintf("users: create %q (op %s)", user.Login, opID)
	if _, err := s.userRepo.Save(ctx, users, revision, message); err != nil {
		return nil, fmt.Errorf("save users: %w", err)
	}

	s.history.Record(ctx, actorID, fmt.Sprintf("created user %q", user.Login))
	s.logger.LogAdminAction(actorID, "create_user", opID)

	user.PasswordHash = ""
	return &user, nil
}

// Delete removes an account by id.
func (s *UserService) Delete(ctx context.Context, actorID, id int) error {
	users, revision, err := s.userRepo.GetForEdit(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	login := ""
	kept := users[:0]
	for i := range users {
		if users[i].ID == id {
			login = users[i].Login
			continue
		}
		kept = append(kept, users[i])
	}
	if login == "" {
		return entities.ErrUserNotFound
	}

	opID := uuid.New().String()
	message := fmt.Sprintf("users: delete %q (op %s)", login, opID)
	if _, err := s.userRepo.Save(ctx, kept, revision, message); err != nil {
		return fmt.Errorf("save users: %w", err)
	}

	s.history.Record(ctx, actorID, fmt.Sprintf("deleted user %q", login))
	s.logger.LogAdminAction(actorID, "delete_user", opID)

	return nil
}
