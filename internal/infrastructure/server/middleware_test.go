package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/districhem/backoffice/internal/application/services"
	"github.com/districhem/backoffice/internal/domain/entities"
	"github.com/districhem/backoffice/internal/infrastructure/config"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
	"github.com/districhem/backoffice/internal/ports"
)

type singleUserRepo struct {
	user entities.User
}

func (r *singleUserRepo) GetAll(ctx context.Context) ([]entities.User, error) {
	return []entities.User{r.user}, nil
}

func (r *singleUserRepo) GetForEdit(ctx context.Context) ([]entities.User, string, error) {
	return []entities.User{r.user}, "rev-1", nil
}

func (r *singleUserRepo) Save(ctx context.Context, users []entities.User, revision, message string) (string, error) {
	return "rev-2", nil
}

func (r *singleUserRepo) InvalidateRevision() {}

func (r *singleUserRepo) FindByLogin(ctx context.Context, login string) (*entities.User, error) {
	if login == r.user.Login {
		u := r.user
		return &u, nil
	}
	return nil, entities.ErrUserNotFound
}

func newMiddlewareFixture(t *testing.T, isAdmin int) (*Server, *services.AuthService, string) {
	t.Helper()

	repo := &singleUserRepo{user: entities.User{
		ID:           1,
		Login:        "admin",
		PasswordHash: services.LegacyHashPassword("admin-pass"),
		IsAdmin:      isAdmin,
	}}
	authService := services.NewAuthService(repo, config.SessionConfig{
		Secret:    "test-secret-at-least-32-characters!!",
		Issuer:    "backoffice-test",
		ExpiresIn: time.Hour,
	}, logger.NewNop())

	resp, err := authService.Login(context.Background(), ports.LoginRequest{Login: "admin", Password: "admin-pass"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	return &Server{echo: echo.New(), logger: logger.NewNop()}, authService, resp.Token
}

func runChain(s *Server, mw []echo.MiddlewareFunc, req *http.Request) (int, error) {
	handler := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}

	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	if err := handler(c); err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return httpErr.Code, err
		}
		return 0, err
	}
	return rec.Code, nil
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	s, authService, token := newMiddlewareFixture(t, 1)

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	code, err := runChain(s, []echo.MiddlewareFunc{s.authMiddleware(authService)}, req)
	if err != nil || code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", code, err)
	}
}

func TestAuthMiddleware_MissingOrMalformedHeader(t *testing.T) {
	s, authService, token := newMiddlewareFixture(t, 1)

	cases := []string{
		"",
		token,            // no Bearer prefix
		"Bearer ",        // empty token
		"Bearer garbage", // not a token
	}
	for _, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		code, _ := runChain(s, []echo.MiddlewareFunc{s.authMiddleware(authService)}, req)
		if code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, code)
		}
	}
}

func TestRequireAdmin_RejectsNonAdmin(t *testing.T) {
	s, authService, token := newMiddlewareFixture(t, 0)

	req := httptest.NewRequest(http.MethodDelete, "/admin/users/2", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	code, _ := runChain(s, []echo.MiddlewareFunc{s.authMiddleware(authService), s.requireAdmin()}, req)
	if code != http.StatusForbidden {
		t.Errorf("expected 403 for a non-admin session, got %d", code)
	}
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	s, authService, token := newMiddlewareFixture(t, 1)

	req := httptest.NewRequest(http.MethodDelete, "/admin/users/2", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	code, err := runChain(s, []echo.MiddlewareFunc{s.authMiddleware(authService), s.requireAdmin()}, req)
	if err != nil || code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", code, err)
	}
}

func TestRequireAdmin_NoSession(t *testing.T) {
	s, _, _ := newMiddlewareFixture(t, 1)

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	code, _ := runChain(s, []echo.MiddlewareFunc{s.requireAdmin()}, req)
	if code != http.StatusForbidden {
		t.Errorf("expected 403 without a session, got %d", code)
	}
}
