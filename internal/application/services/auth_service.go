package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/districhem/backoffice/internal/domain/entities"
	"github.com/districhem/backoffice/internal/infrastructure/config"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
	"github.com/districhem/backoffice/internal/ports"
)

// Claims represents the session token claims
type Claims struct {
	UserID  int    `json:"user_id"`
	Login   string `json:"login"`
	IsAdmin int    `json:"isadmin"`
	jwt.RegisteredClaims
}

// AuthService validates credentials against the users table and issues
// session tokens.
//
// Stored password hashes come in two schemes: legacy entries are the hex
// SHA-256 of the password (compatible with the deployed users file, and
// no stronger than obfuscation given the file is publicly readable);
// entries starting with "$2" are bcrypt and are verified as such. New
// accounts get bcrypt.
type AuthService struct {
	userRepo      ports.UserRepository
	sessionConfig config.SessionConfig
	logger        *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo ports.UserRepository, sessionConfig config.SessionConfig, appLogger *logger.Logger) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		sessionConfig: sessionConfig,
		logger:        appLogger,
	}
}

// Login authenticates against the users table. Unknown login and wrong
// password fail identically, with no distinguishing detail.
func (s *AuthService) Login(ctx context.Context, req ports.LoginRequest) (*ports.AuthResponse, error) {
	user, err := s.userRepo.FindByLogin(ctx, req.Login)
	if err != nil {
		s.logger.Warnw("Login failed", "login", req.Login)
		return nil, entities.ErrInvalidCredentials
	}

	if !verifyPassword(user.PasswordHash, req.Password) {
		s.logger.Warnw("Login failed", "login", req.Login)
		return nil, entities.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	s.logger.Infow("User logged in", "user_id", user.ID, "login", user.Login)

	return &ports.AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.sessionConfig.ExpiresIn.Seconds()),
		Session: entities.Session{
			UserID:  user.ID,
			Login:   user.Login,
			IsAdmin: user.IsAdmin,
		},
	}, nil
}

// Logout is idempotent. Sessions are stateless tokens, so there is
// nothing to revoke server-side; the client drops the token.
func (s *AuthService) Logout(ctx context.Context, userID int) {
	s.logger.Infow("User logged out", "user_id", userID)
}

// ValidateToken validates a session token and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*ports.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.sessionConfig.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &ports.Claims{
		UserID:  claims.UserID,
		Login:   claims.Login,
		IsAdmin: claims.IsAdmin,
	}, nil
}

func (s *AuthService) generateToken(user *entities.User) (string, error) {
	claims := &Claims{
		UserID:  user.ID,
		Login:   user.Login,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.sessionConfig.ExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    s.sessionConfig.Issuer,
			Subject:   user.Login,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.sessionConfig.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// HashPassword hashes a password for storage with the current scheme.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// LegacyHashPassword hashes a password with the legacy scheme used by
// the deployed users file.
func LegacyHashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func verifyPassword(stored, password string) bool {
	if len(stored) > 1 && stored[0] == '$' && stored[1] == '2' {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	candidate := LegacyHashPassword(password)
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}
