package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/acestone/renovation-leads/internal/observability/metrics"
	"github.com/acestone/renovation-leads/pkg/logging"
)

const tokenTTL = 12 * time.Hour

// Service authenticates admins and issues session tokens.
type Service struct {
	repo      UserRepository
	jwtSecret []byte
	metrics   *metrics.LeadMetrics
	logger    *logging.Logger
}

// NewService wires the auth service. m may be nil.
func NewService(repo UserRepository, jwtSecret string, m *metrics.LeadMetrics, logger *logging.Logger) *Service {
	if repo == nil {
		panic("auth: user repository required")
	}
	if jwtSecret == "" {
		panic("auth: jwt secret required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, jwtSecret: []byte(jwtSecret), metrics: m, logger: logger}
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	User  *User
	Token string
}

// Login verifies the credentials and issues an HS256 session token. Unknown
// usernames and wrong passwords both return ErrInvalidCredentials with no
// way to tell them apart.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.metrics.ObserveLogin(false)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.metrics.ObserveLogin(false)
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, fmt.Errorf("auth: issue token: %w", err)
	}

	s.metrics.ObserveLogin(true)
	s.logger.Info("admin logged in", "user_id", user.ID)
	return &LoginResult{User: user, Token: token}, nil
}

func (s *Service) issueToken(user *User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		Issuer:    "renovation-leads",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// SeedAdmin ensures the configured admin user exists, hashing the password
// with bcrypt. Called once at startup; a user that already exists is left
// untouched.
func SeedAdmin(ctx context.Context, repo UserRepository, username, password string, logger *logging.Logger) error {
	if logger == nil {
		logger = logging.Default()
	}
	if _, err := repo.GetByUsername(ctx, username); err == nil {
		logger.Debug("admin user already seeded", "username", username)
		return nil
	} else if !errors.Is(err, ErrUserNotFound) {
		return fmt.Errorf("auth: check admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth: hash admin password: %w", err)
	}

	user, err := repo.Create(ctx, username, string(hash))
	if err != nil {
		return fmt.Errorf("auth: create admin user: %w", err)
	}
	logger.Info("seeded admin user", "user_id", user.ID, "username", username)
	return nil
}
