package admins

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/samiti-foundation/server/internal/auth"
)

var (
	ErrNotFound           = errors.New("admin not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username is already taken")
)

// BcryptCost is the cost factor for admin password hashing.
const BcryptCost = 12

type Admin struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type Repository interface {
	GetByUsername(ctx context.Context, username string) (*Admin, error)
	GetByID(ctx context.Context, id int64) (*Admin, error)
	Create(ctx context.Context, username, passwordHash string) (*Admin, error)
	Count(ctx context.Context) (int64, error)
}

type Service struct {
	repo   Repository
	tokens *auth.TokenManager
	logger zerolog.Logger
}

func NewService(repo Repository, tokens *auth.TokenManager, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		logger: logger.With().Str("component", "admins").Logger(),
	}
}

type LoginResult struct {
	Admin     Admin
	Token     string
	ExpiresAt time.Time
}

// Login verifies the shared admin credential and issues an identity token.
// Lookup failure and hash mismatch are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	admin, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(admin.ID, admin.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{
		Admin:     *admin,
		Token:     token,
		ExpiresAt: time.Now().Add(s.tokens.Expiry()),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Admin, error) {
	return s.repo.GetByID(ctx, id)
}

// Bootstrap creates the default admin when none exists yet. It is a no-op
// when the table already has a row or the credential is not configured.
func (s *Service) Bootstrap(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		s.logger.Warn().Msg("admin bootstrap credentials not set; skipping")
		return nil
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin, err := s.repo.Create(ctx, username, string(hash))
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	s.logger.Info().Str("username", admin.Username).Msg("bootstrapped default admin")
	return nil
}
