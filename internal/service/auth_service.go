package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/trelvik/eventboard/internal/domain"
	"github.com/trelvik/eventboard/internal/repository"
)

// TokenIssuer issues bearer tokens for authenticated users.
// Satisfied by *auth.TokenService.
type TokenIssuer interface {
	Issue(userID int64, isAdmin bool) (string, error)
}

// AuthService handles user registration and login.
// Each call is stateless; all state lives in the user repository.
type AuthService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	logger zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserRepository, tokens TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger.With().Str("service", "auth").Logger(),
	}
}

// RegisterInput contains the data needed to register a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthResult is the outcome of a successful registration or login.
type AuthResult struct {
	Token   string
	UserID  int64
	IsAdmin bool
}

// Register creates a new user account and issues a bearer token for it.
// New accounts are never admins.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	// Rejecting up front keeps the common duplicate case off the
	// insert path; the unique constraint still backstops races.
	exists, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", input.Email).Msg("failed to check email existence")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if exists {
		return nil, domain.ErrDuplicateEmail
	}

	exists, err = s.users.ExistsByUsername(ctx, input.Username)
	if err != nil {
		s.logger.Error().Err(err).Str("username", input.Username).Msg("failed to check username existence")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if exists {
		return nil, domain.ErrDuplicateUsername
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("%w: failed to hash password", ErrInternalError)
	}

	user := domain.NewUser(input.Username, input.Email, string(passwordHash))

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("username", input.Username).Msg("failed to create user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	token, err := s.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to issue token")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("user registered")

	return &AuthResult{Token: token, UserID: user.ID, IsAdmin: user.IsAdmin}, nil
}

// Login verifies credentials and issues a bearer token carrying the
// stored admin flag. Unknown email and wrong password produce the same
// ErrInvalidCredentials so responses carry no enumeration signal.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Log but don't expose whether the email exists.
			s.logger.Debug().Str("email", email).Msg("unknown email during login")
			return nil, domain.ErrInvalidCredentials
		}
		s.logger.Error().Err(err).Str("email", email).Msg("failed to look up user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Debug().Int64("user_id", user.ID).Msg("invalid password during login")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to issue token")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("user logged in")

	return &AuthResult{Token: token, UserID: user.ID, IsAdmin: user.IsAdmin}, nil
}

// validateRegisterInput validates the input for registering a user.
func validateRegisterInput(input RegisterInput) error {
	if len(input.Username) < 3 || len(input.Username) > 255 {
		return ErrInvalidUsername
	}

	if _, err := mail.ParseAddress(input.Email); err != nil {
		return ErrInvalidEmail
	}

	if len(input.Password) < 8 {
		return ErrInvalidPassword
	}

	return nil
}
