package auth

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/quizhub/internal/domain"
)

// TokenIssuer creates signed access tokens.
type TokenIssuer interface {
	Issue(userID uint) (string, time.Time, error)
}

// Service defines the authentication operations.
type Service interface {
	Login(ctx context.Context, email, password string) (*TokenResponse, error)
	Register(ctx context.Context, nickname, email, password string) (*domain.User, error)
}

// authService implements Service.
type authService struct {
	tokens   TokenIssuer
	userRepo domain.UserRepository
}

// NewService creates a new auth Service.
func NewService(tokens TokenIssuer, userRepo domain.UserRepository) Service {
	return &authService{
		tokens:   tokens,
		userRepo: userRepo,
	}
}

// Login authenticates a user by email and password and returns an access token.
// Emails are matched case-insensitively, as stored by Register. Banned
// accounts are refused even with valid credentials.
func (s *authService) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		// Do not reveal whether the account exists.
		if domain.IsNotFound(err) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.IsBanned || user.Role == domain.RoleBanned {
		slog.WarnContext(ctx, "banned user login refused", slog.Uint64("user_id", uint64(user.ID)))
		return nil, domain.NewAppError(domain.CodeForbidden, "user is banned", nil)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to generate token", err)
	}

	return &TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt.Unix(),
		Account:   newAccountResponse(user),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateRegisterInput validates registration input. Callers pass trimmed
// values; trimming again keeps the check self-contained.
func validateRegisterInput(nickname, email, password string) error {
	nameLen := utf8.RuneCountInString(strings.TrimSpace(nickname))
	if nameLen == 0 {
		return domain.NewAppError(domain.CodeValidation, "nickname is required", nil)
	}
	if nameLen > 50 {
		return domain.NewAppError(domain.CodeValidation, "nickname must not exceed 50 characters", nil)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.NewAppError(domain.CodeValidation, "email is required", nil)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return domain.NewAppError(domain.CodeValidation, "email must be a valid email address", nil)
	}
	if len(password) < 8 {
		return domain.NewAppError(domain.CodeValidation, "password must be at least 8 characters", nil)
	}
	// bcrypt ignores input past 72 bytes.
	if len(password) > 72 {
		return domain.NewAppError(domain.CodeValidation, "password must not exceed 72 characters", nil)
	}
	return nil
}

// Register creates a new account with the user role.
func (s *authService) Register(ctx context.Context, nickname, email, password string) (*domain.User, error) {
	nickname = strings.TrimSpace(nickname)
	email = normalizeEmail(email)
	if err := validateRegisterInput(nickname, email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to hash password", err)
	}

	user := domain.User{
		Nickname:     nickname,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user registered", slog.Uint64("user_id", uint64(user.ID)))
	return &user, nil
}
