package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"medclinic/internal/models"
	"medclinic/internal/repository"

	"github.com/google/uuid"
)

const (
	resetTokenTTL = 24 * time.Hour
	emailTokenTTL = 48 * time.Hour
)

var (
	ErrTokenExpired     = errors.New("token is invalid, used, or expired")
	ErrWrongOldPassword = errors.New("current password is incorrect")
	ErrWeakPassword     = errors.New("new password must not be empty")
)

// AccountService covers profile edits, password maintenance, and the reset
// token flow.
type AccountService struct {
	users  repository.Users
	tokens repository.Tokens
}

func NewAccountService(users repository.Users, tokens repository.Tokens) *AccountService {
	return &AccountService{users: users, tokens: tokens}
}

// Profile returns the user record for the given ID.
func (s *AccountService) Profile(ctx context.Context, userID int) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateProfile applies the mutable profile fields.
func (s *AccountService) UpdateProfile(ctx context.Context, p UpdateProfileParams) error {
	u, err := s.Profile(ctx, p.UserID)
	if err != nil {
		return err
	}
	u.FirstName = p.FirstName
	u.LastName = p.LastName
	u.Phone = p.Phone
	return s.users.UpdateProfile(ctx, *u)
}

// ChangePassword verifies the old password and stores a new hash.
func (s *AccountService) ChangePassword(ctx context.Context, userID int, oldPassword, newPassword string) error {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if err := verifyPassword(u.PasswordHash, oldPassword); err != nil {
		return ErrWrongOldPassword
	}
	if strings.TrimSpace(newPassword) == "" {
		return ErrWeakPassword
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// RequestPasswordReset creates a 24h single-use token for the account behind
// the email. Returns "" (and no error) when no account matches, so callers
// can answer identically either way and avoid account enumeration.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", nil
	}

	t := models.VerificationToken{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		Type:      models.TokenPasswordReset,
		ExpiresAt: time.Now().UTC().Add(resetTokenTTL),
	}
	if err := s.tokens.Create(ctx, t); err != nil {
		return "", err
	}
	return t.Token, nil
}

// ConfirmPasswordReset consumes a reset token and stores the new password.
func (s *AccountService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	t, err := s.tokens.Get(ctx, token, models.TokenPasswordReset)
	if err != nil {
		return err
	}
	if t == nil || t.Used || t.Expired(time.Now().UTC()) {
		return ErrTokenExpired
	}
	if strings.TrimSpace(newPassword) == "" {
		return ErrWeakPassword
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, t.UserID, hash); err != nil {
		return err
	}
	return s.tokens.MarkUsed(ctx, token)
}

// RequestEmailVerification issues a single-use token proving ownership of the
// account's email address. Delivery is the caller's concern.
func (s *AccountService) RequestEmailVerification(ctx context.Context, userID int) (string, error) {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return "", err
	}

	t := models.VerificationToken{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		Type:      models.TokenEmail,
		ExpiresAt: time.Now().UTC().Add(emailTokenTTL),
	}
	if err := s.tokens.Create(ctx, t); err != nil {
		return "", err
	}
	return t.Token, nil
}

// ConfirmEmail consumes a verification token and marks the account's email
// address as confirmed.
func (s *AccountService) ConfirmEmail(ctx context.Context, token string) error {
	t, err := s.tokens.Get(ctx, token, models.TokenEmail)
	if err != nil {
		return err
	}
	if t == nil || t.Used || t.Expired(time.Now().UTC()) {
		return ErrTokenExpired
	}

	if err := s.users.MarkEmailVerified(ctx, t.UserID); err != nil {
		return err
	}
	return s.tokens.MarkUsed(ctx, token)
}
