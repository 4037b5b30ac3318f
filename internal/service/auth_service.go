package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medclinic/internal/models"
	"medclinic/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Domain errors for auth flows.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidToken    = errors.New("invalid token")
	ErrUsernameTaken   = errors.New("username or email already taken")
	ErrInvalidRole     = errors.New("role must be patient, doctor, or admin")
	ErrMissingFields   = errors.New("username, email, and password are required")
)

// AuthService handles registration, credential checks, and JWT issuing.
type AuthService struct {
	users    repository.Users
	doctors  repository.Doctors
	patients repository.Patients
	cfg      AuthConfig
}

func NewAuthService(users repository.Users, doctors repository.Doctors, patients repository.Patients, cfg AuthConfig) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	return &AuthService{users: users, doctors: doctors, patients: patients, cfg: cfg}
}

// SignUp validates input, hashes the password, creates the user, and creates
// the role profile for doctors and patients.
func (s *AuthService) SignUp(ctx context.Context, p SignUpParams) (int, error) {
	username := strings.TrimSpace(p.Username)
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if username == "" || email == "" || strings.TrimSpace(p.Password) == "" {
		return 0, ErrMissingFields
	}

	role := p.Role
	if role == "" {
		role = models.RolePatient
	}
	switch role {
	case models.RolePatient, models.RoleDoctor, models.RoleAdmin:
	default:
		return 0, ErrInvalidRole
	}

	if existing, err := s.users.GetByUsername(ctx, username); err != nil {
		return 0, err
	} else if existing != nil {
		return 0, ErrUsernameTaken
	}
	if existing, err := s.users.GetByEmail(ctx, email); err != nil {
		return 0, err
	} else if existing != nil {
		return 0, ErrUsernameTaken
	}

	hash, err := hashPassword(p.Password)
	if err != nil {
		return 0, fmt.Errorf("invalid password: %w", err)
	}

	id, err := s.users.Create(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Phone:        p.Phone,
		Role:         role,
	})
	if err != nil {
		return 0, err
	}

	switch role {
	case models.RoleDoctor:
		_, err = s.doctors.Create(ctx, models.DoctorProfile{
			UserID:          id,
			Specialization:  p.Specialization,
			Qualification:   p.Qualification,
			City:            p.City,
			ExperienceYears: p.ExperienceYears,
		})
	case models.RolePatient:
		_, err = s.patients.Create(ctx, models.PatientProfile{UserID: id})
	}
	if err != nil {
		return 0, fmt.Errorf("create %s profile: %w", role, err)
	}

	return id, nil
}

// Claims defines JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
}

// GenerateToken validates credentials and returns a JWT. The identifier is
// tried as an email first, then as a username.
func (s *AuthService) GenerateToken(ctx context.Context, identifier, password string) (string, error) {
	identifier = strings.TrimSpace(identifier)

	var (
		u   *models.User
		err error
	)
	if strings.Contains(identifier, "@") {
		u, err = s.users.GetByEmail(ctx, strings.ToLower(identifier))
		if err != nil {
			return "", err
		}
	}
	if u == nil {
		u, err = s.users.GetByUsername(ctx, identifier)
		if err != nil {
			return "", err
		}
	}
	if u == nil {
		return "", ErrUserNotFound
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", ErrInvalidPassword
	}

	return s.issueToken(u.ID, u.Role)
}

// ParseToken parses a JWT and returns the user ID and role.
func (s *AuthService) ParseToken(accessToken string) (int, string, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SigningKey), nil
	})
	if err != nil {
		return 0, "", err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, "", ErrInvalidToken
	}

	return claims.UserID, claims.Role, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// helper: issue a signed JWT for a user
func (s *AuthService) issueToken(userID int, role string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
		Role:   role,
	})
	return token.SignedString([]byte(s.cfg.SigningKey))
}
