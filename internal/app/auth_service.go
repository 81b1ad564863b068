// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"classbook/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates that the provided email or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken indicates a missing, expired or tampered access token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrSetupDone indicates that the initial admin already exists.
	ErrSetupDone = errors.New("users already exist")
)

// Claims is the JWT payload issued by AuthService.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService handles accounts and access tokens.
type AuthService struct {
	store  domain.Store
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewAuthService creates a new authentication service signing HS256 tokens
// with secret.
func NewAuthService(store domain.Store, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "classbook",
	}
}

// Register creates a user or trainer account with a zero balance. An empty
// role means user; admins are only created by setup.
func (s *AuthService) Register(ctx context.Context, email, password, name string, role domain.Role) (*domain.User, error) {
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() || role == domain.RoleAdmin {
		return nil, fmt.Errorf("%w: role must be user or trainer", domain.ErrValidation)
	}
	u, err := newAccount(email, password, name, role)
	if err != nil {
		return nil, err
	}
	if err := s.store.RunInTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		return tx.Users().Create(ctx, u)
	}); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies the password and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := view(ctx, s.store, func(ctx context.Context, tx domain.Tx) (*domain.User, error) {
		return tx.Users().GetByEmail(ctx, normalizeEmail(email))
	})
	if err != nil || user.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.IssueToken(user)
}

// LoginWithEmail issues a token for a user already authenticated elsewhere
// (SSO), creating the account on first sight.
func (s *AuthService) LoginWithEmail(ctx context.Context, email, name string) (string, error) {
	email = normalizeEmail(email)
	var user *domain.User
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		u, err := tx.Users().GetByEmail(ctx, email)
		if err == nil {
			user = u
			return nil
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		user = newUser(email, name, "", domain.RoleUser)
		return tx.Users().Create(ctx, user)
	})
	if err != nil {
		return "", err
	}
	return s.IssueToken(user)
}

// CreateInitialAdmin creates the first user as an admin if no users exist.
func (s *AuthService) CreateInitialAdmin(ctx context.Context, email, password, name string) (*domain.User, error) {
	u, err := newAccount(email, password, name, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		if err := tx.Users().LockSetup(ctx); err != nil {
			return err
		}
		count, err := tx.Users().Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrSetupDone
		}
		return tx.Users().Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// IssueToken signs an access token for u.
func (s *AuthService) IssueToken(u *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken validates a token and returns its claims.
func (s *AuthService) ParseToken(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// newAccount validates the credentials and hashes the password.
func newAccount(email, password, name string, role domain.Role) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || len(password) < 8 {
		return nil, fmt.Errorf("%w: email and a password of at least 8 characters are required", domain.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return newUser(email, name, string(hash), role), nil
}

func newUser(email, name, hash string, role domain.Role) *domain.User {
	return &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ConstantTimeCompare performs a constant-time comparison of two strings.
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
