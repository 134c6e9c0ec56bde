// Package app holds the application services and business logic: the
// client-side cart and session stores and the server-side AuthService.
package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"njaboot/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates that the provided email or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidRegistration wraps validation failures of a sign-up payload.
	ErrInvalidRegistration = errors.New("invalid registration")
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// DefaultSessionTTL applies when NewAuthService is given a zero TTL.
const DefaultSessionTTL = 24 * time.Hour

// AuthService handles authentication and session management for the API.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	ttl      time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
	}
}

// SessionTTL is how long issued session tokens stay valid.
func (s *AuthService) SessionTTL() time.Duration {
	return s.ttl
}

// Login authenticates a user and creates a session.
func (s *AuthService) Login(ctx context.Context, email, password, userAgent, ip string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil || user == nil || user.PasswordHash == "" {
		return nil, "", ErrInvalidCredentials
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.startSession(ctx, user.ID, userAgent, ip)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Register creates a customer account and signs it in. Managers are never
// created through this path.
func (s *AuthService) Register(ctx context.Context, r domain.Registration, userAgent, ip string) (*domain.User, string, error) {
	r.Email = normalizeEmail(r.Email)
	if err := validate.Struct(r); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidRegistration, err)
	}

	existing, err := s.users.GetByEmail(ctx, r.Email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidRegistration, err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Role:         domain.RoleCustomer,
		Email:        r.Email,
		FirstName:    strings.TrimSpace(r.FirstName),
		LastName:     strings.TrimSpace(r.LastName),
		Phone:        strings.TrimSpace(r.Phone),
		Address:      strings.TrimSpace(r.Address),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.startSession(ctx, user.ID, userAgent, ip)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout invalidates a session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ValidateSession checks if a session token is valid and matches the user agent.
func (s *AuthService) ValidateSession(ctx context.Context, token, userAgent string) (*domain.User, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil || session == nil {
		return nil, ErrSessionNotFound
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	if session.UserAgent != userAgent {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil || user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// BootstrapManager creates the first manager account if no users exist yet.
// It reports whether an account was created.
func (s *AuthService) BootstrapManager(ctx context.Context, email, password string) (bool, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	err = s.users.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Role:         domain.RoleManager,
		Email:        normalizeEmail(email),
		FirstName:    "Gérant",
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	})
	return err == nil, err
}

// LoginWithUser creates a session for a user already authenticated by the
// identity provider, provisioning a customer account on first sight.
func (s *AuthService) LoginWithUser(ctx context.Context, email, firstName, lastName, userAgent, ip string) (*domain.User, string, error) {
	email = normalizeEmail(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		// SSO accounts carry no password hash and cannot use Login.
		user = &domain.User{
			ID:        uuid.NewString(),
			Role:      domain.RoleCustomer,
			Email:     email,
			FirstName: firstName,
			LastName:  lastName,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.users.Create(ctx, user); err != nil {
			// Lost a race against a concurrent first login.
			user, err = s.users.GetByEmail(ctx, email)
			if err != nil || user == nil {
				return nil, "", fmt.Errorf("provision sso user: %w", err)
			}
		}
	}

	token, err := s.startSession(ctx, user.ID, userAgent, ip)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// PurgeExpiredSessions removes sessions past their expiry.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) error {
	return s.sessions.DeleteExpired(ctx)
}

func (s *AuthService) startSession(ctx context.Context, userID, userAgent, ip string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	now := time.Now()
	err = s.sessions.Create(ctx, &domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now.UTC(),
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
