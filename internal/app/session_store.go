package app

import (
	"context"
	"errors"
	"sync"

	"njaboot/internal/domain"
	"njaboot/internal/logger"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrLoginFailed is the kind of every failed login.
	ErrLoginFailed = errors.New("login failed")
	// ErrRegistrationFailed is the kind of every failed sign-up.
	ErrRegistrationFailed = errors.New("registration failed")
)

// User-facing messages carried by AuthenticationError.
const (
	MsgLoginFailed        = "Email ou mot de passe incorrect"
	MsgRegistrationFailed = "Échec de l'inscription"
)

// AuthenticationError reports a failed login or registration. Error()
// yields only the localized Message; the kind and the underlying cause
// stay reachable through Unwrap for errors.Is and logging.
type AuthenticationError struct {
	Kind    error
	Message string
	Cause   error
}

func (e *AuthenticationError) Error() string { return e.Message }

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *AuthenticationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// SessionStore holds the signed-in user of the current device.
type SessionStore struct {
	auth domain.Authenticator
	repo domain.ProfileRepository
	log  *logger.Logger

	mu      sync.RWMutex
	user    *domain.User
	loading bool
	once    sync.Once

	// persistMu keeps the stored profile and the in-memory user in step:
	// every write to repo and the matching update of user happen under it.
	persistMu sync.Mutex
}

// NewSessionStore returns a store in the loading state; call Rehydrate once
// the UI is ready to observe it.
func NewSessionStore(auth domain.Authenticator, repo domain.ProfileRepository, log *logger.Logger) *SessionStore {
	return &SessionStore{auth: auth, repo: repo, log: log, loading: true}
}

// Rehydrate restores the persisted session. A corrupt profile is removed
// and the store starts signed out; an unreadable one is kept for the next
// start. Only the first call has any effect.
func (s *SessionStore) Rehydrate(ctx context.Context) {
	s.once.Do(func() {
		s.persistMu.Lock()
		defer s.persistMu.Unlock()

		u, err := s.repo.Load(ctx)
		switch {
		case errors.Is(err, domain.ErrCorruptSnapshot):
			s.log.Warn(ctx, "discarding corrupt stored session", err)
			if cerr := s.repo.Clear(ctx); cerr != nil {
				s.log.Warn(ctx, "clearing stored session failed", cerr)
			}
			u = nil
		case err != nil:
			s.log.Warn(ctx, "stored session unavailable, starting signed out", err)
			u = nil
		}

		s.mu.Lock()
		s.user = u
		s.loading = false
		s.mu.Unlock()
	})
}

// Login authenticates against the remote API and, on success, stores the
// returned profile. Any failure leaves the current session untouched.
func (s *SessionStore) Login(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, s.fail(ctx, ErrLoginFailed, MsgLoginFailed, err)
	}
	if err := s.establish(ctx, u); err != nil {
		return nil, s.fail(ctx, ErrLoginFailed, MsgLoginFailed, err)
	}
	return u, nil
}

// Register creates an account through the remote API and signs it in.
func (s *SessionStore) Register(ctx context.Context, r domain.Registration) (*domain.User, error) {
	if err := validate.Struct(r); err != nil {
		return nil, s.fail(ctx, ErrRegistrationFailed, MsgRegistrationFailed, err)
	}
	u, err := s.auth.Register(ctx, r)
	if err != nil {
		return nil, s.fail(ctx, ErrRegistrationFailed, MsgRegistrationFailed, err)
	}
	if err := s.establish(ctx, u); err != nil {
		return nil, s.fail(ctx, ErrRegistrationFailed, MsgRegistrationFailed, err)
	}
	return u, nil
}

// Logout forgets the current user. It cannot fail: the stored profile is
// removed first, and if that fails the error is logged and the user is
// still signed out of this process.
func (s *SessionStore) Logout(ctx context.Context) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		s.log.Error(ctx, "clearing stored session failed, it will be restored on next start", err)
	}

	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

// User returns a copy of the signed-in user.
func (s *SessionStore) User() (*domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil, false
	}
	cp := *s.user
	return &cp, true
}

// IsAuthenticated reports whether a user is signed in.
func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// IsManager reports whether the signed-in user is a manager.
func (s *SessionStore) IsManager() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Role == domain.RoleManager
}

// IsLoading is true until Rehydrate has run.
func (s *SessionStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// establish persists u before exposing it so that memory never holds a
// session the next start would not see.
func (s *SessionStore) establish(ctx context.Context, u *domain.User) error {
	if u == nil || u.ID == "" {
		return errors.New("empty user in response")
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if err := s.repo.Save(ctx, u); err != nil {
		return err
	}
	cp := *u
	s.mu.Lock()
	s.user = &cp
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) fail(ctx context.Context, kind error, msg string, cause error) error {
	s.log.Warn(ctx, kind.Error(), cause)
	return &AuthenticationError{Kind: kind, Message: msg, Cause: cause}
}
