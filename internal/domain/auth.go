// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// Role distinguishes back-office managers from storefront customers.
type Role string

const (
	RoleManager  Role = "manager"
	RoleCustomer Role = "customer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleManager || r == RoleCustomer
}

// User is an authenticated account. PasswordHash never leaves the server.
type User struct {
	ID            string    `json:"id"`
	Role          Role      `json:"role"`
	Email         string    `json:"email"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	LoyaltyPoints int64     `json:"loyaltyPoints"`
	PasswordHash  string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Registration is the profile submitted when a customer signs up.
type Registration struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	Address   string `json:"address,omitempty" validate:"omitempty,max=255"`
}

// Session is a server-side login bound to a browser.
type Session struct {
	Token     string
	UserID    string
	UserAgent string
	IP        string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// UserRepository defines the port for user persistence operations.
// Lookups return (nil, nil) when the user does not exist.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u *User) error
	Count(ctx context.Context) (int, error)
}

// SessionRepository defines the port for session persistence operations.
// GetByToken returns (nil, nil) for unknown tokens.
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	GetByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}

// ProfileRepository persists the signed-in user on the client side.
// Load returns (nil, nil) when nothing is stored.
type ProfileRepository interface {
	Load(ctx context.Context) (*User, error)
	Save(ctx context.Context, u *User) error
	Clear(ctx context.Context) error
}

// Authenticator is the remote authentication API seen from the client.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*User, error)
	Register(ctx context.Context, r Registration) (*User, error)
}
