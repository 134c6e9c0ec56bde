package domain

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by LocalStorage.Get for absent keys.
	ErrNotFound = errors.New("not found")
	// ErrCorruptSnapshot marks persisted client state that cannot be decoded.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
	// ErrEmailTaken is returned by UserRepository.Create for duplicate emails.
	ErrEmailTaken = errors.New("email already registered")
)

// LocalStorage is durable key/value storage on the client device.
type LocalStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
