// Package storage provides the key-value persistence the ticket store and
// session are built on. Every backend stores opaque byte values under string
// keys.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read and Delete when the key has no value.
var ErrNotFound = errors.New("storage: key not found")

type Storage interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type Backend string

const (
	SQLite Backend = "sqlite"
	Redis  Backend = "redis"
	Memory Backend = "memory"
)

func (b Backend) IsValid() bool {
	switch b {
	case SQLite, Redis, Memory:
		return true
	default:
		return false
	}
}
