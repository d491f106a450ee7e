package storage

import (
	"context"
	"fmt"
)

type Options struct {
	Backend        Backend
	Path           string
	RedisAddr      string
	RemigrateCount int
}

// Open constructs the backend named in opts.
func Open(ctx context.Context, opts Options) (Storage, error) {
	switch opts.Backend {
	case SQLite:
		s, err := OpenSQLite(opts.Path, opts.RemigrateCount)
		if err != nil {
			return nil, err
		}
		return s, nil
	case Redis:
		s, err := DialRedis(ctx, opts.RedisAddr)
		if err != nil {
			return nil, err
		}
		return s, nil
	case Memory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
