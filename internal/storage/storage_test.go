package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newSQLite(t *testing.T) Storage {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "test.sqlite3"), 0)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newRedis(t *testing.T) Storage {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedis(client)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func backends(t *testing.T) map[string]Storage {
	return map[string]Storage{
		"memory": NewMemory(),
		"sqlite": newSQLite(t),
		"redis":  newRedis(t),
	}
}

func TestReadMissingKey(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Read(context.Background(), "missing")
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestWriteReadOverwrite(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := s.Write(ctx, "tickets", []byte(`[{"id":"1"}]`)); err != nil {
				t.Fatalf("write: %v", err)
			}
			got, err := s.Read(ctx, "tickets")
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if string(got) != `[{"id":"1"}]` {
				t.Fatalf("unexpected value %q", got)
			}

			if err := s.Write(ctx, "tickets", []byte(`[]`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, err = s.Read(ctx, "tickets")
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if string(got) != `[]` {
				t.Fatalf("expected overwritten value, got %q", got)
			}
		})
	}
}

func TestKeysAreIndependent(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := s.Write(ctx, "a", []byte("1")); err != nil {
				t.Fatalf("write a: %v", err)
			}
			if err := s.Write(ctx, "b", []byte("2")); err != nil {
				t.Fatalf("write b: %v", err)
			}
			got, err := s.Read(ctx, "a")
			if err != nil || string(got) != "1" {
				t.Fatalf("expected a=1, got %q err=%v", got, err)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := s.Write(ctx, "session", []byte("user@test.com")); err != nil {
				t.Fatalf("write: %v", err)
			}
			if err := s.Delete(ctx, "session"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := s.Read(ctx, "session"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}
			if err := s.Delete(ctx, "session"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound on repeated delete, got %v", err)
			}
		})
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	value := []byte("abc")
	if err := s.Write(ctx, "k", value); err != nil {
		t.Fatalf("write: %v", err)
	}
	value[0] = 'x'

	got, _ := s.Read(ctx, "k")
	got[1] = 'y'

	again, _ := s.Read(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("expected stored value to be isolated, got %q", again)
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "reopen.sqlite3")

	first, err := OpenSQLite(file, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Write(ctx, "tickets", []byte("[]")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := OpenSQLite(file, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = second.Close() })

	got, err := second.Read(ctx, "tickets")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "[]" {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestSQLiteRemigrateDropsData(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "remigrate.sqlite3")

	first, err := OpenSQLite(file, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Write(ctx, "tickets", []byte("[]")); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = first.Close()

	second, err := OpenSQLite(file, 1)
	if err != nil {
		t.Fatalf("reopen with remigrate: %v", err)
	}
	t.Cleanup(func() { _ = second.Close() })

	if _, err := second.Read(ctx, "tickets"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected data to be gone after remigrate, got %v", err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{Backend: Memory})
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if _, ok := s.(*MemoryStorage); !ok {
		t.Fatalf("expected *MemoryStorage, got %T", s)
	}

	s, err = Open(ctx, Options{Backend: SQLite, Path: filepath.Join(t.TempDir(), "open.sqlite3")})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	_ = s.Close()

	if _, err := Open(ctx, Options{Backend: "etcd"}); err == nil {
		t.Fatalf("expected an error for an unknown backend")
	}
}

func TestOpenRedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	addr := mr.Addr()
	mr.Close()

	s, err := Open(context.Background(), Options{Backend: Redis, RedisAddr: addr})
	if err == nil {
		t.Fatalf("expected dial error")
	}
	if s != nil {
		t.Fatalf("expected nil storage on error, got %T", s)
	}
}

func TestBackendIsValid(t *testing.T) {
	for _, b := range []Backend{SQLite, Redis, Memory} {
		if !b.IsValid() {
			t.Errorf("expected %q to be valid", b)
		}
	}
	if Backend("etcd").IsValid() {
		t.Errorf("expected etcd to be invalid")
	}
}
