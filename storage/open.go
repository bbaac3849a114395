package storage

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	TypeMemory = "memory"
	TypeFile   = "file"
	TypeSQLite = "sqlite"
	TypeRedis  = "redis"
)

type Options struct {
	Type   string
	Dir    string
	DBPath string
	Redis  RedisOptions
}

// Open builds the backend named by opts.Type.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Type {
	case TypeMemory:
		return NewMemory(), nil
	case TypeFile, "":
		return NewFile(opts.Dir)
	case TypeSQLite:
		return NewSQLite(opts.DBPath)
	case TypeRedis:
		return NewRedis(ctx, opts.Redis)
	}
	return nil, &StorageError{Op: "open", Err: fmt.Errorf("unknown storage type %q", opts.Type)}
}
