package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type fileBlobs struct {
	dir string
}

func (b fileBlobs) path(key string) string {
	return filepath.Join(b.dir, key+".json")
}

func (b fileBlobs) get(ctx context.Context, keys ...string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return nil, &StorageError{Op: "load", Key: k, Err: err}
		}
		data, err := os.ReadFile(b.path(k))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, &StorageError{Op: "load", Key: k, Err: err}
		}
		out[k] = data
	}
	return out, nil
}

// put writes each blob to a temp file first and renames it into place so a
// crash never leaves a half written blob behind.
func (b fileBlobs) put(ctx context.Context, kv map[string][]byte) error {
	for k, v := range kv {
		if err := ctx.Err(); err != nil {
			return &StorageError{Op: "save", Key: k, Err: err}
		}
		tmp, err := os.CreateTemp(b.dir, k+".*.tmp")
		if err != nil {
			return &StorageError{Op: "save", Key: k, Err: err}
		}
		if _, err := tmp.Write(v); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return &StorageError{Op: "save", Key: k, Err: err}
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmp.Name())
			return &StorageError{Op: "save", Key: k, Err: err}
		}
		if err := os.Rename(tmp.Name(), b.path(k)); err != nil {
			os.Remove(tmp.Name())
			return &StorageError{Op: "save", Key: k, Err: err}
		}
	}
	return nil
}

// FileStore keeps each blob as <dir>/<key>.json.
type FileStore struct {
	codec
}

func NewFile(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StorageError{Op: "open", Err: fmt.Errorf("create %s: %w", dir, err)}
	}
	return &FileStore{codec: codec{b: fileBlobs{dir: dir}}}, nil
}

func (s *FileStore) Close() error { return nil }
