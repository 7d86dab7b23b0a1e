package kvstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FSStore stores each document as a file under root/<namespace>/<key>.json.
// Keys are path-escaped so SKU-ish keys with slashes cannot escape the
// namespace directory. This is the development default.
type FSStore struct {
	root string
}

// NewFS creates (if needed) the root directory and returns a filesystem store.
func NewFS(root string) (*FSStore, error) {
	if root == "" {
		root = "./countdata"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root %s: %w", root, err)
	}
	return &FSStore{root: root}, nil
}

func (s *FSStore) Namespace(name string) Namespace {
	return &fsNamespace{dir: filepath.Join(s.root, url.PathEscape(name))}
}

func (s *FSStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := os.Stat(s.root)
	return err
}

func (s *FSStore) Driver() Driver { return DriverFS }

func (s *FSStore) Close() error { return nil }

type fsNamespace struct {
	dir string
}

func (n *fsNamespace) path(key string) string {
	return filepath.Join(n.dir, url.PathEscape(key)+".json")
}

func (n *fsNamespace) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(n.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".json")
		if !ok || e.IsDir() {
			continue
		}
		key, err := url.PathUnescape(name)
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (n *fsNamespace) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(n.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrKeyNotFound
	}
	return raw, err
}

func (n *fsNamespace) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(n.dir, 0o755); err != nil {
		return err
	}
	// Write-then-rename so a crashed write never leaves a torn document.
	tmp := n.path(key) + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, n.path(key))
}

func (n *fsNamespace) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(n.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
