package kvstore

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store for tests. Values are copied on the
// way in and out so callers cannot alias stored state.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte // namespace -> key -> value
}

// NewMemory returns an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string][]byte)}
}

func (s *MemoryStore) Namespace(name string) Namespace {
	return &memoryNamespace{store: s, name: name}
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) Driver() Driver { return DriverMemory }

func (s *MemoryStore) Close() error { return nil }

type memoryNamespace struct {
	store *MemoryStore
	name  string
}

func (n *memoryNamespace) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n.store.mu.RLock()
	defer n.store.mu.RUnlock()

	keys := make([]string, 0, len(n.store.data[n.name]))
	for k := range n.store.data[n.name] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (n *memoryNamespace) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n.store.mu.RLock()
	defer n.store.mu.RUnlock()

	v, ok := n.store.data[n.name][key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (n *memoryNamespace) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.store.mu.Lock()
	defer n.store.mu.Unlock()

	ns, ok := n.store.data[n.name]
	if !ok {
		ns = make(map[string][]byte)
		n.store.data[n.name] = ns
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	ns[key] = stored
	return nil
}

func (n *memoryNamespace) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.store.mu.Lock()
	defer n.store.mu.Unlock()

	delete(n.store.data[n.name], key)
	return nil
}
