package kvstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharbatly/count-engine/kvstore"
)

// Every backend must satisfy the same contract; the suite runs against
// each local driver. The S3 backend shares the contract but needs a
// live bucket, so it is exercised in deployment smoke checks instead.
func testStores(t *testing.T) map[string]kvstore.Store {
	t.Helper()

	fsStore, err := kvstore.NewFS(filepath.Join(t.TempDir(), "blobs"))
	require.NoError(t, err)

	sqliteStore, err := kvstore.NewSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)

	stores := map[string]kvstore.Store{
		"memory": kvstore.NewMemory(),
		"fs":     fsStore,
		"sqlite": sqliteStore,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStore_Contract(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			ns := store.Namespace("counts")

			// Missing key
			_, err := ns.Get(ctx, "missing")
			assert.ErrorIs(t, err, kvstore.ErrKeyNotFound)

			// Set / Get roundtrip, overwrite
			require.NoError(t, ns.Set(ctx, "s1", []byte(`[1]`)))
			require.NoError(t, ns.Set(ctx, "s1", []byte(`[1,2]`)))
			got, err := ns.Get(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, `[1,2]`, string(got))

			// List sees only this namespace
			require.NoError(t, ns.Set(ctx, "s2", []byte(`[]`)))
			require.NoError(t, store.Namespace("mapping").Set(ctx, "other", []byte(`{}`)))
			keys, err := ns.List(ctx)
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"s1", "s2"}, keys)

			// Delete is idempotent
			require.NoError(t, ns.Delete(ctx, "s1"))
			require.NoError(t, ns.Delete(ctx, "s1"))
			_, err = ns.Get(ctx, "s1")
			assert.ErrorIs(t, err, kvstore.ErrKeyNotFound)

			// Ping works
			assert.NoError(t, store.Ping(ctx))
		})
	}
}

func TestStore_ListEmptyNamespace(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			keys, err := store.Namespace("nothing-here").List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, keys)
		})
	}
}

func TestFS_EscapesAwkwardKeys(t *testing.T) {
	store, err := kvstore.NewFS(filepath.Join(t.TempDir(), "blobs"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	ns := store.Namespace("counts")

	key := "counts:ab/12..34"
	require.NoError(t, ns.Set(ctx, key, []byte(`"x"`)))

	got, err := ns.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `"x"`, string(got))

	keys, err := ns.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{key}, keys)
}

// =============================================================================
// CODEC TESTS
// =============================================================================

func TestReadJSON_FallbackWhenAbsent(t *testing.T) {
	store := kvstore.NewMemory()
	ctx := context.Background()
	ns := store.Namespace("counts")

	rows, err := kvstore.ReadJSON(ctx, ns, "missing", []int{})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	ptr, err := kvstore.ReadJSON[*string](ctx, ns, "missing", nil)
	require.NoError(t, err)
	assert.Nil(t, ptr)
}

func TestWriteJSON_ReadJSON_Roundtrip(t *testing.T) {
	store := kvstore.NewMemory()
	ctx := context.Background()
	ns := store.Namespace("counts")

	type doc struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	require.NoError(t, kvstore.WriteJSON(ctx, ns, "s1", []doc{{ID: 1, Name: "Widget"}}))

	got, err := kvstore.ReadJSON(ctx, ns, "s1", []doc{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Widget", got[0].Name)
}

func TestReadJSON_CorruptDocument(t *testing.T) {
	store := kvstore.NewMemory()
	ctx := context.Background()
	ns := store.Namespace("counts")

	require.NoError(t, ns.Set(ctx, "s1", []byte(`{not json`)))

	_, err := kvstore.ReadJSON(ctx, ns, "s1", []int{})
	assert.Error(t, err)
}
