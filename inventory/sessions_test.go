package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharbatly/count-engine/inventory"
	"github.com/sharbatly/count-engine/kvstore"
)

func newTestRegistry(t *testing.T) (*inventory.Registry, kvstore.Store) {
	t.Helper()
	store := kvstore.NewMemory()
	t.Cleanup(func() { store.Close() })
	return inventory.NewRegistry(store), store
}

func TestRegistry_Create_RequiresName(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.Create(context.Background(), "", "Jeddah")
	assert.True(t, inventory.IsValidation(err))

	_, err = reg.Create(context.Background(), "   ", "Jeddah")
	assert.True(t, inventory.IsValidation(err), "whitespace-only name is empty")
}

func TestRegistry_List_NewestFirst(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	first, err := reg.Create(ctx, "March count", "Jeddah")
	require.NoError(t, err)
	second, err := reg.Create(ctx, "April count", "Riyadh")
	require.NoError(t, err)

	sessions, err := reg.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second.ID, sessions[0].ID)
	assert.Equal(t, first.ID, sessions[1].ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRegistry_List_Empty(t *testing.T) {
	reg, _ := newTestRegistry(t)

	sessions, err := reg.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRegistry_Delete_CascadesToRelatedKeys(t *testing.T) {
	// GIVEN: A session with counts, destructions and a mapping
	reg, store := newTestRegistry(t)
	ctx := context.Background()

	session, err := reg.Create(ctx, "March count", "Jeddah")
	require.NoError(t, err)
	other, err := reg.Create(ctx, "April count", "Riyadh")
	require.NoError(t, err)

	counts := inventory.NewCountStore(store)
	ledger := inventory.NewLedger(store)
	mappings := inventory.NewMappingStore(store)

	_, err = counts.Seed(ctx, session.ID, []inventory.SeedRow{{SKU: "A1", Name: "Widget", SystemQty: 10}})
	require.NoError(t, err)
	_, err = ledger.Add(ctx, session.ID, "A1", "Widget", 1, "damaged")
	require.NoError(t, err)
	require.NoError(t, mappings.Put(ctx, session.ID, &inventory.ColumnMapping{SKU: "Barcode", Name: "Name", SystemQty: "On Hand"}))

	_, err = counts.Seed(ctx, other.ID, []inventory.SeedRow{{SKU: "B2", Name: "Gadget", SystemQty: 5}})
	require.NoError(t, err)

	// WHEN: Deleting the session
	result, err := reg.Delete(ctx, session.ID)
	require.NoError(t, err)

	// THEN: The session is gone, its related keys are gone, the other
	// session is untouched
	assert.Equal(t, 3, result.DeletedRelated)
	assert.Equal(t, 1, result.SessionsRemaining)

	sessions, err := reg.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, other.ID, sessions[0].ID)

	rows, err := counts.GetAll(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	lines, err := ledger.List(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	mapping, err := mappings.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, mapping)

	otherRows, err := counts.GetAll(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, otherRows, 1)
}

func TestRegistry_DeleteAll_ReportsPerNamespace(t *testing.T) {
	reg, store := newTestRegistry(t)
	ctx := context.Background()

	session, err := reg.Create(ctx, "March count", "Jeddah")
	require.NoError(t, err)

	counts := inventory.NewCountStore(store)
	_, err = counts.Seed(ctx, session.ID, []inventory.SeedRow{{SKU: "A1", Name: "Widget", SystemQty: 10}})
	require.NoError(t, err)

	summary := reg.DeleteAll(ctx)

	require.Contains(t, summary, inventory.NamespaceSessions)
	require.Contains(t, summary, inventory.NamespaceCounts)
	assert.Equal(t, 1, summary[inventory.NamespaceSessions].Deleted)
	assert.Equal(t, 1, summary[inventory.NamespaceCounts].Deleted)
	assert.Equal(t, 0, summary[inventory.NamespaceDestructions].Deleted)

	sessions, err := reg.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
