package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharbatly/count-engine/inventory"
	"github.com/sharbatly/count-engine/kvstore"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestCountStore(t *testing.T) (*inventory.CountStore, kvstore.Store) {
	t.Helper()
	store := kvstore.NewMemory()
	t.Cleanup(func() { store.Close() })
	return inventory.NewCountStore(store), store
}

func seedRow(sku, name string, systemQty float64) inventory.SeedRow {
	return inventory.SeedRow{City: "Jeddah", SKU: sku, Name: name, SystemQty: systemQty}
}

func qty(f float64) *float64 { return &f }

// =============================================================================
// SEED TESTS
// =============================================================================

func TestCountStore_Seed_AssignsSequentialIDs(t *testing.T) {
	counts, _ := newTestCountStore(t)
	ctx := context.Background()

	total, err := counts.Seed(ctx, "s1", []inventory.SeedRow{
		seedRow("A1", "Widget", 10),
		seedRow("B2", "Gadget", 5),
		seedRow("C3", "Sprocket", 7),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	rows, err := counts.GetAll(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i, row := range rows {
		assert.Equal(t, i+1, row.ID)
		assert.Equal(t, "s1", row.SessionID)
		assert.Nil(t, row.CountedQty, "new rows start uncounted")
	}
}

func TestCountStore_Seed_UpsertPreservesIDAndCountedQty(t *testing.T) {
	// GIVEN: A seeded session where A1 has been counted
	counts, _ := newTestCountStore(t)
	ctx := context.Background()

	_, err := counts.Seed(ctx, "s1", []inventory.SeedRow{
		seedRow("A1", "Widget", 10),
		seedRow("B2", "Gadget", 5),
	})
	require.NoError(t, err)

	_, err = counts.PatchCount(ctx, "s1", 1, qty(4))
	require.NoError(t, err)

	// WHEN: Re-seeding A1 with new name/quantity
	total, err := counts.Seed(ctx, "s1", []inventory.SeedRow{
		seedRow("A1", "Widget v2", 12),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total, "re-seed must not add a duplicate row")

	// THEN: id and counted_qty survive, descriptive fields are replaced
	rows, err := counts.GetAll(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	a1 := rows[0]
	assert.Equal(t, 1, a1.ID)
	assert.Equal(t, "Widget v2", a1.Name)
	assert.Equal(t, 12.0, a1.SystemQty)
	require.NotNil(t, a1.CountedQty)
	assert.Equal(t, 4.0, *a1.CountedQty)
}

func TestCountStore_Seed_IdempotentOnIdenticalInput(t *testing.T) {
	counts, _ := newTestCountStore(t)
	ctx := context.Background()

	input := []inventory.SeedRow{seedRow("A1", "Widget", 10), seedRow("B2", "Gadget", 5)}
	_, err := counts.Seed(ctx, "s1", input)
	require.NoError(t, err)
	first, err := counts.GetAll(ctx, "s1")
	require.NoError(t, err)

	_, err = counts.Seed(ctx, "s1", input)
	require.NoError(t, err)
	second, err := counts.GetAll(ctx, "s1")
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].SKU, second[i].SKU)
		assert.Equal(t, first[i].CountedQty, second[i].CountedQty)
	}
}

func TestCountStore_Seed_DuplicateSKUInBatch_LastWins(t *testing.T) {
	counts, _ := newTestCountStore(t)
	ctx := context.Background()

	total, err := counts.Seed(ctx, "s1", []inventory.SeedRow{
		seedRow("A1", "First", 10),
		seedRow("A1", "Second", 20),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	rows, err := counts.GetAll(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].ID)
	assert.Equal(t, "Second", rows[0].Name)
	assert.Equal(t, 20.0, rows[0].SystemQty)
}

func TestCountStore_Seed_NewSKUGetsMaxIDPlusOne(t *testing.T) {
	counts, _ := newTestCountStore(t)
	ctx := context.Background()

	_, err := counts.Seed(ctx, "s1", []inventory.SeedRow{seedRow("A1", "Widget", 10)})
	require.NoError(t, err)
	_, err = counts.Seed(ctx, "s1", []inventory.SeedRow{seedRow("B2", "Gadget", 5)})
	require.NoError(t, err)

	rows, err := counts.GetAll(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[1].ID)
}

func TestCountStore_Seed_RequiresSessionID(t *testing.T) {
	counts, _ := newTestCountStore(t)

	_, err := counts.Seed(context.Background(), "", []inventory.SeedRow{seedRow("A1", "Widget", 1)})
	assert.True(t, inventory.IsValidation(err))
}

// =============================================================================
// GETALL / PATCH TESTS
// =============================================================================

func TestCountStore_GetAll_EmptySession(t *testing.T) {
	counts, _ := newTestCountStore(t)

	rows, err := counts.GetAll(context.Background(), "never-seeded")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCountStore_PatchCount_SetsAndClears(t *testing.T) {
	counts, _ := newTestCountStore(t)
	ctx := context.Background()

	_, err := counts.Seed(ctx, "s1", []inventory.SeedRow{
		seedRow("A1", "Widget", 10),
		seedRow("B2", "Gadget", 5),
	})
	require.NoError(t, err)

	row, err := counts.PatchCount(ctx, "s1", 2, qty(3))
	require.NoError(t, err)
	require.NotNil(t, row.CountedQty)
	assert.Equal(t, 3.0, *row.CountedQty)

	// Other rows untouched
	rows, err := counts.GetAll(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, rows[0].CountedQty)

	// nil clears
	row, err = counts.PatchCount(ctx, "s1", 2, nil)
	require.NoError(t, err)
	assert.Nil(t, row.CountedQty)
}

func TestCountStore_PatchCount_UnknownID(t *testing.T) {
	counts, _ := newTestCountStore(t)
	ctx := context.Background()

	_, err := counts.Seed(ctx, "s1", []inventory.SeedRow{seedRow("A1", "Widget", 10)})
	require.NoError(t, err)

	_, err = counts.PatchCount(ctx, "s1", 99, qty(1))
	assert.True(t, inventory.IsNotFound(err))

	var notFound *inventory.RowNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 99, notFound.ID)
}

func TestCountStore_SessionsAreIsolated(t *testing.T) {
	counts, _ := newTestCountStore(t)
	ctx := context.Background()

	_, err := counts.Seed(ctx, "s1", []inventory.SeedRow{seedRow("A1", "Widget", 10)})
	require.NoError(t, err)
	_, err = counts.Seed(ctx, "s2", []inventory.SeedRow{seedRow("A1", "Widget", 99)})
	require.NoError(t, err)

	rows1, err := counts.GetAll(ctx, "s1")
	require.NoError(t, err)
	rows2, err := counts.GetAll(ctx, "s2")
	require.NoError(t, err)

	assert.Equal(t, 10.0, rows1[0].SystemQty)
	assert.Equal(t, 99.0, rows2[0].SystemQty)
	assert.Equal(t, 1, rows2[0].ID, "ids are per-session")
}
