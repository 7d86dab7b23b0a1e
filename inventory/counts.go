/*
counts.go - Counts reconciliation store

PURPOSE:
  Owns the per-session list of count rows. The whole list is one JSON
  document keyed by session id in the counts namespace; every operation
  reads the document, mutates a copy, and writes it back in full.

UPSERT CONTRACT (Seed):
  - SKU is the natural key: at most one row per session+SKU.
  - Re-seeding an existing SKU replaces city/name/system_qty/
    committed_qty and refreshes updated_at, but preserves the row's id
    and its counted_qty. Seeding is therefore idempotent with respect
    to SKU identity.
  - A new SKU gets id = max existing id + 1 (1 when the session is
    empty) and counted_qty = nil.
  - Input is processed in order; a SKU appearing twice in one batch is
    applied sequentially, so the later occurrence wins.

SEE ALSO:
  - effective.go: How counted/system/destroyed combine on reads
*/
package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/sharbatly/count-engine/kvstore"
)

// CountStore owns per-session count rows.
type CountStore struct {
	ns  kvstore.Namespace
	now func() time.Time
}

// NewCountStore creates a count store over the given store's counts
// namespace.
func NewCountStore(store kvstore.Store) *CountStore {
	return &CountStore{ns: store.Namespace(NamespaceCounts), now: time.Now}
}

// GetAll returns the full stored row sequence for a session, empty when
// the session has no rows yet.
func (s *CountStore) GetAll(ctx context.Context, sessionID string) ([]CountRow, error) {
	if sessionID == "" {
		return nil, &ValidationError{Field: "sessionId"}
	}
	return kvstore.ReadJSON(ctx, s.ns, sessionID, []CountRow{})
}

// Seed upserts the given rows into the session by SKU and returns the
// total number of rows now in the session.
func (s *CountStore) Seed(ctx context.Context, sessionID string, rows []SeedRow) (int, error) {
	if sessionID == "" {
		return 0, &ValidationError{Field: "sessionId"}
	}
	if rows == nil {
		return 0, &ValidationError{Field: "rows"}
	}

	existing, err := kvstore.ReadJSON(ctx, s.ns, sessionID, []CountRow{})
	if err != nil {
		return 0, err
	}

	bySKU := make(map[string]int, len(existing)) // sku -> index in result
	maxID := 0
	for i, row := range existing {
		bySKU[row.SKU] = i
		if row.ID > maxID {
			maxID = row.ID
		}
	}

	result := existing
	now := s.now().UTC()
	for _, in := range rows {
		row := CountRow{
			SessionID:    sessionID,
			City:         strings.TrimSpace(in.City),
			SKU:          strings.TrimSpace(in.SKU),
			Name:         strings.TrimSpace(in.Name),
			SystemQty:    in.SystemQty,
			CommittedQty: in.CommittedQty,
			UpdatedAt:    now,
		}

		if idx, ok := bySKU[row.SKU]; ok {
			// Replace in place, keeping id and counted_qty.
			row.ID = result[idx].ID
			row.CountedQty = result[idx].CountedQty
			result[idx] = row
			continue
		}

		maxID++
		row.ID = maxID
		row.CountedQty = nil
		result = append(result, row)
		bySKU[row.SKU] = len(result) - 1
	}

	if err := kvstore.WriteJSON(ctx, s.ns, sessionID, result); err != nil {
		return 0, err
	}
	return len(result), nil
}

// PatchCount sets (or clears, when counted is nil) the counted quantity
// of the row with the given id and returns the updated row.
func (s *CountStore) PatchCount(ctx context.Context, sessionID string, id int, counted *float64) (CountRow, error) {
	if sessionID == "" {
		return CountRow{}, &ValidationError{Field: "sessionId"}
	}

	rows, err := kvstore.ReadJSON(ctx, s.ns, sessionID, []CountRow{})
	if err != nil {
		return CountRow{}, err
	}

	idx := -1
	for i, row := range rows {
		if row.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return CountRow{}, &RowNotFoundError{SessionID: sessionID, ID: id}
	}

	rows[idx].CountedQty = counted
	rows[idx].UpdatedAt = s.now().UTC()

	if err := kvstore.WriteJSON(ctx, s.ns, sessionID, rows); err != nil {
		return CountRow{}, err
	}
	return rows[idx], nil
}
