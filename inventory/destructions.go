/*
destructions.go - Destructions (write-off) ledger

PURPOSE:
  Owns the per-session list of write-off lines, one JSON document keyed
  by session id in the destructions namespace. Lines are append-only:
  created by Add, never mutated, removed by id.

ID ASSIGNMENT:
  id = max existing id in the session + 1, starting at 1, independent
  across sessions. Because removal filters lines out, a removed id can
  be re-minted later; ids are unique among the lines that exist, which
  is the contract the UI relies on.

NO SKU UNIQUENESS:
  Multiple lines may reference the same SKU. The running destroyed
  total per SKU is derived on read (effective.go), never stored.
*/
package inventory

import (
	"context"
	"time"

	"github.com/sharbatly/count-engine/kvstore"
)

// Ledger owns per-session destruction lines.
type Ledger struct {
	ns  kvstore.Namespace
	now func() time.Time
}

// NewLedger creates a ledger over the given store's destructions
// namespace.
func NewLedger(store kvstore.Store) *Ledger {
	return &Ledger{ns: store.Namespace(NamespaceDestructions), now: time.Now}
}

// List returns the session's destruction lines in insertion order.
func (l *Ledger) List(ctx context.Context, sessionID string) ([]DestructionLine, error) {
	if sessionID == "" {
		return nil, &ValidationError{Field: "sessionId"}
	}
	return kvstore.ReadJSON(ctx, l.ns, sessionID, []DestructionLine{})
}

// Add appends a new destruction line and returns it.
func (l *Ledger) Add(ctx context.Context, sessionID, sku, name string, qty float64, reason string) (DestructionLine, error) {
	if sessionID == "" {
		return DestructionLine{}, &ValidationError{Field: "sessionId"}
	}
	if sku == "" {
		return DestructionLine{}, &ValidationError{Field: "sku"}
	}

	lines, err := kvstore.ReadJSON(ctx, l.ns, sessionID, []DestructionLine{})
	if err != nil {
		return DestructionLine{}, err
	}

	maxID := 0
	for _, line := range lines {
		if line.ID > maxID {
			maxID = line.ID
		}
	}

	line := DestructionLine{
		ID:        maxID + 1,
		SessionID: sessionID,
		SKU:       sku,
		Name:      name,
		Qty:       qty,
		Reason:    reason,
		CreatedAt: l.now().UTC(),
	}
	lines = append(lines, line)

	if err := kvstore.WriteJSON(ctx, l.ns, sessionID, lines); err != nil {
		return DestructionLine{}, err
	}
	return line, nil
}

// Remove filters out the line with the given id. Removing an id that
// does not exist is not an error; Remove is idempotent.
func (l *Ledger) Remove(ctx context.Context, sessionID string, id int) error {
	if sessionID == "" {
		return &ValidationError{Field: "sessionId"}
	}
	if id == 0 {
		return &ValidationError{Field: "id"}
	}

	lines, err := kvstore.ReadJSON(ctx, l.ns, sessionID, []DestructionLine{})
	if err != nil {
		return err
	}

	remaining := make([]DestructionLine, 0, len(lines))
	for _, line := range lines {
		if line.ID != id {
			remaining = append(remaining, line)
		}
	}
	return kvstore.WriteJSON(ctx, l.ns, sessionID, remaining)
}
