/*
types.go - Core domain types for inventory counting

PURPOSE:
  Defines the entities persisted per counting session. Every entity is
  exclusively owned by its session: the session's id is the document key
  in the counts/destructions/mapping namespaces, and deleting a session
  cascades over those keys.

TYPES:
  Session:         A named, city-scoped counting exercise.
  CountRow:        One SKU's system/committed/counted quantities.
  DestructionLine: A recorded write-off of quantity with a reason.
  ColumnMapping:   Header names resolved from an uploaded dataset.
  SeedRow:         One normalized input row for seeding a session.

NULL COUNTED QUANTITY:
  CountRow.CountedQty == nil means "not yet counted". For totals and
  effective-quantity purposes a nil counted quantity defaults to the
  system quantity, never to zero. Only the scan increment treats nil
  as zero, because a first scan of an uncounted row means "I have seen
  exactly one".

SEE ALSO:
  - counts.go: Upsert-by-SKU rules for CountRow
  - effective.go: Effective counted quantity and difference
*/
package inventory

import "time"

// Namespace names in the key-value store. One document per session in
// each of counts/destructions/mapping; a single shared document in
// sessions.
const (
	NamespaceSessions     = "sessions"
	NamespaceCounts       = "counts"
	NamespaceDestructions = "destructions"
	NamespaceMapping      = "mapping"
)

// Namespaces lists every known namespace, in wipe order.
func Namespaces() []string {
	return []string{NamespaceSessions, NamespaceCounts, NamespaceDestructions, NamespaceMapping}
}

// Session is a counting exercise scoped to a city/branch. Immutable
// after creation except for deletion.
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at"`
}

// CountRow is one SKU's reconciliation state within a session. SKU is
// the natural key (at most one row per session+SKU); ID is the
// addressable key for patches and is assigned once, preserved across
// re-seeds.
type CountRow struct {
	ID           int       `json:"id"`
	SessionID    string    `json:"session_id"`
	City         string    `json:"city"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	SystemQty    float64   `json:"system_qty"`
	CommittedQty float64   `json:"committed_qty"`
	CountedQty   *float64  `json:"counted_qty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DestructionLine is a recorded write-off. Never mutated; removed by id.
// Multiple lines may reference the same SKU.
type DestructionLine struct {
	ID        int       `json:"id"`
	SessionID string    `json:"session_id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Qty       float64   `json:"qty"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// ColumnMapping names which uploaded-dataset column supplies each field.
// City and CommittedQty are optional and may be empty.
type ColumnMapping struct {
	City         string `json:"city"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	SystemQty    string `json:"systemQty"`
	CommittedQty string `json:"committedQty"`
}

// SeedRow is one normalized input row for CountStore.Seed.
type SeedRow struct {
	City         string  `json:"city"`
	SKU          string  `json:"sku"`
	Name         string  `json:"name"`
	SystemQty    float64 `json:"system_qty"`
	CommittedQty float64 `json:"committed_qty"`
}
