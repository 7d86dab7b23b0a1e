/*
dto.go - Request/response types for the counting API

PURPOSE:
  JSON structures for API communication, decoupled from the stored
  domain types. Domain types already carry the wire field names
  (they are the stored document format), so most responses reuse them
  directly; the types here are request bodies and envelope shapes.

LOOSE NUMERIC FIELDS:
  Quantity fields arrive from spreadsheet-derived clients as numbers,
  numeric strings ("1,250") or empty strings meaning "unset". Such
  fields are declared `any` and coerced by the helpers at the bottom,
  mirroring what the browser client historically accepted.
*/
package api

import (
	"strconv"
	"strings"

	"github.com/sharbatly/count-engine/inventory"
)

// CreateSessionRequest creates a counting session.
type CreateSessionRequest struct {
	Name string `json:"name"`
	City string `json:"city"`
}

// PatchCountRequest sets or clears one row's counted quantity.
// CountedQty may be a number, a numeric string, "" or null (both clear).
type PatchCountRequest struct {
	SessionID  string `json:"sessionId"`
	ID         *int   `json:"id"`
	CountedQty any    `json:"counted_qty"`
}

// SeedRowDTO is one uploaded row. Quantities tolerate string values.
type SeedRowDTO struct {
	City         string `json:"city"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	SystemQty    any    `json:"system_qty"`
	CommittedQty any    `json:"committed_qty"`
}

// SeedRequest bulk-upserts rows into a session.
type SeedRequest struct {
	SessionID string       `json:"sessionId"`
	Rows      []SeedRowDTO `json:"rows"`
}

// AddDestructionRequest appends a write-off line.
type AddDestructionRequest struct {
	SessionID string `json:"sessionId"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Qty       any    `json:"qty"`
	Reason    string `json:"reason"`
}

// PutMappingRequest stores the chosen column mapping for a session.
type PutMappingRequest struct {
	SessionID string                   `json:"sessionId"`
	Mapping   *inventory.ColumnMapping `json:"mapping"`
}

// DetectMappingRequest asks the server to auto-detect a mapping from
// uploaded headers.
type DetectMappingRequest struct {
	Headers []string `json:"headers"`
}

// ScanRequest matches a scanned code against a session and increments
// the matched row's counted quantity.
type ScanRequest struct {
	SessionID string `json:"sessionId"`
	Code      string `json:"code"`
	City      string `json:"city"`
}

// ScanResponse reports the scan outcome. Row is nil when nothing
// matched; Code is the normalized code that was looked up.
type ScanResponse struct {
	Matched bool                `json:"matched"`
	Code    string              `json:"code"`
	Row     *inventory.CountRow `json:"row,omitempty"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// COERCION HELPERS
// =============================================================================

// toNumber coerces a loose JSON value to a quantity. Unset and
// unparsable values are 0.
func toNumber(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// toNullableNumber coerces a loose JSON value to a counted quantity,
// where null and "" mean "clear the count".
func toNullableNumber(v any) *float64 {
	switch n := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(n) == "" {
			return nil
		}
	}
	f := toNumber(v)
	return &f
}

func toSeedRows(dtos []SeedRowDTO) []inventory.SeedRow {
	rows := make([]inventory.SeedRow, len(dtos))
	for i, d := range dtos {
		rows[i] = inventory.SeedRow{
			City:         d.City,
			SKU:          d.SKU,
			Name:         d.Name,
			SystemQty:    toNumber(d.SystemQty),
			CommittedQty: toNumber(d.CommittedQty),
		}
	}
	return rows
}
