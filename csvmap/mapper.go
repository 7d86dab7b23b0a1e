/*
mapper.go - Column auto-detection for uploaded datasets

PURPOSE:
  Inspects the header row of an uploaded export and deterministically
  selects which columns supply the barcode/SKU, name, on-hand quantity
  and optional reserved quantity. Exports come from several upstream
  systems with different header vocabularies, so each field has two
  priority tiers: a short preferred list tried first across all
  headers, then a longer fallback list.

NORMALIZATION:
  Headers and candidates are compared after: stripping a leading BOM,
  lowercasing, dropping parentheses, and collapsing every run of
  whitespace/underscore/slash/hyphen to nothing. "On_Hand (New)" and
  "on hand new" normalize to the same string.

RESULT:
  Detect returns the actual (non-normalized) header chosen for each
  field so the UI can show the operator exactly which columns were
  picked. Barcode, name and on-hand are required; reserved and city are
  optional.
*/
package csvmap

import (
	"regexp"
	"strings"

	"github.com/sharbatly/count-engine/inventory"
)

var collapseRE = regexp.MustCompile(`[\s_/\-]+`)

// Per-field candidate names, pre-normalization. Preferred names win over
// fallback names regardless of header order.
var (
	barcodePreferred = []string{"barcode", "bar code"}
	barcodeFallback  = []string{"sku", "item code", "item id", "product code", "upc", "ean", "gtin", "code"}

	namePreferred = []string{"name", "product name", "title"}
	nameFallback  = []string{"item", "item name", "description", "product", "product title"}

	onHandPreferred = []string{"on hand", "on hand new"}
	onHandFallback  = []string{
		"qty on hand", "quantity on hand", "stock", "qty", "quantity",
		"available", "available quantity", "available (not editable)", "on hand (new)",
	}

	reservedPreferred = []string{"reserved", "allocated", "on hold", "committed"}
	reservedFallback  = []string{"committed (not editable)", "allocated qty"}

	cityPreferred = []string{"city"}
	cityFallback  = []string{"branch", "location", "warehouse"}
)

// normalizeHeader reduces a header to its comparison form.
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\uFEFF")
	h = strings.ToLower(h)
	h = strings.NewReplacer("(", "", ")", "").Replace(h)
	h = collapseRE.ReplaceAllString(h, "")
	return strings.TrimSpace(h)
}

// pick returns the first header matching a candidate, preferred tier
// first. The empty string means no match.
func pick(headers []string, preferred, fallback []string) string {
	for _, tier := range [][]string{preferred, fallback} {
		for _, candidate := range tier {
			want := normalizeHeader(candidate)
			for _, h := range headers {
				if normalizeHeader(h) == want {
					return h
				}
			}
		}
	}
	return ""
}

// Detect resolves a column mapping from the dataset's headers. The
// second return is false when any required field (barcode, name,
// on-hand) cannot be resolved.
func Detect(headers []string) (inventory.ColumnMapping, bool) {
	m := inventory.ColumnMapping{
		SKU:          pick(headers, barcodePreferred, barcodeFallback),
		Name:         pick(headers, namePreferred, nameFallback),
		SystemQty:    pick(headers, onHandPreferred, onHandFallback),
		CommittedQty: pick(headers, reservedPreferred, reservedFallback),
		City:         pick(headers, cityPreferred, cityFallback),
	}
	if m.SKU == "" || m.Name == "" || m.SystemQty == "" {
		return inventory.ColumnMapping{}, false
	}
	return m, true
}
