/*
scan.go - Scanned-code normalization and row matching

PURPOSE:
  Scanner wedges and hand-typed input produce codes with stray
  whitespace, BOM prefixes from pasted text, and zero-padded numerics
  ("007" for item 7). Normalize cleans the code; Variants adds the
  leading-zero-stripped form for purely numeric codes; Match tries each
  variant, in order, against the session's count rows.

MATCH ORDER:
  Original normalized code first, then the zero-stripped variant. The
  first row whose SKU equals a variant wins. A miss reports the
  originally normalized code so the scan log shows what was looked up.
*/
package scan

import (
	"regexp"
	"strings"

	"github.com/sharbatly/count-engine/inventory"
)

var (
	whitespaceRE = regexp.MustCompile(`\s+`)
	nonCodeRE    = regexp.MustCompile(`[^\w\-]`)
	numericRE    = regexp.MustCompile(`^[0-9]+$`)
)

// Normalize reduces a raw scanned code to its lookup form: BOM and
// surrounding space stripped, internal whitespace removed, and every
// character except word characters and hyphen dropped.
func Normalize(code string) string {
	code = strings.TrimPrefix(code, "\uFEFF")
	code = strings.TrimSpace(code)
	code = whitespaceRE.ReplaceAllString(code, "")
	return nonCodeRE.ReplaceAllString(code, "")
}

// Variants returns the lookup candidates for a code, in match order.
// Purely numeric codes get a leading-zero-stripped variant.
func Variants(code string) []string {
	norm := Normalize(code)
	if norm == "" {
		return nil
	}

	variants := []string{norm}
	if numericRE.MatchString(norm) {
		stripped := strings.TrimLeft(norm, "0")
		if stripped == "" {
			stripped = "0"
		}
		if stripped != norm {
			variants = append(variants, stripped)
		}
	}
	return variants
}

// Match looks a scanned code up against count rows, optionally scoped
// to a city ("" matches any). It returns the first matching row, or nil
// plus the normalized code when nothing matched.
func Match(rows []inventory.CountRow, code, city string) (*inventory.CountRow, string) {
	norm := Normalize(code)
	for _, variant := range Variants(code) {
		for i := range rows {
			if city != "" && rows[i].City != city {
				continue
			}
			if rows[i].SKU == variant {
				return &rows[i], norm
			}
		}
	}
	return nil, norm
}

// NextCount is the increment-on-scan rule: one more than the current
// counted quantity, treating "not yet counted" as zero for this purpose
// only.
func NextCount(row *inventory.CountRow) float64 {
	if row.CountedQty == nil {
		return 1
	}
	return *row.CountedQty + 1
}
