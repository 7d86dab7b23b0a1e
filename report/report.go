/*
report.go - CSV reconciliation report generation

PURPOSE:
  Produces the count report the warehouse hands to finance:

    City,SKU,Name,SystemQty,CommittedQty,CountedQty,Difference

  one row per item, CountedQty being the effective counted quantity
  (destructions netted out, floored at zero) and
  Difference = EffectiveCounted - SystemQty. A destructions report
  lists the raw write-off lines.

FILTERING:
  An optional city filter scopes the count report to one branch. The
  store keeps at most one row per session and SKU, so the report emits
  one line per stored row.
*/
package report

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/sharbatly/count-engine/inventory"
)

var countsHeader = []string{"City", "SKU", "Name", "SystemQty", "CommittedQty", "CountedQty", "Difference"}

var destructionsHeader = []string{"SKU", "Name", "Qty", "Reason", "CreatedAt"}

func fmtQty(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// CountsCSV renders the reconciliation report for a session's rows,
// optionally filtered to one city.
func CountsCSV(rows []inventory.CountRow, lines []inventory.DestructionLine, city string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(countsHeader); err != nil {
		return nil, err
	}

	for _, row := range rows {
		if city != "" && row.City != city {
			continue
		}
		record := []string{
			row.City,
			row.SKU,
			row.Name,
			fmtQty(row.SystemQty),
			fmtQty(row.CommittedQty),
			fmtQty(inventory.EffectiveCounted(row, lines)),
			fmtQty(inventory.Difference(row, lines)),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// DestructionsCSV renders a session's write-off lines.
func DestructionsCSV(lines []inventory.DestructionLine) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(destructionsHeader); err != nil {
		return nil, err
	}
	for _, line := range lines {
		record := []string{
			line.SKU,
			line.Name,
			fmtQty(line.Qty),
			line.Reason,
			line.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
