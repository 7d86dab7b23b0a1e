/*
effective.go - Effective counted quantity and session totals

PURPOSE:
  Computes the quantities the reconciliation report is built on:

    effective = max(0, (counted ?? system) - totalDestroyed(sku))
    difference = effective - system

  An uncounted row (nil counted_qty) defaults to its system quantity,
  not to zero: "not yet counted" is not "counted as empty".

RECOMPUTED ON EVERY READ:
  Effective quantity and difference are derived values. They are never
  written back into the stored CountRow; a destruction added after a
  count immediately changes the next read.

ARITHMETIC:
  decimal internally so fractional quantities (weights) sum without
  float drift; float64 only at the result boundary.
*/
package inventory

import "github.com/shopspring/decimal"

// TotalDestroyed sums the destroyed quantity for a SKU over the
// session's destruction lines.
func TotalDestroyed(lines []DestructionLine, sku string) float64 {
	total := decimal.Zero
	for _, line := range lines {
		if line.SKU == sku {
			total = total.Add(decimal.NewFromFloat(line.Qty))
		}
	}
	f, _ := total.Float64()
	return f
}

// CountedOrSystem returns the row's counted quantity, defaulting a nil
// counted quantity to the system quantity.
func CountedOrSystem(row CountRow) float64 {
	if row.CountedQty != nil {
		return *row.CountedQty
	}
	return row.SystemQty
}

// EffectiveCounted nets the destroyed quantity out of the counted (or
// system) quantity, floored at zero.
func EffectiveCounted(row CountRow, lines []DestructionLine) float64 {
	counted := decimal.NewFromFloat(CountedOrSystem(row))
	destroyed := decimal.NewFromFloat(TotalDestroyed(lines, row.SKU))

	effective := counted.Sub(destroyed)
	if effective.IsNegative() {
		return 0
	}
	f, _ := effective.Float64()
	return f
}

// Difference is the discrepancy the report surfaces: effective counted
// quantity minus system quantity.
func Difference(row CountRow, lines []DestructionLine) float64 {
	effective := decimal.NewFromFloat(EffectiveCounted(row, lines))
	system := decimal.NewFromFloat(row.SystemQty)
	f, _ := effective.Sub(system).Float64()
	return f
}

// Totals aggregates a row set for the report footer.
type Totals struct {
	System     float64
	Committed  float64
	Counted    float64
	Difference float64
	Lines      int
}

// Summarize computes session totals over rows, netting destructions
// into the counted and difference columns.
func Summarize(rows []CountRow, lines []DestructionLine) Totals {
	var (
		system     = decimal.Zero
		committed  = decimal.Zero
		counted    = decimal.Zero
		difference = decimal.Zero
	)

	for _, row := range rows {
		system = system.Add(decimal.NewFromFloat(row.SystemQty))
		committed = committed.Add(decimal.NewFromFloat(row.CommittedQty))
		counted = counted.Add(decimal.NewFromFloat(EffectiveCounted(row, lines)))
		difference = difference.Add(decimal.NewFromFloat(Difference(row, lines)))
	}

	sys, _ := system.Float64()
	com, _ := committed.Float64()
	cnt, _ := counted.Float64()
	diff, _ := difference.Float64()
	return Totals{System: sys, Committed: com, Counted: cnt, Difference: diff, Lines: len(rows)}
}
