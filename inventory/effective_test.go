package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sharbatly/count-engine/inventory"
)

func row(sku string, systemQty float64, counted *float64) inventory.CountRow {
	return inventory.CountRow{SKU: sku, SystemQty: systemQty, CountedQty: counted}
}

func destroyed(sku string, qtys ...float64) []inventory.DestructionLine {
	lines := make([]inventory.DestructionLine, len(qtys))
	for i, q := range qtys {
		lines[i] = inventory.DestructionLine{ID: i + 1, SKU: sku, Qty: q}
	}
	return lines
}

func TestEffectiveCounted_NilCountedDefaultsToSystem(t *testing.T) {
	// "Not yet counted" means the system quantity stands, not zero.
	r := row("A1", 10, nil)

	assert.Equal(t, 10.0, inventory.EffectiveCounted(r, nil))
	assert.Equal(t, 0.0, inventory.Difference(r, nil))
}

func TestEffectiveCounted_NetsOutDestroyed(t *testing.T) {
	r := row("A1", 10, qty(8))

	assert.Equal(t, 5.0, inventory.EffectiveCounted(r, destroyed("A1", 2, 1)))
	assert.Equal(t, -5.0, inventory.Difference(r, destroyed("A1", 2, 1)))
}

func TestEffectiveCounted_FlooredAtZero(t *testing.T) {
	r := row("A1", 10, qty(1))

	assert.Equal(t, 0.0, inventory.EffectiveCounted(r, destroyed("A1", 5)))
	assert.Equal(t, -10.0, inventory.Difference(r, destroyed("A1", 5)))
}

func TestEffectiveCounted_IgnoresOtherSKUs(t *testing.T) {
	r := row("A1", 10, qty(8))

	assert.Equal(t, 8.0, inventory.EffectiveCounted(r, destroyed("B2", 99)))
}

func TestTotalDestroyed_SumsPerSKU(t *testing.T) {
	lines := append(destroyed("A1", 1.5, 2.5), destroyed("B2", 4)...)

	assert.Equal(t, 4.0, inventory.TotalDestroyed(lines, "A1"))
	assert.Equal(t, 4.0, inventory.TotalDestroyed(lines, "B2"))
	assert.Equal(t, 0.0, inventory.TotalDestroyed(lines, "C3"))
}

func TestSummarize_Totals(t *testing.T) {
	rows := []inventory.CountRow{
		{SKU: "A1", SystemQty: 10, CommittedQty: 2, CountedQty: qty(8)},
		{SKU: "B2", SystemQty: 5, CommittedQty: 0, CountedQty: nil},
	}
	lines := destroyed("A1", 3)

	totals := inventory.Summarize(rows, lines)

	assert.Equal(t, 15.0, totals.System)
	assert.Equal(t, 2.0, totals.Committed)
	// A1 effective 8-3=5, B2 effective = system 5
	assert.Equal(t, 10.0, totals.Counted)
	// A1 diff 5-10=-5, B2 diff 0
	assert.Equal(t, -5.0, totals.Difference)
	assert.Equal(t, 2, totals.Lines)
}
