/*
reader.go - Tolerant delimited-text reading and row normalization

PURPOSE:
  Upstream exports arrive as comma-, semicolon- or tab-delimited text
  with a header row. ReadRecords sniffs the delimiter from the header
  line and parses the rest into header->value maps; Apply projects
  those maps through a ColumnMapping into normalized seed rows.

NUMERIC CLEANUP:
  Exported quantities often carry thousands separators and stray
  spaces ("1,250"). ToNumber strips those; anything still unparsable
  becomes 0, matching how operators expect a blank cell to behave.
*/
package csvmap

import (
	"bufio"
	"encoding/csv"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/sharbatly/count-engine/inventory"
)

var numericJunkRE = regexp.MustCompile(`[,\s]`)

// ToNumber parses a quantity cell, tolerating thousands separators and
// embedded spaces. Unparsable input yields 0.
func ToNumber(s string) float64 {
	cleaned := numericJunkRE.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return n
}

// sniffDelimiter picks the delimiter with the most occurrences in the
// header line. Comma wins ties.
func sniffDelimiter(header string) rune {
	best, bestCount := ',', strings.Count(header, ",")
	for _, d := range []rune{';', '\t', '|'} {
		if c := strings.Count(header, string(d)); c > bestCount {
			best, bestCount = d, c
		}
	}
	return best
}

// ReadRecords parses delimited text with a header row into one map per
// data row. Rows shorter than the header are padded with empty values;
// longer rows are truncated.
func ReadRecords(r io.Reader) ([]string, []map[string]string, error) {
	br := bufio.NewReader(r)
	headerLine, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, nil, err
	}

	cr := csv.NewReader(io.MultiReader(strings.NewReader(headerLine), br))
	cr.Comma = sniffDelimiter(headerLine)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	headers := records[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}

	var rows []map[string]string
	for _, record := range records[1:] {
		if isEmptyRecord(record) {
			continue
		}
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

func isEmptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Apply projects parsed rows through a column mapping into normalized
// seed rows. Unmapped optional columns contribute empty/zero values.
func Apply(m inventory.ColumnMapping, rows []map[string]string) []inventory.SeedRow {
	seeds := make([]inventory.SeedRow, 0, len(rows))
	for _, row := range rows {
		seed := inventory.SeedRow{
			SKU:       strings.TrimSpace(row[m.SKU]),
			Name:      strings.TrimSpace(row[m.Name]),
			SystemQty: ToNumber(row[m.SystemQty]),
		}
		if m.City != "" {
			seed.City = strings.TrimSpace(row[m.City])
		}
		if m.CommittedQty != "" {
			seed.CommittedQty = ToNumber(row[m.CommittedQty])
		}
		seeds = append(seeds, seed)
	}
	return seeds
}
