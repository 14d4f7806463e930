// Package leadcsv parses Meta lead-generation CSV exports. The exports do
// not follow RFC 4180: header spellings drift between schema versions, rows
// can be ragged, and quoting is limited to wrapping whole cells. Parsing is
// therefore done by hand instead of encoding/csv, which rejects such files.
package leadcsv

import (
	"strings"

	"github.com/closingmachines/leads-api/internal/normalize"
)

// Row maps canonical (normalized) column names to raw cell values. Cells
// beyond the header width are dropped; missing trailing cells are absent.
type Row map[string]string

// Parse splits raw file text into data rows keyed by the normalized header.
// Blank lines are skipped. A file with no non-blank lines yields no rows.
func Parse(text string) []Row {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSuffix(l, "\r")
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	header := splitLine(lines[0])
	for i, h := range header {
		header[i] = normalize.Key(h)
	}

	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		cells := splitLine(line)
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(cells) {
				row[name] = cells[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// splitLine splits on commas that are not inside a double-quoted span and
// strips one surrounding quote pair from each cell. There is no support for
// escaped embedded quotes; the exports never contain them.
func splitLine(line string) []string {
	var cells []string
	var cur strings.Builder
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case r == ',' && !inQuotes:
			cells = append(cells, unquote(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	cells = append(cells, unquote(cur.String()))
	return cells
}

func unquote(cell string) string {
	cell = strings.TrimPrefix(cell, `"`)
	cell = strings.TrimSuffix(cell, `"`)
	return cell
}
