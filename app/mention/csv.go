package mention

import (
	"strings"
)

// DecodeCSV tokenizes comma-separated text into one map per data row,
// keyed by the header cells. The first line is the header; its cells
// are trimmed and stripped of surrounding quotes. Rows whose field
// count does not match the header are dropped. Meltwater exports are
// not strictly RFC 4180 (no escaped quotes, uneven arity on partial
// rows), which is why this is hand-rolled rather than encoding/csv.
func DecodeCSV(text string) []map[string]string {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return nil
	}

	headerCells := strings.Split(lines[0], ",")
	headers := make([]string, 0, len(headerCells))
	for _, cell := range headerCells {
		headers = append(headers, strings.ReplaceAll(strings.TrimSpace(cell), `"`, ""))
	}

	rows := make([]map[string]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		values := decodeCSVLine(line)
		if len(values) != len(headers) {
			continue
		}

		row := make(map[string]string, len(headers))
		for i, header := range headers {
			row[header] = values[i]
		}
		rows = append(rows, row)
	}

	return rows
}

// decodeCSVLine splits one line on commas that are not inside a quoted
// field. A quote character toggles quoted mode; the final field is
// flushed at end of line.
func decodeCSVLine(line string) []string {
	var values []string
	var current strings.Builder
	inQuotes := false

	for _, char := range line {
		switch {
		case char == '"':
			inQuotes = !inQuotes
		case char == ',' && !inQuotes:
			values = append(values, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(char)
		}
	}

	values = append(values, strings.TrimSpace(current.String()))
	return values
}
