package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteCSV writes the header row and one row per item. Embedded quotes are
// doubled; free-text fields are always quote-wrapped, other fields only
// when they contain a separator, a quote or a line break.
func WriteCSV[T any](w io.Writer, t Table[T], items []T) error {
	const op = "WriteCSV"

	bw := bufio.NewWriter(w)

	headers := t.Headers()
	fields := make([]string, len(headers))
	for i, h := range headers {
		fields[i] = csvField(h, false)
	}
	if _, err := bw.WriteString(strings.Join(fields, ",") + "\r\n"); err != nil {
		return fmt.Errorf("%s: failed to write header: %w", op, err)
	}

	for i, row := range t.Rows(items) {
		for j, v := range row {
			fields[j] = csvField(formatCell(v), t.Columns[j].FreeText)
		}
		if _, err := bw.WriteString(strings.Join(fields, ",") + "\r\n"); err != nil {
			return fmt.Errorf("%s: failed to write row %d: %w", op, i, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%s: failed to flush: %w", op, err)
	}
	return nil
}

func csvField(value string, freeText bool) string {
	needsQuotes := freeText || strings.ContainsAny(value, ",\"\r\n")
	value = strings.ReplaceAll(value, `"`, `""`)
	if needsQuotes {
		return `"` + value + `"`
	}
	return value
}
