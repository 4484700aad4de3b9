package annotations

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Write emits the table as CSV. Header names are always quoted; data
// columns are written bare when every non-empty value parses as a number and
// quoted otherwise. Tables produced by Read keep the column kinds seen at
// read time.
func (t Table) Write(w io.Writer) error {
	numeric := t.numeric
	if len(numeric) != len(t.Header) {
		numeric = t.numericColumns()
	}
	bw := bufio.NewWriter(w)

	for i, name := range t.Header {
		if i > 0 {
			bw.WriteByte(',')
		}
		writeQuoted(bw, name)
	}
	bw.WriteByte('\n')

	for _, row := range t.Rows {
		for i, value := range row {
			if i > 0 {
				bw.WriteByte(',')
			}
			if i < len(numeric) && numeric[i] {
				bw.WriteString(value)
				continue
			}
			writeQuoted(bw, value)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func (t Table) numericColumns() []bool {
	numeric := make([]bool, len(t.Header))
	for col := range t.Header {
		seen := false
		numeric[col] = true
		for _, row := range t.Rows {
			if col >= len(row) {
				continue
			}
			value := row[col]
			if value == "" {
				continue
			}
			seen = true
			if !isNumber(value) {
				numeric[col] = false
				break
			}
		}
		if !seen {
			numeric[col] = false
		}
	}
	return numeric
}

func isNumber(value string) bool {
	if strings.TrimSpace(value) != value {
		return false
	}
	switch strings.ToLower(value) {
	case "nan", "inf", "+inf", "-inf", "infinity", "+infinity", "-infinity":
		return false
	}
	_, err := strconv.ParseFloat(value, 64)
	return err == nil
}

func writeQuoted(w *bufio.Writer, value string) {
	w.WriteByte('"')
	w.WriteString(strings.ReplaceAll(value, `"`, `""`))
	w.WriteByte('"')
}
