// Package csv writes reports as comma separated text with every field quoted.
package csv

import (
	"bytes"
	"strings"
)

type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

func (Encoder) ContentType() string { return "text/csv; charset=utf-8" }

func (Encoder) Extension() string { return "csv" }

// Encode quotes every field and doubles embedded quotes. Rows end with "\n",
// the last one included.
func (Encoder) Encode(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writeRow(&buf, header)
	for _, row := range rows {
		writeRow(&buf, row)
	}
	return buf.Bytes(), nil
}

func writeRow(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(Quote(f))
	}
	buf.WriteByte('\n')
}

func Quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
