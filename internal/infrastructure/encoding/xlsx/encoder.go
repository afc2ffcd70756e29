// Package xlsx writes reports as a single-sheet Excel workbook.
package xlsx

import (
	"bytes"
	"fmt"

	"github.com/tealeg/xlsx"
)

const contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Encoder struct {
	sheet string
}

func NewEncoder(sheet string) *Encoder {
	if sheet == "" {
		sheet = "reporte"
	}
	return &Encoder{sheet: sheet}
}

func (e *Encoder) ContentType() string { return contentType }

func (e *Encoder) Extension() string { return "xlsx" }

// Encode stores every value as a text cell so ids and amounts are not reformatted.
func (e *Encoder) Encode(header []string, rows [][]string) ([]byte, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(e.sheet)
	if err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range header {
		headerRow.AddCell().SetString(h)
	}
	for _, values := range rows {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().SetString(v)
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
