package ingest

import (
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// XLSXOptions configures the XLSX reader.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
	MaxRows    int    // data row cap; 0 = unlimited
}

// ReadXLSX reads one worksheet into a Batch. The first row is the header
// row. Cell values come back as display strings, so date cells stored as
// spreadsheet serial numbers surface as numeric strings for the flexible
// date parser downstream.
func ReadXLSX(path string, opt XLSXOptions) (Batch, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return Batch{}, eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := pickSheet(f, opt)
	if err != nil {
		return Batch{}, err
	}

	b := Batch{Source: filepath.Base(path)}
	for i, row := range sheet.Rows {
		cells := rowToStrings(row)
		if i == 0 {
			b.Headers = cleanHeaders(cells)
			continue
		}
		b.Records = append(b.Records, rowToRecord(b.Headers, cells))
		if opt.MaxRows > 0 && len(b.Records) >= opt.MaxRows {
			break
		}
	}
	return b, nil
}

func pickSheet(f *xlsx.File, opt XLSXOptions) (*xlsx.Sheet, error) {
	if opt.SheetName != "" {
		sheet, ok := f.Sheet[opt.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opt.SheetName)
		}
		return sheet, nil
	}
	if opt.SheetIndex < 0 || opt.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opt.SheetIndex, len(f.Sheets))
	}
	return f.Sheets[opt.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
