package ingest

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// CSVOptions configures the CSV reader.
type CSVOptions struct {
	// Delimiter for CSV. If 0, auto-detects from the file extension.
	Delimiter rune
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
}

// ReadCSV reads a delimited text file into a Batch. The first row is the
// header row; ragged rows are padded to header width.
func ReadCSV(path string, opt CSVOptions) (Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return Batch{}, eris.Wrap(err, "csv: open")
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Batch{Source: filepath.Base(path)}, nil
		}
		return Batch{}, eris.Wrap(err, "csv: read header")
	}

	b := Batch{Source: filepath.Base(path), Headers: cleanHeaders(header)}
	for {
		row, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Batch{}, eris.Wrapf(err, "csv: read row %d", len(b.Records)+1)
		}
		b.Records = append(b.Records, rowToRecord(b.Headers, row))
		if opt.MaxRows > 0 && len(b.Records) >= opt.MaxRows {
			break
		}
	}
	return b, nil
}

func sniffDelimiter(path string) rune {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".tsv") {
		return '\t'
	}
	// Default to comma; filename heuristic avoids reading the file twice.
	return ','
}
