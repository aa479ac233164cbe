package ingest

import "strings"

// RawRecord is one source row: header key → cell value, exactly as the
// import produced it. Cell values stay strings; XLSX serial dates arrive as
// numeric strings and are decoded later by the value normalizer.
type RawRecord map[string]string

// Batch is the unit handed from an import collaborator to the core: the
// ordered header row plus every data row, in source order.
type Batch struct {
	Source  string
	Headers []string
	Records []RawRecord
}

// Empty reports whether the batch carries no data rows.
func (b Batch) Empty() bool {
	return len(b.Records) == 0
}

// rowToRecord zips one row of cells against the headers. Short rows pad
// with empty strings; extra cells beyond the header row are dropped.
func rowToRecord(headers []string, cells []string) RawRecord {
	rec := make(RawRecord, len(headers))
	for i, h := range headers {
		v := ""
		if i < len(cells) {
			v = strings.TrimSpace(cells[i])
		}
		rec[h] = v
	}
	return rec
}

// cleanHeaders trims each header and drops trailing blank columns, which
// spreadsheet exports produce routinely.
func cleanHeaders(raw []string) []string {
	end := len(raw)
	for end > 0 && strings.TrimSpace(raw[end-1]) == "" {
		end--
	}
	headers := make([]string, end)
	for i := 0; i < end; i++ {
		headers[i] = strings.TrimSpace(raw[i])
	}
	return headers
}
