package core

// csv.go turns an uploaded CSV file into Rows. The first record is the
// header; every later record becomes a Row keyed by the cleaned header
// text. Fully empty records are dropped, matching how spreadsheet exports
// pad files with blank lines.

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// RowsFromCSV reads an entire CSV document into Rows.
// A UTF-8 BOM, Excel formula prefixes, and stray quotes in the header are
// stripped; ragged rows are tolerated (missing cells become empty).
func RowsFromCSV(r io.Reader) ([]Row, error) {
	br := bufio.NewReader(r)
	if err := skipBOM(br); err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1 // tolerate ragged rows
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	for i, h := range header {
		header[i] = CleanCell(h)
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row %d: %w", len(rows)+2, err)
		}

		if recordEmpty(record) {
			continue
		}

		row := make(Row, len(header))
		for i, h := range header {
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

	return rows, nil
}

func skipBOM(br *bufio.Reader) error {
	r, _, err := br.ReadRune()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	if r != '\ufeff' {
		return br.UnreadRune()
	}
	return nil
}

func recordEmpty(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
