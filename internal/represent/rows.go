package represent

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"invodex/internal/domain"
)

// SpreadsheetRows builds one text payload per non-blank data row of the
// active sheet. The first row is the header; a workbook without a header and
// at least one data row is rejected. Fully blank rows are skipped silently.
func SpreadsheetRows(data []byte) ([]domain.TextPayload, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: opening workbook: %v", domain.ErrConversionFailed, err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %v", domain.ErrConversionFailed, sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: sheet %q needs a header row and at least one data row", domain.ErrNoDataRows, sheet)
	}

	header := rows[0]
	var payloads []domain.TextPayload
	for _, row := range rows[1:] {
		if text, ok := rowText(header, row); ok {
			payloads = append(payloads, domain.TextPayload{RowText: text})
		}
	}
	if len(payloads) == 0 {
		return nil, fmt.Errorf("%w: every data row is blank", domain.ErrNoDataRows)
	}
	return payloads, nil
}

// CSVRows builds one text payload per non-blank data row of a CSV file,
// using the first row as the header.
func CSVRows(data []byte) ([]domain.TextPayload, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // allow ragged rows

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: csv file is empty", domain.ErrNoDataRows)
		}
		return nil, fmt.Errorf("%w: reading csv header: %v", domain.ErrConversionFailed, err)
	}

	var payloads []domain.TextPayload
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading csv row: %v", domain.ErrConversionFailed, err)
		}
		if text, ok := rowText(header, row); ok {
			payloads = append(payloads, domain.TextPayload{RowText: text})
		}
	}
	if len(payloads) == 0 {
		return nil, fmt.Errorf("%w: csv has no data rows", domain.ErrNoDataRows)
	}
	return payloads, nil
}

// rowText joins "header: value" lines for every non-blank cell of one row,
// preserving column order. Returns ok=false for a fully blank row.
func rowText(header, row []string) (string, bool) {
	var lines []string
	for i, key := range header {
		if i >= len(row) {
			break
		}
		val := strings.TrimSpace(row[i])
		if val == "" {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			key = fmt.Sprintf("column %d", i+1)
		}
		lines = append(lines, key+": "+val)
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}
