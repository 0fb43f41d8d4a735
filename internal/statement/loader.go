// Package statement locates and parses the transaction table inside an
// uploaded ledger export. Exports carry an arbitrary preamble (account
// details, balances, marketing text) before the actual CSV table; the table
// is recognized by its header row.
package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dvloznov/subscope/internal/domain"
)

// Column markers that identify the transaction table header row.
const (
	timestampMarker   = "TIMESTAMP"
	descriptionMarker = "DESCRIPTION"
)

// FormatError reports an uploaded file with no recognizable transaction
// table. It is surfaced to the end user before any model call is made.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string {
	return "statement: " + e.Msg
}

// Load parses raw statement bytes into transaction records.
//
// It scans lines in order for the first line containing both the timestamp
// and description column markers, treats that line as the CSV header, and
// parses everything below it with the header's column names. All columns are
// preserved; only the timestamp and description columns are singled out.
// Returns *FormatError when no header line exists.
func Load(raw []byte) ([]domain.TransactionRecord, error) {
	text := string(raw)
	lines := strings.Split(text, "\n")

	start := -1
	for i, line := range lines {
		if strings.Contains(line, timestampMarker) && strings.Contains(line, descriptionMarker) {
			start = i
			break
		}
	}
	if start == -1 {
		return nil, &FormatError{Msg: "could not find transaction data"}
	}

	r := csv.NewReader(strings.NewReader(strings.Join(lines[start:], "\n")))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, &FormatError{Msg: fmt.Sprintf("reading table header: %v", err)}
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	tsIdx, descIdx := -1, -1
	for i, col := range header {
		upper := strings.ToUpper(col)
		if tsIdx == -1 && strings.Contains(upper, timestampMarker) {
			tsIdx = i
		}
		if descIdx == -1 && strings.Contains(upper, descriptionMarker) {
			descIdx = i
		}
	}
	if tsIdx == -1 || descIdx == -1 {
		return nil, &FormatError{Msg: "header row is missing timestamp or description column"}
	}

	var records []domain.TransactionRecord
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &FormatError{Msg: fmt.Sprintf("reading table row: %v", err)}
		}
		records = append(records, domain.TransactionRecord{
			Timestamp:   row[tsIdx],
			Description: row[descIdx],
			Columns:     header,
			Values:      row,
		})
	}

	return records, nil
}
