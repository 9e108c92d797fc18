// Package csvio streams transaction records in and account rows out as CSV.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sheikh-saqib/payments-engine/internal/models"
)

var inputHeader = []string{"type", "client", "tx", "amount"}

// Reader yields one record per data row without holding the input in memory.
// It implements ledger.RecordSource.
type Reader struct {
	csv    *csv.Reader
	header bool
}

// NewReader wraps r. The first row must be the type,client,tx,amount header.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // dispute rows may leave out the amount column
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	return &Reader{csv: cr}
}

// Read returns the next record, io.EOF when the input is exhausted, or a
// *models.MalformedRecordError for a row that should be skipped. Any other error
// means the input cannot be read any further.
func (r *Reader) Read() (models.TransactionRecord, error) {
	if !r.header {
		if err := r.readHeader(); err != nil {
			return models.TransactionRecord{}, err
		}
	}

	for {
		fields, err := r.csv.Read()
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return models.TransactionRecord{}, &models.MalformedRecordError{Line: parseErr.Line, Reason: parseErr.Err.Error()}
			}
			return models.TransactionRecord{}, err
		}
		if blank(fields) {
			continue
		}
		line, _ := r.csv.FieldPos(0)

		rec, err := models.ParseRecord(fields)
		if err != nil {
			var malformed *models.MalformedRecordError
			if errors.As(err, &malformed) {
				malformed.Line = line
			}
			return models.TransactionRecord{}, err
		}
		return rec, nil
	}
}

func (r *Reader) readHeader() error {
	fields, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	r.header = true

	if len(fields) < 3 {
		return fmt.Errorf("unexpected header %q, want %q", strings.Join(fields, ","), strings.Join(inputHeader, ","))
	}
	for i, name := range fields {
		if i < len(inputHeader) && strings.TrimSpace(name) != inputHeader[i] {
			return fmt.Errorf("unexpected header %q, want %q", strings.Join(fields, ","), strings.Join(inputHeader, ","))
		}
	}
	return nil
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
