// Package ledger stores transactions in a CSV file.
package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/budgetwatch/internal/model"
)

// Header is the CSV header for transactions.csv.
const Header = "id,date,type,category,description,amount"

const (
	numFields  = 6
	dateFormat = "2006-01-02"
	colID      = 0
	colDate    = 1
	colType    = 2
	colCat     = 3
	colDesc    = 4
	colAmount  = 5
)

// ReadTransactions reads all transactions from a transactions.csv reader.
// Dates are calendar days in loc.
func ReadTransactions(r io.Reader, loc *time.Location) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txns []model.Transaction
	for i, rec := range records[1:] {
		tx, err := UnmarshalTransaction(rec, loc)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, tx)
	}
	return txns, nil
}

// WriteTransactions writes txns to a transactions.csv writer (including header).
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range txns {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// AppendTransactions appends txns to an existing transactions.csv writer (no header).
func AppendTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, tx := range txns {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(tx model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = tx.ID
	if tx.HasDate() {
		row[colDate] = tx.Date.Format(dateFormat)
	}
	row[colType] = string(tx.Type)
	row[colCat] = tx.Category
	row[colDesc] = tx.Description
	row[colAmount] = tx.Amount.StringFixed(2)
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string, loc *time.Location) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.ParseInLocation(dateFormat, record[colDate], loc)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	typ, ok := model.ParseTransactionType(record[colType])
	if !ok {
		return model.Transaction{}, fmt.Errorf("unknown type %q", record[colType])
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(record[colAmount]))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	return model.Transaction{
		ID:          record[colID],
		Date:        date,
		Type:        typ,
		Category:    record[colCat],
		Description: record[colDesc],
		Amount:      amount,
	}, nil
}
