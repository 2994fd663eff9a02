package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/budgetwatch/internal/model"
)

// ChaseParser parses Chase bank checking CSV exports.
type ChaseParser struct{}

const (
	chaseDateFormat = "01/02/2006"
	chaseNumFields  = 7
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
	chaseColType    = 4
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV. Debits become expenses and credits income, all
// uncategorized.
func (p *ChaseParser) Parse(r io.Reader, loc *time.Location) ([]model.Transaction, error) {
	rows, err := p.ParseBank(r, loc)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		return nil, nil
	}

	txns := make([]model.Transaction, len(rows))
	for i, row := range rows {
		txns[i] = row.ToTransaction()
	}
	return txns, nil
}

// ParseBank reads a Chase CSV and returns the raw bank rows.
func (p *ChaseParser) ParseBank(r io.Reader, loc *time.Location) ([]model.BankTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chaseNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.BankTransaction
	for i, rec := range records[1:] {
		txn, err := parseChaseRow(rec, loc)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseChaseRow(rec []string, loc *time.Location) (model.BankTransaction, error) {
	date, err := time.ParseInLocation(chaseDateFormat, rec[chaseColDate], loc)
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing date %q: %w", rec[chaseColDate], err)
	}

	amount, err := decimal.NewFromString(rec[chaseColAmount])
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing amount %q: %w", rec[chaseColAmount], err)
	}

	return model.BankTransaction{
		Date:        date,
		Description: rec[chaseColDesc],
		Amount:      amount,
		Type:        rec[chaseColType],
	}, nil
}
