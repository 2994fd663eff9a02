package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of money movement.
type TransactionType string

const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

// DefaultCategory is used wherever a transaction has no category.
const DefaultCategory = "Other"

// ParseTransactionType normalizes s to upper case and reports whether it is a
// known type.
func ParseTransactionType(s string) (TransactionType, bool) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case TypeIncome, TypeExpense:
		return t, true
	default:
		return t, false
	}
}

// Transaction is a single income or expense record.
type Transaction struct {
	ID          string          `json:"id,omitempty"` // empty for rows without a server id
	Date        time.Time       `json:"date"`         // zero if the source date did not parse
	Type        TransactionType `json:"type"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"` // sign carries no meaning beyond Type
}

// CategoryOrDefault returns the category, or DefaultCategory if blank.
func (t Transaction) CategoryOrDefault() string {
	c := strings.TrimSpace(t.Category)
	if c == "" {
		return DefaultCategory
	}
	return c
}

// IsExpense reports whether the transaction is an expense.
func (t Transaction) IsExpense() bool {
	return t.Type == TypeExpense
}

// HasDate reports whether the transaction carries a usable date.
func (t Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

// Magnitude returns the absolute amount.
func (t Transaction) Magnitude() decimal.Decimal {
	return t.Amount.Abs()
}
