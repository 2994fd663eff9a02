package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankTransaction represents a parsed bank CSV row before it becomes a
// Transaction.
type BankTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = expense, positive = income
	Type        string          // bank transaction type (ACH_DEBIT, etc.)
}

// ToTransaction converts a bank row into an uncategorized Transaction.
// Bank rows carry no server id.
func (b BankTransaction) ToTransaction() Transaction {
	typ := TypeIncome
	if b.Amount.IsNegative() {
		typ = TypeExpense
	}
	return Transaction{
		Date:        b.Date,
		Type:        typ,
		Description: b.Description,
		Amount:      b.Amount.Abs(),
	}
}
