package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/budgetwatch/internal/model"
)

// Validation rules.
const (
	RuleType      = "type"
	RuleDate      = "date"
	RuleAmount    = "amount"
	RulePrecision = "precision"
)

// ValidationError describes a single rule violation.
type ValidationError struct {
	Rule          string
	TransactionID string
	Description   string
}

func (e ValidationError) Error() string {
	id := e.TransactionID
	if id == "" {
		id = "new"
	}
	return fmt.Sprintf("%s [%s]: %s", e.Rule, id, e.Description)
}

var cents = decimal.NewFromInt(100)

// Validate checks a transaction before it is written to the ledger.
func Validate(tx model.Transaction) []ValidationError {
	var errs []ValidationError

	if _, ok := model.ParseTransactionType(string(tx.Type)); !ok {
		errs = append(errs, ValidationError{
			Rule:          RuleType,
			TransactionID: tx.ID,
			Description:   fmt.Sprintf("type %q is not INCOME or EXPENSE", tx.Type),
		})
	}

	if !tx.HasDate() {
		errs = append(errs, ValidationError{
			Rule:          RuleDate,
			TransactionID: tx.ID,
			Description:   "date is missing",
		})
	}

	if tx.Amount.IsZero() {
		errs = append(errs, ValidationError{
			Rule:          RuleAmount,
			TransactionID: tx.ID,
			Description:   "amount is zero",
		})
	}

	// Exact decimals: no more than 2 decimal places.
	if scaled := tx.Amount.Mul(cents); !scaled.Equal(scaled.Truncate(0)) {
		errs = append(errs, ValidationError{
			Rule:          RulePrecision,
			TransactionID: tx.ID,
			Description:   fmt.Sprintf("amount %s has more than 2 decimal places", tx.Amount),
		})
	}

	return errs
}
