package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/budgetwatch/internal/model"
)

// DefaultThreshold is the relative change a category must exceed before a
// delta insight is emitted.
const DefaultThreshold = 0.25

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Direction classifies a month-over-month change.
type Direction int

const (
	Flat Direction = iota
	Increase
	Decrease
)

func (d Direction) String() string {
	switch d {
	case Increase:
		return "inc"
	case Decrease:
		return "dec"
	default:
		return "flat"
	}
}

// Delta compares one category's expenses in a month with the month before.
type Delta struct {
	Month    model.YearMonth
	Category string
	Current  decimal.Decimal
	Previous decimal.Decimal
	Change   decimal.Decimal
	Ratio    decimal.Decimal
}

// MonthDelta sums |amount| of expenses in category for ym and the preceding
// month, using inclusive month bounds in loc. It returns nil when both sums
// are zero. A category with no spending the month before has Ratio 1.
func MonthDelta(txns []model.Transaction, ym model.YearMonth, category string, loc *time.Location) *Delta {
	if category == "" {
		category = model.DefaultCategory
	}
	prev := ym.Prev()

	current, previous := decimal.Zero, decimal.Zero
	for _, tx := range txns {
		if !tx.IsExpense() || !tx.HasDate() || tx.CategoryOrDefault() != category {
			continue
		}
		switch {
		case ym.Contains(tx.Date, loc):
			current = current.Add(tx.Magnitude())
		case prev.Contains(tx.Date, loc):
			previous = previous.Add(tx.Magnitude())
		}
	}

	if current.IsZero() && previous.IsZero() {
		return nil
	}
	return &Delta{
		Month:    ym,
		Category: category,
		Current:  current,
		Previous: previous,
		Change:   current.Sub(previous),
		Ratio:    changeRatio(current, previous),
	}
}

// Classify compares Ratio with threshold. Both comparisons are strict.
func (d *Delta) Classify(threshold decimal.Decimal) Direction {
	if d == nil {
		return Flat
	}
	switch {
	case d.Ratio.GreaterThan(threshold):
		return Increase
	case d.Ratio.LessThan(threshold.Neg()):
		return Decrease
	default:
		return Flat
	}
}

// Percent returns |Ratio| as a percentage rounded to one decimal.
func (d *Delta) Percent() float64 {
	f, _ := d.Ratio.Abs().Mul(hundred).Round(1).Float64()
	return f
}

// changeRatio is (cur-prev)/|prev|. A zero prev yields 1 for growth, -1 for
// a drop below zero, and 0 when nothing changed.
func changeRatio(cur, prev decimal.Decimal) decimal.Decimal {
	if prev.IsZero() {
		return decimal.NewFromInt(int64(cur.Sign()))
	}
	return cur.Sub(prev).Div(prev.Abs())
}

type deltaKey struct {
	month    model.YearMonth
	category string
}

// deltaCache memoizes MonthDelta for one generation pass.
type deltaCache struct {
	txns    []model.Transaction
	loc     *time.Location
	entries map[deltaKey]*Delta
}

func newDeltaCache(txns []model.Transaction, loc *time.Location) *deltaCache {
	return &deltaCache{txns: txns, loc: loc, entries: make(map[deltaKey]*Delta)}
}

func (c *deltaCache) get(ym model.YearMonth, category string) *Delta {
	k := deltaKey{month: ym, category: category}
	if d, ok := c.entries[k]; ok {
		return d
	}
	d := MonthDelta(c.txns, ym, category, c.loc)
	c.entries[k] = d
	return d
}
