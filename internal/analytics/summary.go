package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/budgetwatch/internal/model"
)

// KPIs are the headline totals for one month.
type KPIs struct {
	Month   model.YearMonth
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
	Count   int
}

// Summarize totals the dated transactions in ym. Amounts are taken by
// magnitude and Net is Income minus Expense.
func Summarize(txns []model.Transaction, ym model.YearMonth, loc *time.Location) KPIs {
	k := KPIs{Month: ym, Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range txns {
		if !ym.Contains(tx.Date, loc) {
			continue
		}
		k.Count++
		if tx.IsExpense() {
			k.Expense = k.Expense.Add(tx.Magnitude())
		} else {
			k.Income = k.Income.Add(tx.Magnitude())
		}
	}
	k.Net = k.Income.Sub(k.Expense)
	return k
}

// KPIDelta holds the relative change of each metric between two months.
type KPIDelta struct {
	Current  KPIs
	Previous KPIs
	Income   decimal.Decimal
	Expense  decimal.Decimal
	Net      decimal.Decimal
}

// CompareKPIs computes per-metric change ratios of cur against prev.
func CompareKPIs(cur, prev KPIs) KPIDelta {
	return KPIDelta{
		Current:  cur,
		Previous: prev,
		Income:   changeRatio(cur.Income, prev.Income),
		Expense:  changeRatio(cur.Expense, prev.Expense),
		Net:      changeRatio(cur.Net, prev.Net),
	}
}

// CategoryShare is one category's slice of a month's expenses.
type CategoryShare struct {
	Category string
	Total    decimal.Decimal
	Count    int
	// Share is Total over the month's expense total, between 0 and 1.
	Share decimal.Decimal
}

// Breakdown groups the expenses in ym by category, largest total first.
// Equal totals keep first-seen order.
func Breakdown(txns []model.Transaction, ym model.YearMonth, loc *time.Location) []CategoryShare {
	var shares []CategoryShare
	index := make(map[string]int)
	total := decimal.Zero

	for _, tx := range txns {
		if !tx.IsExpense() || !ym.Contains(tx.Date, loc) {
			continue
		}
		c := tx.CategoryOrDefault()
		i, ok := index[c]
		if !ok {
			i = len(shares)
			index[c] = i
			shares = append(shares, CategoryShare{Category: c, Total: decimal.Zero})
		}
		shares[i].Total = shares[i].Total.Add(tx.Magnitude())
		shares[i].Count++
		total = total.Add(tx.Magnitude())
	}

	for i := range shares {
		if total.IsZero() {
			shares[i].Share = decimal.Zero
			continue
		}
		shares[i].Share = shares[i].Total.Div(total)
	}
	sort.SliceStable(shares, func(a, b int) bool {
		return shares[a].Total.GreaterThan(shares[b].Total)
	})
	return shares
}
