package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/budgetwatch/internal/analytics"
	"github.com/cleared-dev/budgetwatch/internal/model"
)

func newSummaryCommand(repoDir *string) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show monthly totals and the category breakdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, *repoDir)
			if err != nil {
				return err
			}

			ym := model.MonthOf(time.Now().In(a.loc))
			if month != "" {
				ym, err = model.ParseYearMonth(month)
				if err != nil {
					return err
				}
			}

			txns, err := a.ledger().All()
			if err != nil {
				return err
			}

			cur := analytics.Summarize(txns, ym, a.loc)
			prev := analytics.Summarize(txns, ym.Prev(), a.loc)
			printSummary(cmd.OutOrStdout(), analytics.CompareKPIs(cur, prev), analytics.Breakdown(txns, ym, a.loc))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to summarize YYYY-MM (default current)")

	return cmd
}

func printSummary(w io.Writer, d analytics.KPIDelta, shares []analytics.CategoryShare) {
	fmt.Fprintf(w, "%s (%d transactions)\n\n", d.Current.Month, d.Current.Count)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\t%s\t%s\tchange\n", d.Current.Month, d.Previous.Month)
	fmt.Fprintf(tw, "Income\t%s\t%s\t%s\n", d.Current.Income.StringFixed(2), d.Previous.Income.StringFixed(2), percent(d.Income))
	fmt.Fprintf(tw, "Expense\t%s\t%s\t%s\n", d.Current.Expense.StringFixed(2), d.Previous.Expense.StringFixed(2), percent(d.Expense))
	fmt.Fprintf(tw, "Net\t%s\t%s\t%s\n", d.Current.Net.StringFixed(2), d.Previous.Net.StringFixed(2), percent(d.Net))
	tw.Flush()

	if len(shares) == 0 {
		return
	}
	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Category\tTotal\tCount\tShare")
	for _, s := range shares {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", s.Category, s.Total.StringFixed(2), s.Count, s.Share.Mul(hundred).StringFixed(1)+"%")
	}
	tw.Flush()
}

var hundred = decimal.NewFromInt(100)

func percent(ratio decimal.Decimal) string {
	sign := ""
	if ratio.IsPositive() {
		sign = "+"
	}
	return sign + ratio.Mul(hundred).StringFixed(1) + "%"
}
