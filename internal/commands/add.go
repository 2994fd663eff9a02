package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/budgetwatch/internal/model"
)

func newAddCommand(repoDir *string) *cobra.Command {
	var (
		date        string
		typ         string
		category    string
		amount      string
		description string
		txID        string
		generateID  bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a transaction to the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, *repoDir)
			if err != nil {
				return err
			}

			when, err := a.now(date)
			if err != nil {
				return err
			}
			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", amount, err)
			}
			kind, ok := model.ParseTransactionType(typ)
			if !ok {
				return fmt.Errorf("unknown type %q (want income or expense)", typ)
			}

			tx, err := a.ledger().Add(model.Transaction{
				ID:          txID,
				Date:        when,
				Type:        kind,
				Category:    category,
				Description: description,
				Amount:      amt,
			}, generateID)
			if err != nil {
				return err
			}

			a.log.Debug().Str("id", tx.ID).Str("type", string(tx.Type)).Msg("transaction added")
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %s on %s\n",
				tx.Type, tx.Amount.StringFixed(2), tx.CategoryOrDefault(), tx.Date.Format(dayFormat))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "transaction date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&typ, "type", "", "income or expense (required)")
	_ = cmd.MarkFlagRequired("type")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, at most 2 decimal places (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&category, "category", "", "category (default Other)")
	cmd.Flags().StringVar(&description, "description", "", "free-text description")
	cmd.Flags().StringVar(&txID, "id", "", "server id of the transaction")
	cmd.Flags().BoolVar(&generateID, "generate-id", false, "assign a random id when --id is empty")

	return cmd
}
