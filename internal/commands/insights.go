package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/budgetwatch/internal/activity"
	"github.com/cleared-dev/budgetwatch/internal/model"
)

func newInsightsCommand(repoDir *string) *cobra.Command {
	var now string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Recompute and list visible insights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, *repoDir)
			if err != nil {
				return err
			}
			at, err := a.now(now)
			if err != nil {
				return err
			}
			txns, err := a.ledger().All()
			if err != nil {
				return err
			}
			svc, err := a.insights()
			if err != nil {
				return err
			}

			visible := svc.Refresh(txns, at)
			recordActivity(cmd, a.repo, activity.Entry{
				Timestamp: time.Now(),
				Action:    activity.ActionRefresh,
				Payload:   fmt.Sprintf(`{"transactions":%d,"visible":%d}`, len(txns), len(visible)),
			})

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(visible)
			}
			printInsights(cmd.OutOrStdout(), visible)
			return nil
		},
	}

	cmd.Flags().StringVar(&now, "now", "", "evaluate as of this date YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print insights as JSON")

	return cmd
}

func newDismissCommand(repoDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss <insight-id>",
		Short: "Hide an insight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, *repoDir)
			if err != nil {
				return err
			}
			svc, err := a.insights()
			if err != nil {
				return err
			}

			in, ok := svc.Find(args[0])
			if !ok {
				return fmt.Errorf("insight %s is not visible; run insights first", args[0])
			}
			d := svc.Dismiss(in)

			entry, err := activity.DismissEntry(d, time.Now())
			if err != nil {
				a.log.Warn().Err(err).Str("insight_id", in.ID).Msg("dismissal not recorded, undo will not find it")
			} else {
				recordActivity(cmd, a.repo, entry)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dismissed %s\n", in.ID)
			return nil
		},
	}
}

func newUndoCommand(repoDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "undo [insight-id]",
		Short: "Restore the last dismissed insight, or the given one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, *repoDir)
			if err != nil {
				return err
			}
			svc, err := a.insights()
			if err != nil {
				return err
			}

			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			d, ok, err := activity.LastDismissal(a.repo, id)
			if err != nil {
				return err
			}
			if !ok {
				if id != "" {
					return fmt.Errorf("no dismissal of %s to undo", id)
				}
				return errors.New("no dismissal to undo")
			}

			visible := svc.Undo(d)
			recordActivity(cmd, a.repo, activity.Entry{
				Timestamp: time.Now(),
				Action:    activity.ActionUndo,
				InsightID: d.Insight.ID,
				Index:     d.Index,
			})
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s (%d visible)\n", d.Insight.ID, len(visible))
			return nil
		},
	}
}

func printInsights(w io.Writer, visible []model.Insight) {
	if len(visible) == 0 {
		fmt.Fprintln(w, "No insights")
		return
	}
	for _, in := range visible {
		fmt.Fprintf(w, "[%s] %s\n", in.ID, in.Title)
		if in.Description != "" {
			fmt.Fprintf(w, "    %s\n", in.Description)
		}
	}
}
