package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/budgetwatch/internal/activity"
	"github.com/cleared-dev/budgetwatch/internal/importer"
	"github.com/cleared-dev/budgetwatch/internal/logger"
	"github.com/cleared-dev/budgetwatch/internal/model"
)

func newImportCommand(repoDir *string) *cobra.Command {
	var format string
	var generateID bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import transactions from a bank export",
		Long: "Import transactions from a file. Without a file argument every .csv and\n" +
			".json file in <repo>/import is imported and moved to import/processed.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, *repoDir)
			if err != nil {
				return err
			}
			reg := importer.DefaultRegistry()

			if len(args) == 1 {
				n, err := a.importFile(reg, args[0], format, generateID)
				if err != nil {
					return err
				}
				recordActivity(cmd, a.repo, importEntry(args[0], n))
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions from %s\n", n, args[0])
				return nil
			}

			files, err := importer.Scan(a.repo)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import")
				return nil
			}
			for _, f := range files {
				n, err := a.importFile(reg, f.Path, formatFor(f.Name, format), generateID)
				if err != nil {
					return fmt.Errorf("importing %s: %w", f.Name, err)
				}
				if err := importer.MarkProcessed(a.repo, f.Name); err != nil {
					return err
				}
				recordActivity(cmd, a.repo, importEntry(f.Name, n))
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions from %s\n", n, f.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "chase", "file format: "+strings.Join(importer.DefaultRegistry().Formats(), ", "))
	cmd.Flags().BoolVar(&generateID, "generate-id", false, "assign random ids to rows without one")

	return cmd
}

func (a *app) importFile(reg *importer.Registry, path, format string, generateID bool) (int, error) {
	p := reg.Get(format)
	if p == nil {
		return 0, fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(reg.Formats(), ", "))
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	txns, err := p.Parse(f, a.loc)
	if err != nil {
		return 0, fmt.Errorf("parsing %s as %s: %w", path, p.Format(), err)
	}
	added, err := a.addParsed(p.Format(), path, txns, generateID)
	if err != nil {
		return 0, err
	}
	a.log.Info().Str("file", path).Str("format", p.Format()).Int("count", added).Msg("imported transactions")
	return added, nil
}

// addParsed appends parsed rows to the ledger. JSON dumps are decoded
// leniently, so their invalid rows are skipped with a warning; every other
// format is all-or-nothing.
func (a *app) addParsed(format, path string, txns []model.Transaction, generateID bool) (int, error) {
	if format != "json" {
		if _, err := a.ledger().AddAll(txns, generateID); err != nil {
			return 0, err
		}
		return len(txns), nil
	}

	added, skipped, err := a.ledger().AddValid(txns, generateID)
	if err != nil {
		return 0, err
	}
	if len(skipped) > 0 {
		violations := make([]string, len(skipped))
		for i, ve := range skipped {
			violations[i] = ve.Error()
		}
		a.log.Warn().Str("file", path).Int("skipped", len(txns)-len(added)).
			Strs("violations", violations).Msg("skipping invalid transactions")
	}
	return len(added), nil
}

// formatFor picks the parser for a scanned file: JSON files always use the
// json parser, everything else the requested format.
func formatFor(name, format string) string {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return "json"
	}
	return format
}

func importEntry(file string, n int) activity.Entry {
	return activity.Entry{
		Timestamp: time.Now(),
		Action:    activity.ActionImport,
		Payload:   fmt.Sprintf(`{"file":%q,"count":%d}`, filepath.Base(file), n),
	}
}

// recordActivity appends to the activity log. Failures are logged, not
// returned; the log is an audit trail and undo aid only.
func recordActivity(cmd *cobra.Command, repo string, entries ...activity.Entry) {
	if err := activity.Append(repo, entries); err != nil {
		log := logger.FromContext(cmd.Context())
		log.Warn().Err(err).Msg("failed to write activity log")
	}
}
