package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/budgetwatch/internal/config"
	"github.com/cleared-dev/budgetwatch/internal/ledger"
)

func newInitCommand() *cobra.Command {
	var locale string
	var timezone string
	var threshold float64

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new budgetwatch project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg := config.Default()
			cfg.Insights.Locale = locale
			cfg.Insights.Timezone = timezone
			cfg.Insights.Threshold = threshold
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid settings: %w", err)
			}

			if err := runInit(absDir, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized budgetwatch project at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&locale, "locale", "en", "language for insight text")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone for month boundaries (default local)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.25, "relative change that triggers a delta insight")

	return cmd
}

func runInit(dir string, cfg *config.Config) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	// Create directory structure.
	dirs := []string{
		cfg.Storage.Dir,
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write budgetwatch.yaml.
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write an empty ledger unless one is already there.
	ledgerPath := filepath.Join(dir, cfg.Ledger.Path)
	if _, err := os.Stat(ledgerPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(ledgerPath, []byte(ledger.Header+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing ledger: %w", err)
		}
	}

	// Write .gitignore.
	gitignore := cfg.Storage.Dir + "/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	return nil
}
