package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/budgetwatch/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var repoDir string

	rootCmd := &cobra.Command{
		Use:     "budgetwatch",
		Short:   "Month-over-month budget insights from your transactions",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&repoDir, "repo", ".", "repository directory")

	rootCmd.AddCommand(
		newInitCommand(),
		newAddCommand(&repoDir),
		newImportCommand(&repoDir),
		newInsightsCommand(&repoDir),
		newDismissCommand(&repoDir),
		newUndoCommand(&repoDir),
		newSummaryCommand(&repoDir),
	)

	return rootCmd
}
