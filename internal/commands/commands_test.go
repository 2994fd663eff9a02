package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/budgetwatch/internal/commands"
	"github.com/cleared-dev/budgetwatch/internal/config"
	"github.com/cleared-dev/budgetwatch/internal/ledger"
	"github.com/cleared-dev/budgetwatch/internal/model"
)

// isolateEnv clears the override variables for the duration of the test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvLocale, config.EnvThreshold, config.EnvLogLevel} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func runBudgetwatch(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := commands.NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func initRepo(t *testing.T) string {
	t.Helper()
	isolateEnv(t)
	dir := t.TempDir()
	_, err := runBudgetwatch(t, "init", dir, "--timezone", "UTC")
	require.NoError(t, err)
	return dir
}

func addTx(t *testing.T, dir, date, typ, category, amount string) {
	t.Helper()
	_, err := runBudgetwatch(t, "add", "--repo", dir,
		"--date", date, "--type", typ, "--category", category, "--amount", amount)
	require.NoError(t, err)
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := initRepo(t)

	for _, d := range []string{".budgetwatch", "logs", "import", filepath.Join("import", "processed")} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "UTC", cfg.Insights.Timezone)
	assert.InDelta(t, 0.25, cfg.Insights.Threshold, 0.001)

	data, err := os.ReadFile(filepath.Join(dir, "transactions.csv"))
	require.NoError(t, err)
	assert.Equal(t, ledger.Header+"\n", string(data))

	gitignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(gitignore), ".budgetwatch/")
}

func TestInit_Twice(t *testing.T) {
	dir := initRepo(t)
	_, err := runBudgetwatch(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInit_BadTimezone(t *testing.T) {
	_, err := runBudgetwatch(t, "init", t.TempDir(), "--timezone", "Nowhere/Special")
	require.Error(t, err)
}

func TestAdd(t *testing.T) {
	dir := initRepo(t)
	out, err := runBudgetwatch(t, "add", "--repo", dir, "--date", "2024-05-10",
		"--type", "expense", "--category", "Groceries", "--amount", "42.1", "--generate-id")
	require.NoError(t, err)
	assert.Equal(t, "Added EXPENSE 42.10 Groceries on 2024-05-10\n", out)

	txns, err := ledger.NewService(filepath.Join(dir, "transactions.csv"), nil).All()
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.NotEmpty(t, txns[0].ID)
}

func TestAdd_Rejected(t *testing.T) {
	dir := initRepo(t)

	_, err := runBudgetwatch(t, "add", "--repo", dir, "--type", "expense", "--amount", "1.005")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	_, err = runBudgetwatch(t, "add", "--repo", dir, "--type", "transfer", "--amount", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")

	_, err = runBudgetwatch(t, "add", "--repo", dir, "--type", "expense")
	require.Error(t, err, "amount is required")
}

func TestInsightsDismissUndo(t *testing.T) {
	dir := initRepo(t)
	addTx(t, dir, "2024-04-10", "expense", "Groceries", "50")
	addTx(t, dir, "2024-05-10", "expense", "Groceries", "100")

	out, err := runBudgetwatch(t, "insights", "--repo", dir, "--now", "2024-05-20")
	require.NoError(t, err)
	assert.Contains(t, out, "[delta:inc:2024-05:Groceries] Groceries spending up 100.0%")
	assert.Contains(t, out, "[spotlight:2024-05:")

	_, err = os.Stat(filepath.Join(dir, ".budgetwatch", "budget_insights.json"))
	require.NoError(t, err, "visible cache persisted")
	_, err = os.Stat(filepath.Join(dir, ".budgetwatch", "budget_tx_keys_v1.json"))
	require.NoError(t, err, "fingerprint snapshot persisted")

	out, err = runBudgetwatch(t, "dismiss", "--repo", dir, "delta:inc:2024-05:Groceries")
	require.NoError(t, err)
	assert.Equal(t, "Dismissed delta:inc:2024-05:Groceries\n", out)

	out, err = runBudgetwatch(t, "insights", "--repo", dir, "--now", "2024-05-20")
	require.NoError(t, err)
	assert.NotContains(t, out, "delta:inc:2024-05:Groceries")

	out, err = runBudgetwatch(t, "undo", "--repo", dir)
	require.NoError(t, err)
	assert.Equal(t, "Restored delta:inc:2024-05:Groceries (2 visible)\n", out)

	_, err = runBudgetwatch(t, "undo", "--repo", dir)
	require.Error(t, err, "nothing left to undo")

	out, err = runBudgetwatch(t, "insights", "--repo", dir, "--now", "2024-05-20", "--json")
	require.NoError(t, err)
	var visible []model.Insight
	require.NoError(t, json.Unmarshal([]byte(out), &visible))
	require.Len(t, visible, 2)
	assert.Equal(t, "delta:inc:2024-05:Groceries", visible[0].ID)

	data, err := os.ReadFile(filepath.Join(dir, "logs", "activity.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), ",dismiss,"))
	assert.Equal(t, 1, strings.Count(string(data), ",undo,"))
}

func TestInsights_NewTransactionEvent(t *testing.T) {
	dir := initRepo(t)
	addTx(t, dir, "2024-05-01", "income", "Salary", "3000")

	out, err := runBudgetwatch(t, "insights", "--repo", dir, "--now", "2024-05-20")
	require.NoError(t, err)
	assert.Equal(t, "No insights\n", out)

	addTx(t, dir, "2024-05-02", "income", "Refunds", "20")
	out, err = runBudgetwatch(t, "insights", "--repo", dir, "--now", "2024-05-20")
	require.NoError(t, err)
	assert.Contains(t, out, "New income recorded")
}

func TestInsights_EventAfterEmptyLedger(t *testing.T) {
	dir := initRepo(t)

	out, err := runBudgetwatch(t, "insights", "--repo", dir, "--now", "2024-05-20")
	require.NoError(t, err)
	assert.Equal(t, "No insights\n", out)

	addTx(t, dir, "2024-05-02", "expense", "Books", "12")
	out, err = runBudgetwatch(t, "insights", "--repo", dir, "--now", "2024-05-20")
	require.NoError(t, err)
	assert.Contains(t, out, "New expense recorded")
}

func TestDismiss_Unknown(t *testing.T) {
	dir := initRepo(t)
	_, err := runBudgetwatch(t, "dismiss", "--repo", dir, "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not visible")
}

func TestEnvFileOverridesLocale(t *testing.T) {
	dir := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(config.EnvLocale+"=de\n"), 0o644))
	addTx(t, dir, "2024-04-10", "expense", "Lebensmittel", "50")
	addTx(t, dir, "2024-05-10", "expense", "Lebensmittel", "100")

	out, err := runBudgetwatch(t, "insights", "--repo", dir, "--now", "2024-05-20")
	require.NoError(t, err)
	assert.Contains(t, out, "Ausgaben für Lebensmittel um 100,0 % gestiegen")
}

func TestImportAndSummary(t *testing.T) {
	dir := initRepo(t)

	out, err := runBudgetwatch(t, "import", "--repo", dir, "--format", "chase",
		filepath.Join("..", "..", "testdata", "chase_checking.csv"))
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 6 transactions")

	out, err = runBudgetwatch(t, "summary", "--repo", dir, "--month", "2025-01")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-01 (6 transactions)")
	assert.Contains(t, out, "3500.00")
	assert.Contains(t, out, "299.61")
	assert.Contains(t, out, "Other")
	assert.Contains(t, out, "100.0%")
}

func TestImport_ScansImportDir(t *testing.T) {
	dir := initRepo(t)

	csvData, err := os.ReadFile(filepath.Join("..", "..", "testdata", "chase_checking.csv"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "chase_checking.csv"), csvData, 0o644))
	dump := `[{"id": 9, "date": "2025-01-30", "type": "EXPENSE", "category": "Books", "amount": 12}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "api.json"), []byte(dump), 0o644))

	out, err := runBudgetwatch(t, "import", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 transactions from api.json")
	assert.Contains(t, out, "Imported 6 transactions from chase_checking.csv")

	processed, err := os.ReadDir(filepath.Join(dir, "import", "processed"))
	require.NoError(t, err)
	assert.Len(t, processed, 2)

	txns, err := ledger.NewService(filepath.Join(dir, "transactions.csv"), nil).All()
	require.NoError(t, err)
	assert.Len(t, txns, 7)

	out, err = runBudgetwatch(t, "import", "--repo", dir)
	require.NoError(t, err)
	assert.Equal(t, "Nothing to import\n", out)
}

func TestImport_JSONSkipsInvalidRows(t *testing.T) {
	dir := initRepo(t)
	dump := `[
		{"id": 1, "date": "2025-01-30", "type": "EXPENSE", "category": "Books", "amount": 12},
		{"id": 2, "date": "not a date", "type": "EXPENSE", "category": "Books", "amount": 8}
	]`
	path := filepath.Join(t.TempDir(), "api.json")
	require.NoError(t, os.WriteFile(path, []byte(dump), 0o644))

	out, err := runBudgetwatch(t, "import", "--repo", dir, "--format", "json", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 transactions")

	txns, err := ledger.NewService(filepath.Join(dir, "transactions.csv"), nil).All()
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "1", txns[0].ID)
}

func TestImport_UnknownFormat(t *testing.T) {
	dir := initRepo(t)
	_, err := runBudgetwatch(t, "import", "--repo", dir, "--format", "ofx",
		filepath.Join("..", "..", "testdata", "chase_checking.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestVersion(t *testing.T) {
	out, err := runBudgetwatch(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "commit:")
}
