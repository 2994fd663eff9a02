package activity

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/budgetwatch/internal/insights"
	"github.com/cleared-dev/budgetwatch/internal/model"
)

var testTime = time.Date(2024, 5, 20, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		Action:    ActionRefresh,
		Payload:   `{"visible":3}`,
	}
}

func dismissal(id string, index int) insights.Dismissal {
	return insights.Dismissal{
		Insight: model.Insight{ID: id, Key: id, Kind: model.KindEvent, Title: "New expense recorded"},
		Index:   index,
	}
}

func appendDismiss(t *testing.T, dir string, d insights.Dismissal) {
	t.Helper()
	e, err := DismissEntry(d, testTime)
	require.NoError(t, err)
	require.NoError(t, Append(dir, []Entry{e}))
}

func appendUndo(t *testing.T, dir, id string) {
	t.Helper()
	require.NoError(t, Append(dir, []Entry{{Timestamp: testTime, Action: ActionUndo, InsightID: id}}))
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	err := Append(dir, []Entry{testEntry()})
	require.NoError(t, err)

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, ActionRefresh, entries[0].Action)
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Action = ActionImport
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, ActionRefresh, entries[0].Action)
	assert.Equal(t, ActionImport, entries[1].Action)

	data, err := os.ReadFile(filepath.Join(dir, "logs", "activity.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), Header)
}

func TestRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := Entry{
		Timestamp: testTime,
		Action:    ActionDismiss,
		InsightID: "delta:inc:2024-05:Groceries",
		Index:     2,
		Payload:   `{"kind":"delta-inc","title":"a, \"quoted\" title"}`,
	}
	require.NoError(t, Append(dir, []Entry{original}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, original.Action, got.Action)
	assert.Equal(t, original.InsightID, got.InsightID)
	assert.Equal(t, original.Index, got.Index)
	assert.Equal(t, original.Payload, got.Payload)
}

func TestRead_NotFound(t *testing.T) {
	dir := t.TempDir()
	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_BadIndex(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	content := Header + "\n2024-05-20T10:30:00Z,dismiss,x,two,{}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "activity.csv"), []byte(content), 0o644))

	_, err := Read(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing index")
}

func TestLastDismissal_Latest(t *testing.T) {
	dir := t.TempDir()
	appendDismiss(t, dir, dismissal("a", 0))
	appendDismiss(t, dir, dismissal("b", 3))

	d, ok, err := LastDismissal(dir, "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b", d.Insight.ID)
	assert.Equal(t, 3, d.Index)
	assert.Equal(t, model.KindEvent, d.Insight.Kind)
	assert.Equal(t, "New expense recorded", d.Insight.Title)
}

func TestLastDismissal_ByID(t *testing.T) {
	dir := t.TempDir()
	appendDismiss(t, dir, dismissal("a", 1))
	appendDismiss(t, dir, dismissal("b", 0))

	d, ok, err := LastDismissal(dir, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, d.Index)
}

func TestLastDismissal_SkipsUndone(t *testing.T) {
	dir := t.TempDir()
	appendDismiss(t, dir, dismissal("a", 0))
	appendDismiss(t, dir, dismissal("b", 1))
	appendUndo(t, dir, "b")

	d, ok, err := LastDismissal(dir, "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", d.Insight.ID)

	appendUndo(t, dir, "a")
	_, ok, err = LastDismissal(dir, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLastDismissal_DismissedAgainAfterUndo(t *testing.T) {
	dir := t.TempDir()
	appendDismiss(t, dir, dismissal("a", 0))
	appendUndo(t, dir, "a")
	appendDismiss(t, dir, dismissal("a", 4))

	d, ok, err := LastDismissal(dir, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, d.Index)
}

func TestLastDismissal_NoLog(t *testing.T) {
	_, ok, err := LastDismissal(t.TempDir(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}
