// Package activity keeps an append-only CSV log of insight actions so that a
// later invocation can undo a dismissal.
package activity

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/budgetwatch/internal/insights"
)

// Actions recorded in the log.
const (
	ActionRefresh = "refresh"
	ActionDismiss = "dismiss"
	ActionUndo    = "undo"
	ActionImport  = "import"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp time.Time
	Action    string
	InsightID string
	Index     int
	Payload   string
}

// Header is the CSV header for activity.csv.
const Header = "timestamp,action,insight_id,index,payload"

const (
	numFields    = 5
	logDir       = "logs"
	logFile      = "logs/activity.csv"
	colTimestamp = 0
	colAction    = 1
	colInsightID = 2
	colIndex     = 3
	colPayload   = 4
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colAction] = e.Action
	row[colInsightID] = e.InsightID
	row[colIndex] = strconv.Itoa(e.Index)
	row[colPayload] = e.Payload
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	index, err := strconv.Atoi(record[colIndex])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing index %q: %w", record[colIndex], err)
	}

	return Entry{
		Timestamp: ts,
		Action:    record[colAction],
		InsightID: record[colInsightID],
		Index:     index,
		Payload:   record[colPayload],
	}, nil
}

// DismissEntry records d, with the dismissed insight as JSON payload.
func DismissEntry(d insights.Dismissal, at time.Time) (Entry, error) {
	payload, err := json.Marshal(d.Insight)
	if err != nil {
		return Entry{}, fmt.Errorf("encoding insight %s: %w", d.Insight.ID, err)
	}
	return Entry{
		Timestamp: at,
		Action:    ActionDismiss,
		InsightID: d.Insight.ID,
		Index:     d.Index,
		Payload:   string(payload),
	}, nil
}

// Append writes entries to <repoRoot>/logs/activity.csv, creating the file and header if needed.
func Append(repoRoot string, entries []Entry) error {
	dir := filepath.Join(repoRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(repoRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <repoRoot>/logs/activity.csv.
// Returns an empty slice if the file does not exist.
func Read(repoRoot string) ([]Entry, error) {
	path := filepath.Join(repoRoot, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// LastDismissal finds the most recent dismissal that has not been undone.
// With a non-empty id only dismissals of that insight are considered.
func LastDismissal(repoRoot, id string) (insights.Dismissal, bool, error) {
	entries, err := Read(repoRoot)
	if err != nil {
		return insights.Dismissal{}, false, err
	}

	var open []Entry
	for _, e := range entries {
		switch e.Action {
		case ActionDismiss:
			open = append(open, e)
		case ActionUndo:
			for i := len(open) - 1; i >= 0; i-- {
				if open[i].InsightID == e.InsightID {
					open = append(open[:i], open[i+1:]...)
					break
				}
			}
		}
	}

	for i := len(open) - 1; i >= 0; i-- {
		e := open[i]
		if id != "" && e.InsightID != id {
			continue
		}
		var d insights.Dismissal
		if err := json.Unmarshal([]byte(e.Payload), &d.Insight); err != nil {
			return insights.Dismissal{}, false, fmt.Errorf("decoding dismissal of %s: %w", e.InsightID, err)
		}
		d.Insight.ID = e.InsightID
		d.Index = e.Index
		return d, true, nil
	}
	return insights.Dismissal{}, false, nil
}
