package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// FormatMonth returns a month key like "2024-05".
func FormatMonth(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParseMonth parses "2024-05" into year and month.
func ParseMonth(key string) (year, month int, err error) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid month key format: %q", key)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in month key %q: %w", key, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month in month key %q: %w", key, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month out of range in month key %q", key)
	}

	return year, month, nil
}

// DeltaKey returns the semantic key of a month-over-month category insight.
// "inc", "2024-05", "Groceries" -> "delta:inc:2024-05:Groceries"
func DeltaKey(direction, month, category string) string {
	return "delta:" + direction + ":" + month + ":" + category
}

// BackfillKey returns the semantic key of a retroactive delta insight.
// "dec", "2024-03", "Rent" -> "backfill:dec:2024-03:Rent"
func BackfillKey(direction, month, category string) string {
	return "backfill:" + direction + ":" + month + ":" + category
}

// SpotlightKey returns the key of the largest-expense insight for a month.
func SpotlightKey(month, fingerprint string) string {
	return "spotlight:" + month + ":" + fingerprint
}

// EventKey returns the key of a new-transaction note.
func EventKey(fingerprint string) string {
	return "event:" + fingerprint
}

// NewTransactionID returns a random transaction identifier.
func NewTransactionID() string {
	return uuid.NewString()
}
