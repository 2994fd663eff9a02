package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/budgetwatch/internal/model"
)

// rawTransaction mirrors the REST transaction payload. id and amount arrive
// as either JSON numbers or strings.
type rawTransaction struct {
	ID          json.RawMessage `json:"id"`
	Date        string          `json:"date"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      json.RawMessage `json:"amount"`
}

// DecodeJSON decodes a JSON array of transactions. Unlike the CSV reader it
// is lenient: an unparseable date becomes the zero time and an unparseable
// amount becomes zero. Only malformed JSON is an error.
func DecodeJSON(r io.Reader, loc *time.Location) ([]model.Transaction, error) {
	var raws []rawTransaction
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		return nil, fmt.Errorf("decoding transactions JSON: %w", err)
	}

	txns := make([]model.Transaction, 0, len(raws))
	for _, raw := range raws {
		typ, _ := model.ParseTransactionType(raw.Type)
		txns = append(txns, model.Transaction{
			ID:          scalarString(raw.ID),
			Date:        parseDate(raw.Date, loc),
			Type:        typ,
			Category:    raw.Category,
			Description: raw.Description,
			Amount:      parseAmount(raw.Amount),
		})
	}
	return txns, nil
}

// parseDate accepts a calendar day, interpreted in loc, or an RFC 3339
// timestamp.
func parseDate(s string, loc *time.Location) time.Time {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(dateFormat, s, loc); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

func parseAmount(raw json.RawMessage) decimal.Decimal {
	d, err := decimal.NewFromString(scalarString(raw))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// scalarString returns the text of a JSON string or number. Anything else is
// empty.
func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return ""
	}
	return n.String()
}
