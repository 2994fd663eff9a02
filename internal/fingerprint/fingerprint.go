// Package fingerprint derives stable identities for transactions and
// insights.
package fingerprint

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cleared-dev/budgetwatch/internal/model"
)

const (
	hashSeed    uint32 = 5381
	dayFormat          = "2006-01-02"
	invalidDate        = "invalid-date"
)

// Transaction returns the identity of tx at position index in its snapshot.
// A server id wins; otherwise the identity is synthesized from the day in loc,
// type, category, amount and index, so callers must pass a consistently
// ordered slice. The day must be taken in the same location the transaction
// is bucketed in. A nil loc means time.Local.
func Transaction(tx model.Transaction, index int, loc *time.Location) string {
	if tx.ID != "" {
		return "id:" + tx.ID
	}

	day := invalidDate
	if tx.HasDate() {
		if loc == nil {
			loc = time.Local
		}
		day = tx.Date.In(loc).Format(dayFormat)
	}
	return strings.Join([]string{
		day,
		strings.ToUpper(string(tx.Type)),
		tx.CategoryOrDefault(),
		tx.Amount.StringFixed(2),
		strconv.Itoa(index),
	}, "|")
}

// Transactions fingerprints every element of txns in order.
func Transactions(txns []model.Transaction, loc *time.Location) []string {
	keys := make([]string, len(txns))
	for i, tx := range txns {
		keys[i] = Transaction(tx, i, loc)
	}
	return keys
}

// Insight returns the identity of an insight. An explicit Key is returned
// verbatim. Otherwise the insight is encoded without its id and localized
// text and hashed. If encoding fails, a random id is returned together with
// the error; that insight will not dedupe across passes.
func Insight(in model.Insight) (string, error) {
	if in.Key != "" {
		return in.Key, nil
	}

	in.ID = ""
	in.Title = ""
	in.Description = ""
	data, err := json.Marshal(in)
	if err != nil {
		return uuid.NewString(), err
	}
	return strconv.FormatUint(uint64(Hash(data)), 10), nil
}

// Hash is a 32-bit multiply-xor rolling hash (h = h*33 ^ c, seed 5381).
// It is not collision resistant.
func Hash(data []byte) uint32 {
	h := hashSeed
	for _, c := range data {
		h = (h * 33) ^ uint32(c)
	}
	return h
}

// Assign stamps an ID on every insight that lacks one.
func Assign(insights []model.Insight, log zerolog.Logger) []model.Insight {
	for i := range insights {
		if insights[i].ID != "" {
			continue
		}
		id, err := Insight(insights[i])
		if err != nil {
			log.Warn().Err(err).Str("kind", string(insights[i].Kind)).Str("fallback_id", id).
				Msg("insight could not be encoded, using random id")
		}
		insights[i].ID = id
	}
	return insights
}

// Dedupe drops insights whose ID was already seen. The first occurrence wins
// and relative order is preserved.
func Dedupe(insights []model.Insight) []model.Insight {
	seen := make(map[string]struct{}, len(insights))
	out := make([]model.Insight, 0, len(insights))
	for _, in := range insights {
		if _, dup := seen[in.ID]; dup {
			continue
		}
		seen[in.ID] = struct{}{}
		out = append(out, in)
	}
	return out
}
