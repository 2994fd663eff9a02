package analytics

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/budgetwatch/internal/fingerprint"
	"github.com/cleared-dev/budgetwatch/internal/i18n"
	"github.com/cleared-dev/budgetwatch/internal/id"
	"github.com/cleared-dev/budgetwatch/internal/model"
)

// Generator derives budget insights from a transaction snapshot.
type Generator struct {
	threshold  decimal.Decimal
	loc        *time.Location
	translator i18n.Translator
	log        zerolog.Logger
}

// NewGenerator creates a Generator. A nil loc means time.Local and a nil
// translator means English.
func NewGenerator(threshold float64, loc *time.Location, tr i18n.Translator, log zerolog.Logger) *Generator {
	if loc == nil {
		loc = time.Local
	}
	if tr == nil {
		tr = i18n.New("en")
	}
	return &Generator{
		threshold:  decimal.NewFromFloat(threshold),
		loc:        loc,
		translator: tr,
		log:        log,
	}
}

// Result is the output of one generation pass.
type Result struct {
	Insights []model.Insight
	// Keys is the fingerprint snapshot of the input, in input order.
	Keys []string
}

// Generate runs the current-month delta, spotlight, new-transaction and
// backfill passes and returns their concatenation with ids assigned and
// duplicates removed. previousKeys is the snapshot from the last pass; a nil
// snapshot means none was recorded and nothing counts as new, while an empty
// one means the last pass saw no transactions.
func (g *Generator) Generate(txns []model.Transaction, now time.Time, previousKeys []string) Result {
	current := model.MonthOf(now.In(g.loc))
	keys := fingerprint.Transactions(txns, g.loc)
	cache := newDeltaCache(txns, g.loc)

	if undated := countUndated(txns); undated > 0 {
		g.log.Warn().Int("count", undated).Msg("skipping transactions without a valid date")
	}

	var out []model.Insight
	out = append(out, g.currentDeltas(txns, current, cache)...)
	if spot, ok := g.spotlight(txns, keys, current); ok {
		out = append(out, spot)
	}
	events, backfills := g.newTransactions(txns, keys, previousKeys, current, cache)
	out = append(out, events...)
	out = append(out, backfills...)

	out = fingerprint.Dedupe(fingerprint.Assign(out, g.log))
	g.log.Debug().Str("month", current.String()).Int("transactions", len(txns)).
		Int("insights", len(out)).Msg("insights generated")

	return Result{Insights: out, Keys: keys}
}

func (g *Generator) currentDeltas(txns []model.Transaction, current model.YearMonth, cache *deltaCache) []model.Insight {
	var categories []string
	seen := make(map[string]bool)
	for _, tx := range txns {
		if !tx.IsExpense() || !current.Contains(tx.Date, g.loc) {
			continue
		}
		c := tx.CategoryOrDefault()
		if !seen[c] {
			seen[c] = true
			categories = append(categories, c)
		}
	}

	var out []model.Insight
	for _, c := range categories {
		d := cache.get(current, c)
		if dir := d.Classify(g.threshold); dir != Flat {
			out = append(out, g.deltaInsight(d, dir, false))
		}
	}
	return out
}

func (g *Generator) spotlight(txns []model.Transaction, keys []string, current model.YearMonth) (model.Insight, bool) {
	best := -1
	for i, tx := range txns {
		if !tx.IsExpense() || !current.Contains(tx.Date, g.loc) {
			continue
		}
		if best < 0 || tx.Magnitude().GreaterThan(txns[best].Magnitude()) {
			best = i
		}
	}
	if best < 0 {
		return model.Insight{}, false
	}

	tx := txns[best]
	vars := g.txVars(tx)
	vars["month"] = current.String()
	return model.Insight{
		Key:         id.SpotlightKey(current.String(), keys[best]),
		Kind:        model.KindSpotlight,
		Month:       current.String(),
		Category:    tx.CategoryOrDefault(),
		Fingerprint: keys[best],
		Amount:      tx.Magnitude(),
		Title:       g.translator.T(i18n.KeySpotlightTitle, "Largest expense in {{month}}", vars),
		Description: g.translator.T(i18n.KeySpotlightBody, "{{description}} ({{category}}) on {{date}}: {{amount}}", vars),
	}, true
}

// newTransactions emits an event per transaction missing from previousKeys,
// plus backfill deltas for new expenses dated before the current month.
func (g *Generator) newTransactions(txns []model.Transaction, keys, previousKeys []string, current model.YearMonth, cache *deltaCache) (events, backfills []model.Insight) {
	if previousKeys == nil {
		g.log.Debug().Int("transactions", len(txns)).Msg("no previous snapshot, recording baseline")
		return nil, nil
	}
	seen := make(map[string]struct{}, len(previousKeys))
	for _, k := range previousKeys {
		seen[k] = struct{}{}
	}

	for i, tx := range txns {
		if _, ok := seen[keys[i]]; ok {
			continue
		}
		events = append(events, g.eventInsight(tx, keys[i]))

		if !tx.IsExpense() || !tx.HasDate() {
			continue
		}
		month := model.MonthOf(tx.Date.In(g.loc))
		if !month.Before(current) {
			continue
		}
		d := cache.get(month, tx.CategoryOrDefault())
		if dir := d.Classify(g.threshold); dir != Flat {
			backfills = append(backfills, g.deltaInsight(d, dir, true))
		}
	}
	return events, backfills
}

func (g *Generator) deltaInsight(d *Delta, dir Direction, backfill bool) model.Insight {
	vars := i18n.Vars{
		"category": d.Category,
		"month":    d.Month.String(),
		"current":  d.Current,
		"previous": d.Previous,
		"percent":  d.Percent(),
	}

	in := model.Insight{
		Month:    d.Month.String(),
		Category: d.Category,
		Current:  d.Current,
		Previous: d.Previous,
		Percent:  d.Percent(),
	}
	switch {
	case backfill && dir == Increase:
		in.Kind = model.KindBackfillIncrease
		in.Title = g.translator.T(i18n.KeyBackfillIncreaseTitle, "{{month}}: {{category}} now up {{percent}}%", vars)
	case backfill:
		in.Kind = model.KindBackfillDecrease
		in.Title = g.translator.T(i18n.KeyBackfillDecreaseTitle, "{{month}}: {{category}} now down {{percent}}%", vars)
	case dir == Increase:
		in.Kind = model.KindDeltaIncrease
		in.Title = g.translator.T(i18n.KeyDeltaIncreaseTitle, "{{category}} spending up {{percent}}%", vars)
	default:
		in.Kind = model.KindDeltaDecrease
		in.Title = g.translator.T(i18n.KeyDeltaDecreaseTitle, "{{category}} spending down {{percent}}%", vars)
	}

	if backfill {
		in.Key = id.BackfillKey(dir.String(), in.Month, d.Category)
		in.Description = g.translator.T(i18n.KeyBackfillBody,
			"A late entry changed {{month}}: {{category}} totals {{current}} against {{previous}} the month before.", vars)
		return in
	}

	in.Key = id.DeltaKey(dir.String(), in.Month, d.Category)
	bodyKey := i18n.KeyDeltaIncreaseBody
	if dir == Decrease {
		bodyKey = i18n.KeyDeltaDecreaseBody
	}
	in.Description = g.translator.T(bodyKey,
		"You spent {{current}} on {{category}} in {{month}}, compared with {{previous}} the month before.", vars)
	return in
}

func (g *Generator) eventInsight(tx model.Transaction, key string) model.Insight {
	vars := g.txVars(tx)
	titleKey, title := i18n.KeyEventIncomeTitle, "New income recorded"
	if tx.IsExpense() {
		titleKey, title = i18n.KeyEventExpenseTitle, "New expense recorded"
	}

	in := model.Insight{
		Key:         id.EventKey(key),
		Kind:        model.KindEvent,
		Category:    tx.CategoryOrDefault(),
		Fingerprint: key,
		Amount:      tx.Magnitude(),
		Title:       g.translator.T(titleKey, title, vars),
		Description: g.translator.T(i18n.KeyEventBody, "{{description}}: {{amount}} in {{category}} on {{date}}", vars),
	}
	if tx.HasDate() {
		in.Month = model.MonthOf(tx.Date.In(g.loc)).String()
	}
	return in
}

func (g *Generator) txVars(tx model.Transaction) i18n.Vars {
	desc := strings.TrimSpace(tx.Description)
	if desc == "" {
		desc = tx.CategoryOrDefault()
	}
	date := "?"
	if tx.HasDate() {
		date = tx.Date.In(g.loc).Format("2006-01-02")
	}
	return i18n.Vars{
		"description": desc,
		"category":    tx.CategoryOrDefault(),
		"amount":      tx.Magnitude(),
		"date":        date,
		"type":        strings.ToLower(string(tx.Type)),
	}
}

func countUndated(txns []model.Transaction) int {
	n := 0
	for _, tx := range txns {
		if !tx.HasDate() {
			n++
		}
	}
	return n
}
