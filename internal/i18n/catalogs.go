package i18n

// Message keys used by the insight generator.
const (
	KeyDeltaIncreaseTitle    = "insights.delta.increase.title"
	KeyDeltaIncreaseBody     = "insights.delta.increase.description"
	KeyDeltaDecreaseTitle    = "insights.delta.decrease.title"
	KeyDeltaDecreaseBody     = "insights.delta.decrease.description"
	KeyBackfillIncreaseTitle = "insights.backfill.increase.title"
	KeyBackfillDecreaseTitle = "insights.backfill.decrease.title"
	KeyBackfillBody          = "insights.backfill.description"
	KeySpotlightTitle        = "insights.spotlight.title"
	KeySpotlightBody         = "insights.spotlight.description"
	KeyEventExpenseTitle     = "insights.event.expense.title"
	KeyEventIncomeTitle      = "insights.event.income.title"
	KeyEventBody             = "insights.event.description"
)

var catalogs = map[string]map[string]string{
	"en": {
		KeyDeltaIncreaseTitle:    "{{category}} spending up {{percent}}%",
		KeyDeltaIncreaseBody:     "You spent {{current}} on {{category}} in {{month}}, compared with {{previous}} the month before.",
		KeyDeltaDecreaseTitle:    "{{category}} spending down {{percent}}%",
		KeyDeltaDecreaseBody:     "You spent {{current}} on {{category}} in {{month}}, compared with {{previous}} the month before.",
		KeyBackfillIncreaseTitle: "{{month}}: {{category}} now up {{percent}}%",
		KeyBackfillDecreaseTitle: "{{month}}: {{category}} now down {{percent}}%",
		KeyBackfillBody:          "A late entry changed {{month}}: {{category}} totals {{current}} against {{previous}} the month before.",
		KeySpotlightTitle:        "Largest expense in {{month}}",
		KeySpotlightBody:         "{{description}} ({{category}}) on {{date}}: {{amount}}",
		KeyEventExpenseTitle:     "New expense recorded",
		KeyEventIncomeTitle:      "New income recorded",
		KeyEventBody:             "{{description}}: {{amount}} in {{category}} on {{date}}",
	},
	"de": {
		KeyDeltaIncreaseTitle:    "Ausgaben für {{category}} um {{percent}} % gestiegen",
		KeyDeltaIncreaseBody:     "Im {{month}} hast du {{current}} für {{category}} ausgegeben, im Vormonat {{previous}}.",
		KeyDeltaDecreaseTitle:    "Ausgaben für {{category}} um {{percent}} % gesunken",
		KeyDeltaDecreaseBody:     "Im {{month}} hast du {{current}} für {{category}} ausgegeben, im Vormonat {{previous}}.",
		KeyBackfillIncreaseTitle: "{{month}}: {{category}} jetzt {{percent}} % höher",
		KeyBackfillDecreaseTitle: "{{month}}: {{category}} jetzt {{percent}} % niedriger",
		KeyBackfillBody:          "Ein nachgetragener Eintrag ändert {{month}}: {{category}} liegt bei {{current}}, im Vormonat {{previous}}.",
		KeySpotlightTitle:        "Größte Ausgabe im {{month}}",
		KeySpotlightBody:         "{{description}} ({{category}}) am {{date}}: {{amount}}",
		KeyEventExpenseTitle:     "Neue Ausgabe erfasst",
		KeyEventIncomeTitle:      "Neue Einnahme erfasst",
		KeyEventBody:             "{{description}}: {{amount}} in {{category}} am {{date}}",
	},
}
