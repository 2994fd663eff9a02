// Package i18n renders localized insight text.
package i18n

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Vars holds interpolation values for a message template.
type Vars map[string]any

// Translator renders the message for key, falling back to the given default
// template when the key is unknown.
type Translator interface {
	T(key, fallback string, vars Vars) string
}

var (
	supported   = []language.Tag{language.English, language.German}
	matcher     = language.NewMatcher(supported)
	placeholder = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)
)

// Catalog is a Translator for one locale. Numbers are formatted with the
// locale's separators.
type Catalog struct {
	tag      language.Tag
	printer  *message.Printer
	messages map[string]string
}

// New returns the catalog best matching locale. Unknown or malformed locales
// get English.
func New(locale string) *Catalog {
	tag := language.English
	if parsed, err := language.Parse(locale); err == nil {
		_, idx, _ := matcher.Match(parsed)
		tag = supported[idx]
	}
	base, _ := tag.Base()
	return &Catalog{
		tag:      tag,
		printer:  message.NewPrinter(tag),
		messages: catalogs[base.String()],
	}
}

// Locale returns the matched language tag.
func (c *Catalog) Locale() string {
	return c.tag.String()
}

// T implements Translator.
func (c *Catalog) T(key, fallback string, vars Vars) string {
	tmpl, ok := c.messages[key]
	if !ok {
		tmpl = fallback
	}
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		v, ok := vars[name]
		if !ok {
			return m
		}
		return c.format(v)
	})
}

func (c *Catalog) format(v any) string {
	switch x := v.(type) {
	case decimal.Decimal:
		f, _ := x.Float64()
		return c.printer.Sprintf("%.2f", f)
	case float64:
		return c.printer.Sprintf("%.1f", x)
	case int:
		return c.printer.Sprintf("%d", x)
	case time.Time:
		return x.Format("2006-01-02")
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
