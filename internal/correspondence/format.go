// internal/correspondence/format.go
package correspondence

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// Accepted input layouts for event dates, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"02.01.2006",
	"2.1.2006",
}

var weekdayNames = map[Locale][7]string{
	LocaleEN: {"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	LocaleDE: {"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"},
}

var monthNames = map[Locale][12]string{
	LocaleEN: {"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
	LocaleDE: {"Januar", "Februar", "März", "April", "Mai", "Juni",
		"Juli", "August", "September", "Oktober", "November", "Dezember"},
}

var currencySymbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"CHF": "CHF",
}

// Formatter renders dates and amounts for one locale and currency.
type Formatter struct {
	locale   Locale
	currency string
}

func NewFormatter(locale Locale, currency string) Formatter {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "EUR"
	}
	if locale != LocaleDE {
		locale = LocaleEN
	}
	return Formatter{locale: locale, currency: currency}
}

// FormatDate renders a long date ("Sunday, 15 March 2026" / "Sonntag, 15. März 2026").
// Input it cannot parse is returned unchanged.
func (f Formatter) FormatDate(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return value
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, trimmed)
		if err != nil {
			continue
		}
		weekday := weekdayNames[f.locale][t.Weekday()]
		month := monthNames[f.locale][t.Month()-1]
		if f.locale == LocaleDE {
			return fmt.Sprintf("%s, %d. %s %d", weekday, t.Day(), month, t.Year())
		}
		return fmt.Sprintf("%s, %d %s %d", weekday, t.Day(), month, t.Year())
	}
	return value
}

// FormatCurrency renders an amount with two decimals and the currency symbol.
func (f Formatter) FormatCurrency(amount float64) string {
	symbol, ok := currencySymbols[f.currency]
	if !ok {
		symbol = f.currency
	}
	if f.locale == LocaleDE {
		return humanize.FormatFloat("#.###,##", amount) + " " + symbol
	}
	number := humanize.FormatFloat("#,###.##", amount)
	if utf8.RuneCountInString(symbol) > 1 {
		symbol += " "
	}
	if strings.HasPrefix(number, "-") {
		return "-" + symbol + strings.TrimPrefix(number, "-")
	}
	return symbol + number
}
