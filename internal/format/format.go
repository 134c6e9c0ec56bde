// Package format turns raw values into French display strings and status
// badges for the storefront and the back office.
package format

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// CurrencySymbol is appended to every formatted amount.
const CurrencySymbol = "FCFA"

// nbsp keeps a number and its grouping on one line.
const nbsp = "\u00a0"

// Grouping directive for go-humanize: no-break space thousands, no decimals.
const currencyPattern = "#" + nbsp + "###."

// Currency formats an amount with French digit grouping and no decimals,
// rounding half away from zero: 1234567.5 -> "1 234 568 FCFA".
func Currency(amount decimal.Decimal) string {
	return CurrencyInt(amount.Round(0).IntPart())
}

// CurrencyInt is Currency for whole amounts.
func CurrencyInt(amount int64) string {
	return humanize.FormatInteger(currencyPattern, int(amount)) + nbsp + CurrencySymbol
}

var monthsLong = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

var monthsShort = [...]string{
	"janv.", "févr.", "mars", "avr.", "mai", "juin",
	"juil.", "août", "sept.", "oct.", "nov.", "déc.",
}

// Date renders t as "15 janvier 2024" in t's own location.
func Date(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), monthsLong[t.Month()-1], t.Year())
}

// DateTime renders t as "15 janv. 2024 à 14:30".
func DateTime(t time.Time) string {
	return fmt.Sprintf("%d %s %d à %02d:%02d", t.Day(), monthsShort[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// Truncate shortens text to max runes followed by "...". Text that already
// fits is returned unchanged.
func Truncate(text string, max int) string {
	if max < 0 {
		max = 0
	}
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	return string([]rune(text)[:max]) + "..."
}
