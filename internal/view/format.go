package view

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is the marketplace currency.
const DefaultCurrency = "SAR"

const (
	dateLayout     = "Jan 2, 2006"
	dateTimeLayout = "Jan 2, 2006 15:04"
	emptyCell      = "-"
)

var (
	numbers = message.NewPrinter(language.English)
	titles  = cases.Title(language.English)
)

// Currency formats an amount as "SAR 1,234.50". An empty code uses
// DefaultCurrency.
func Currency(amount float64, code string) string {
	if code == "" {
		code = DefaultCurrency
	}
	return numbers.Sprintf("%s %.2f", code, amount)
}

// Number groups thousands.
func Number(n int) string {
	return numbers.Sprintf("%d", n)
}

// Date formats t as "Jan 2, 2006". The zero time renders as "-".
func Date(t time.Time) string {
	if t.IsZero() {
		return emptyCell
	}
	return t.Format(dateLayout)
}

// DateTime formats t with minutes.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return emptyCell
	}
	return t.Format(dateTimeLayout)
}

// Badge maps a raw status to its display label: "pending_review" becomes
// "Pending Review".
func Badge(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return "Unknown"
	}
	return titles.String(strings.NewReplacer("_", " ", "-", " ").Replace(status))
}

// Percent returns value as a percentage of total rounded to decimals
// places. A zero total yields 0.
func Percent(value, total float64, decimals int) float64 {
	if total == 0 {
		return 0
	}
	scale := math.Pow10(max(decimals, 0))
	return math.Round(value/total*100*scale) / scale
}

// Truncate shortens s to n runes, ending with "...".
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= 3 {
		return string([]rune(s)[:n])
	}
	return string([]rune(s)[:n-3]) + "..."
}

// OrDash renders an empty string as "-".
func OrDash(s string) string {
	if s == "" {
		return emptyCell
	}
	return s
}
