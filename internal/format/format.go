// Package format renders canonical values for pt-BR documents.
package format

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"docgen/internal/parse"
)

// CurrencySymbol prefixes every displayed amount.
const CurrencySymbol = "R$"

var months = [...]string{"", "janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro"}

// Money renders "R$ 1.234,56 (um mil duzentos e trinta e quatro reais e
// cinquenta e seis centavos)".
func Money(amount decimal.Decimal) string {
	return CurrencySymbol + " " + MoneyNumeric(amount) + " (" + MoneyWords(amount) + ")"
}

// MoneyNumeric renders the numeric part only: "1.234,56".
func MoneyNumeric(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	return sign + group(intPart) + "," + frac
}

// Integer renders n with "." as the thousands separator.
func Integer(n int64) string {
	s := strconv.FormatInt(n, 10)
	if n < 0 {
		return "-" + group(s[1:])
	}
	return group(s)
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// MonthName returns the lower-case pt-BR month name, optionally title-cased.
func MonthName(month int, capitalize bool) string {
	if month < 1 || month > 12 {
		return ""
	}
	if capitalize {
		// Casers carry state; one per call keeps this safe across requests.
		return cases.Title(language.BrazilianPortuguese).String(months[month])
	}
	return months[month]
}

// Date renders "5 de março de 2024".
func Date(d parse.Date, capitalizeMonth bool) string {
	return strconv.Itoa(d.Day) + " de " + MonthName(d.Month, capitalizeMonth) + " de " + strconv.Itoa(d.Year)
}

// DateWords renders the date with day and year spelled out.
func DateWords(d parse.Date) string {
	day := NumberWords(int64(d.Day))
	if d.Day == 1 {
		day = "primeiro"
	}
	return day + " de " + MonthName(d.Month, false) + " de " + NumberWords(int64(d.Year))
}
