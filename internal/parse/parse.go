// Package parse turns raw form strings into canonical values.
package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

// Date is a calendar date without time or zone.
type Date struct {
	Day   int
	Month int
	Year  int
}

// NewDate validates that day/month/year form a real calendar date.
func NewDate(day, month, year int) (Date, error) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if year < 1 || t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return Date{}, invalid(strconv.Itoa(day)+"/"+strconv.Itoa(month)+"/"+strconv.Itoa(year), "not a calendar date")
	}
	return Date{Day: day, Month: month, Year: year}, nil
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	return Date{Day: t.Day(), Month: int(t.Month()), Year: t.Year()}
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// String renders DD/MM/YYYY.
func (d Date) String() string {
	return d.Time().Format("02/01/2006")
}

const dateFormats = "expected DDMMYYYY, DDMMYY or DD/MM/YYYY"

var (
	nonDigits  = regexp.MustCompile(`\D+`)
	digitGroup = regexp.MustCompile(`\d+`)
	plainMoney = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)
)

func digitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// ParseDate accepts three separator-delimited groups read as day, month
// and year. Anything else has its non-digits stripped and must leave 8
// digits (DDMMYYYY) or 6 digits (DDMMYY, century 2000).
func ParseDate(input string) (Date, error) {
	s := strings.TrimSpace(input)
	groups := digitGroup.FindAllString(s, -1)

	var dd, mm, yy string
	if len(groups) == 3 && len(groups[0]) <= 2 && len(groups[1]) <= 2 &&
		(len(groups[2]) == 2 || len(groups[2]) == 4) {
		dd, mm, yy = groups[0], groups[1], groups[2]
	} else {
		// Otherwise separators are noise: "0102/2024" reads as 01022024.
		switch g := digitsOnly(s); len(g) {
		case 8:
			dd, mm, yy = g[0:2], g[2:4], g[4:8]
		case 6:
			dd, mm, yy = g[0:2], g[2:4], g[4:6]
		default:
			return Date{}, invalid(input, dateFormats)
		}
	}

	day, _ := strconv.Atoi(dd)
	month, _ := strconv.Atoi(mm)
	year, _ := strconv.Atoi(yy)
	if len(yy) == 2 {
		year += 2000
	}

	d, err := NewDate(day, month, year)
	if err != nil {
		return Date{}, invalid(input, "not a calendar date; "+dateFormats)
	}
	return d, nil
}

// ParseMoney reads a pt-BR formatted amount ("R$ 1.234,56") or a plain
// decimal ("1234.56") and rounds it half-up to two places.
func ParseMoney(input string) (decimal.Decimal, error) {
	s := strings.TrimSpace(input)
	if len(s) >= 2 && strings.EqualFold(s[:2], "R$") {
		s = strings.TrimSpace(s[2:])
	}
	s = strings.ReplaceAll(s, " ", "")

	if i := strings.Index(s, ","); i >= 0 {
		intPart := strings.ReplaceAll(s[:i], ".", "")
		s = intPart + "." + s[i+1:]
	}
	if !plainMoney.MatchString(s) {
		return decimal.Decimal{}, invalid(input, "expected an amount like 1.234,56")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, invalid(input, err.Error())
	}
	return d.Round(2), nil
}

// ParseInteger keeps only the digits of input.
func ParseInteger(input string) (int64, error) {
	s := digitsOnly(input)
	if s == "" {
		return 0, invalid(input, "expected a whole number")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, invalid(input, "number out of range")
	}
	return n, nil
}

// ParseDocumentNumber formats CPF (11 digits) and CNPJ (14 digits) numbers.
// Anything else is returned trimmed, unchanged.
func ParseDocumentNumber(input string) string {
	d := digitsOnly(input)
	switch len(d) {
	case 11:
		return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
	case 14:
		return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
	default:
		return strings.TrimSpace(input)
	}
}

// PhoneRegion is the default region used to interpret phone numbers
// without an international prefix.
const PhoneRegion = "BR"

// ParsePhone formats a phone number in national notation. Numbers
// libphonenumber cannot validate are returned trimmed, unchanged.
func ParsePhone(input string) string {
	s := strings.TrimSpace(input)
	p, err := libphonenumber.Parse(s, PhoneRegion)
	if err != nil || !libphonenumber.IsValidNumber(p) {
		return s
	}
	if int(p.GetCountryCode()) != libphonenumber.GetCountryCodeForRegion(PhoneRegion) {
		return libphonenumber.Format(p, libphonenumber.INTERNATIONAL)
	}
	return libphonenumber.Format(p, libphonenumber.NATIONAL)
}
