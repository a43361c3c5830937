package domain

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxPrice is the exclusive upper bound for an accepted amount.
const MaxPrice = 100000.0

var (
	// "R$ 1.234,56", "1 234,56", "12,34", "1.99": optional thousands groups,
	// then a comma or dot followed by exactly two digits
	moneyPattern = regexp.MustCompile(`(\d{1,3}(?:[. ]\d{3})+|\d+)\s*[,.](\d{2})(?:\D|$)`)

	// same amount shape with an optional currency prefix, for stripping
	moneySpanPattern = regexp.MustCompile(`(?i)(?:r\$\s*)?(?:\d{1,3}(?:[. ]\d{3})+|\d+)\s*[,.]\d{2}(?:\D|$)`)

	thousandsReplacer = strings.NewReplacer(".", "", " ", "")
)

// ParseMoney extracts the first amount found in text. It reports false when
// there is no amount or the amount falls outside (0, MaxPrice).
func ParseMoney(text string) (float64, bool) {
	m := moneyPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	amount, err := strconv.ParseFloat(thousandsReplacer.Replace(m[1])+"."+m[2], 64)
	if err != nil || !ValidPrice(amount) {
		return 0, false
	}
	return amount, true
}

// ValidPrice reports whether an amount may enter aggregation.
func ValidPrice(amount float64) bool {
	return amount > 0 && amount < MaxPrice
}

// StripMoney removes every amount (with its currency prefix) from text.
func StripMoney(text string) string {
	return moneySpanPattern.ReplaceAllStringFunc(text, func(span string) string {
		// keep the trailing delimiter consumed by the pattern
		last, _ := utf8.DecodeLastRuneInString(span)
		if unicode.IsDigit(last) {
			return " "
		}
		return " " + string(last)
	})
}

// Resolve converts a collaborator price into an amount.
func (p PriceInput) Resolve() (float64, bool) {
	if p.IsNumber {
		if !ValidPrice(p.Value) {
			return 0, false
		}
		return p.Value, true
	}
	return ParseMoney(p.Text)
}
