package extract

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Runes that mark a numeric token as a date, age, or time rather than money.
const nonCurrencyMarkers = "年月日歳才時分:"

// ParseAmount reports whether a single OCR token is a currency amount and
// returns its value in whole yen. Thousands separators and a 円/¥ marker are
// accepted; parenthesized values are negative (common in printed payslips).
//
// Heuristics for bare digit runs: a 4-digit token in the plausible-year range
// is rejected unless it carries a currency marker or separator, and 1–2 digit
// tokens are rejected outright (ages, hours, item counts). A marked token
// always wins.
func ParseAmount(token string) (int, bool) {
	s := width.Fold.String(strings.TrimSpace(token))
	if s == "" {
		return 0, false
	}

	if strings.ContainsAny(s, nonCurrencyMarkers) {
		return 0, false
	}
	// Date-ish shapes like 2024/06 or 6-25
	if strings.ContainsAny(s, "/") {
		return 0, false
	}

	marked := false
	if strings.HasSuffix(s, "円") {
		s = strings.TrimSuffix(s, "円")
		marked = true
	}
	if strings.HasPrefix(s, "¥") || strings.HasPrefix(s, "￥") {
		s = strings.TrimPrefix(strings.TrimPrefix(s, "¥"), "￥")
		marked = true
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
		negative = true
	}
	if strings.HasPrefix(s, "-") {
		s = strings.TrimPrefix(s, "-")
		negative = true
	}

	separated := strings.Contains(s, ",")
	if separated {
		s = strings.ReplaceAll(s, ",", "")
	}

	if s == "" || len(s) > 10 {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}

	if !marked && !separated {
		if len(s) < 3 {
			return 0, false
		}
		if len(s) == 4 && v >= 1900 && v <= 2100 {
			// Looks like a year
			return 0, false
		}
	}

	if negative {
		v = -v
	}
	return v, true
}

// isNumericNoise reports whether a token is numeric-looking but was rejected
// as an amount (a year, a date, an age). Such tokens must not leak into item
// labels.
func isNumericNoise(token string) bool {
	s := width.Fold.String(strings.TrimSpace(token))
	if s == "" {
		return false
	}

	stripped := strings.Map(func(r rune) rune {
		if strings.ContainsRune(nonCurrencyMarkers+"/.,-()¥￥円", r) {
			return -1
		}
		return r
	}, s)

	if stripped == "" {
		return true
	}
	for _, r := range stripped {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
