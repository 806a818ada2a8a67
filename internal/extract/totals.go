package extract

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// Totals are the declared summary figures printed on the payslip itself,
// distinct from anything computed off the itemized lines. Nil means the
// figure was not found.
type Totals struct {
	Gross     *int
	Deduction *int
	Net       *int
}

var totalPattern = regexp.MustCompile(`(支給合計|総支給額|控除合計|差引支給額|手取額)[^\d\-]*([\-\d,()]+)`)

// summaryKeywords marks rows the parser must route to Totals instead of
// emitting as line items.
var summaryKeywords = []string{"支給合計", "総支給額", "控除合計", "差引支給額", "手取額", "合計"}

// ParseTotals scans OCR text for declared summary figures. When only the net
// and deduction totals are printed the gross is inferred as their sum.
func ParseTotals(text string) Totals {
	folded := width.Fold.String(text)

	var t Totals
	for _, m := range totalPattern.FindAllStringSubmatch(folded, -1) {
		key, raw := m[1], m[2]
		v, err := cleanNumber(raw)
		if err != nil {
			continue
		}
		n := v
		switch {
		case strings.Contains(key, "支給合計"), strings.Contains(key, "総支給額"):
			t.Gross = &n
		case strings.Contains(key, "控除合計"):
			t.Deduction = &n
		default: // 差引支給額 / 手取額
			t.Net = &n
		}
	}

	if t.Gross == nil && t.Net != nil && t.Deduction != nil {
		gross := *t.Net + *t.Deduction
		t.Gross = &gross
	}

	return t
}

// cleanNumber strips thousands separators and treats parenthesized figures
// as negative.
func cleanNumber(s string) (int, error) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "(", "-")
	s = strings.ReplaceAll(s, ")", "")
	return strconv.Atoi(s)
}

func isSummaryLabel(name string) bool {
	folded := width.Fold.String(name)
	for _, kw := range summaryKeywords {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}
