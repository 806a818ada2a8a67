// Package classify assigns line items to the payment or deduction side of a
// payslip by keyword matching against the item name.
package classify

import (
	"strings"

	"golang.org/x/text/width"
)

type Category string

const (
	CategoryPayment   Category = "payment"
	CategoryDeduction Category = "deduction"
	// CategoryUnset marks an item that needs manual review; guessing a
	// wrong category is worse than leaving it open.
	CategoryUnset Category = ""
)

// dictionary is an ordered (keywords, category) pair. Evaluation order is
// fixed: the payment dictionary is checked before the deduction dictionary,
// so a name matching both sides resolves to payment deterministically.
type dictionary struct {
	keywords []string
	category Category
}

var dictionaries = []dictionary{
	{
		category: CategoryPayment,
		keywords: []string{
			"基本給",
			"手当",
			"賞与",
			"残業代",
			"時間外",
			"休日出勤",
			"深夜勤務",
			"通勤",
			"交通費",
			"歩合",
			"皆勤",
		},
	},
	{
		category: CategoryDeduction,
		keywords: []string{
			"健康保険",
			"厚生年金",
			"雇用保険",
			"介護保険",
			"社会保険",
			"所得税",
			"住民税",
			"市県民税",
			"組合費",
			"財形",
			"共済",
		},
	},
}

// Normalize folds full/half-width variants and strips all whitespace so that
// trivially different spellings of the same label compare equal.
func Normalize(name string) string {
	folded := width.Fold.String(name)
	return strings.Join(strings.Fields(folded), "")
}

// Classify assigns a category to an item name by substring match against the
// normalized name. No match leaves the category unset. Pure and
// deterministic: the same name always yields the same category.
func Classify(name string) Category {
	normalized := Normalize(name)
	if normalized == "" {
		return CategoryUnset
	}

	for _, dict := range dictionaries {
		for _, kw := range dict.keywords {
			if strings.Contains(normalized, kw) {
				return dict.category
			}
		}
	}
	return CategoryUnset
}

// Valid reports whether s is one of the two concrete categories.
func Valid(s string) bool {
	return Category(s) == CategoryPayment || Category(s) == CategoryDeduction
}
