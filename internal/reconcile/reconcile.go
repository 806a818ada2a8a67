// Package reconcile computes a payslip's aggregate figures from its line
// items and flags inconsistencies. It never fails: every problem becomes an
// advisory warning, recomputed from scratch on each call.
package reconcile

import (
	"fmt"

	"github.com/maikimilk/KyuyoBiyori/internal/classify"
	"github.com/maikimilk/KyuyoBiyori/internal/extract"
)

// Item is one payslip line as the engine sees it. Amount is nil while the
// user is still editing; Category is unset until classified or assigned.
type Item struct {
	Name     string
	Amount   *int
	Category classify.Category
}

// Complete reports whether the item satisfies the save invariant: a set
// category and a non-nil amount.
func (i Item) Complete() bool {
	return i.Amount != nil && classify.Valid(string(i.Category))
}

// Result holds the recomputed aggregates and the warnings for one pass.
// Aggregates are always derived from the items, never cached.
type Result struct {
	Gross     int
	Deduction int
	Net       int
	Warnings  []string
}

// Reconcile sums payment and deduction items, then compares the computed
// figures against the declared totals. Unclassified or amount-less items
// contribute to neither sum and each produces a warning. A declared-vs-
// computed mismatch (exact equality, no tolerance) produces a warning but
// never blocks anything. Running twice on unchanged input yields identical
// output.
func Reconcile(items []Item, declared extract.Totals) Result {
	res := Result{Warnings: []string{}}

	for _, item := range items {
		if item.Amount == nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("金額が未設定の項目があります: %s", item.Name))
			continue
		}
		switch item.Category {
		case classify.CategoryPayment:
			res.Gross += *item.Amount
		case classify.CategoryDeduction:
			res.Deduction += *item.Amount
		default:
			res.Warnings = append(res.Warnings, fmt.Sprintf("未分類の項目があります: %s", item.Name))
		}
	}

	res.Net = res.Gross - res.Deduction

	mismatch := false
	if declared.Gross != nil && *declared.Gross != res.Gross {
		mismatch = true
	}
	if declared.Deduction != nil && *declared.Deduction != res.Deduction {
		mismatch = true
	}
	if declared.Net != nil && *declared.Net != res.Net {
		mismatch = true
	}
	if mismatch {
		res.Warnings = append(res.Warnings, "内訳と合計が一致しません")
	}

	return res
}
