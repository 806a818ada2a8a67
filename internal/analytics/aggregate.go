package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/maikimilk/KyuyoBiyori/internal/classify"
	"github.com/maikimilk/KyuyoBiyori/internal/payslip"
	"github.com/maikimilk/KyuyoBiyori/internal/reconcile"
)

const monthKeyLayout = "2006-01"

// totalsOf recomputes a payslip's figures from its items so aggregates can
// never disagree with the detail view.
func totalsOf(p *payslip.Payslip) reconcile.Result {
	return reconcile.Reconcile(p.EngineItems(), p.DeclaredTotals())
}

func monthKey(p *payslip.Payslip) (string, bool) {
	if p.Date == nil {
		return "", false
	}
	return p.Date.Format(monthKeyLayout), true
}

// periodKey returns the grouping label for one payslip: YYYY-MM for monthly,
// YYYY for yearly. Undated payslips have no place on the timeline.
func periodKey(p *payslip.Payslip, period string) (string, bool) {
	if p.Date == nil {
		return "", false
	}
	if period == PeriodYearly {
		return p.Date.Format("2006"), true
	}
	return p.Date.Format(monthKeyLayout), true
}

// Summarize compares the most recent salary month against the one before it,
// figure by figure, and totals the current year's bonuses. Undated payslips
// are excluded: they cannot be placed on the timeline.
func Summarize(payslips []payslip.Payslip, now time.Time) SummaryResponse {
	byMonth := map[string]MonthTotals{}
	var months []string
	bonusTotal := 0
	currentYear := now.Format("2006")

	for i := range payslips {
		p := &payslips[i]
		key, ok := monthKey(p)
		if !ok {
			continue
		}
		rec := totalsOf(p)

		switch p.Kind {
		case payslip.KindBonus:
			if strings.HasPrefix(key, currentYear) {
				bonusTotal += rec.Net
			}
		default:
			if _, seen := byMonth[key]; !seen {
				months = append(months, key)
			}
			totals := byMonth[key]
			totals.Gross += rec.Gross
			totals.Deduction += rec.Deduction
			totals.Net += rec.Net
			byMonth[key] = totals
		}
	}

	sort.Strings(months)

	res := SummaryResponse{YearBonusTotal: bonusTotal}
	if len(months) == 0 {
		return res
	}

	latest := months[len(months)-1]
	res.LatestMonth = latest
	res.Latest = byMonth[latest]

	if len(months) > 1 {
		previous := months[len(months)-2]
		prev := byMonth[previous]
		res.PreviousMonth = previous
		res.Previous = &prev
		res.Diff = &MonthTotals{
			Gross:     res.Latest.Gross - prev.Gross,
			Deduction: res.Latest.Deduction - prev.Deduction,
			Net:       res.Latest.Net - prev.Net,
		}
	}

	return res
}

// Series builds a sparse time series of the chosen figure grouped by the
// requested period: one point per YYYY-MM (monthly) or YYYY (yearly) that
// has data, never zero-filled. Kind narrows to salary or bonus; empty means
// everything.
func Series(payslips []payslip.Payslip, target, period, kind string) StatsResponse {
	byPeriod := map[string]int{}
	var labels []string

	for i := range payslips {
		p := &payslips[i]
		key, ok := periodKey(p, period)
		if !ok {
			continue
		}
		if kind != "" && p.Kind != kind {
			continue
		}

		rec := totalsOf(p)
		var value int
		switch target {
		case TargetGross:
			value = rec.Gross
		case TargetDeduction:
			value = rec.Deduction
		default:
			value = rec.Net
		}

		if _, seen := byPeriod[key]; !seen {
			labels = append(labels, key)
		}
		byPeriod[key] += value
	}

	sort.Strings(labels)

	data := make([]int, len(labels))
	for i, label := range labels {
		data[i] = byPeriod[label]
	}

	return StatsResponse{Labels: labels, Data: data}
}

// BreakdownByName totals item amounts per normalized item name, so full-width
// and half-width spellings of the same line merge. The first spelling seen
// (trimmed) becomes the display name. Sorted by total descending, name
// ascending on ties.
func BreakdownByName(payslips []payslip.Payslip, year string, category classify.Category) []BreakdownEntry {
	totals := map[string]int{}
	display := map[string]string{}
	var order []string

	for i := range payslips {
		p := &payslips[i]
		if year != "" {
			key, ok := monthKey(p)
			if !ok || !strings.HasPrefix(key, year) {
				continue
			}
		}

		for _, item := range p.Items {
			if item.Amount == nil {
				continue
			}
			if category != "" && classify.Category(item.Category) != category {
				continue
			}

			norm := classify.Normalize(item.Name)
			if norm == "" {
				continue
			}
			if _, seen := totals[norm]; !seen {
				order = append(order, norm)
				display[norm] = strings.TrimSpace(item.Name)
			}
			totals[norm] += *item.Amount
		}
	}

	entries := make([]BreakdownEntry, 0, len(order))
	for _, norm := range order {
		entries = append(entries, BreakdownEntry{
			Name:  display[norm],
			Total: totals[norm],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Total != entries[j].Total {
			return entries[i].Total > entries[j].Total
		}
		return entries[i].Name < entries[j].Name
	})

	return entries
}
