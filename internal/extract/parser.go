package extract

import (
	"sort"
	"strings"

	"github.com/maikimilk/KyuyoBiyori/internal/ocr"
)

// Candidate is one extracted (label, amount) pair, before classification.
type Candidate struct {
	Name   string
	Amount int
}

// Fragments on the same printed row rarely differ by more than a couple of
// points vertically; anything further apart is a new row.
const rowYTolerance = 8.0

// maxPendingRows bounds how many consecutive label-only rows may merge into
// the label of the next amount. Real payslips split a label across at most
// two fragments.
const maxPendingRows = 2

// Parse turns ordered OCR fragments into ordered (name, amount) candidates.
// It never fails: fragments that cannot be paired are dropped, and garbage
// input yields an empty slice. Identical input always yields identical
// output.
func Parse(fragments []ocr.Fragment) []Candidate {
	return pairRows(buildRows(fragments))
}

// ParseText parses a flat text blob (one logical row per line) when the OCR
// backend provides no positions.
func ParseText(text string) []Candidate {
	return Parse([]ocr.Fragment{{Text: text}})
}

// buildRows groups fragments into logical rows of whitespace-split tokens.
// Positioned fragments are clustered by Y and ordered by X inside a row;
// otherwise line breaks are the row boundaries.
func buildRows(fragments []ocr.Fragment) [][]string {
	if len(fragments) == 0 {
		return nil
	}

	positioned := len(fragments) > 0
	for _, f := range fragments {
		if !f.HasPosition {
			positioned = false
			break
		}
	}

	if !positioned {
		var rows [][]string
		for _, f := range fragments {
			for _, line := range strings.Split(f.Text, "\n") {
				tokens := strings.Fields(line)
				if len(tokens) > 0 {
					rows = append(rows, tokens)
				}
			}
		}
		return rows
	}

	ordered := make([]ocr.Fragment, len(fragments))
	copy(ordered, fragments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Y < ordered[j].Y
	})

	var groups [][]ocr.Fragment
	for _, f := range ordered {
		if n := len(groups); n > 0 && f.Y-groups[n-1][0].Y <= rowYTolerance {
			groups[n-1] = append(groups[n-1], f)
			continue
		}
		groups = append(groups, []ocr.Fragment{f})
	}

	var rows [][]string
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].X < group[j].X
		})
		var tokens []string
		for _, f := range group {
			tokens = append(tokens, strings.Fields(f.Text)...)
		}
		if len(tokens) > 0 {
			rows = append(rows, tokens)
		}
	}
	return rows
}

func pairRows(rows [][]string) []Candidate {
	out := []Candidate{}
	var pending []string // label rows carried forward, newest last
	pendingRows := 0

	for _, row := range rows {
		var label []string
		rowHadAmount := false

		for _, tok := range row {
			amount, ok := ParseAmount(tok)
			if !ok {
				if isNumericNoise(tok) {
					continue
				}
				label = append(label, tok)
				continue
			}

			rowHadAmount = true
			name := joinLabel(label)
			label = label[:0]
			if name == "" {
				name = joinLabel(pending)
			}
			pending = nil
			pendingRows = 0

			if name == "" || isSummaryLabel(name) {
				// Unlabeled amounts and declared-total rows are not items
				continue
			}
			out = append(out, Candidate{Name: name, Amount: amount})
		}

		switch {
		case rowHadAmount:
			// A trailing label belongs to whatever amount comes next
			pending = label
			pendingRows = 0
			if len(label) > 0 {
				pendingRows = 1
			}
		case len(label) > 0:
			if pendingRows >= maxPendingRows {
				pending = nil
			}
			pending = append(pending, label...)
			pendingRows++
		}
	}

	return out
}

// joinLabel merges label tokens. CJK pieces are glued back together; runs of
// ASCII keep a space so Latin labels stay readable.
func joinLabel(parts []string) string {
	var b strings.Builder
	for _, part := range parts {
		if b.Len() > 0 && endsASCII(b.String()) && startsASCII(part) {
			b.WriteByte(' ')
		}
		b.WriteString(part)
	}
	return b.String()
}

func startsASCII(s string) bool {
	return len(s) > 0 && s[0] < 0x80
}

func endsASCII(s string) bool {
	return len(s) > 0 && s[len(s)-1] < 0x80
}
