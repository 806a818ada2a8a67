// Package revision implements the bounded editing workflow around one
// payslip: a session captures the original items when editing starts and
// tracks the working copy until the user commits, undoes, or cancels.
// Sessions are plain values with no shared state, so concurrent sessions on
// different payslips never interfere.
package revision

import (
	"fmt"
	"strings"

	"github.com/maikimilk/KyuyoBiyori/internal/classify"
	"github.com/maikimilk/KyuyoBiyori/internal/extract"
	"github.com/maikimilk/KyuyoBiyori/internal/reconcile"
)

// IncompleteItemsError rejects a commit while any current item lacks an
// amount or a category. Names lists the offenders in item order.
type IncompleteItemsError struct {
	Names []string
}

func (e *IncompleteItemsError) Error() string {
	return fmt.Sprintf("items missing amount or category: %s", strings.Join(e.Names, ", "))
}

// Session is the (original, current) pair for one editing interaction.
// original is immutable once captured; current is free-form until commit.
type Session struct {
	original []reconcile.Item
	current  []reconcile.Item
	rawText  string
	closed   bool
}

// Begin opens a session, capturing a copy of the items as the immutable
// original. rawText is the retained OCR evidence, empty when unavailable.
func Begin(items []reconcile.Item, rawText string) *Session {
	return &Session{
		original: copyItems(items),
		current:  copyItems(items),
		rawText:  rawText,
	}
}

// Original returns a copy of the captured baseline.
func (s *Session) Original() []reconcile.Item {
	return copyItems(s.original)
}

// Current returns a copy of the working item set.
func (s *Session) Current() []reconcile.Item {
	return copyItems(s.current)
}

// Apply replaces the working item set with an edited one.
func (s *Session) Apply(items []reconcile.Item) {
	s.current = copyItems(items)
}

// Reparse re-runs extraction and classification against the retained OCR
// text and replaces the working set with the result. Without raw text it
// degrades to re-classifying the current item names in place. The original
// is never touched.
func (s *Session) Reparse() {
	if s.rawText != "" {
		candidates := extract.ParseText(s.rawText)
		items := make([]reconcile.Item, 0, len(candidates))
		for _, c := range candidates {
			amount := c.Amount
			items = append(items, reconcile.Item{
				Name:     c.Name,
				Amount:   &amount,
				Category: classify.Classify(c.Name),
			})
		}
		s.current = items
		return
	}

	for i := range s.current {
		s.current[i].Category = classify.Classify(s.current[i].Name)
	}
}

// Undo restores the working set to the original unconditionally. Single
// level only: edits made since Begin are discarded.
func (s *Session) Undo() {
	s.current = copyItems(s.original)
}

// Commit validates that every current item is complete and returns the items
// to persist, closing the session. An incomplete set yields an
// IncompleteItemsError naming each offender and leaves the session open.
func (s *Session) Commit() ([]reconcile.Item, error) {
	if err := ValidateComplete(s.current); err != nil {
		return nil, err
	}
	s.closed = true
	return copyItems(s.current), nil
}

// Cancel discards the working set and closes the session; the stored payslip
// is untouched.
func (s *Session) Cancel() {
	s.current = nil
	s.closed = true
}

// Closed reports whether the session ended via Commit or Cancel.
func (s *Session) Closed() bool {
	return s.closed
}

// ValidateComplete checks the save invariant over an item set.
func ValidateComplete(items []reconcile.Item) error {
	var names []string
	for _, item := range items {
		if !item.Complete() {
			name := item.Name
			if name == "" {
				name = "(名称未設定)"
			}
			names = append(names, name)
		}
	}
	if len(names) > 0 {
		return &IncompleteItemsError{Names: names}
	}
	return nil
}

// copyItems clones the items including the amount pointers, so no caller can
// reach the captured original through an alias.
func copyItems(items []reconcile.Item) []reconcile.Item {
	out := make([]reconcile.Item, len(items))
	for i, item := range items {
		if item.Amount != nil {
			amount := *item.Amount
			item.Amount = &amount
		}
		out[i] = item
	}
	return out
}
