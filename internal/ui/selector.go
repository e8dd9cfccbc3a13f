package ui

import (
	"fmt"
	"strings"
)

// Option is a value a Selector can offer.
type Option interface {
	comparable
	fmt.Stringer
}

// Selector is a single-choice control that cycles through a fixed option list.
type Selector[T Option] struct {
	Label   string
	options []T
	index   int
}

// NewSelector creates a selector over options with initial selected.
// An initial value that is not among options selects the first option.
func NewSelector[T Option](label string, options []T, initial T) *Selector[T] {
	s := &Selector[T]{Label: label, options: options}
	s.Set(initial)
	return s
}

// Value returns the selected option.
func (s *Selector[T]) Value() T {
	if len(s.options) == 0 {
		var zero T
		return zero
	}
	return s.options[s.index]
}

// Set selects v. Returns false if v is not an option.
func (s *Selector[T]) Set(v T) bool {
	for i, o := range s.options {
		if o == v {
			s.index = i
			return true
		}
	}
	return false
}

// Next selects the following option, wrapping around.
func (s *Selector[T]) Next() {
	if len(s.options) > 0 {
		s.index = (s.index + 1) % len(s.options)
	}
}

// Prev selects the preceding option, wrapping around.
func (s *Selector[T]) Prev() {
	if len(s.options) > 0 {
		s.index = (s.index - 1 + len(s.options)) % len(s.options)
	}
}

// View renders the label followed by every option, the selected one highlighted.
func (s *Selector[T]) View(focused bool) string {
	parts := make([]string, len(s.options))
	for i, o := range s.options {
		switch {
		case i == s.index && focused:
			parts[i] = Styles.Selected.Render("‹ " + o.String() + " ›")
		case i == s.index:
			parts[i] = Styles.SelectedDim.Render("  " + o.String() + "  ")
		default:
			parts[i] = Styles.Option.Render("  " + o.String() + "  ")
		}
	}
	return Styles.FieldLabel.Render(s.Label) + strings.Join(parts, "")
}
