package core

import (
	"fmt"
	"sort"
	"strings"
)

const (
	SortByID          SortKey = "id"
	SortByDate        SortKey = "date"
	SortByCategory    SortKey = "category"
	SortByAmount      SortKey = "amount"
	SortByDescription SortKey = "description"
)

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

type (
	SortKey       string
	SortDirection string

	// SortState is the transient display ordering of the transactions view.
	SortState struct {
		Key       SortKey       `json:"key"`
		Direction SortDirection `json:"direction"`
	}
)

// DefaultSortState shows the newest transactions first.
func DefaultSortState() SortState {
	return SortState{Key: SortByDate, Direction: Descending}
}

func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case SortByID, SortByDate, SortByCategory, SortByAmount, SortByDescription:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

func ParseSortDirection(s string) (SortDirection, error) {
	d := SortDirection(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case Ascending, Descending:
		return d, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

// Request returns the state after a click on key's column header: the
// active ascending key flips to descending, anything else sorts ascending.
func (s SortState) Request(key SortKey) SortState {
	if s.Key == key && s.Direction == Ascending {
		return SortState{Key: key, Direction: Descending}
	}
	return SortState{Key: key, Direction: Ascending}
}

// Apply sorts a copy of expenses by the state.
func (s SortState) Apply(expenses []Expense) []Expense {
	return SortExpenses(expenses, s.Key, s.Direction)
}

// SortExpenses returns a new slice ordered by key. The input is never
// modified and equal keys keep their relative order.
func SortExpenses(expenses []Expense, key SortKey, dir SortDirection) []Expense {
	out := append([]Expense(nil), expenses...)
	less := lessFor(key)
	if less == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		if dir == Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFor(key SortKey) func(a, b Expense) bool {
	switch key {
	case SortByID:
		return func(a, b Expense) bool { return a.ID < b.ID }
	case SortByDate:
		return func(a, b Expense) bool { return a.Date.Before(b.Date.Time) }
	case SortByCategory:
		return func(a, b Expense) bool { return a.Category < b.Category }
	case SortByAmount:
		return func(a, b Expense) bool { return a.Amount < b.Amount }
	case SortByDescription:
		return func(a, b Expense) bool { return a.Description < b.Description }
	}
	return nil
}
