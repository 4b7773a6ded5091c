package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	Food          Category = "Food"
	Transport     Category = "Transport"
	Shopping      Category = "Shopping"
	Utilities     Category = "Utilities"
	Entertainment Category = "Entertainment"
	Health        Category = "Health"
	Travel        Category = "Travel"
	Other         Category = "Other"
)

const (
	MinDescriptionLen = 3
	MaxDescriptionLen = 100

	// DateLayout is the ISO calendar date used on the wire and in storage.
	DateLayout = "2006-01-02"
)

type (
	Category string

	Date struct {
		time.Time
	}

	Expense struct {
		ID          string
		Date        Date
		Category    Category
		Amount      float64
		Description string
	}

	// ExpenseInput is what the form layer submits before an ID is assigned.
	ExpenseInput struct {
		Description string
		Amount      float64
		Category    Category
		Date        Date
	}

	// Advice is the ephemeral result of one advice request.
	Advice struct {
		Summary         string   `json:"summary"`
		Recommendations []string `json:"recommendations"`
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrDescriptionLength = errors.New("description must be between 3 and 100 characters")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidIncome     = errors.New("invalid income")
	ErrMalformedAdvice   = errors.New("malformed advice")
)

var categories = []Category{Food, Transport, Shopping, Utilities, Entertainment, Health, Travel, Other}

// Categories returns the fixed category set in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ParseCategory matches s against the category set, ignoring case and
// surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// index is the category's position in the fixed set, used as a tie-breaker.
func (c Category) index() int {
	for i, known := range categories {
		if c == known {
			return i
		}
	}
	return len(categories)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// SameDay reports whether both dates fall on the same calendar day.
func (d Date) SameDay(o Date) bool {
	y1, m1, d1 := d.Date()
	y2, m2, d2 := o.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (in ExpenseInput) Validate() error {
	n := utf8.RuneCountInString(strings.TrimSpace(in.Description))
	if n < MinDescriptionLen || n > MaxDescriptionLen {
		return ErrDescriptionLength
	}
	if err := validateAmount(in.Amount); err != nil {
		return err
	}
	if !in.Category.Valid() {
		return ErrInvalidCategory
	}
	return in.Date.Validate()
}

// Expense builds the stored value. The caller supplies the id.
func (in ExpenseInput) Expense(id string) Expense {
	return Expense{
		ID:          id,
		Date:        in.Date,
		Category:    in.Category,
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
	}
}

func (e Expense) Validate() error {
	return ExpenseInput{
		Description: e.Description,
		Amount:      e.Amount,
		Category:    e.Category,
		Date:        e.Date,
	}.Validate()
}
