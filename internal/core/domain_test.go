package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(strings.ToLower(c.String()))
		if err != nil || got != c {
			t.Fatalf("ParseCategory(%q) = %q, %v", c, got, err)
		}
	}
	if _, err := ParseCategory("Groceries"); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
	if n := len(Categories()); n != 8 {
		t.Fatalf("expected 8 categories, got %d", n)
	}
}

func TestDateParseAndValidate(t *testing.T) {
	d, err := ParseDate("2024-07-15")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.String() != "2024-07-15" {
		t.Fatalf("round trip: %s", d)
	}
	if _, err := ParseDate("15/07/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if err := (Date{Time: time.Time{}}).Validate(); err == nil {
		t.Fatalf("zero date should not validate")
	}
}

func TestDateOfUsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	// 23:30 UTC on the 1st is already the 2nd in UTC+10.
	ts := time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC).In(loc)
	if got := DateOf(ts).String(); got != "2025-03-02" {
		t.Fatalf("DateOf = %s, want 2025-03-02", got)
	}
}

func TestExpenseInputValidate(t *testing.T) {
	good := ExpenseInput{
		Description: "Lunch",
		Amount:      12.5,
		Category:    Food,
		Date:        NewDate(2025, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		in   ExpenseInput
		want error
	}{
		{ExpenseInput{Description: "ab", Amount: 1, Category: Food, Date: NewDate(2025, 1, 1)}, ErrDescriptionLength},
		{ExpenseInput{Description: "  ab  ", Amount: 1, Category: Food, Date: NewDate(2025, 1, 1)}, ErrDescriptionLength},
		{ExpenseInput{Description: strings.Repeat("x", 101), Amount: 1, Category: Food, Date: NewDate(2025, 1, 1)}, ErrDescriptionLength},
		{ExpenseInput{Description: "abc", Amount: 0, Category: Food, Date: NewDate(2025, 1, 1)}, ErrInvalidAmount},
		{ExpenseInput{Description: "abc", Amount: -3, Category: Food, Date: NewDate(2025, 1, 1)}, ErrInvalidAmount},
		{ExpenseInput{Description: "abc", Amount: 1, Category: "Pets", Date: NewDate(2025, 1, 1)}, ErrInvalidCategory},
		{ExpenseInput{Description: "abc", Amount: 1, Category: Food}, ErrInvalidDate},
	}
	for i, tc := range bads {
		if err := tc.in.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestExpenseInputExpenseTrimsDescription(t *testing.T) {
	e := ExpenseInput{Description: "  Taxi home ", Amount: 9, Category: Transport, Date: NewDate(2025, 2, 2)}.Expense("abc")
	if e.ID != "abc" || e.Description != "Taxi home" || e.Category != Transport {
		t.Fatalf("unexpected expense: %+v", e)
	}
}

func TestSampleExpensesAreValid(t *testing.T) {
	seen := map[string]bool{}
	for _, e := range SampleExpenses() {
		if err := e.Validate(); err != nil {
			t.Fatalf("sample %s invalid: %v", e.ID, err)
		}
		if seen[e.ID] {
			t.Fatalf("duplicate sample id %s", e.ID)
		}
		seen[e.ID] = true
	}
}
