package core

import (
	"reflect"
	"testing"
)

func sortFixture() []Expense {
	return []Expense{
		{ID: "b", Date: NewDate(2025, 1, 3), Category: Travel, Amount: 30, Description: "Train"},
		{ID: "a", Date: NewDate(2025, 1, 1), Category: Food, Amount: 12, Description: "Bagel"},
		{ID: "c", Date: NewDate(2025, 1, 2), Category: Health, Amount: 99, Description: "Dentist"},
	}
}

func ids(items []Expense) []string {
	out := make([]string, len(items))
	for i, e := range items {
		out[i] = e.ID
	}
	return out
}

func TestSortExpensesByKey(t *testing.T) {
	cases := []struct {
		key  SortKey
		dir  SortDirection
		want []string
	}{
		{SortByDate, Ascending, []string{"a", "c", "b"}},
		{SortByDate, Descending, []string{"b", "c", "a"}},
		{SortByAmount, Ascending, []string{"a", "b", "c"}},
		{SortByCategory, Ascending, []string{"a", "c", "b"}},
		{SortByDescription, Descending, []string{"b", "c", "a"}},
		{SortByID, Ascending, []string{"a", "b", "c"}},
	}
	for _, tc := range cases {
		got := ids(SortExpenses(sortFixture(), tc.key, tc.dir))
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s %s: got %v, want %v", tc.key, tc.dir, got, tc.want)
		}
	}
}

func TestSortExpensesDoesNotMutateInput(t *testing.T) {
	in := sortFixture()
	_ = SortExpenses(in, SortByAmount, Descending)
	if !reflect.DeepEqual(ids(in), []string{"b", "a", "c"}) {
		t.Fatalf("input reordered: %v", ids(in))
	}
}

func TestSortIsIdempotentAndReversible(t *testing.T) {
	asc := SortExpenses(sortFixture(), SortByDate, Ascending)
	again := SortExpenses(asc, SortByDate, Ascending)
	if !reflect.DeepEqual(asc, again) {
		t.Fatalf("sorting twice changed order")
	}
	desc := SortExpenses(sortFixture(), SortByDate, Descending)
	for i := range asc {
		if asc[i].ID != desc[len(desc)-1-i].ID {
			t.Fatalf("descending is not the reverse of ascending")
		}
	}
}

func TestSortStateRequest(t *testing.T) {
	s := DefaultSortState()
	if s.Key != SortByDate || s.Direction != Descending {
		t.Fatalf("unexpected default %+v", s)
	}
	s = s.Request(SortByAmount)
	if s != (SortState{SortByAmount, Ascending}) {
		t.Fatalf("new key should reset to asc, got %+v", s)
	}
	s = s.Request(SortByAmount)
	if s != (SortState{SortByAmount, Descending}) {
		t.Fatalf("same key should flip to desc, got %+v", s)
	}
	s = s.Request(SortByAmount)
	if s.Direction != Ascending {
		t.Fatalf("desc key should go back to asc, got %+v", s)
	}
}

func TestParseSortKeyAndDirection(t *testing.T) {
	if k, err := ParseSortKey(" Amount "); err != nil || k != SortByAmount {
		t.Fatalf("ParseSortKey = %q, %v", k, err)
	}
	if _, err := ParseSortKey("price"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if d, err := ParseSortDirection("DESC"); err != nil || d != Descending {
		t.Fatalf("ParseSortDirection = %q, %v", d, err)
	}
	if _, err := ParseSortDirection("up"); err == nil {
		t.Fatalf("expected error for unknown direction")
	}
}
