package display

import (
	"strings"
	"testing"

	"expensewise/internal/core"
)

func TestNewFormatterDefaults(t *testing.T) {
	f, err := NewFormatter(DefaultSettings())
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}
	got := f.Money(1234.5)
	if !strings.Contains(got, "$") || !strings.Contains(got, "1,234.50") {
		t.Fatalf("unexpected money format %q", got)
	}
	if s := f.Settings(); s.Currency != "USD" || s.CategoryChart != ChartBar {
		t.Fatalf("unexpected settings %+v", s)
	}
}

func TestNewFormatterNormalizesAndRejects(t *testing.T) {
	f, err := NewFormatter(Settings{Currency: "inr", Locale: "en-IN", CategoryChart: ChartPie})
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}
	if f.Settings().Currency != "INR" {
		t.Fatalf("currency not normalized: %q", f.Settings().Currency)
	}
	if !strings.Contains(f.Money(25), "25") {
		t.Fatalf("unexpected money %q", f.Money(25))
	}

	bad := []Settings{
		{Currency: "XX", Locale: "en-US"},
		{Currency: "USD", Locale: "not a locale"},
		{Currency: "USD", Locale: "en-US", CategoryChart: "donut"},
	}
	for _, s := range bad {
		if _, err := NewFormatter(s); err == nil {
			t.Fatalf("expected error for %+v", s)
		}
	}
}

func TestLabels(t *testing.T) {
	f, _ := NewFormatter(DefaultSettings())
	if got := f.DayLabel(core.NewDate(2024, 7, 5)); got != "Jul 5" {
		t.Fatalf("DayLabel = %q", got)
	}
	if got := f.MonthLabel(core.MonthSummary{Year: 2024, Month: 7}); got != "July 2024" {
		t.Fatalf("MonthLabel = %q", got)
	}
	if got := f.Percent(0.25); got != "25.0%" {
		t.Fatalf("Percent = %q", got)
	}
}
