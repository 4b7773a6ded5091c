// Package display formats amounts and labels for the dashboard views.
package display

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"expensewise/internal/core"
)

const (
	ChartBar = "bar"
	ChartPie = "pie"
)

// Settings select the currency, locale and category chart type.
type Settings struct {
	Currency      string `json:"currency"`
	Locale        string `json:"locale"`
	CategoryChart string `json:"category_chart"`
}

func DefaultSettings() Settings {
	return Settings{Currency: "USD", Locale: "en-US", CategoryChart: ChartBar}
}

// Formatter renders values for one Settings.
type Formatter struct {
	settings Settings
	unit     currency.Unit
	tag      language.Tag
	printer  *message.Printer
	scale    int
}

func NewFormatter(s Settings) (*Formatter, error) {
	code := cases.Upper(language.Und).String(strings.TrimSpace(s.Currency))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", s.Currency, err)
	}
	tag, err := language.Parse(s.Locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", s.Locale, err)
	}
	switch s.CategoryChart {
	case "":
		s.CategoryChart = ChartBar
	case ChartBar, ChartPie:
	default:
		return nil, fmt.Errorf("unknown chart type %q", s.CategoryChart)
	}
	s.Currency = unit.String()
	s.Locale = tag.String()
	scale, _ := currency.Standard.Rounding(unit)
	return &Formatter{
		settings: s,
		unit:     unit,
		tag:      tag,
		printer:  message.NewPrinter(tag),
		scale:    scale,
	}, nil
}

func (f *Formatter) Settings() Settings {
	return f.settings
}

// Money formats v with the currency symbol, the currency's standard
// scale and the locale's grouping.
func (f *Formatter) Money(v float64) string {
	sym := f.printer.Sprint(currency.Symbol(f.unit))
	num := f.printer.Sprint(number.Decimal(v,
		number.MinFractionDigits(f.scale),
		number.MaxFractionDigits(f.scale)))
	return sym + num
}

// Percent formats share (0..1) with one decimal.
func (f *Formatter) Percent(share float64) string {
	return f.printer.Sprintf("%.1f%%", share*100)
}

// DayLabel is the short axis label for a daily total.
func (f *Formatter) DayLabel(d core.Date) string {
	return d.Format("Jan 2")
}

// MonthLabel names the month of a MonthSummary, e.g. "July 2024".
func (f *Formatter) MonthLabel(m core.MonthSummary) string {
	return core.NewDate(m.Year, m.Month, 1).Format("January 2006")
}
