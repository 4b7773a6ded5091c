package core

import (
	"sort"
	"time"
)

// DailyWindow is the number of trailing days covered by DailyTotals.
const DailyWindow = 30

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category `json:"category"`
	Total    float64  `json:"total"`
}

// DayAmount is the total spent on one calendar day.
type DayAmount struct {
	Date  Date    `json:"-"`
	Total float64 `json:"total"`
}

// MonthSummary covers the calendar month containing the reference time.
type MonthSummary struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// Dashboard bundles every aggregate the overview screen shows.
type Dashboard struct {
	GeneratedAt time.Time
	Total       float64
	Count       int
	Month       MonthSummary
	ByCategory  []CategoryAmount
	Daily       []DayAmount
}

// CategoryTotals sums amounts per category. Every category of the fixed
// set is present in the result, including those with a zero total.
func CategoryTotals(expenses []Expense) map[Category]float64 {
	totals := make(map[Category]float64, len(categories))
	for _, c := range categories {
		totals[c] = 0
	}
	for _, e := range expenses {
		totals[e.Category] += e.Amount
	}
	return totals
}

// NonZeroCategoryTotals returns the categories with spending, largest first.
// Equal totals keep the fixed category order.
func NonZeroCategoryTotals(expenses []Expense) []CategoryAmount {
	totals := CategoryTotals(expenses)
	out := make([]CategoryAmount, 0, len(totals))
	for c, v := range totals {
		if v == 0 {
			continue
		}
		out = append(out, CategoryAmount{Category: c, Total: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category.index() < out[j].Category.index()
	})
	return out
}

// DailyTotals returns one entry per calendar day for the trailing window
// ending on now's day, oldest first. Days without expenses are zero.
func DailyTotals(expenses []Expense, now time.Time, days int) []DayAmount {
	if days <= 0 {
		return nil
	}
	today := DateOf(now)
	out := make([]DayAmount, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		d := Date{Time: today.AddDate(0, 0, i-(days-1))}
		out[i] = DayAmount{Date: d}
		index[d.String()] = i
	}
	for _, e := range expenses {
		if i, ok := index[e.Date.String()]; ok {
			out[i].Total += e.Amount
		}
	}
	return out
}

// MonthStats totals the expenses dated in now's calendar month and year.
func MonthStats(expenses []Expense, now time.Time) MonthSummary {
	year, month, _ := now.Date()
	s := MonthSummary{Year: year, Month: int(month)}
	for _, e := range expenses {
		if e.Date.Year() == year && e.Date.Month() == month {
			s.Total += e.Amount
			s.Count++
		}
	}
	return s
}

// TotalAmount sums every expense.
func TotalAmount(expenses []Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

// BuildDashboard computes all aggregates against the same reference time.
func BuildDashboard(expenses []Expense, now time.Time) Dashboard {
	return Dashboard{
		GeneratedAt: now,
		Total:       TotalAmount(expenses),
		Count:       len(expenses),
		Month:       MonthStats(expenses, now),
		ByCategory:  NonZeroCategoryTotals(expenses),
		Daily:       DailyTotals(expenses, now, DailyWindow),
	}
}
