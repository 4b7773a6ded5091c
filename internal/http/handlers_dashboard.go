package http

import (
	"net/http"
	"time"

	"expensewise/internal/display"
	"expensewise/internal/log"
)

type dashboardView struct {
	GeneratedAt  time.Time        `json:"generated_at"`
	Settings     display.Settings `json:"settings"`
	Total        float64          `json:"total"`
	TotalDisplay string           `json:"total_display"`
	Count        int              `json:"count"`
	Month        monthView        `json:"month"`
	Categories   []categoryView   `json:"categories"`
	Daily        []dayView        `json:"daily"`
	Chart        string           `json:"category_chart"`
}

type monthView struct {
	Label        string  `json:"label"`
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	Total        float64 `json:"total"`
	TotalDisplay string  `json:"total_display"`
	Count        int     `json:"count"`
}

type categoryView struct {
	Category     string  `json:"category"`
	Total        float64 `json:"total"`
	TotalDisplay string  `json:"total_display"`
	Share        float64 `json:"share"`
	ShareDisplay string  `json:"share_display"`
}

type dayView struct {
	Date         string  `json:"date"`
	Label        string  `json:"label"`
	Total        float64 `json:"total"`
	TotalDisplay string  `json:"total_display"`
}

// handleDashboard returns the overview aggregates with display strings.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.session.Dashboard.Dashboard(r.Context())
	if err != nil {
		s.logs.LogError(r.Context(), "Failed to build dashboard", err, log.ComponentDashboard, log.OpList, nil)
		InternalServerError("Could not load dashboard.").Write(w)
		return
	}

	f := s.formatter
	settings := f.Settings()
	view := dashboardView{
		GeneratedAt:  d.GeneratedAt,
		Settings:     settings,
		Total:        d.Total,
		TotalDisplay: f.Money(d.Total),
		Count:        d.Count,
		Month: monthView{
			Label:        f.MonthLabel(d.Month),
			Year:         d.Month.Year,
			Month:        d.Month.Month,
			Total:        d.Month.Total,
			TotalDisplay: f.Money(d.Month.Total),
			Count:        d.Month.Count,
		},
		Categories: make([]categoryView, 0, len(d.ByCategory)),
		Daily:      make([]dayView, 0, len(d.Daily)),
		Chart:      settings.CategoryChart,
	}
	for _, c := range d.ByCategory {
		var share float64
		if d.Total > 0 {
			share = c.Total / d.Total
		}
		view.Categories = append(view.Categories, categoryView{
			Category:     c.Category.String(),
			Total:        c.Total,
			TotalDisplay: f.Money(c.Total),
			Share:        share,
			ShareDisplay: f.Percent(share),
		})
	}
	for _, day := range d.Daily {
		view.Daily = append(view.Daily, dayView{
			Date:         day.Date.String(),
			Label:        f.DayLabel(day.Date),
			Total:        day.Total,
			TotalDisplay: f.Money(day.Total),
		})
	}

	NewResponse().JSON(view).Write(w)
}
