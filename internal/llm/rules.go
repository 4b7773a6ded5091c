package llm

import (
	"context"
	"fmt"

	"expensewise/internal/core"
)

// RulesAdvisor derives advice from category totals without a model.
type RulesAdvisor struct {
	money func(float64) string
}

// NewRulesAdvisor uses money to format amounts; nil prints two decimals.
func NewRulesAdvisor(money func(float64) string) *RulesAdvisor {
	if money == nil {
		money = func(v float64) string { return fmt.Sprintf("%.2f", v) }
	}
	return &RulesAdvisor{money: money}
}

// heavyShare marks a category worth calling out.
const heavyShare = 0.25

func (a *RulesAdvisor) Recommend(ctx context.Context, req core.AdviceRequest) (core.Advice, error) {
	if err := ctx.Err(); err != nil {
		return core.Advice{}, err
	}

	spent := req.TotalSpent()
	if len(req.Expenses) == 0 || spent == 0 {
		return core.Advice{
			Summary:         "No expenses have been recorded yet, so there is no spending pattern to analyze.",
			Recommendations: []string{"Record your expenses for a few weeks to get tailored recommendations."},
		}, nil
	}

	totals := make(map[string]float64)
	var order []string
	for _, e := range req.Expenses {
		if _, ok := totals[e.Category]; !ok {
			order = append(order, e.Category)
		}
		totals[e.Category] += e.Amount
	}
	top := order[0]
	for _, c := range order[1:] {
		if totals[c] > totals[top] {
			top = c
		}
	}

	summary := fmt.Sprintf("You spent %s across %d expenses. Most of it went to %s (%.0f%% of the total).",
		a.money(spent), len(req.Expenses), top, totals[top]/spent*100)

	var recs []string
	if spent > req.Income {
		summary += fmt.Sprintf(" Your expenses exceed your monthly income of %s by %s.", a.money(req.Income), a.money(spent-req.Income))
		recs = append(recs, "Reduce spending across all categories until your expenses fit within your income.")
	}
	for _, c := range order {
		if share := totals[c] / spent; share >= heavyShare {
			recs = append(recs, fmt.Sprintf("Review your %s spending of %s, which is %.0f%% of the total, and set a monthly limit for it.",
				c, a.money(totals[c]), share*100))
		}
	}
	if spent <= req.Income {
		left := req.Income - spent
		recs = append(recs, fmt.Sprintf("You have %s left from your income; move part of it into savings at the start of each month.", a.money(left)))
	}
	return core.Advice{Summary: summary, Recommendations: recs}, nil
}
