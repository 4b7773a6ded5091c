package core

import "strings"

type (
	// AdviceExpense is the minimal expense tuple sent to the advice service.
	AdviceExpense struct {
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
		Date     string  `json:"date"`
	}

	// AdviceRequest is the wire shape expected by the advice service.
	AdviceRequest struct {
		Expenses []AdviceExpense `json:"expenses"`
		Income   float64         `json:"income"`
	}
)

// BuildAdviceRequest maps expenses to their advice tuples and pairs them
// with the monthly income. Income is not validated here.
func BuildAdviceRequest(expenses []Expense, income float64) AdviceRequest {
	out := make([]AdviceExpense, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, AdviceExpense{
			Category: e.Category.String(),
			Amount:   e.Amount,
			Date:     e.Date.String(),
		})
	}
	return AdviceRequest{Expenses: out, Income: income}
}

// TotalSpent sums the amounts carried by the request.
func (r AdviceRequest) TotalSpent() float64 {
	var total float64
	for _, e := range r.Expenses {
		total += e.Amount
	}
	return total
}

// Validate checks the result shape: a summary is required, recommendations
// may be empty but blank entries are not allowed.
func (a Advice) Validate() error {
	if strings.TrimSpace(a.Summary) == "" {
		return ErrMalformedAdvice
	}
	for _, r := range a.Recommendations {
		if strings.TrimSpace(r) == "" {
			return ErrMalformedAdvice
		}
	}
	return nil
}
