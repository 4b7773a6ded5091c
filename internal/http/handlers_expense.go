package http

import (
	"errors"
	"net/http"
	"strings"

	"expensewise/internal/core"
	"expensewise/internal/log"
)

// expenseView is the wire form of an expense.
type expenseView struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	Category      string  `json:"category"`
	Amount        float64 `json:"amount"`
	AmountDisplay string  `json:"amount_display"`
	Description   string  `json:"description"`
}

type expenseListView struct {
	Expenses []expenseView `json:"expenses"`
	Count    int           `json:"count"`
	Total    string        `json:"total_display"`
	Sort     sortView      `json:"sort"`
}

type sortView struct {
	Key       string `json:"key"`
	Direction string `json:"direction"`
}

func (s *Server) expenseView(e core.Expense) expenseView {
	return expenseView{
		ID:            e.ID,
		Date:          e.Date.String(),
		Category:      e.Category.String(),
		Amount:        e.Amount,
		AmountDisplay: s.formatter.Money(e.Amount),
		Description:   e.Description,
	}
}

func (s *Server) listView(items []core.Expense, st core.SortState) expenseListView {
	out := expenseListView{
		Expenses: make([]expenseView, 0, len(items)),
		Count:    len(items),
		Total:    s.formatter.Money(core.TotalAmount(items)),
		Sort:     sortView{Key: string(st.Key), Direction: string(st.Direction)},
	}
	for _, e := range items {
		out.Expenses = append(out.Expenses, s.expenseView(e))
	}
	return out
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats := core.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.String()
	}
	NewResponse().JSON(map[string][]string{"categories": names}).Write(w)
}

// handleListExpenses returns the list in the session ordering. ?sort and
// ?dir override it for this response only.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	st, err := ParseSortParams(r.URL.Query(), s.session.SortState())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	items, err := s.session.Expenses.ListExpenses(r.Context(), st)
	if err != nil {
		s.logs.LogError(r.Context(), "Failed to list expenses", err, log.ComponentExpense, log.OpList, nil)
		InternalServerError("Could not load expenses.").Write(w)
		return
	}
	NewResponse().JSON(s.listView(items, st)).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		s.logger.WarnContext(r.Context(), "Invalid expense request body",
			log.FieldError, err,
			"error_type", log.ErrorTypeValidation)
		BadRequestError("Invalid request format.").Write(w)
		return
	}

	in, err := ParseExpenseInput(parser, s.now())
	if err != nil {
		title, msg := validationMessage(err)
		UnprocessableEntityError(title, msg).Write(w)
		return
	}

	e, err := s.session.Expenses.CreateExpense(r.Context(), in)
	if err != nil {
		if isValidationError(err) {
			title, msg := validationMessage(err)
			UnprocessableEntityError(title, msg).Write(w)
			return
		}
		s.logs.LogError(r.Context(), "Failed to save expense", err, log.ComponentExpense, log.OpCreate,
			log.NewFields().WithExpense("", in.Category.String(), in.Amount, in.Date.String()))
		InternalServerError("Error saving expense.").Write(w)
		return
	}

	s.appMetrics.expensesCreated.Add(1)
	s.logs.LogExpenseCreated(r.Context(), e.ID, e.Category.String(), e.Amount, e.Date.String())

	NewResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/expenses/"+e.ID).
		TriggerExpenseCreated(e.ID).
		TriggerDashboardRefresh().
		TriggerSuccessNotification("Expense Added", e.Description+" ("+s.formatter.Money(e.Amount)+")").
		JSON(s.expenseView(e)).
		Write(w)
}

// handleDeleteExpense removes one expense. Unknown ids also get 204.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		BadRequestError("Missing expense id.").Write(w)
		return
	}
	if err := s.session.Expenses.DeleteExpense(r.Context(), id); err != nil {
		s.logs.LogError(r.Context(), "Failed to delete expense", err, log.ComponentExpense, log.OpDelete,
			log.NewFields().WithExpense(id, "", 0, ""))
		InternalServerError("Error deleting expense.").Write(w)
		return
	}

	s.appMetrics.expensesDeleted.Add(1)
	s.logger.InfoContext(r.Context(), "Expense deleted", log.FieldExpenseID, id, log.FieldOperation, log.OpDelete)

	NewResponse().
		Status(http.StatusNoContent).
		TriggerExpenseDeleted(id).
		TriggerDashboardRefresh().
		Write(w)
}

func (s *Server) handleClearExpenses(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Expenses.ClearExpenses(r.Context()); err != nil {
		s.logs.LogError(r.Context(), "Failed to clear expenses", err, log.ComponentExpense, log.OpClear, nil)
		InternalServerError("Error clearing expenses.").Write(w)
		return
	}

	s.appMetrics.listsCleared.Add(1)
	s.logger.InfoContext(r.Context(), "Expenses cleared", log.FieldOperation, log.OpClear)

	NewResponse().
		Status(http.StatusNoContent).
		TriggerExpensesCleared().
		TriggerDashboardRefresh().
		Write(w)
}

// handleSortExpenses applies a column header click {key} and returns the
// reordered list.
func (s *Server) handleSortExpenses(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("Invalid request format.").Write(w)
		return
	}
	key, err := core.ParseSortKey(parser.Get("key"))
	if err != nil {
		UnprocessableEntityError("Invalid Sort", err.Error()).Write(w)
		return
	}

	st := s.session.RequestSort(key)
	items, err := s.session.Expenses.ListExpenses(r.Context(), st)
	if err != nil {
		s.logs.LogError(r.Context(), "Failed to list expenses", err, log.ComponentExpense, log.OpSort, nil)
		InternalServerError("Could not load expenses.").Write(w)
		return
	}

	NewResponse().
		TriggerSortChanged(string(st.Key), string(st.Direction)).
		JSON(s.listView(items, st)).
		Write(w)
}

func isValidationError(err error) bool {
	for _, target := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidCategory,
		core.ErrDescriptionLength,
		core.ErrInvalidDate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
