package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"expensewise/internal/core"
)

type EventType string

const (
	EventExpenseCreated  EventType = "expense.created"
	EventExpenseDeleted  EventType = "expense.deleted"
	EventExpensesCleared EventType = "expenses.cleared"
)

// ExpensePayload is the wire form of a created expense.
type ExpensePayload struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// ExpenseEvent describes one change to the expense list. Expense is set
// only for created events; ID is empty for cleared events.
type ExpenseEvent struct {
	Type      EventType       `json:"type"`
	ID        string          `json:"id,omitempty"`
	Expense   *ExpensePayload `json:"expense,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewCreatedEvent(e core.Expense) ExpenseEvent {
	return ExpenseEvent{
		Type: EventExpenseCreated,
		ID:   e.ID,
		Expense: &ExpensePayload{
			ID:          e.ID,
			Date:        e.Date.String(),
			Category:    e.Category.String(),
			Amount:      e.Amount,
			Description: e.Description,
		},
		Timestamp: time.Now().UTC(),
	}
}

func NewDeletedEvent(id string) ExpenseEvent {
	return ExpenseEvent{Type: EventExpenseDeleted, ID: id, Timestamp: time.Now().UTC()}
}

func NewClearedEvent() ExpenseEvent {
	return ExpenseEvent{Type: EventExpensesCleared, Timestamp: time.Now().UTC()}
}

// ToJSON converts the event to JSON bytes
func (m ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventFromJSON decodes and checks an event.
func ExpenseEventFromJSON(data []byte) (ExpenseEvent, error) {
	var ev ExpenseEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return ExpenseEvent{}, err
	}
	if err := ev.Validate(); err != nil {
		return ExpenseEvent{}, err
	}
	return ev, nil
}

func (m ExpenseEvent) Validate() error {
	switch m.Type {
	case EventExpenseCreated:
		if m.Expense == nil {
			return fmt.Errorf("%s event without expense", m.Type)
		}
		if _, err := m.Expense.ToExpense(); err != nil {
			return fmt.Errorf("%s event: %w", m.Type, err)
		}
	case EventExpenseDeleted:
		if m.ID == "" {
			return fmt.Errorf("%s event without id", m.Type)
		}
	case EventExpensesCleared:
	default:
		return fmt.Errorf("unknown event type %q", m.Type)
	}
	return nil
}

// ToExpense converts the payload back into a validated expense.
func (p ExpensePayload) ToExpense() (core.Expense, error) {
	d, err := core.ParseDate(p.Date)
	if err != nil {
		return core.Expense{}, err
	}
	cat, err := core.ParseCategory(p.Category)
	if err != nil {
		return core.Expense{}, err
	}
	e := core.Expense{ID: p.ID, Date: d, Category: cat, Amount: p.Amount, Description: p.Description}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}
