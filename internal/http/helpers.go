package http

import (
	"errors"
	"strings"

	"expensewise/internal/core"
)

// sanitizeInput removes control characters except tab, newline and
// carriage return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// validationMessage turns a domain validation error into the title and
// message shown to the user.
func validationMessage(err error) (title, message string) {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "Invalid Amount", "Please enter an amount greater than zero."
	case errors.Is(err, core.ErrInvalidCategory):
		return "Invalid Category", "Please choose one of the listed categories."
	case errors.Is(err, core.ErrDescriptionLength):
		return "Invalid Description", "Description must be between 3 and 100 characters."
	case errors.Is(err, core.ErrInvalidDate):
		return "Invalid Date", "Please enter a date as YYYY-MM-DD."
	case errors.Is(err, core.ErrInvalidIncome):
		return "Invalid Income", "Please enter a valid monthly income."
	}
	return "Invalid Input", err.Error()
}
