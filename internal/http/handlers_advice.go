package http

import (
	"errors"
	"net/http"

	"expensewise/internal/core"
	"expensewise/internal/log"
	"expensewise/internal/services"
)

type adviceView struct {
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// handleRequestAdvice asks for budgeting advice for {income}. The income
// may be sent as a JSON number or string, or as a form field.
func (s *Server) handleRequestAdvice(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("Invalid request format.").Write(w)
		return
	}

	result, err := s.session.Advice.Request(r.Context(), parser.Get("income"))
	switch {
	case err == nil:
	case errors.Is(err, core.ErrInvalidIncome):
		title, msg := validationMessage(err)
		UnprocessableEntityError(title, msg).Write(w)
		return
	case errors.Is(err, services.ErrAdviceInFlight):
		NewResponse().
			Status(http.StatusConflict).
			TriggerNotification(NotificationWarning, "Please Wait", "Recommendations are already being prepared.", 3000).
			JSON(ErrorBody{Error: ErrorDetail{Title: "Please Wait", Message: err.Error()}}).
			Write(w)
		return
	default:
		s.appMetrics.adviceRequests.Add(1)
		s.appMetrics.adviceFailures.Add(1)
		s.logger.WarnContext(r.Context(), "Advice request failed",
			log.FieldError, err,
			log.FieldOperation, log.OpAdvise,
			"error_type", log.ErrorTypeUpstream)
		n := s.session.Advice.State().Notice
		title, msg := "Error", "Failed to get AI recommendations. Please try again."
		if n != nil {
			title, msg = n.Title, n.Message
		}
		ErrorResponse(http.StatusBadGateway, title, msg).Write(w)
		return
	}

	s.appMetrics.adviceRequests.Add(1)
	NewResponse().
		TriggerAdviceReady().
		JSON(adviceView{Summary: result.Summary, Recommendations: result.Recommendations}).
		Write(w)
}

// handleAdviceState returns the advice panel state: loading flag, last
// result and last notice.
func (s *Server) handleAdviceState(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(s.session.Advice.State()).Write(w)
}
