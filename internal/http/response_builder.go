// Package http serves the expense dashboard JSON API.
//
// Responses are built with a fluent builder that also sets the HX-Trigger
// header, so an HTMX or script client can react to domain events and show
// notifications without parsing the body.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ResponseBuilder collects the status, headers, triggers and JSON body of
// one response.
type ResponseBuilder struct {
	triggers   map[string]any
	statusCode int
	body       any
	headers    map[string]string
}

// NewResponse creates a new response builder with default 200 status.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds a named event with optional data to the HX-Trigger header.
func (b *ResponseBuilder) Trigger(name string, data any) *ResponseBuilder {
	b.triggers[name] = data
	return b
}

func (b *ResponseBuilder) TriggerExpenseCreated(id string) *ResponseBuilder {
	return b.Trigger("expense:created", map[string]string{"id": id})
}

func (b *ResponseBuilder) TriggerExpenseDeleted(id string) *ResponseBuilder {
	return b.Trigger("expense:deleted", map[string]string{"id": id})
}

func (b *ResponseBuilder) TriggerExpensesCleared() *ResponseBuilder {
	return b.Trigger("expenses:cleared", struct{}{})
}

// TriggerDashboardRefresh tells clients the aggregates are stale.
func (b *ResponseBuilder) TriggerDashboardRefresh() *ResponseBuilder {
	return b.Trigger("dashboard:refresh", struct{}{})
}

func (b *ResponseBuilder) TriggerSortChanged(key, direction string) *ResponseBuilder {
	return b.Trigger("sort:changed", map[string]string{"key": key, "direction": direction})
}

func (b *ResponseBuilder) TriggerAdviceReady() *ResponseBuilder {
	return b.Trigger("advice:ready", struct{}{})
}

// NotificationType represents the type of notification to display.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

// TriggerNotification adds a show-notification event.
func (b *ResponseBuilder) TriggerNotification(notifType NotificationType, title, message string, durationMs int) *ResponseBuilder {
	return b.Trigger("show-notification", map[string]any{
		"type":     string(notifType),
		"title":    title,
		"message":  message,
		"duration": durationMs,
	})
}

func (b *ResponseBuilder) TriggerSuccessNotification(title, message string) *ResponseBuilder {
	return b.TriggerNotification(NotificationSuccess, title, message, 3000)
}

func (b *ResponseBuilder) TriggerErrorNotification(title, message string) *ResponseBuilder {
	return b.TriggerNotification(NotificationError, title, message, 5000)
}

// Header adds a custom header to the response.
func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// JSON sets the value encoded as the response body.
func (b *ResponseBuilder) JSON(v any) *ResponseBuilder {
	b.body = v
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if len(b.triggers) > 0 {
		triggerJSON, err := json.Marshal(b.triggers)
		if err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}

	if b.body == nil {
		w.WriteHeader(b.statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	if err := json.NewEncoder(w).Encode(b.body); err != nil {
		slog.Error("Failed to encode response body", "error", err)
	}
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// ErrorResponse creates an error response that also raises an error
// notification on the client.
func ErrorResponse(statusCode int, title, message string) *ResponseBuilder {
	return NewResponse().
		Status(statusCode).
		TriggerErrorNotification(title, message).
		JSON(ErrorBody{Error: ErrorDetail{Title: title, Message: message}})
}

func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, "Bad Request", message)
}

// UnprocessableEntityError reports input that failed validation.
func UnprocessableEntityError(title, message string) *ResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, title, message)
}

func InternalServerError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, "Error", message)
}

func NotFoundError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusNotFound, "Not Found", message)
}

// MethodNotAllowedError creates a 405 Method Not Allowed error response.
func MethodNotAllowedError(allowedMethods string) *ResponseBuilder {
	return NewResponse().
		Status(http.StatusMethodNotAllowed).
		Header("Allow", allowedMethods)
}
