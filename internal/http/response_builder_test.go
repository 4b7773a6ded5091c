package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		Status(http.StatusCreated).
		JSON(map[string]string{"id": "1"}).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	if strings.TrimSpace(w.Body.String()) != `{"id":"1"}` {
		t.Errorf("Body = %q", w.Body.String())
	}
	if w.Header().Get("HX-Trigger") != "" {
		t.Errorf("HX-Trigger set without triggers")
	}
}

func TestResponseBuilder_Triggers(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		TriggerExpenseCreated("abc").
		TriggerDashboardRefresh().
		TriggerSuccessNotification("Saved", "Expense added").
		Write(w)

	trigger := w.Header().Get("HX-Trigger")
	if trigger == "" {
		t.Fatal("HX-Trigger header not set")
	}
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trigger), &parsed); err != nil {
		t.Fatalf("HX-Trigger is not JSON: %v", err)
	}
	for _, name := range []string{"expense:created", "dashboard:refresh", "show-notification"} {
		if _, ok := parsed[name]; !ok {
			t.Errorf("HX-Trigger missing %q: %s", name, trigger)
		}
	}
	if !strings.Contains(trigger, `"type":"success"`) || !strings.Contains(trigger, `"id":"abc"`) {
		t.Errorf("unexpected trigger payload: %s", trigger)
	}
}

func TestResponseBuilder_NoBody(t *testing.T) {
	w := httptest.NewRecorder()
	NewResponse().Status(http.StatusNoContent).TriggerExpensesCleared().Write(w)
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		builder    *ResponseBuilder
		wantStatus int
		wantTitle  string
	}{
		{"bad request", BadRequestError("broken"), http.StatusBadRequest, "Bad Request"},
		{"unprocessable", UnprocessableEntityError("Invalid Income", "nope"), http.StatusUnprocessableEntity, "Invalid Income"},
		{"internal", InternalServerError("boom"), http.StatusInternalServerError, "Error"},
		{"not found", NotFoundError("gone"), http.StatusNotFound, "Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body ErrorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error.Title != tt.wantTitle {
				t.Fatalf("title = %q, want %q", body.Error.Title, tt.wantTitle)
			}
			if !strings.Contains(w.Header().Get("HX-Trigger"), `"type":"error"`) {
				t.Fatalf("missing error notification: %s", w.Header().Get("HX-Trigger"))
			}
		})
	}
}

func TestMethodNotAllowedError(t *testing.T) {
	w := httptest.NewRecorder()
	MethodNotAllowedError("GET, POST").Write(w)
	if w.Code != http.StatusMethodNotAllowed || w.Header().Get("Allow") != "GET, POST" {
		t.Fatalf("status=%d allow=%q", w.Code, w.Header().Get("Allow"))
	}
}
