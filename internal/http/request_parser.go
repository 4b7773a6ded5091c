package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"expensewise/internal/core"
)

// maxBodyBytes caps request bodies; expense and advice payloads are tiny.
const maxBodyBytes = 64 << 10

var errBodyTooLarge = errors.New("request body too large")

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body == nil {
		return p
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if p.err == nil && len(p.body) > maxBodyBytes {
		p.err = errBodyTooLarge
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return nil
	}

	if strings.HasPrefix(p.contentType, "application/json") || trimmed[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal([]byte(trimmed), &p.jsonData); err != nil {
			p.err = fmt.Errorf("decode JSON body: %w", err)
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(trimmed)
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// Has reports whether key was present in the body at all.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		_, ok := p.jsonData[key]
		return ok
	}
	return p.formData != nil && p.formData.Has(key)
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// stringValue converts a decoded JSON value to its form-field string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseExpenseInput reads description, amount, category and date. A
// missing date means today.
func ParseExpenseInput(p *RequestBodyParser, now time.Time) (core.ExpenseInput, error) {
	amount, err := core.ParseAmount(p.Get("amount"))
	if err != nil {
		return core.ExpenseInput{}, err
	}
	category, err := core.ParseCategory(p.Get("category"))
	if err != nil {
		return core.ExpenseInput{}, err
	}
	date := core.DateOf(now)
	if raw := p.Get("date"); raw != "" {
		if date, err = core.ParseDate(raw); err != nil {
			return core.ExpenseInput{}, err
		}
	}
	in := core.ExpenseInput{
		Description: p.Get("description"),
		Amount:      amount,
		Category:    category,
		Date:        date,
	}
	return in, in.Validate()
}

// ParseSortParams applies ?sort=key&dir=asc|desc over fallback. Either
// parameter may be omitted.
func ParseSortParams(query url.Values, fallback core.SortState) (core.SortState, error) {
	st := fallback
	if v := strings.TrimSpace(query.Get("sort")); v != "" {
		key, err := core.ParseSortKey(v)
		if err != nil {
			return fallback, err
		}
		st.Key = key
	}
	if v := strings.TrimSpace(query.Get("dir")); v != "" {
		dir, err := core.ParseSortDirection(v)
		if err != nil {
			return fallback, err
		}
		st.Direction = dir
	}
	return st, nil
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *ResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}
