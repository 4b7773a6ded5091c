// Package google mirrors expenses into a Google Sheets tab.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	goauth "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"expensewise/internal/core"
	ports "expensewise/internal/sheets"
)

// Credentials selects how the client authenticates. A service account
// wins over OAuth when both are set.
type Credentials struct {
	ServiceAccountJSON string
	ServiceAccountFile string
	OAuthClientJSON    string
	OAuthClientFile    string
	OAuthTokenJSON     string
	OAuthTokenFile     string
}

type Config struct {
	SpreadsheetID string
	SheetName     string
	Credentials   Credentials
}

// Client writes one row per expense: ID, Date, Category, Amount, Description.
// Row 1 holds the header.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string

	mu      sync.Mutex
	sheetID *int64
}

var _ ports.ExpenseMirror = (*Client)(nil)

func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := newSheetsService(ctx, cfg.Credentials)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, cfg.SpreadsheetID, cfg.SheetName), nil
}

// NewWithService wraps an existing Sheets service.
func NewWithService(svc *gsheet.Service, spreadsheetID, sheetName string) *Client {
	if sheetName == "" {
		sheetName = "Expenses"
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}
}

func newSheetsService(ctx context.Context, creds Credentials) (*gsheet.Service, error) {
	saJSON, err := readInlineOrFile(creds.ServiceAccountJSON, creds.ServiceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("read service account: %w", err)
	}
	if len(saJSON) > 0 {
		slog.InfoContext(ctx, "Creating Google Sheets service with service account",
			"credentials_size", len(saJSON))
		return gsheet.NewService(ctx,
			goption.WithCredentialsJSON(saJSON),
			goption.WithScopes(gsheet.SpreadsheetsScope))
	}

	clientJSON, err := readInlineOrFile(creds.OAuthClientJSON, creds.OAuthClientFile)
	if err != nil {
		return nil, fmt.Errorf("read oauth client: %w", err)
	}
	tokenJSON, err := readInlineOrFile(creds.OAuthTokenJSON, creds.OAuthTokenFile)
	if err != nil {
		return nil, fmt.Errorf("read oauth token: %w", err)
	}
	if len(clientJSON) == 0 || len(tokenJSON) == 0 {
		return nil, errors.New("missing credentials (set a service account or both OAuth client and token)")
	}

	oc, err := goauth.ConfigFromJSON(clientJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(tokenJSON, &tok); err != nil {
		return nil, fmt.Errorf("oauth token: %w", err)
	}

	// refreshes go through the pooled transport too
	ctx = context.WithValue(ctx, oauth2.HTTPClient, newHTTPClientWithPooling())
	httpClient := oauth2.NewClient(ctx, oc.TokenSource(ctx, &tok))
	slog.InfoContext(ctx, "Creating Google Sheets service with OAuth token")
	return gsheet.NewService(ctx, goption.WithHTTPClient(httpClient))
}

func readInlineOrFile(inline, path string) ([]byte, error) {
	if s := strings.TrimSpace(inline); s != "" {
		return []byte(s), nil
	}
	if path = strings.TrimSpace(path); path != "" {
		return os.ReadFile(path)
	}
	return nil, nil
}

// newHTTPClientWithPooling returns a client tuned for repeated calls to the
// Sheets API.
func newHTTPClientWithPooling() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       50,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second,
	}
}

// EnsureHeader writes the header row when the sheet is empty.
func (c *Client) EnsureHeader(ctx context.Context) error {
	ids, err := c.readIDs(ctx)
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		return nil
	}
	row := make([]any, len(ports.Header))
	for i, h := range ports.Header {
		row[i] = h
	}
	rng := fmt.Sprintf("%s!A1:E1", c.sheetName)
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: [][]any{row}}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header in sheet %s: %w", c.sheetName, err)
	}
	return nil
}

// AppendExpense adds a row for e. An id already present is skipped so
// redelivered events do not duplicate rows.
func (c *Client) AppendExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	ids, err := c.readIDs(ctx)
	if err != nil {
		return err
	}
	if indexOf(ids, e.ID) >= 0 {
		slog.DebugContext(ctx, "Expense already mirrored", "id", e.ID)
		return nil
	}

	vr := &gsheet.ValueRange{Values: [][]any{{
		e.ID,
		e.Date.String(),
		e.Category.String(),
		strconv.FormatFloat(e.Amount, 'f', -1, 64),
		e.Description,
	}}}
	rng := fmt.Sprintf("%s!A:E", c.sheetName)
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row to sheet %s: %w", c.sheetName, err)
	}
	return nil
}

// DeleteExpense removes the row holding id, if any.
func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	ids, err := c.readIDs(ctx)
	if err != nil {
		return err
	}
	row := indexOf(ids, id)
	if row <= 0 { // missing, or the header
		return nil
	}
	sheetID, err := c.lookupSheetID(ctx)
	if err != nil {
		return err
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{Requests: []*gsheet.Request{{
		DeleteDimension: &gsheet.DeleteDimensionRequest{Range: &gsheet.DimensionRange{
			SheetId:    sheetID,
			Dimension:  "ROWS",
			StartIndex: int64(row),
			EndIndex:   int64(row + 1),
		}},
	}}}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d in sheet %s: %w", row+1, c.sheetName, err)
	}
	return nil
}

// ClearExpenses blanks every row below the header.
func (c *Client) ClearExpenses(ctx context.Context) error {
	rng := fmt.Sprintf("%s!A2:E", c.sheetName)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", c.sheetName, err)
	}
	return nil
}

// readIDs returns column A, header included.
func (c *Client) readIDs(ctx context.Context) ([]string, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read ids from sheet %s: %w", c.sheetName, err)
	}
	out := make([]string, len(resp.Values))
	for i, row := range resp.Values {
		if len(row) > 0 {
			out[i] = fmt.Sprint(row[0])
		}
	}
	return out, nil
}

func (c *Client) lookupSheetID(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sheetID != nil {
		return *c.sheetID, nil
	}
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == c.sheetName {
			id := sh.Properties.SheetId
			c.sheetID = &id
			return id, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found", c.sheetName)
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.TrimSpace(v) == target {
			return i
		}
	}
	return -1
}
