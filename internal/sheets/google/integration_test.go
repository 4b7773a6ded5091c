//go:build integration

package google

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"expensewise/internal/core"
)

// Integration tests require real Google Sheets credentials
// Run with: go test -tags=integration ./internal/sheets/google

func TestIntegration_MirrorRoundTrip(t *testing.T) {
	spreadsheetID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	if spreadsheetID == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	c, err := New(ctx, Config{
		SpreadsheetID: spreadsheetID,
		SheetName:     os.Getenv("GOOGLE_SHEET_NAME"),
		Credentials: Credentials{
			ServiceAccountJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
			ServiceAccountFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
			OAuthClientJSON:    os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"),
			OAuthClientFile:    os.Getenv("GOOGLE_OAUTH_CLIENT_FILE"),
			OAuthTokenJSON:     os.Getenv("GOOGLE_OAUTH_TOKEN_JSON"),
			OAuthTokenFile:     os.Getenv("GOOGLE_OAUTH_TOKEN_FILE"),
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.EnsureHeader(ctx); err != nil {
		t.Fatalf("EnsureHeader: %v", err)
	}

	e := core.Expense{
		ID:          uuid.NewString(),
		Date:        core.DateOf(time.Now()),
		Category:    core.Other,
		Amount:      1.23,
		Description: "integration test row",
	}
	if err := c.AppendExpense(ctx, e); err != nil {
		t.Fatalf("AppendExpense: %v", err)
	}
	if err := c.DeleteExpense(ctx, e.ID); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
}
