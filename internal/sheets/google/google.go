// Package google talks to the Google Sheets API v4.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	ports "gastobot/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const (
	// recordsRange is the fixed append anchor; the API locates the table
	// below it and inserts rows there.
	recordsRange     = "Records!A1"
	valueInputOption = "USER_ENTERED"
	insertDataOption = "INSERT_ROWS"
)

// Ensure interface conformance
var _ ports.Mirror = (*Client)(nil)

type Client struct {
	svc *gsheet.Service
}

// NewFromEnv creates a Sheets client using Service Account credentials.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	credentialsJSON, err := credentialsFromEnv()
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{svc: svc}, nil
}

func credentialsFromEnv() ([]byte, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case serviceAccountJSON != "":
		return []byte(serviceAccountJSON), nil
	case serviceAccountFile != "":
		data, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// Append implements ports.Mirror.
func (c *Client) Append(ctx context.Context, spreadsheetID string, rows [][]string) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if spreadsheetID == "" {
		return "", errors.New("missing spreadsheet id")
	}

	values := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}

	resp, err := c.svc.Spreadsheets.Values.
		Append(spreadsheetID, recordsRange, &gsheet.ValueRange{Values: values}).
		ValueInputOption(valueInputOption).
		InsertDataOption(insertDataOption).
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", recordsRange, err)
	}
	if resp.Updates == nil {
		return "", fmt.Errorf("append to %s: response carries no updated range", recordsRange)
	}

	return resp.Updates.UpdatedRange, nil
}

// Clear implements ports.Mirror. Only cell contents are removed.
func (c *Client) Clear(ctx context.Context, spreadsheetID, rng string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if spreadsheetID == "" {
		return errors.New("missing spreadsheet id")
	}

	_, err := c.svc.Spreadsheets.Values.
		Clear(spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}
	return nil
}
