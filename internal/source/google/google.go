// Package google reads the report tables straight from the backing
// spreadsheet via the Sheets API, skipping the web app hop.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"refboard/internal/core"
	"refboard/internal/source"
	"refboard/internal/table"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	referralsSheet    string
	transactionsSheet string
}

// Ensure interface conformance
var _ source.TableReader = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Optional sheet names: GOOGLE_REFERRALS_SHEET_NAME (default "Referrals"),
// GOOGLE_TRANSACTIONS_SHEET_NAME (default "BonusTransactions").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	referrals := strings.TrimSpace(os.Getenv("GOOGLE_REFERRALS_SHEET_NAME"))
	if referrals == "" {
		referrals = "Referrals"
	}
	transactions := strings.TrimSpace(os.Getenv("GOOGLE_TRANSACTIONS_SHEET_NAME"))
	if transactions == "" {
		transactions = "BonusTransactions"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:               svc,
		spreadsheetID:     spreadsheetID,
		referralsSheet:    referrals,
		transactionsSheet: transactions,
	}, nil
}

// newSheetsService initializes a read-only Sheets Service using Service
// Account credentials from GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) ReadReferralTable(ctx context.Context, userID string) (table.Table, error) {
	return c.readSheet(ctx, userID, c.referralsSheet)
}

func (c *Client) ReadTransactionTable(ctx context.Context, userID string) (table.Table, error) {
	return c.readSheet(ctx, userID, c.transactionsSheet)
}

// readSheet pulls the whole used range of one sheet as a values matrix.
// Row scoping stays client-side, same as against the web app endpoint.
func (c *Client) readSheet(ctx context.Context, userID, sheet string) (table.Table, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, core.ErrMissingUserID
	}
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:Z", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	slog.InfoContext(ctx, "Sheet range read",
		"sheet", sheet,
		"rows", len(resp.Values))

	return table.Table(resp.Values), nil
}
