// Package webapp reads the report tables from the spreadsheet-backed web
// endpoint (an Apps Script deployment serving header+rows JSON).
package webapp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"refboard/internal/core"
	"refboard/internal/source"
	"refboard/internal/table"
)

// typeTransactions selects the bonus-transaction table on the endpoint.
const typeTransactions = "bonusTransactions"

type Client struct {
	baseURL string
	httpc   *http.Client
}

// Ensure interface conformance
var _ source.TableReader = (*Client)(nil)

// New creates a client for the given endpoint URL. A nil httpc gets a
// pooled client with sane timeouts.
func New(baseURL string, httpc *http.Client) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("missing web app URL")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, err
	}
	if httpc == nil {
		httpc = newPooledClient()
	}
	return &Client{baseURL: baseURL, httpc: httpc}, nil
}

// NewFromEnv creates a client from WEBAPP_URL.
func NewFromEnv() (*Client, error) {
	u := strings.TrimSpace(os.Getenv("WEBAPP_URL"))
	if u == "" {
		return nil, errors.New("missing WEBAPP_URL")
	}
	return New(u, nil)
}

func (c *Client) ReadReferralTable(ctx context.Context, userID string) (table.Table, error) {
	return c.fetch(ctx, userID, "")
}

func (c *Client) ReadTransactionTable(ctx context.Context, userID string) (table.Table, error) {
	return c.fetch(ctx, userID, typeTransactions)
}

// fetch issues the GET and decodes the array-of-arrays body. The user id
// is validated before anything touches the network.
func (c *Client) fetch(ctx context.Context, userID, tableType string) (table.Table, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, core.ErrMissingUserID
	}

	q := url.Values{}
	if tableType != "" {
		q.Set("type", tableType)
	}
	q.Set("id", userID)
	reqURL := c.baseURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	// Apps Script web apps answer through a redirect to a one-shot
	// content URL; the default client follows it.
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, &source.StatusError{URL: c.baseURL, StatusCode: resp.StatusCode}
	}

	var t table.Table
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return nil, &source.DecodeError{URL: c.baseURL, Err: err}
	}
	return t, nil
}

// newPooledClient mirrors the connection-pool tuning used for the Sheets
// adapter.
func newPooledClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			DialContext:           dialer.DialContext,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 30 * time.Second,
			ForceAttemptHTTP2:     true,
		},
	}
}
