// Package paymentrail issues final payouts through an external transfer
// service. The rail is optional: a deployment without one still closes
// accounts, parking them for manual payout.
package paymentrail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sweeps/models"

	"github.com/shopspring/decimal"
)

// Client calls the transfer service's API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a payment rail client. An empty baseURL produces an
// unconfigured client whose Configured() reports false.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// Configured reports whether transfers can be issued
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

type transferRequest struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Destination string `json:"destination"`
}

type transferResponse struct {
	ID string `json:"id"`
}

// CreateTransfer issues a payout and returns the transfer id. Failures
// come back as *models.ExternalTransferError so callers can fall back
// to manual settlement.
func (c *Client) CreateTransfer(ctx context.Context, amount decimal.Decimal, destination string) (string, error) {
	if !c.Configured() {
		return "", &models.ExternalTransferError{Err: fmt.Errorf("payment rail not configured")}
	}

	payload := transferRequest{
		Amount:      amount.StringFixed(2),
		Currency:    "USD",
		Destination: destination,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/transfers", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &models.ExternalTransferError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &models.ExternalTransferError{
			Err: fmt.Errorf("transfer status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))),
		}
	}

	var out transferResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &models.ExternalTransferError{Err: fmt.Errorf("decode transfer response: %w", err)}
	}
	if out.ID == "" {
		return "", &models.ExternalTransferError{Err: fmt.Errorf("transfer response missing id")}
	}
	return out.ID, nil
}
