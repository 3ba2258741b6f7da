package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client posts flat form rows to the spreadsheet-append webhook (an Apps
// Script style endpoint that appends one row per call, keyed by form type).
type Client struct {
	webhookURL string
	secret     string
	client     *http.Client
	logger     *zap.Logger
}

// NewClient creates a sheets client. An empty webhookURL disables appends.
func NewClient(webhookURL, secret string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		webhookURL: webhookURL,
		secret:     secret,
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// Enabled reports whether a webhook URL is configured.
func (c *Client) Enabled() bool { return c.webhookURL != "" }

type appendRequest struct {
	Secret string            `json:"secret,omitempty"`
	Form   string            `json:"form"`
	Row    map[string]string `json:"row"`
}

// Append posts one row for the given form type.
func (c *Client) Append(ctx context.Context, form string, row map[string]string) error {
	if !c.Enabled() {
		c.logger.Debug("sheets webhook not configured, dropping row", zap.String("form", form))
		return nil
	}
	body, err := json.Marshal(appendRequest{Secret: c.secret, Form: form, Row: row})
	if err != nil {
		return fmt.Errorf("marshal row: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post row: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sheets webhook status %d", resp.StatusCode)
	}
	return nil
}
