package emailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client sends transactional email through a ZeptoMail-compatible HTTP API.
type Client struct {
	apiURL      string
	apiKey      string
	fromAddress string
	fromName    string
	client      *http.Client
	logger      *zap.Logger
}

// NewClient creates an email client. An empty apiURL disables sending.
func NewClient(apiURL, apiKey, fromAddress, fromName string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiURL:      apiURL,
		apiKey:      apiKey,
		fromAddress: fromAddress,
		fromName:    fromName,
		client:      &http.Client{Timeout: 15 * time.Second},
		logger:      logger,
	}
}

// Enabled reports whether the email API is configured.
func (c *Client) Enabled() bool { return c.apiURL != "" && c.apiKey != "" }

type emailAddress struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

type toRecipient struct {
	EmailAddress emailAddress `json:"email_address"`
}

type sendRequest struct {
	From     emailAddress  `json:"from"`
	To       []toRecipient `json:"to"`
	Subject  string        `json:"subject"`
	HTMLBody string        `json:"htmlbody"`
}

// Send delivers one HTML email.
func (c *Client) Send(ctx context.Context, to, toName, subject, htmlBody string) error {
	if !c.Enabled() {
		c.logger.Debug("email API not configured, dropping message", zap.String("to", to))
		return nil
	}
	body, err := json.Marshal(sendRequest{
		From:     emailAddress{Address: c.fromAddress, Name: c.fromName},
		To:       []toRecipient{{EmailAddress: emailAddress{Address: to, Name: toName}}},
		Subject:  subject,
		HTMLBody: htmlBody,
	})
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("email API status %d", resp.StatusCode)
	}
	return nil
}
