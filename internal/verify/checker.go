package verify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrUnknownShape means the upstream answered with a body none of the known
// adapters could interpret. Callers must treat this as "could not check",
// never as "not deliverable".
var ErrUnknownShape = errors.New("unrecognized verifier response shape")

// Verdict is the canonical deliverability result.
type Verdict struct {
	Deliverable bool `json:"deliverable"`
}

// adapter maps one known upstream response shape to a Verdict. It reports
// ok=false when the body is not in its shape.
type adapter func(body []byte) (Verdict, bool)

// adapters are tried in order. The set is closed on purpose: a new upstream
// shape gets a new adapter, not a silent default.
var adapters = []adapter{
	adaptBoolField,
	adaptResultString,
	adaptStatusScore,
}

// {"deliverable": true}
func adaptBoolField(body []byte) (Verdict, bool) {
	var v struct {
		Deliverable *bool `json:"deliverable"`
	}
	if json.Unmarshal(body, &v) != nil || v.Deliverable == nil {
		return Verdict{}, false
	}
	return Verdict{Deliverable: *v.Deliverable}, true
}

// {"result": "deliverable" | "undeliverable" | "risky"}
func adaptResultString(body []byte) (Verdict, bool) {
	var v struct {
		Result string `json:"result"`
	}
	if json.Unmarshal(body, &v) != nil || v.Result == "" {
		return Verdict{}, false
	}
	return Verdict{Deliverable: strings.EqualFold(v.Result, "deliverable")}, true
}

// {"status": "valid", "score": 0.97}
func adaptStatusScore(body []byte) (Verdict, bool) {
	var v struct {
		Status string   `json:"status"`
		Score  *float64 `json:"score"`
	}
	if json.Unmarshal(body, &v) != nil || v.Status == "" || v.Score == nil {
		return Verdict{}, false
	}
	return Verdict{Deliverable: strings.EqualFold(v.Status, "valid") && *v.Score >= 0.5}, true
}

// Checker probes an email-deliverability upstream.
type Checker struct {
	apiURL string
	client *http.Client
	logger *zap.Logger
}

// NewChecker creates a deliverability checker. Empty apiURL disables it.
func NewChecker(apiURL string, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{
		apiURL: apiURL,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// Enabled reports whether an upstream is configured.
func (c *Checker) Enabled() bool { return c.apiURL != "" }

// Check returns the canonical verdict for an address. Unknown response
// shapes surface as ErrUnknownShape.
func (c *Checker) Check(ctx context.Context, email string) (Verdict, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.apiURL+"?email="+url.QueryEscape(email), nil)
	if err != nil {
		return Verdict{}, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return Verdict{}, fmt.Errorf("verifier request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return Verdict{}, fmt.Errorf("verifier status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return Verdict{}, fmt.Errorf("read verifier response: %w", err)
	}
	return Adapt(body)
}

// Adapt maps a raw upstream body to the canonical verdict.
func Adapt(body []byte) (Verdict, error) {
	for _, fn := range adapters {
		if v, ok := fn(body); ok {
			return v, nil
		}
	}
	return Verdict{}, ErrUnknownShape
}
