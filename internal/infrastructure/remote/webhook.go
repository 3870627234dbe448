package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/assistant"
)

const (
	// maxResponseSize caps how much of a webhook reply is read
	maxResponseSize = 1 << 20
	// DefaultResponsePath locates the reply text in the webhook body
	DefaultResponsePath = "response"

	timestampFormat = "2006-01-02T15:04:05.000Z07:00"
)

// webhookRequest is the JSON body posted for every turn
type webhookRequest struct {
	Message      string `json:"message"`
	ProductID    string `json:"productId,omitempty"`
	ProductTitle string `json:"productTitle,omitempty"`
	Timestamp    string `json:"timestamp"`
}

// WebhookAssistant posts each turn to a fixed URL and reads the reply text
// from the JSON response
type WebhookAssistant struct {
	url          string
	responsePath string
	httpClient   *http.Client
}

// WebhookOption configures a WebhookAssistant
type WebhookOption func(*WebhookAssistant)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) WebhookOption {
	return func(a *WebhookAssistant) {
		if c != nil {
			a.httpClient = c
		}
	}
}

// WithResponsePath sets the gjson path of the reply text, e.g. "data.reply"
func WithResponsePath(path string) WebhookOption {
	return func(a *WebhookAssistant) {
		if path != "" {
			a.responsePath = path
		}
	}
}

// NewWebhookAssistant creates a webhook client for url. Call deadlines come
// from the context; the default client only guards against hung sockets.
func NewWebhookAssistant(url string, opts ...WebhookOption) *WebhookAssistant {
	a := &WebhookAssistant{
		url:          url,
		responsePath: DefaultResponsePath,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Reply implements assistant.Remote. Transport failures and non-2xx statuses
// return ErrRemoteUnavailable; a body without a non-blank string at the
// response path returns ErrRemoteMalformed.
func (a *WebhookAssistant) Reply(ctx context.Context, turn assistant.Turn) (string, error) {
	payload, err := json.Marshal(webhookRequest{
		Message:      turn.Message,
		ProductID:    turn.Product.ProductID,
		ProductTitle: turn.Product.ProductTitle,
		Timestamp:    turn.Timestamp.UTC().Format(timestampFormat),
	})
	if err != nil {
		return "", fmt.Errorf("webhook: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("webhook: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		// keep ctx errors visible so deadlines are reported as timeouts
		return "", fmt.Errorf("%w: %w", assistant.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %w", assistant.ErrRemoteUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: HTTP %d", assistant.ErrRemoteUnavailable, resp.StatusCode)
	}

	return extractReply(body, a.responsePath)
}

func extractReply(body []byte, path string) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: body is not JSON", assistant.ErrRemoteMalformed)
	}
	result := gjson.GetBytes(body, path)
	if result.Type != gjson.String {
		return "", fmt.Errorf("%w: no string at %q", assistant.ErrRemoteMalformed, path)
	}
	text := strings.TrimSpace(result.String())
	if text == "" {
		return "", fmt.Errorf("%w: blank reply at %q", assistant.ErrRemoteMalformed, path)
	}
	return text, nil
}

var _ assistant.Remote = (*WebhookAssistant)(nil)
