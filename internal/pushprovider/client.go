package pushprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Client talks to the push provider. One attempt per token, bounded by the
// configured timeout; there is no retry policy, a failed attempt is
// terminal.
type Client struct {
	endpoint   string
	serverKey  string
	httpClient *http.Client
	logger     *slog.Logger
}

type Config struct {
	Endpoint  string
	ServerKey string
	Timeout   time.Duration
}

func NewClient(config Config, logger *slog.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		endpoint:   config.Endpoint,
		serverKey:  config.ServerKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type pushRequest struct {
	To           string                 `json:"to"`
	Notification pushNotification       `json:"notification"`
	Data         map[string]interface{} `json:"data,omitempty"`
}

type pushNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type pushResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

// Send delivers one push message to one device token. It reports whether
// the provider accepted the message.
func (c *Client) Send(ctx context.Context, token, title, body string, data map[string]interface{}) (bool, error) {
	payload := pushRequest{
		To:           token,
		Notification: pushNotification{Title: title, Body: body},
		Data:         data,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("failed to encode push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return false, fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.serverKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("push provider returned status %d", resp.StatusCode)
	}

	var result pushResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		// provider accepted the request; treat an unreadable body as
		// delivered rather than inventing a failure
		c.logger.Debug("could not decode push provider response", "error", err)
		return true, nil
	}
	if result.Failure > 0 && result.Success == 0 {
		return false, nil
	}

	return true, nil
}
