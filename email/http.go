package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MrEthical07/authcore/domain"
)

const defaultSendTimeout = 10 * time.Second

// HTTPConfig configures an HTTPClient for a Postmark-style JSON send
// endpoint.
type HTTPConfig struct {
	BaseURL     string
	Sender      domain.Email
	ServerToken string
	Timeout     time.Duration
}

// HTTPClient posts messages to a transactional email API. The server token
// travels only in the auth header, never in the payload or in errors.
type HTTPClient struct {
	config HTTPConfig
	client *http.Client
}

// NewHTTPClient validates cfg and returns a client.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("email base URL required")
	}
	if cfg.Sender.IsZero() {
		return nil, errors.New("email sender required")
	}
	if cfg.ServerToken == "" {
		return nil, errors.New("email server token required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSendTimeout
	}

	return &HTTPClient{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type sendRequest struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	TextBody string `json:"TextBody"`
}

// Send posts the message and treats any non-2xx status as a delivery
// failure.
func (c *HTTPClient) Send(ctx context.Context, recipient domain.Email, subject, body string) error {
	payload, err := json.Marshal(sendRequest{
		From:     c.config.Sender.String(),
		To:       recipient.String(),
		Subject:  subject,
		TextBody: body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.config.ServerToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("email delivery failed: status %d", resp.StatusCode)
	}
	return nil
}
