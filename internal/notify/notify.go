// Package notify delivers assignment e-mails on a best-effort basis.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/balkashynov/crewboard/internal/config"
)

// Message is one e-mail to deliver
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Notifier sends messages. Failures are reported to the caller, never retried.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// New builds the notifier selected by cfg.Mode
func New(cfg config.NotifyConfig, logger *log.Logger) Notifier {
	if cfg.Mode == "http" {
		return NewHTTPNotifier(cfg.Endpoint, cfg.Token, cfg.From, cfg.Timeout)
	}
	return &LogNotifier{Logger: logger}
}

// HTTPNotifier posts messages as JSON to a mail relay endpoint
type HTTPNotifier struct {
	endpoint string
	token    string
	from     string
	client   *http.Client
}

// NewHTTPNotifier creates a relay client; timeout <= 0 means 10s
func NewHTTPNotifier(endpoint, token, from string, timeout time.Duration) *HTTPNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPNotifier{
		endpoint: endpoint,
		token:    token,
		from:     from,
		client:   &http.Client{Timeout: timeout},
	}
}

type relayRequest struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Send delivers msg through the relay. Any non-2xx response is an error.
func (n *HTTPNotifier) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("notify: recipient is required")
	}

	body, err := json.Marshal(relayRequest{
		From:    n.from,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("notify: failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notify: relay returned %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}
	return nil
}

// LogNotifier only logs what would have been sent
type LogNotifier struct {
	Logger *log.Logger
}

func (n *LogNotifier) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("notify: recipient is required")
	}
	if n.Logger != nil {
		n.Logger.Info("email queued", "to", msg.To, "subject", msg.Subject)
	}
	return nil
}
