// Package notify renders and sends transactional mail.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Message is a rendered mail ready to send.
type Message struct {
	From           string   `json:"from"`
	To             string   `json:"to"`
	ToName         string   `json:"to_name,omitempty"`
	Subject        string   `json:"subject"`
	HTML           string   `json:"html"`
	IdempotencyKey string   `json:"-"`
	Tags           []string `json:"tags,omitempty"`
}

// Mailer delivers a message. Implementations must be safe to call again
// with the same IdempotencyKey.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// PermanentError marks a delivery failure that retrying cannot fix, such as
// a rejected recipient.
type PermanentError struct {
	StatusCode int
	Body       string
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("mail api rejected message: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsPermanent reports whether err is a PermanentError.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

// APIMailer posts messages to an HTTP mail API.
type APIMailer struct {
	client *resty.Client
}

func NewAPIMailer(baseURL, token string) *APIMailer {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if token != "" {
		client.SetAuthToken(token)
	}
	return &APIMailer{client: client}
}

type sendResponse struct {
	ID string `json:"id"`
}

func (m *APIMailer) Send(ctx context.Context, msg Message) error {
	var result sendResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", msg.IdempotencyKey).
		SetBody(msg).
		SetResult(&result).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}

	code := resp.StatusCode()
	switch {
	case code >= 200 && code < 300:
		zerolog.Ctx(ctx).Debug().Str("message_id", result.ID).Str("to", msg.To).Msg("mail accepted")
		return nil
	case code == http.StatusConflict:
		// Already accepted under this idempotency key.
		return nil
	case code >= 400 && code < 500 && code != http.StatusTooManyRequests && code != http.StatusRequestTimeout:
		return &PermanentError{StatusCode: code, Body: truncate(resp.String(), 512)}
	}
	return fmt.Errorf("send mail to %s: HTTP %d: %s", msg.To, code, truncate(resp.String(), 512))
}

// LogMailer only logs messages. It is used when no mail API is configured.
type LogMailer struct {
	logger zerolog.Logger
}

func NewLogMailer(logger zerolog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("idempotency_key", msg.IdempotencyKey).
		Msg("mail not sent: no mail API configured")
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
