package mailer

import (
	"context"
	"fmt"

	"github.com/AsifAhmedTanjid/portfolio_contact_relay/logger"
	"github.com/resend/resend-go/v2"
)

// APIKeyFunc yields the provider API key.
type APIKeyFunc func() string

// ResendMailer sends through the Resend HTTP API. The key is resolved on
// every Send.
type ResendMailer struct {
	apiKey APIKeyFunc
	emails func(apiKey string) resend.EmailsSvc
}

func NewResendMailer(apiKey APIKeyFunc) *ResendMailer {
	return &ResendMailer{
		apiKey: apiKey,
		emails: func(key string) resend.EmailsSvc {
			return resend.NewClient(key).Emails
		},
	}
}

func (r *ResendMailer) Send(ctx context.Context, msg Message) error {
	key := r.apiKey()
	if key == "" {
		return ErrMissingCredentials
	}

	params := &resend.SendEmailRequest{
		From:    msg.From(),
		To:      msg.To,
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Text:    msg.Text,
		Html:    msg.HTML,
	}

	resp, err := r.emails(key).SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	logger.GetLogger().Debugw("Resend accepted message", "id", resp.Id, "subject", msg.Subject)
	return nil
}
