package mailer

import (
	"context"
	"fmt"

	"github.com/AsifAhmedTanjid/portfolio_contact_relay/logger"
	"github.com/wneessen/go-mail"
)

// CredentialsFunc yields the account identity and application password.
type CredentialsFunc func() (user, password string)

// SMTPMailer submits mail to an authenticated SMTP server such as Gmail.
// Credentials are resolved on every Send.
type SMTPMailer struct {
	host        string
	port        int
	credentials CredentialsFunc
	tlsPolicy   mail.TLSPolicy
}

func NewSMTPMailer(host string, port int, credentials CredentialsFunc) *SMTPMailer {
	return &SMTPMailer{
		host:        host,
		port:        port,
		credentials: credentials,
		tlsPolicy:   mail.TLSMandatory,
	}
}

func (s *SMTPMailer) Send(ctx context.Context, msg Message) error {
	user, password := s.credentials()
	if user == "" || password == "" {
		return ErrMissingCredentials
	}

	m, err := buildMsg(msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.host,
		mail.WithPort(s.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(user),
		mail.WithPassword(password),
		mail.WithTLSPolicy(s.tlsPolicy),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}

	logger.GetLogger().Debugw("SMTP message accepted", "host", s.host, "subject", msg.Subject)
	return nil
}

func buildMsg(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(msg.From()); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to address: %w", err)
		}
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	return m, nil
}
