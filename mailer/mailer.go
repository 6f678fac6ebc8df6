// Package mailer turns contact submissions into outgoing email and hands them
// to a provider.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io"
	"net/mail"
	"text/template"

	"github.com/AsifAhmedTanjid/portfolio_contact_relay/models"
)

// ErrMissingCredentials is returned by a send when the provider credentials
// are not configured.
var ErrMissingCredentials = errors.New("mail credentials are not configured")

// Mailer delivers one message synchronously.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Message is one outgoing email. The sender display name and address are
// kept apart so providers can quote the name themselves.
type Message struct {
	FromName    string
	FromAddress string
	ReplyTo     string
	To          []string
	Subject     string
	Text        string
	HTML        string
}

// From formats the sender as an RFC 5322 mailbox, quoting or encoding the
// display name as needed.
func (m Message) From() string {
	return (&mail.Address{Name: m.FromName, Address: m.FromAddress}).String()
}

const contactHTML = `<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Message:</strong><br/>{{.Message}}</p>`

type executor interface {
	Execute(w io.Writer, data any) error
}

var (
	rawHTML     executor = template.Must(template.New("contact").Parse(contactHTML))
	escapedHTML executor = htmltemplate.Must(htmltemplate.New("contact").Parse(contactHTML))
)

// BuildMessage renders the owner notification for s. User content goes into
// the HTML body verbatim unless escape is set.
func BuildMessage(s models.ContactSubmission, to string, escape bool) (Message, error) {
	tmpl := rawHTML
	if escape {
		tmpl = escapedHTML
	}

	var html bytes.Buffer
	if err := tmpl.Execute(&html, s); err != nil {
		return Message{}, fmt.Errorf("failed to execute template: %w", err)
	}

	return Message{
		FromName:    s.Name,
		FromAddress: s.Email,
		ReplyTo:     s.Email,
		To:          []string{to},
		Subject:     fmt.Sprintf("New message from %s", s.Name),
		Text:        s.Message,
		HTML:        html.String(),
	}, nil
}
