package validators

import (
	"errors"
	"strings"

	"github.com/AsifAhmedTanjid/portfolio_contact_relay/models"
)

// ValidateSubmission checks what the binding tags cannot express. Values are
// not modified; the relay forwards them as typed.
func ValidateSubmission(s models.ContactSubmission) error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("name must not be blank")
	}
	if strings.TrimSpace(s.Message) == "" {
		return errors.New("message must not be blank")
	}
	// the name ends up in the From and Subject headers
	if strings.ContainsAny(s.Name, "\r\n") {
		return errors.New("name must be a single line")
	}
	return nil
}
