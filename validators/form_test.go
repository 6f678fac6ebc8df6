package validators

import (
	"testing"

	"github.com/AsifAhmedTanjid/portfolio_contact_relay/models"
	"github.com/stretchr/testify/assert"
)

func TestValidateSubmission(t *testing.T) {
	tests := []struct {
		name    string
		input   models.ContactSubmission
		wantErr string
	}{
		{"valid", models.ContactSubmission{Name: "A", Email: "a@b.com", Message: "hi"}, ""},
		{"markup is allowed", models.ContactSubmission{Name: "A", Email: "a@b.com", Message: "<script>x</script>"}, ""},
		{"blank name", models.ContactSubmission{Name: "  ", Email: "a@b.com", Message: "hi"}, "name must not be blank"},
		{"blank message", models.ContactSubmission{Name: "A", Email: "a@b.com", Message: "\n\t"}, "message must not be blank"},
		{"multi-line name", models.ContactSubmission{Name: "A\r\nBcc: x@y.z", Email: "a@b.com", Message: "hi"}, "name must be a single line"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubmission(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}
