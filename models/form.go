package models

import "time"

// ContactSubmission is one contact form post. It lives for a single request.
type ContactSubmission struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email,max=254"`
	Message string `json:"message" binding:"required,max=5000"`
	// Token carries the Turnstile response when CAPTCHA is enabled.
	Token string `json:"token,omitempty"`
}

type ContactResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ExpiryLayout is a fixed width UTC layout so Expiry sorts lexically.
const ExpiryLayout = "2006-01-02T15:04:05.000000000Z"

// DeliveryRecord marks a submission that was already relayed. Only a hash of
// the submission is kept.
type DeliveryRecord struct {
	Fingerprint string
	Time        string
	Expiry      string
}

// ExpiresAt parses Expiry. Unparseable values count as already expired.
func (d *DeliveryRecord) ExpiresAt() time.Time {
	t, err := time.Parse(ExpiryLayout, d.Expiry)
	if err != nil {
		return time.Time{}
	}
	return t
}
