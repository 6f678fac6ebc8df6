// Package contactform is the client half of the contact relay: it holds the
// three form fields, submits them to the relay endpoint and reports the
// outcome as a toast notification.
//
// A Form moves idle -> submitting -> idle. While submitting, inputs and the
// submit control are disabled. Fields, including a CAPTCHA token, are
// cleared as soon as a submission starts and are not restored if it fails.
package contactform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// DefaultEndpoint is the relay path relative to the site origin.
const DefaultEndpoint = "/api/contact"

const toastDuration = 3 * time.Second

var (
	// ErrSubmitting is returned while a submission is in flight.
	ErrSubmitting   = errors.New("a submission is already in flight")
	ErrUnknownField = errors.New("unknown form field")
)

// StatusError reports a non-2xx relay response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("relay responded with status %d", e.Code)
}

// Fields are the form inputs. Token carries a CAPTCHA response and is only
// sent when set.
type Fields struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

type State int

const (
	Idle State = iota
	Submitting
)

func (s State) String() string {
	if s == Submitting {
		return "submitting"
	}
	return "idle"
}

type Kind int

const (
	Success Kind = iota
	Failure
)

// Notification is a transient toast shown after a submission.
type Notification struct {
	Kind        Kind
	Title       string
	Description string
	Duration    time.Duration
}

var (
	successToast = Notification{
		Kind:        Success,
		Title:       "Message sent successfully!",
		Description: "I'll get back to you soon.",
		Duration:    toastDuration,
	}
	failureToast = Notification{
		Kind:        Failure,
		Title:       "Failed to send message",
		Description: "Please try again later.",
		Duration:    toastDuration,
	}
)

type Option func(*Form)

func WithHTTPClient(c *http.Client) Option {
	return func(f *Form) { f.client = c }
}

// WithNotifier registers the toast sink. It is called once per submission.
func WithNotifier(n func(Notification)) Option {
	return func(f *Form) { f.notify = n }
}

type Form struct {
	endpoint string
	client   *http.Client
	notify   func(Notification)

	mu     sync.Mutex
	fields Fields
	state  State
}

// New returns an idle, empty form posting to endpoint (an absolute URL).
func New(endpoint string, opts ...Option) *Form {
	f := &Form{endpoint: endpoint, client: http.DefaultClient}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Set updates one field by its input name. Inputs are disabled while
// submitting, in which case the change is dropped and ErrSubmitting returned.
func (f *Form) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == Submitting {
		return ErrSubmitting
	}
	switch field {
	case "name":
		f.fields.Name = value
	case "email":
		f.fields.Email = value
	case "message":
		f.fields.Message = value
	case "token":
		f.fields.Token = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func (f *Form) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Disabled reports whether inputs and the submit control are disabled.
func (f *Form) Disabled() bool {
	return f.State() == Submitting
}

// Submit clears the form, posts the captured fields once and returns the
// toast that was shown. The error is the failure cause, nil on success.
// There is no retry.
func (f *Form) Submit(ctx context.Context) (Notification, error) {
	f.mu.Lock()
	if f.state == Submitting {
		f.mu.Unlock()
		return Notification{}, ErrSubmitting
	}
	fields := f.fields
	f.fields = Fields{}
	f.state = Submitting
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.state = Idle
		f.mu.Unlock()
	}()

	n := successToast
	err := f.post(ctx, fields)
	if err != nil {
		n = failureToast
	}
	if f.notify != nil {
		f.notify(n)
	}
	return n, err
}

func (f *Form) post(ctx context.Context, fields Fields) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}
