package contactform

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(t *testing.T, f *Form, name, email, message string) {
	t.Helper()
	require.NoError(t, f.Set("name", name))
	require.NoError(t, f.Set("email", email))
	require.NoError(t, f.Set("message", message))
}

func TestSubmitPostsFieldsVerbatimOnce(t *testing.T) {
	var calls int32
	var got Fields
	var contentType, method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := New(srv.URL + DefaultEndpoint)
	fill(t, f, " Ada <b> ", "not-validated", "line1\nline2 <script>x</script>")

	n, err := f.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, Fields{Name: " Ada <b> ", Email: "not-validated", Message: "line1\nline2 <script>x</script>"}, got)
	assert.Equal(t, Success, n.Kind)
}

func TestSubmitNotificationByStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{http.StatusOK, Success},
		{http.StatusCreated, Success},
		{http.StatusNoContent, Success},
		{299, Success},
		{http.StatusMultipleChoices, Failure},
		{http.StatusBadRequest, Failure},
		{http.StatusTooManyRequests, Failure},
		{http.StatusInternalServerError, Failure},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			var toasts []Notification
			f := New(srv.URL, WithNotifier(func(n Notification) { toasts = append(toasts, n) }))
			fill(t, f, "A", "a@b.com", "hi")

			n, err := f.Submit(context.Background())
			assert.Equal(t, tt.want, n.Kind)
			require.Len(t, toasts, 1)
			assert.Equal(t, n, toasts[0])
			assert.Equal(t, 3*time.Second, n.Duration)
			if tt.want == Success {
				assert.NoError(t, err)
				assert.Equal(t, "Message sent successfully!", n.Title)
			} else {
				var statusErr *StatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, tt.status, statusErr.Code)
				assert.Equal(t, "Failed to send message", n.Title)
			}
		})
	}
}

func TestSubmitNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	f := New(url)
	fill(t, f, "A", "a@b.com", "hi")

	n, err := f.Submit(context.Background())
	assert.Error(t, err)
	assert.Equal(t, Failure, n.Kind)
	assert.Equal(t, "Please try again later.", n.Description)
	assert.Equal(t, Fields{}, f.Fields(), "fields are not restored after a failure")
	assert.False(t, f.Disabled())
}

func TestSubmitClearsFieldsAndDisablesWhileInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := New(srv.URL)
	fill(t, f, "A", "a@b.com", "hi")
	assert.False(t, f.Disabled())

	var wg sync.WaitGroup
	wg.Add(1)
	var n Notification
	var err error
	go func() {
		defer wg.Done()
		n, err = f.Submit(context.Background())
	}()

	<-entered
	assert.Equal(t, Fields{}, f.Fields())
	assert.True(t, f.Disabled())
	assert.Equal(t, Submitting, f.State())

	_, second := f.Submit(context.Background())
	assert.ErrorIs(t, second, ErrSubmitting)
	assert.ErrorIs(t, f.Set("name", "B"), ErrSubmitting)

	close(release)
	wg.Wait()

	require.NoError(t, err)
	assert.Equal(t, Success, n.Kind)
	assert.False(t, f.Disabled())
	assert.Equal(t, Idle, f.State())
	assert.Equal(t, Fields{}, f.Fields())
}

func TestSubmitReenablesAfterFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := New(srv.URL)
	fill(t, f, "A", "a@b.com", "hi")
	_, err := f.Submit(context.Background())
	assert.Error(t, err)
	assert.False(t, f.Disabled())
	assert.NoError(t, f.Set("name", "again"))
}

func TestSetUnknownField(t *testing.T) {
	f := New("http://example.invalid")
	assert.ErrorIs(t, f.Set("phone", "123"), ErrUnknownField)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "submitting", Submitting.String())
}

func TestSubmitToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  map[string]any
	}{
		{
			name: "without token",
			want: map[string]any{"name": "Ada", "email": "ada@example.com", "message": "Hello"},
		},
		{
			name:  "with token",
			token: "cf-token",
			want:  map[string]any{"name": "Ada", "email": "ada@example.com", "message": "Hello", "token": "cf-token"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]any
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewDecoder(r.Body).Decode(&got)
				w.WriteHeader(http.StatusOK)
			}))
			defer srv.Close()

			f := New(srv.URL + DefaultEndpoint)
			fill(t, f, "Ada", "ada@example.com", "Hello")
			if tt.token != "" {
				require.NoError(t, f.Set("token", tt.token))
			}

			_, err := f.Submit(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, Fields{}, f.Fields())
		})
	}
}
