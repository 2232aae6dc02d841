package shiori

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/shelf/internal/request"
)

// fakeTransport answers requests from a per-operation handler and records
// what it saw.
type fakeTransport struct {
	mu       sync.Mutex
	handlers map[string]func(req *request.Request) (*Response, error)
	requests []*request.Request
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{handlers: make(map[string]func(*request.Request) (*Response, error))}
}

func (f *fakeTransport) on(op string, h func(req *request.Request) (*Response, error)) {
	f.handlers[op] = h
}

func (f *fakeTransport) Do(_ context.Context, req *request.Request) (*Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	h := f.handlers[req.Operation]
	f.mu.Unlock()
	if h == nil {
		return &Response{StatusCode: http.StatusNotFound}, nil
	}
	return h(req)
}

func (f *fakeTransport) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Operation == op {
			n++
		}
	}
	return n
}

func jsonResponse(t *testing.T, status int, v any) *Response {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return &Response{StatusCode: status, Body: b}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestManager(transport Transport, clock *fakeClock) *SessionManager {
	creds := Credentials{BaseURL: "http://shiori.test", Username: "shiori", Password: "gopher"}
	m := NewSessionManager(creds, request.NewBuilder(creds.BaseURL, nil), transport)
	m.now = clock.Now
	return m
}

func loginOK(t *testing.T, token string, expires time.Time) func(*request.Request) (*Response, error) {
	return func(*request.Request) (*Response, error) {
		return jsonResponse(t, http.StatusOK, map[string]any{
			"ok": true,
			"message": map[string]any{
				"token":   token,
				"expires": expires.Unix(),
			},
		}), nil
	}
}

func TestEnsureAuthenticated_ReusesValidToken(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	transport := newFakeTransport()
	transport.on(request.OpLogin, loginOK(t, "tok-1", clock.now.Add(time.Hour)))
	m := newTestManager(transport, clock)

	first, err := m.EnsureAuthenticated(context.Background())
	require.NoError(t, err)
	second, err := m.EnsureAuthenticated(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "tok-1", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, transport.count(request.OpLogin))
}

func TestEnsureAuthenticated_RefreshesAtExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	firstExpiry := clock.now.Add(time.Hour)
	transport := newFakeTransport()
	transport.on(request.OpLogin, loginOK(t, "tok-1", firstExpiry))
	m := newTestManager(transport, clock)

	_, err := m.EnsureAuthenticated(context.Background())
	require.NoError(t, err)

	// now == expiresAt counts as expired
	clock.Advance(time.Hour)
	secondExpiry := clock.now.Add(2 * time.Hour)
	transport.on(request.OpLogin, loginOK(t, "tok-2", secondExpiry))

	token, err := m.EnsureAuthenticated(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)
	assert.Equal(t, 2, transport.count(request.OpLogin))

	gotToken, gotExpiry, populated := m.Session().Current()
	assert.True(t, populated)
	assert.Equal(t, "tok-2", gotToken)
	assert.True(t, gotExpiry.Equal(secondExpiry))
}

func TestEnsureAuthenticated_RejectedLoginLeavesSessionEmpty(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	transport := newFakeTransport()
	transport.on(request.OpLogin, func(*request.Request) (*Response, error) {
		return jsonResponse(t, http.StatusUnauthorized, map[string]any{
			"ok":      false,
			"message": "username or password do not match",
		}), nil
	})
	m := newTestManager(transport, clock)

	_, err := m.EnsureAuthenticated(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAuthenticationFailed))

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "username or password do not match", authErr.Message)
	assert.True(t, m.Session().Empty())
}

func TestLogin_FailedRefreshEmptiesPopulatedSession(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	transport := newFakeTransport()
	transport.on(request.OpLogin, loginOK(t, "tok-1", clock.now.Add(time.Minute)))
	m := newTestManager(transport, clock)

	_, err := m.EnsureAuthenticated(context.Background())
	require.NoError(t, err)
	require.False(t, m.Session().Empty())

	transport.on(request.OpLogin, func(*request.Request) (*Response, error) {
		return jsonResponse(t, http.StatusOK, map[string]any{"ok": false, "message": "nope"}), nil
	})
	clock.Advance(2 * time.Minute)

	_, err = m.EnsureAuthenticated(context.Background())
	assert.True(t, errors.Is(err, ErrAuthenticationFailed))
	assert.True(t, m.Session().Empty())
}

func TestEnsureAuthenticated_MissingConfigurationSkipsNetwork(t *testing.T) {
	transport := newFakeTransport()
	m := NewSessionManager(Credentials{BaseURL: "http://shiori.test"}, request.NewBuilder("http://shiori.test", nil), transport)

	_, err := m.EnsureAuthenticated(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingConfiguration))

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"username", "password"}, cfgErr.Missing)
	assert.Zero(t, transport.count(request.OpLogin))
}

func TestLogin_SendsEscapedCredentials(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	var gotBody map[string]any
	transport := newFakeTransport()
	transport.on(request.OpLogin, func(req *request.Request) (*Response, error) {
		require.NoError(t, json.Unmarshal([]byte(req.Body), &gotBody))
		return loginOK(t, "tok", clock.now.Add(time.Hour))(req)
	})
	creds := Credentials{BaseURL: "http://shiori.test", Username: `sh"ori`, Password: `pa\ss <&>`}
	m := NewSessionManager(creds, request.NewBuilder(creds.BaseURL, nil), transport)
	m.now = clock.Now

	_, err := m.Login(context.Background())
	require.NoError(t, err)

	assert.Equal(t, `sh"ori`, gotBody["username"])
	assert.Equal(t, `pa\ss <&>`, gotBody["password"])
	assert.Equal(t, true, gotBody["remember"])
}

func TestLogin_MalformedResponses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"not json", http.StatusOK, "<html>", ErrMalformedResponse},
		{"no ok field", http.StatusOK, `{"message":{}}`, ErrMalformedResponse},
		{"no token", http.StatusOK, `{"ok":true,"message":{"expires":1700003600}}`, ErrMalformedResponse},
		{"no expiry", http.StatusOK, `{"ok":true,"message":{"token":"t"}}`, ErrMalformedResponse},
		{"message not object", http.StatusOK, `{"ok":true,"message":"hi"}`, ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
			transport := newFakeTransport()
			transport.on(request.OpLogin, func(*request.Request) (*Response, error) {
				return &Response{StatusCode: tt.status, Body: []byte(tt.body)}, nil
			})
			m := newTestManager(transport, clock)

			_, err := m.EnsureAuthenticated(context.Background())
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.True(t, m.Session().Empty())
		})
	}
}

func TestLogin_ErrorStatusWithoutOKField(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	transport := newFakeTransport()
	transport.on(request.OpLogin, func(*request.Request) (*Response, error) {
		return &Response{StatusCode: http.StatusBadGateway, Body: []byte("bad gateway")}, nil
	})
	m := newTestManager(transport, clock)

	_, err := m.EnsureAuthenticated(context.Background())
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
}

func TestLogin_NetworkErrorPropagates(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	transport := newFakeTransport()
	transport.on(request.OpLogin, func(*request.Request) (*Response, error) {
		return nil, &NetworkError{Operation: request.OpLogin, Timeout: true, Err: context.DeadlineExceeded}
	})
	m := newTestManager(transport, clock)

	_, err := m.EnsureAuthenticated(context.Background())
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.False(t, errors.Is(err, ErrNetwork))
	assert.True(t, m.Session().Empty())
}

func TestEnsureAuthenticated_ConcurrentCallersLoginOnce(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	transport := newFakeTransport()
	transport.on(request.OpLogin, loginOK(t, "tok", clock.now.Add(time.Hour)))
	m := newTestManager(transport, clock)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.EnsureAuthenticated(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, transport.count(request.OpLogin))
}

func TestExpiryTime_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"number", `1700000000`, time.Unix(1700000000, 0)},
		{"fractional", `1700000000.5`, time.Unix(1700000000, int64(500*time.Millisecond))},
		{"numeric string", `"1700000000"`, time.Unix(1700000000, 0)},
		{"rfc3339", `"2024-01-02T03:04:05Z"`, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"null", `null`, time.Time{}},
		{"zero", `0`, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e expiryTime
			require.NoError(t, json.Unmarshal([]byte(tt.in), &e))
			assert.True(t, e.Time.Equal(tt.want), "got %v want %v", e.Time, tt.want)
		})
	}

	var e expiryTime
	assert.Error(t, json.Unmarshal([]byte(`"tomorrow"`), &e))
}

func TestCredentials_Validate(t *testing.T) {
	assert.NoError(t, Credentials{BaseURL: "http://x", Username: "u", Password: "p"}.Validate())

	err := Credentials{Password: "p"}.Validate()
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"server_url", "username"}, cfgErr.Missing)
}
