package shiori

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/shelf/internal/request"
)

// Credentials are the one server/user/password triple of a process.
type Credentials struct {
	BaseURL  string
	Username string
	Password string
}

// Validate reports which settings are blank.
func (c Credentials) Validate() error {
	var missing []string
	if strings.TrimSpace(c.BaseURL) == "" {
		missing = append(missing, "server_url")
	}
	if strings.TrimSpace(c.Username) == "" {
		missing = append(missing, "username")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

// Session holds the bearer token and its expiry. It is either empty or
// populated; token and expiry always change together.
type Session struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time
	populated bool
}

// Current returns the token and expiry, and whether the session is populated.
func (s *Session) Current() (string, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.expiresAt, s.populated
}

// Empty reports whether no token is held.
func (s *Session) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.populated
}

// valid returns the token when the session is populated and now is before
// the expiry.
func (s *Session) valid(now time.Time) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.populated || !now.Before(s.expiresAt) {
		return "", false
	}
	return s.token, true
}

func (s *Session) set(token string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.expiresAt = expiresAt
	s.populated = true
}

func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expiresAt = time.Time{}
	s.populated = false
}

// SessionManager acquires and refreshes the session token.
type SessionManager struct {
	mu        sync.Mutex
	creds     Credentials
	builder   *request.Builder
	transport Transport
	session   *Session
	now       func() time.Time
}

// NewSessionManager wires a manager around an empty session.
func NewSessionManager(creds Credentials, builder *request.Builder, transport Transport) *SessionManager {
	return &SessionManager{
		creds:     creds,
		builder:   builder,
		transport: transport,
		session:   &Session{},
		now:       time.Now,
	}
}

// Session exposes the managed session for inspection.
func (m *SessionManager) Session() *Session {
	return m.session
}

// EnsureAuthenticated returns a token that is valid now, logging in only
// when the session is empty or expired.
func (m *SessionManager) EnsureAuthenticated(ctx context.Context) (string, error) {
	if err := m.creds.Validate(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if token, ok := m.session.valid(m.now()); ok {
		return token, nil
	}
	if !m.session.Empty() {
		logrus.WithField("username", m.creds.Username).Debugln("session expired, re-authenticating")
	}
	return m.login(ctx)
}

// Login performs the login exchange unconditionally.
func (m *SessionManager) Login(ctx context.Context) (string, error) {
	if err := m.creds.Validate(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.login(ctx)
}

func (m *SessionManager) login(ctx context.Context) (string, error) {
	token, expiresAt, err := m.exchange(ctx)
	if err != nil {
		m.session.clear()
		logrus.WithField("username", m.creds.Username).WithError(err).Warnln("login failed")
		return "", err
	}
	m.session.set(token, expiresAt)
	logrus.WithFields(logrus.Fields{
		"username": m.creds.Username,
		"expires":  expiresAt.Format(time.RFC3339),
	}).Infoln("logged in")
	return token, nil
}

type loginResponse struct {
	OK      *bool           `json:"ok"`
	Message json.RawMessage `json:"message"`
}

type loginPayload struct {
	Token   string     `json:"token"`
	Expires expiryTime `json:"expires"`
}

func (m *SessionManager) exchange(ctx context.Context) (string, time.Time, error) {
	req, err := m.builder.Build(request.OpLogin, request.Args{
		{Key: "username", Value: jsonStringContent(m.creds.Username)},
		{Key: "password", Value: jsonStringContent(m.creds.Password)},
	})
	if err != nil {
		return "", time.Time{}, err
	}

	resp, err := m.transport.Do(ctx, req)
	if err != nil {
		return "", time.Time{}, err
	}

	var payload loginResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil || payload.OK == nil {
		if resp.StatusCode >= 400 {
			return "", time.Time{}, newStatusError(request.OpLogin, resp)
		}
		if err != nil {
			return "", time.Time{}, malformed(request.OpLogin, "decode login response", err)
		}
		return "", time.Time{}, malformed(request.OpLogin, "login response has no ok field", nil)
	}

	if !*payload.OK {
		return "", time.Time{}, &AuthError{Message: messageText(payload.Message)}
	}

	var success loginPayload
	if err := json.Unmarshal(payload.Message, &success); err != nil {
		return "", time.Time{}, malformed(request.OpLogin, "decode login message", err)
	}
	if success.Token == "" {
		return "", time.Time{}, malformed(request.OpLogin, "login message has no token", nil)
	}
	if success.Expires.IsZero() {
		return "", time.Time{}, malformed(request.OpLogin, "login message has no expiry", nil)
	}
	return success.Token, success.Expires.Time, nil
}

// messageText renders a failure message that may be a JSON string or any
// other JSON value.
func messageText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// expiryTime decodes an expiry given as epoch seconds (JSON number or numeric
// string) or as an RFC 3339 string.
type expiryTime struct {
	time.Time
}

func (e *expiryTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		e.Time = time.Time{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			e.Time = time.Time{}
			return nil
		}
		if secs, err := strconv.ParseFloat(s, 64); err == nil {
			e.Time = epochSeconds(secs)
			return nil
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("parse expiry %q: %w", s, err)
		}
		e.Time = t
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	secs, err := n.Float64()
	if err != nil {
		return fmt.Errorf("parse expiry %q: %w", n.String(), err)
	}
	e.Time = epochSeconds(secs)
	return nil
}

func epochSeconds(secs float64) time.Time {
	if secs <= 0 {
		return time.Time{}
	}
	whole := int64(secs)
	frac := int64((secs - float64(whole)) * float64(time.Second))
	return time.Unix(whole, frac)
}

// jsonStringContent escapes s for insertion between the quotes of a JSON
// string template.
func jsonStringContent(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return s
	}
	out := strings.TrimSuffix(buf.String(), "\n")
	return out[1 : len(out)-1]
}
