package shiori

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/shelf/internal/request"
)

// Operations is the bookmark API as seen by the UI and CLI.
// This interface is implemented by *Client and can be used for testing.
type Operations interface {
	ListBookmarks(ctx context.Context) ([]BookmarkSummary, error)
	FetchArticle(ctx context.Context, id int) (string, error)
	AddBookmark(ctx context.Context, rawURL string) error
	DeleteBookmarks(ctx context.Context, ids string) error
}

// Ensure Client implements Operations at compile time.
var _ Operations = (*Client)(nil)

// Options configure a Client.
type Options struct {
	BaseURL   string
	Username  string
	Password  string
	Timeout   time.Duration
	UserAgent string

	// Transport overrides the resty transport, mainly for tests.
	Transport Transport
	// Registry overrides the default descriptor table.
	Registry *request.Registry
	// Clock overrides time.Now for expiry decisions.
	Clock func() time.Time
}

// Client talks to the bookmark server API.
type Client struct {
	builder   *request.Builder
	transport Transport
	auth      *SessionManager
}

// NewClient builds a Client. Missing credentials are not an error here; they
// are reported by the first operation.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	transport := opts.Transport
	if transport == nil {
		transport = NewRestyTransport(opts.Timeout, opts.UserAgent)
	}
	builder := request.NewBuilder(base, opts.Registry)
	auth := NewSessionManager(Credentials{
		BaseURL:  base,
		Username: opts.Username,
		Password: opts.Password,
	}, builder, transport)
	if opts.Clock != nil {
		auth.now = opts.Clock
	}
	return &Client{builder: builder, transport: transport, auth: auth}, nil
}

// BaseURL returns the normalized server URL.
func (c *Client) BaseURL() string {
	return c.builder.BaseURL()
}

// Sessions returns the session manager.
func (c *Client) Sessions() *SessionManager {
	return c.auth
}

// Login forces a fresh login and returns the new expiry.
func (c *Client) Login(ctx context.Context) (time.Time, error) {
	if c == nil {
		return time.Time{}, fmt.Errorf("client is nil")
	}
	if _, err := c.auth.Login(ctx); err != nil {
		return time.Time{}, err
	}
	_, expiresAt, _ := c.auth.Session().Current()
	return expiresAt, nil
}

// ListBookmarks returns the bookmarks of the configured user.
func (c *Client) ListBookmarks(ctx context.Context) ([]BookmarkSummary, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	resp, err := c.do(ctx, request.OpBookmarks, nil)
	if err != nil {
		return nil, err
	}
	var payload bookmarksResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, malformed(request.OpBookmarks, "decode bookmarks", err)
	}
	if payload.Bookmarks == nil {
		return nil, malformed(request.OpBookmarks, "response has no bookmarks field", nil)
	}
	return *payload.Bookmarks, nil
}

// FetchArticle returns the cached article HTML of a bookmark.
func (c *Client) FetchArticle(ctx context.Context, id int) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return "", fmt.Errorf("bookmark id must be positive, got %d", id)
	}
	resp, err := c.do(ctx, request.OpArticle, request.Args{{Key: "id", Value: strconv.Itoa(id)}})
	if err != nil {
		return "", err
	}
	return string(resp.Body), nil
}

// AddBookmark saves rawURL as a new bookmark.
func (c *Client) AddBookmark(ctx context.Context, rawURL string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return fmt.Errorf("bookmark url is empty")
	}
	_, err := c.do(ctx, request.OpAdd, request.Args{{Key: "new-url", Value: jsonStringContent(rawURL)}})
	return err
}

// DeleteBookmarks deletes the bookmarks named by ids, a JSON array such as
// "[1,2,3]". The string is sent as the request body unchanged; FormatIDs
// builds it from a slice.
func (c *Client) DeleteBookmarks(ctx context.Context, ids string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	_, err := c.do(ctx, request.OpDelete, request.Args{{Key: "ids", Value: ids}})
	return err
}

// do authenticates, builds and executes op, and rejects error statuses.
func (c *Client) do(ctx context.Context, op string, args request.Args) (*Response, error) {
	token, err := c.auth.EnsureAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	req, err := c.builder.Build(op, args.With("token", token))
	if err != nil {
		return nil, err
	}
	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		statusErr := newStatusError(op, resp)
		logrus.WithFields(logrus.Fields{
			"operation": op,
			"status":    resp.StatusCode,
		}).Warnln("server rejected request")
		return nil, statusErr
	}
	return resp, nil
}

// parseBaseURL normalizes the configured server URL. An empty value stays
// empty so the missing setting is reported when an operation runs.
func parseBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse server_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("parse server_url %q: no host", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	return u.String(), nil
}
