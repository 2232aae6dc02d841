package shiori

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/five82/shelf/internal/request"
)

// Transport executes a resolved request. It returns an error only when no
// response was received; HTTP error statuses are reported in Response.
type Transport interface {
	Do(ctx context.Context, req *request.Request) (*Response, error)
}

// Response is the raw result of a round trip.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Ensure RestyTransport implements Transport at compile time.
var _ Transport = (*RestyTransport)(nil)

const (
	// DefaultTimeout bounds every request when no timeout is configured.
	DefaultTimeout   = 30 * time.Second
	defaultUserAgent = "shelf/0.1"
)

// RestyTransport is the Transport backed by a resty client.
type RestyTransport struct {
	client *resty.Client
}

// NewRestyTransport builds a transport with the given timeout and user agent.
// Non-positive timeouts use DefaultTimeout.
func NewRestyTransport(timeout time.Duration, userAgent string) *RestyTransport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = defaultUserAgent
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")
	return &RestyTransport{client: client}
}

// Do sends req and reads the whole response body.
func (t *RestyTransport) Do(ctx context.Context, req *request.Request) (*Response, error) {
	if t == nil || t.client == nil {
		return nil, fmt.Errorf("transport is nil")
	}
	if req == nil {
		return nil, fmt.Errorf("request is nil")
	}

	r := t.client.R().SetContext(ctx)
	for _, h := range req.Headers {
		r.SetHeader(h.Name, h.Value)
	}
	if req.HasBody {
		r.SetBody([]byte(req.Body))
	}

	fields := logrus.Fields{
		"operation": req.Operation,
		"method":    req.Method,
		"url":       req.URL,
	}

	start := time.Now()
	resp, err := r.Execute(strings.ToUpper(req.Method), req.URL)
	fields["duration_ms"] = time.Since(start).Milliseconds()
	if err != nil {
		netErr := &NetworkError{Operation: req.Operation, Timeout: isTimeout(ctx, err), Err: err}
		logrus.WithFields(fields).WithError(err).Warnln("request failed")
		return nil, netErr
	}

	fields["status"] = resp.StatusCode()
	logrus.WithFields(fields).Debugln("request completed")

	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if ctx != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
