package request

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingArgument is matched by MissingArgumentError.
var ErrMissingArgument = errors.New("missing required argument")

// MissingArgumentError reports placeholders of an operation that the caller
// did not supply.
type MissingArgumentError struct {
	Operation string
	Names     []string
}

func (e *MissingArgumentError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: missing required argument(s) %s", e.Operation, strings.Join(e.Names, ", "))
}

// Is lets errors.Is match ErrMissingArgument.
func (e *MissingArgumentError) Is(target error) bool {
	return target == ErrMissingArgument
}

// Header is a resolved request header.
type Header struct {
	Name  string
	Value string
}

// Request is a fully resolved, template-free HTTP request.
type Request struct {
	Operation string
	Method    string
	URL       string
	Headers   []Header
	Body      string
	HasBody   bool
}

// Header returns the value of the first header with the given name,
// compared case-insensitively.
func (r *Request) Header(name string) string {
	if r == nil {
		return ""
	}
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// Builder turns descriptors plus arguments into resolved requests.
type Builder struct {
	baseURL  string
	registry *Registry
}

// NewBuilder returns a Builder rooted at baseURL. A nil registry uses
// DefaultRegistry.
func NewBuilder(baseURL string, registry *Registry) *Builder {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Builder{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		registry: registry,
	}
}

// BaseURL returns the normalized base URL.
func (b *Builder) BaseURL() string {
	return b.baseURL
}

// Build resolves the named operation against args. Every placeholder
// referenced by the descriptor must have a key in args.
func (b *Builder) Build(name string, args Args) (*Request, error) {
	if b == nil {
		return nil, errors.New("request builder is nil")
	}
	d, err := b.registry.Lookup(name)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, placeholder := range d.Placeholders() {
		if !args.Has(placeholder) {
			missing = append(missing, placeholder)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingArgumentError{Operation: d.Name, Names: missing}
	}

	req := &Request{
		Operation: d.Name,
		Method:    d.Method,
		URL:       b.baseURL + Resolve(d.Path, args),
	}
	for _, template := range d.Headers {
		h, ok := parseHeader(Resolve(template, args))
		if !ok {
			continue
		}
		req.Headers = append(req.Headers, h)
	}
	if d.HasBody() {
		req.Body = Resolve(d.Body, args)
		req.HasBody = true
	}
	return req, nil
}

func parseHeader(line string) (Header, bool) {
	name, value, found := strings.Cut(line, ":")
	if !found {
		return Header{}, false
	}
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if name == "" || value == "" {
		return Header{}, false
	}
	return Header{Name: name, Value: value}, true
}
