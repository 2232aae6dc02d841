package request

import (
	"errors"
	"fmt"
	"net/http"
)

// Operation names registered by DefaultRegistry.
const (
	OpLogin     = "login"
	OpBookmarks = "bookmarks"
	OpArticle   = "article"
	OpAdd       = "add"
	OpDelete    = "delete"
)

// ErrUnknownOperation is returned when a descriptor name is not registered.
var ErrUnknownOperation = errors.New("unknown operation")

const (
	jsonContentType = "Content-Type: application/json"
	bearerAuth      = "Authorization: Bearer :token"
)

// Descriptor is the static shape of one API operation. Path, Headers and Body
// are templates containing :name placeholders. An empty Body means the
// request carries no body.
type Descriptor struct {
	Name    string
	Method  string
	Path    string
	Headers []string
	Body    string
}

// HasBody reports whether the descriptor defines a body template.
func (d Descriptor) HasBody() bool {
	return d.Body != ""
}

// Placeholders returns every placeholder referenced by the descriptor's
// templates in first-seen order: path, then headers, then body.
func (d Descriptor) Placeholders() []string {
	seen := make(map[string]bool)
	var names []string
	collect := func(template string) {
		for _, name := range Placeholders(template) {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	collect(d.Path)
	for _, h := range d.Headers {
		collect(h)
	}
	collect(d.Body)
	return names
}

// Registry is a fixed table of descriptors keyed by name.
type Registry struct {
	order       []string
	descriptors map[string]Descriptor
}

// NewRegistry builds a registry from the given descriptors. Duplicate or
// empty names are rejected.
func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	r := &Registry{descriptors: make(map[string]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		if d.Name == "" {
			return nil, fmt.Errorf("descriptor with path %q has no name", d.Path)
		}
		if _, dup := r.descriptors[d.Name]; dup {
			return nil, fmt.Errorf("duplicate descriptor %q", d.Name)
		}
		d.Headers = append([]string(nil), d.Headers...)
		r.descriptors[d.Name] = d
		r.order = append(r.order, d.Name)
	}
	return r, nil
}

// DefaultRegistry returns the registry of the bookmark server API.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		Descriptor{
			Name:    OpLogin,
			Method:  http.MethodPost,
			Path:    "/api/v1/auth/login",
			Headers: []string{jsonContentType},
			Body:    `{"username": ":username", "password": ":password", "remember": true}`,
		},
		Descriptor{
			Name:    OpBookmarks,
			Method:  http.MethodGet,
			Path:    "/api/bookmarks",
			Headers: []string{jsonContentType, bearerAuth},
		},
		Descriptor{
			Name:    OpArticle,
			Method:  http.MethodGet,
			Path:    "/bookmark/:id/content",
			Headers: []string{jsonContentType, bearerAuth},
		},
		Descriptor{
			Name:    OpAdd,
			Method:  http.MethodPost,
			Path:    "/api/bookmarks",
			Headers: []string{jsonContentType, bearerAuth},
			Body:    `{"url": ":new-url"}`,
		},
		Descriptor{
			Name:    OpDelete,
			Method:  http.MethodDelete,
			Path:    "/api/bookmarks",
			Headers: []string{jsonContentType, bearerAuth},
			Body:    ":ids",
		},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, error) {
	if r == nil {
		return Descriptor{}, fmt.Errorf("%w: %q (no registry)", ErrUnknownOperation, name)
	}
	d, ok := r.descriptors[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	d.Headers = append([]string(nil), d.Headers...)
	return d, nil
}

// Names lists registered descriptor names in registration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.order...)
}
