// Package request turns named API descriptors into resolved HTTP requests.
//
// A Descriptor holds templates for the path, headers and body of one
// operation. Templates contain :name placeholders that Resolve substitutes
// from an ordered Args list:
//
//	b := request.NewBuilder("http://localhost:8080", nil)
//	req, err := b.Build(request.OpAdd, request.Args{
//		{Key: "token", Value: token},
//		{Key: "new-url", Value: `https://example.com`},
//	})
//
// Resolve is permissive and leaves unknown placeholders in place. Build is
// not: it refuses to produce a request while any placeholder of the
// descriptor lacks an argument, returning a *MissingArgumentError.
//
// Values are inserted verbatim. Callers that place a value inside a JSON
// string template are responsible for escaping it.
package request
