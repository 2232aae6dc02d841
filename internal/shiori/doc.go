// Package shiori provides an HTTP client for a self-hosted Shiori bookmark
// server.
//
// # Overview
//
// The client exposes four operations (list bookmarks, fetch article content,
// add a bookmark, delete bookmarks) behind the Operations interface. Each
// operation obtains a bearer token from the SessionManager, builds its request
// with the request package, executes it through a Transport and decodes the
// response.
//
// # Architecture
//
//   - client.go: Client, Options and the four operations
//   - session.go: Credentials, Session and SessionManager (login and refresh)
//   - transport.go: Transport interface and the resty-backed implementation
//   - types.go: BookmarkSummary and response shapes
//   - errors.go: sentinel and typed errors
//
// # Client Usage
//
//	client, err := shiori.NewClient(shiori.Options{
//		BaseURL:  "http://localhost:8080",
//		Username: "shiori",
//		Password: "gopher",
//	})
//	if err != nil {
//		return err
//	}
//
//	bookmarks, err := client.ListBookmarks(ctx)
//
// # Session Lifecycle
//
// A Session starts empty. The first operation logs in and stores the token
// together with its expiry. Later operations reuse the token without a network
// call while the clock is before the expiry; at or after the expiry the next
// operation logs in again. A failed login empties the session. There is no
// logout.
//
// SessionManager serializes EnsureAuthenticated so concurrent callers, such as
// the TUI and its background refresher, trigger a single login.
//
// # Error Handling
//
// Errors match these sentinels with errors.Is:
//
//   - ErrMissingConfiguration: server URL, username or password unset
//   - ErrAuthenticationFailed: the server answered the login with ok=false
//   - ErrNetwork / ErrTimeout: no response was received
//   - ErrMalformedResponse: the body could not be decoded or lacked a field
//
// HTTP statuses >= 400 produce a *StatusError. Request building failures
// (request.ErrUnknownOperation, request.ErrMissingArgument) pass through
// unchanged. Nothing is retried.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation
//   - Carry Accept: application/json and a shelf User-Agent
//   - Time out after 30 seconds unless Options.Timeout says otherwise
//   - Are logged (operation, method, url, status, duration) at debug level;
//     headers and bodies are never logged
package shiori
