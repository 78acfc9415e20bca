// Package http provides the gateway's HTTP surface: token-gated object
// reads with byte-range support, tokenized direct and multipart writes, and
// the admin-gated control endpoints that issue capability tokens.
//
// # Endpoints
//
//   - GET  /api/auth      admin credential probe
//   - GET  /api/files     full listing folded into a folder tree
//   - GET  /api/object    range-aware object read (token-gated)
//   - DELETE /api/object  object delete (admin)
//   - GET  /api/download  issue a tokenized object URL (admin)
//   - POST /api/upload    issue a tokenized direct-write URL (admin)
//   - PUT  /api/upload    direct object write (token or admin)
//   - POST /api/multipart multipart control: create/signPart/complete/abort (admin)
//   - PUT  /api/multipart part write (token or admin)
//   - GET  /api/direct    redirect to the public bucket URL, when configured
//
// # Authorization
//
// Two layers, both optional and independently disabled by absent config:
// admin credentials travel in the X-Admin-Username / X-Admin-Password
// headers and are compared verbatim; capability tokens (tollgate.TokenIssuer)
// authorize single actions without credentials. When no admin password is
// configured the gateway is fully open; when no token secret is configured
// the token layer is skipped.
//
// Handlers are stateless and single-request-scoped: any instance can serve
// any request, and all session identity travels in the request itself.
//
// # Errors
//
// Every failure is translated at the boundary into a JSON {"error": message}
// body with the taxonomy status from the tollgate package; handlers never
// leak partial state.
package http
