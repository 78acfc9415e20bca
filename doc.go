// Package tollgate provides the core domain logic for a capability-token
// gateway in front of an S3-compatible object store.
//
// The gateway itself holds no state: every request carries everything needed
// to authorize and execute it, and object plus multipart-session state lives
// entirely in the backing store. This package contains the pure pieces the
// HTTP layer and the client share:
//
//   - TokenIssuer: stateless, action-scoped access tokens signed with
//     HMAC-SHA256 over a canonical payload plus an expiry
//   - ResolveRange: HTTP byte-range parsing against a known object size
//   - ContentDisposition: attachment/inline header construction with an
//     RFC 5987 extended filename parameter
//   - BuildTree: folding a flat key listing into a browsable folder tree
//   - Error: the gateway's tagged error taxonomy, each variant carrying the
//     HTTP status it maps to
//
// # Tokens
//
// Tokens bind one action to one resource for a bounded time:
//
//	issuer := tollgate.NewTokenIssuer(secret)
//	token, ok := issuer.Issue(tollgate.ObjectPayload("docs/a.pdf", true), 24*time.Hour)
//	// later, on the serving path:
//	if !issuer.Verify(tollgate.ObjectPayload(key, download), token) {
//	    // 401
//	}
//
// A token is a short opaque string "<expiry>.<base64url signature>"; there is
// no server-side session storage and no revocation, only expiry.
//
// See the store package for the backing-store interface, the http package for
// the gateway endpoints, and clientcli for the upload engine.
package tollgate
