package http

import (
	"crypto/subtle"
	"net/http"
)

// AdminConfig holds the credentials accepted on the admin header pair.
// An empty Password disables the guard entirely.
type AdminConfig struct {
	Username string
	Password string
}

const (
	headerAdminUsername = "X-Admin-Username"
	headerAdminPassword = "X-Admin-Password"
)

// Authorized reports whether r carries valid admin credentials. A config
// with no password configured authorizes every request; a config with no
// username checks the password alone.
func (c AdminConfig) Authorized(r *http.Request) bool {
	if c.Password == "" {
		return true
	}
	passOK := subtle.ConstantTimeCompare([]byte(r.Header.Get(headerAdminPassword)), []byte(c.Password)) == 1
	if c.Username == "" {
		return passOK
	}
	userOK := subtle.ConstantTimeCompare([]byte(r.Header.Get(headerAdminUsername)), []byte(c.Username)) == 1
	return userOK && passOK
}

// AdminMiddleware rejects requests without valid admin credentials.
// When no password is configured it passes everything through.
func AdminMiddleware(cfg AdminConfig) func(http.Handler) http.Handler {
	if cfg.Password == "" {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Authorized(r) {
				WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
