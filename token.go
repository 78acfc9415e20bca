package tollgate

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

const (
	// MinTokenTTL and MaxTokenTTL bound the lifetime a caller may request;
	// requests outside the window are clamped, never rejected.
	MinTokenTTL = 30 * time.Second
	MaxTokenTTL = 24 * time.Hour
)

// TokenIssuer signs and verifies capability tokens. A token binds one
// canonical action payload to an expiry; nothing is stored server-side, so
// verification recomputes the signature from the request's reconstructed
// payload on every call.
//
// The zero-value issuer (empty secret) represents a disabled token layer:
// Issue returns ok=false and Verify always fails. Callers decide whether a
// disabled layer means open access (the HTTP handlers skip the token check
// entirely when no secret is configured).
type TokenIssuer struct {
	secret []byte
}

// NewTokenIssuer creates an issuer for the given shared secret. An empty
// secret disables issuance and verification.
func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

// Enabled reports whether a secret is configured.
func (t *TokenIssuer) Enabled() bool {
	return len(t.secret) > 0
}

// Issue signs payload with an expiry of now plus ttl clamped to
// [MinTokenTTL, MaxTokenTTL] and returns "<expiry>.<base64url(sig)>".
// ok is false when no secret is configured.
func (t *TokenIssuer) Issue(payload string, ttl time.Duration) (token string, ok bool) {
	if !t.Enabled() {
		return "", false
	}
	if ttl < MinTokenTTL {
		ttl = MinTokenTTL
	}
	if ttl > MaxTokenTTL {
		ttl = MaxTokenTTL
	}
	expiry := time.Now().Add(ttl).Unix()
	return strconv.FormatInt(expiry, 10) + "." + t.sign(payload, expiry), true
}

// Verify checks token against payload. It fails closed on any malformed
// token: missing separator, non-numeric expiry, expiry in the past, or a
// signature that does not match byte for byte. The comparison is constant
// time.
func (t *TokenIssuer) Verify(payload, token string) bool {
	if !t.Enabled() {
		return false
	}

	expiryStr, sig, found := strings.Cut(token, ".")
	if !found {
		return false
	}

	expiry, err := strconv.ParseInt(expiryStr, 10, 64)
	if err != nil {
		return false
	}
	if expiry < time.Now().Unix() {
		return false
	}

	expected := t.sign(payload, expiry)
	return hmac.Equal([]byte(expected), []byte(sig))
}

// sign computes base64url(HMAC-SHA256(secret, payload + "\n" + expiry)),
// unpadded. The expiry is part of the signed material so it cannot be
// extended after issuance.
func (t *TokenIssuer) sign(payload string, expiry int64) string {
	h := hmac.New(sha256.New, t.secret)
	h.Write([]byte(payload))
	h.Write([]byte("\n"))
	h.Write([]byte(strconv.FormatInt(expiry, 10)))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// Canonical payload grammars. These are part of the signed material and must
// match between issuance and verification exactly, field for field.

// ObjectPayload describes a read of key; download marks a forced attachment
// disposition.
func ObjectPayload(key string, download bool) string {
	flag := "0"
	if download {
		flag = "1"
	}
	return "object\n" + key + "\n" + flag
}

// PutPayload describes a direct whole-object write of key.
func PutPayload(key string) string {
	return "put\n" + key
}

// PartPayload describes a single multipart part write, bound to the exact
// (key, uploadID, partNumber) triple.
func PartPayload(key, uploadID string, partNumber int) string {
	return "mp\n" + key + "\n" + uploadID + "\n" + strconv.Itoa(partNumber)
}
