package tollgate_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tollgate/tollgate"
)

// signToken reproduces the wire format by hand so tests can mint tokens with
// arbitrary expiries.
func signToken(secret, payload string, expiry int64) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload + "\n" + strconv.FormatInt(expiry, 10)))
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	return strconv.FormatInt(expiry, 10) + "." + sig
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := tollgate.NewTokenIssuer("topsecret")

	payloads := []string{
		tollgate.ObjectPayload("docs/report.pdf", true),
		tollgate.ObjectPayload("docs/report.pdf", false),
		tollgate.PutPayload("uploads/new.bin"),
		tollgate.PartPayload("uploads/big.iso", "upl-123", 7),
	}

	for _, payload := range payloads {
		token, ok := issuer.Issue(payload, 10*time.Minute)
		require.True(t, ok)
		assert.True(t, issuer.Verify(payload, token), "payload %q", payload)
	}
}

func TestTokenIssuer_Disabled(t *testing.T) {
	issuer := tollgate.NewTokenIssuer("")

	assert.False(t, issuer.Enabled())

	_, ok := issuer.Issue("put\nkey", time.Minute)
	assert.False(t, ok)

	// Even a correctly signed token fails against a disabled issuer.
	assert.False(t, issuer.Verify("put\nkey", signToken("", "put\nkey", time.Now().Add(time.Hour).Unix())))
}

func TestTokenIssuer_Expiry(t *testing.T) {
	const secret = "topsecret"
	issuer := tollgate.NewTokenIssuer(secret)
	payload := tollgate.PutPayload("a.txt")

	expired := signToken(secret, payload, time.Now().Add(-time.Minute).Unix())
	assert.False(t, issuer.Verify(payload, expired), "expired token must fail")

	fresh := signToken(secret, payload, time.Now().Add(time.Minute).Unix())
	assert.True(t, issuer.Verify(payload, fresh))
}

func TestTokenIssuer_TTLClamp(t *testing.T) {
	issuer := tollgate.NewTokenIssuer("topsecret")

	tests := []struct {
		name    string
		ttl     time.Duration
		wantMin time.Duration
		wantMax time.Duration
	}{
		{name: "below minimum", ttl: time.Second, wantMin: 29 * time.Second, wantMax: 31 * time.Second},
		{name: "negative", ttl: -time.Hour, wantMin: 29 * time.Second, wantMax: 31 * time.Second},
		{name: "above maximum", ttl: 48 * time.Hour, wantMin: 24*time.Hour - time.Second, wantMax: 24*time.Hour + time.Second},
		{name: "in range", ttl: 15 * time.Minute, wantMin: 15*time.Minute - time.Second, wantMax: 15*time.Minute + time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := issuer.Issue("put\nkey", tt.ttl)
			require.True(t, ok)

			expiryStr, _, found := strings.Cut(token, ".")
			require.True(t, found)
			expiry, err := strconv.ParseInt(expiryStr, 10, 64)
			require.NoError(t, err)

			lifetime := time.Until(time.Unix(expiry, 0))
			assert.GreaterOrEqual(t, lifetime, tt.wantMin)
			assert.LessOrEqual(t, lifetime, tt.wantMax)
		})
	}
}

func TestTokenIssuer_TamperedSignature(t *testing.T) {
	issuer := tollgate.NewTokenIssuer("topsecret")
	payload := tollgate.ObjectPayload("a/b.txt", false)

	token, ok := issuer.Issue(payload, time.Hour)
	require.True(t, ok)

	dot := strings.IndexByte(token, '.')
	require.Positive(t, dot)
	sig := []byte(token[dot+1:])

	// Flipping any single bit of the signature must fail verification. The
	// signature is base64url, so flip within the alphabet by swapping each
	// character for a different one.
	for i := range sig {
		tampered := append([]byte{}, sig...)
		if tampered[i] == 'A' {
			tampered[i] = 'B'
		} else {
			tampered[i] = 'A'
		}
		assert.False(t, issuer.Verify(payload, token[:dot+1]+string(tampered)), "flipped byte %d", i)
	}
}

func TestTokenIssuer_PayloadMismatch(t *testing.T) {
	issuer := tollgate.NewTokenIssuer("topsecret")

	token, ok := issuer.Issue(tollgate.ObjectPayload("a.txt", false), time.Hour)
	require.True(t, ok)

	assert.False(t, issuer.Verify(tollgate.ObjectPayload("b.txt", false), token), "different key")
	assert.False(t, issuer.Verify(tollgate.ObjectPayload("a.txt", true), token), "different download flag")
	assert.False(t, issuer.Verify(tollgate.PutPayload("a.txt"), token), "different action")
}

func TestTokenIssuer_Malformed(t *testing.T) {
	issuer := tollgate.NewTokenIssuer("topsecret")
	payload := tollgate.PutPayload("a.txt")

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "no separator", token: "1234567890abcdef"},
		{name: "non numeric expiry", token: "soon.abcdef"},
		{name: "empty signature", token: strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10) + "."},
		{name: "wrong secret", token: signToken("othersecret", payload, time.Now().Add(time.Hour).Unix())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, issuer.Verify(payload, tt.token))
		})
	}
}

func TestPayloadGrammars(t *testing.T) {
	assert.Equal(t, "object\ndocs/a.pdf\n1", tollgate.ObjectPayload("docs/a.pdf", true))
	assert.Equal(t, "object\ndocs/a.pdf\n0", tollgate.ObjectPayload("docs/a.pdf", false))
	assert.Equal(t, "put\ndocs/a.pdf", tollgate.PutPayload("docs/a.pdf"))
	assert.Equal(t, "mp\ndocs/a.pdf\nupl-1\n12", tollgate.PartPayload("docs/a.pdf", "upl-1", 12))
}
