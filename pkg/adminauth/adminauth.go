package adminauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// TTL is the fixed lifetime of an admin session token.
const TTL = 7 * 24 * time.Hour

// CookieName is the cookie carrying the token.
const CookieName = "kennel_admin"

// Claims is the signed payload of an admin session token.
// Field order is part of the wire format.
type Claims struct {
	IssuedAt  int64 `json:"iat"`
	ExpiresAt int64 `json:"exp"`
}

// Token is a parsed and verified admin session token.
type Token struct {
	Claims
	Signature string // base64url signature segment, used as the revocation key
}

// Authority issues and verifies stateless admin session tokens
// signed with the shared admin secret.
type Authority struct {
	now    func() time.Time
	secret []byte
}

// Option configures the Authority.
type Option func(*Authority)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(a *Authority) {
		if now != nil {
			a.now = now
		}
	}
}

// New creates an Authority for the given shared secret.
// An empty secret yields an Authority that refuses to issue tokens
// and rejects every token presented to it.
func New(secret string, opts ...Option) *Authority {
	a := &Authority{now: time.Now}
	if secret != "" {
		a.secret = []byte(secret)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Configured reports whether a shared secret is set.
func (a *Authority) Configured() bool {
	return len(a.secret) > 0
}

// CheckPasscode compares the trimmed passcode with the shared secret
// in constant time.
// Returns ErrUnavailable if no secret is configured.
// Returns ErrInvalidPasscode on mismatch.
func (a *Authority) CheckPasscode(passcode string) error {
	if !a.Configured() {
		return ErrUnavailable
	}
	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(passcode)), a.secret) != 1 {
		return ErrInvalidPasscode
	}
	return nil
}

// Issue creates a new token valid for TTL.
// Returns ErrUnavailable if no secret is configured.
func (a *Authority) Issue() (string, error) {
	if !a.Configured() {
		return "", ErrUnavailable
	}

	now := a.now().Unix()
	payload, err := json.Marshal(Claims{
		IssuedAt:  now,
		ExpiresAt: now + int64(TTL/time.Second),
	})
	if err != nil {
		return "", err
	}

	// Format: base64(payload).base64(signature)
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + a.sign(encoded), nil
}

// Verify reports whether the token carries a valid signature and has not expired.
// Every failure mode returns false without detail.
func (a *Authority) Verify(token string) bool {
	_, ok := a.Parse(token)
	return ok
}

// Parse verifies the token and returns its claims.
// The boolean is false for unconfigured secrets, malformed, forged
// or expired tokens alike.
func (a *Authority) Parse(token string) (Token, bool) {
	if !a.Configured() || token == "" {
		return Token{}, false
	}

	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Token{}, false
	}

	// The MAC covers the payload segment as transmitted, not the decoded bytes.
	if !hmac.Equal([]byte(a.sign(parts[0])), []byte(parts[1])) {
		return Token{}, false
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return Token{}, false
	}

	var claims Claims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return Token{}, false
	}

	if claims.ExpiresAt <= a.now().Unix() {
		return Token{}, false
	}

	return Token{Claims: claims, Signature: parts[1]}, true
}

// ExpiresIn returns the remaining lifetime of the token relative to the authority clock.
func (a *Authority) ExpiresIn(t Token) time.Duration {
	return time.Unix(t.ExpiresAt, 0).Sub(a.now())
}

// sign computes the base64url HMAC-SHA256 of the encoded payload.
func (a *Authority) sign(encodedPayload string) string {
	mac := hmac.New(sha256.New, a.secret)
	mac.Write([]byte(encodedPayload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
