// Package adminauth implements the stateless admin session token.
//
// There is one privilege level and one shared secret. The secret doubles as
// the login passcode and as the HMAC-SHA256 key for session tokens. Tokens are
// never stored server side: verification recomputes the MAC and checks the
// expiry, so rotating the secret invalidates every outstanding token.
//
// # Token Format
//
//	base64url(`{"iat":<unix>,"exp":<unix>}`) + "." + base64url(HMAC-SHA256(secret, payloadSegment))
//
// Both segments use URL-safe base64 without padding. Tokens live for [TTL].
//
// # Usage
//
//	auth := adminauth.New(cfg.AdminPasscode)
//
//	if err := auth.CheckPasscode(input); err != nil {
//		// ErrUnavailable: operator must configure the secret
//		// ErrInvalidPasscode: wrong passcode
//	}
//
//	token, err := auth.Issue()
//	ok := auth.Verify(token)
//
// Malformed, forged and expired tokens are indistinguishable to callers.
//
// # Revocation
//
// A [Denylist] keyed by token signature adds logout revocation on top of the
// stateless check. [CacheDenylist] stores entries in a [cache.Cache] until the
// token's natural expiry.
package adminauth
