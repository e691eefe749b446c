package utils // package utils provides helpers for hashing, random tokens and cookie signing

import (
	"crypto/rand"   // secure random number generation
	"crypto/sha256" // SHA-256 hashing for session ids
	"encoding/hex"  // hex encoding of random bytes and digests
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library used to sign the session cookie
)

// sessionIssuer is written into every session cookie token and checked on parse.
const sessionIssuer = "movielog"

// ErrInvalidSessionToken is returned when a cookie value cannot be parsed,
// carries a bad signature, has expired or lacks the session id claim.
var ErrInvalidSessionToken = errors.New("invalid session token")

// SignSessionToken wraps an opaque session id in an HS256 JWT so the cookie
// cannot be forged without the server's secret. The token carries the id in
// the "sid" claim and expires together with the server-side record.
func SignSessionToken(secret, sid string, exp time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sid": sid,
		"iss": sessionIssuer,
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseSessionToken verifies a cookie value produced by SignSessionToken and
// returns the session id it carries.
func ParseSessionToken(secret, raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens using anything other than HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSessionToken
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(sessionIssuer), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return "", ErrInvalidSessionToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidSessionToken
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", ErrInvalidSessionToken
	}
	return sid, nil
}

// HashToken returns the SHA-256 hash of a raw token as a hex string. Only the
// hash of a session id is used as a storage key.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// RandomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func RandomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
