package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Signer errors
var (
	ErrSignatureExpired = errors.New("signature has expired")
	ErrInvalidSignature = errors.New("invalid signature")
)

// TokenSigner issues and verifies HMAC-signed, expiring tokens.
// The token format is base64url(value).expiry.hex(hmac-sha256) where
// expiry is a Unix timestamp. It backs both CSRF tokens and email
// verification codes.
type TokenSigner struct {
	secret []byte
}

// NewTokenSigner creates a signer with the given secret
func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{secret: []byte(secret)}
}

// Sign produces a signed token embedding value, valid for lifetime
func (s *TokenSigner) Sign(value string, lifetime time.Duration) string {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(value))
	expiry := strconv.FormatInt(time.Now().Add(lifetime).Unix(), 10)
	return encoded + "." + expiry + "." + s.signature(encoded, expiry)
}

// Verify checks the token signature and expiry, returning the embedded value.
// Expiry is checked only after the signature verifies so a forged expiry
// cannot distinguish the two failure modes.
func (s *TokenSigner) Verify(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", ErrInvalidSignature
	}
	encoded, expiry, sig := parts[0], parts[1], parts[2]

	expected := s.signature(encoded, expiry)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", ErrInvalidSignature
	}

	expiresAt, err := strconv.ParseInt(expiry, 10, 64)
	if err != nil {
		return "", ErrInvalidSignature
	}
	if time.Now().Unix() > expiresAt {
		return "", ErrSignatureExpired
	}

	value, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidSignature
	}
	return string(value), nil
}

func (s *TokenSigner) signature(encoded, expiry string) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s.%s", encoded, expiry)
	return hex.EncodeToString(mac.Sum(nil))
}
