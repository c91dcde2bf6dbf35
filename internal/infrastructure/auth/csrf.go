package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/agoramall/backend/internal/infrastructure/config"
)

// CSRFService issues per-session CSRF tokens at login. Tokens are
// HMAC-signed with a lifetime and verified statelessly on mutating
// requests via the X-CSRF-Token header.
type CSRFService struct {
	signer   *TokenSigner
	lifetime time.Duration
}

// NewCSRFService creates a CSRF service from config
func NewCSRFService(cfg config.CSRFConfig) *CSRFService {
	return &CSRFService{
		signer:   NewTokenSigner(cfg.Secret),
		lifetime: cfg.Lifetime,
	}
}

// Issue generates a fresh signed CSRF token bound to the given user ID
func (s *CSRFService) Issue(userID string) (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	return s.signer.Sign(userID+":"+hex.EncodeToString(nonce), s.lifetime), nil
}

// Validate verifies the token signature, expiry and user binding.
// Returns ErrSignatureExpired when the token has timed out and
// ErrInvalidSignature for any tampering or user mismatch.
func (s *CSRFService) Validate(token, userID string) error {
	value, err := s.signer.Verify(token)
	if err != nil {
		return err
	}
	if len(value) < len(userID)+1 || value[:len(userID)] != userID || value[len(userID)] != ':' {
		return ErrInvalidSignature
	}
	return nil
}

// Lifetime returns the configured token lifetime
func (s *CSRFService) Lifetime() time.Duration {
	return s.lifetime
}
