package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Token purposes. A token signed for one purpose never verifies for
// another.
const (
	PurposeVerify = "verify"
	PurposeReset  = "reset"
)

var (
	// ErrTokenInvalid reports a malformed or tampered token.
	ErrTokenInvalid = errors.New("auth: invalid token")
	// ErrTokenExpired reports a token older than its max age.
	ErrTokenExpired = errors.New("auth: token expired")
)

// Signer issues and verifies timed HMAC tokens for email links.
type Signer struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewSigner creates a signer with the given secret and token lifetime.
func NewSigner(secret string, maxAge time.Duration) *Signer {
	return &Signer{secret: []byte(secret), maxAge: maxAge, now: time.Now}
}

// MaxAge returns the token lifetime.
func (s *Signer) MaxAge() time.Duration { return s.maxAge }

func (s *Signer) mac(payload string) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(payload))
	return h.Sum(nil)
}

// Sign produces a token binding a purpose to a user id at the current
// time.
func (s *Signer) Sign(purpose, userID string) string {
	payload := fmt.Sprintf("%s\n%s\n%d", purpose, userID, s.now().Unix())
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(payload)) + "." + enc.EncodeToString(s.mac(payload))
}

// Verify checks signature, purpose, and age, returning the user id.
func (s *Signer) Verify(token, purpose string) (string, error) {
	enc := base64.RawURLEncoding

	dot := strings.LastIndexByte(token, '.')
	if dot < 0 {
		return "", ErrTokenInvalid
	}
	payload, err := enc.DecodeString(token[:dot])
	if err != nil {
		return "", ErrTokenInvalid
	}
	sig, err := enc.DecodeString(token[dot+1:])
	if err != nil {
		return "", ErrTokenInvalid
	}
	if !hmac.Equal(sig, s.mac(string(payload))) {
		return "", ErrTokenInvalid
	}

	parts := strings.SplitN(string(payload), "\n", 3)
	if len(parts) != 3 || parts[0] != purpose || parts[1] == "" {
		return "", ErrTokenInvalid
	}
	issued, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", ErrTokenInvalid
	}
	if s.now().Sub(time.Unix(issued, 0)) > s.maxAge {
		return "", ErrTokenExpired
	}
	return parts[1], nil
}
