package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// IdentityAssertion is the signed payload the front-end identity provider
// sends when exchanging its session for an API token. The signature is
// HMAC-SHA256 over "email:issued_at" with the shared IDENTITY_SECRET.
type IdentityAssertion struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	IssuedAt    int64  `json:"issued_at"` // unix seconds
	Signature   string `json:"signature"` // hex
}

// ValidateIdentityAssertion checks the HMAC signature and the assertion age.
func ValidateIdentityAssertion(a IdentityAssertion, secret string, maxAge time.Duration) error {
	if a.Email == "" || !strings.Contains(a.Email, "@") {
		return fmt.Errorf("invalid email")
	}
	if a.Signature == "" {
		return fmt.Errorf("missing signature")
	}

	issued := time.Unix(a.IssuedAt, 0)
	if maxAge > 0 && time.Since(issued) > maxAge {
		return fmt.Errorf("assertion expired")
	}
	if issued.After(time.Now().Add(time.Minute)) {
		return fmt.Errorf("assertion issued in the future")
	}

	expected := SignAssertion(a.Email, a.IssuedAt, secret)
	provided, err := hex.DecodeString(a.Signature)
	if err != nil {
		return fmt.Errorf("malformed signature")
	}
	expectedRaw, _ := hex.DecodeString(expected)
	if !hmac.Equal(provided, expectedRaw) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}

// SignAssertion computes the expected signature. Exported for the provider
// side of the contract and for tests.
func SignAssertion(email string, issuedAt int64, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(email + ":" + strconv.FormatInt(issuedAt, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}
