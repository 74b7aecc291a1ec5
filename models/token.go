package models

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a JWT issued to a caregiver device for the reference remote
// store.
//
// It embeds [jwt.Token] for signing and parsing and [jwt.RegisteredClaims]
// for standard claim access. DeviceID caches the "sub" claim.
type Token struct {
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	// DeviceID is the subject the token was issued for.
	DeviceID string `json:"-"`
}

// GetDeviceID returns the non-empty "sub" claim.
func (t *Token) GetDeviceID() (string, error) {
	sub, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting device id from token: %w", err)
	}
	if sub == "" {
		return "", fmt.Errorf("error extracting device id from token: empty subject")
	}
	return sub, nil
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}
