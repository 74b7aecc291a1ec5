package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-care-keeper/models"
)

// GenerateJWTToken creates a signed HMAC-SHA256 JWT for a device.
//
// The token carries iss, sub (the device id), iat and exp. All parameters are
// required.
//
// Example usage:
//
//	token, err := utils.GenerateJWTToken("care-keeper", "tablet-kitchen", 24*time.Hour, "secret")
func GenerateJWTToken(issuer, deviceID string, tokenDuration time.Duration, signKey string) (models.Token, error) {
	if issuer == "" || deviceID == "" || tokenDuration <= 0 || signKey == "" {
		return models.Token{}, errors.New("invalid params for generating JWT Token")
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   deviceID,
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during singing JWT token: %w", err)
	}

	return models.Token{Token: token, SignedString: tokenString, DeviceID: deviceID}, nil
}

// ValidateAndParseJWTToken verifies the signature (HS256 only), issuer and
// expiry of tokenString and extracts the device id from the subject.
func ValidateAndParseJWTToken(tokenString, tokenSignKey, tokenIssuer string) (models.Token, error) {
	claims := &models.Token{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	deviceID, err := claims.GetDeviceID()
	if err != nil {
		return models.Token{}, err
	}

	return models.Token{Token: token, SignedString: tokenString, DeviceID: deviceID}, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
