package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-care-keeper/internal/config"
	"github.com/MKhiriev/go-care-keeper/internal/logger"
)

func testAppConfig() config.App {
	return config.App{
		TokenSignKey:  "test-sign-key",
		TokenIssuer:   "care-keeper",
		TokenDuration: time.Hour,
	}
}

func TestTokenService_IssueAndParse(t *testing.T) {
	svc := NewTokenService(testAppConfig(), logger.Nop())

	token, err := svc.IssueToken(context.Background(), "tablet-kitchen")
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)

	parsed, err := svc.ParseToken(context.Background(), token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, "tablet-kitchen", parsed.DeviceID)
}

func TestTokenService_IssueToken_EmptyDevice(t *testing.T) {
	svc := NewTokenService(testAppConfig(), logger.Nop())

	_, err := svc.IssueToken(context.Background(), "")
	assert.Error(t, err)
}

func TestTokenService_ParseToken_Rejects(t *testing.T) {
	issuer := NewTokenService(testAppConfig(), logger.Nop())
	token, err := issuer.IssueToken(context.Background(), "tablet-kitchen")
	require.NoError(t, err)

	otherKey := testAppConfig()
	otherKey.TokenSignKey = "another-key"

	otherIssuer := testAppConfig()
	otherIssuer.TokenIssuer = "someone-else"

	expired := testAppConfig()
	expired.TokenDuration = time.Nanosecond
	expiredToken, err := NewTokenService(expired, logger.Nop()).IssueToken(context.Background(), "tablet-kitchen")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	tests := []struct {
		name  string
		cfg   config.App
		token string
	}{
		{name: "wrong key", cfg: otherKey, token: token.SignedString},
		{name: "wrong issuer", cfg: otherIssuer, token: token.SignedString},
		{name: "expired", cfg: testAppConfig(), token: expiredToken.SignedString},
		{name: "garbage", cfg: testAppConfig(), token: "not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenService(tt.cfg, logger.Nop()).ParseToken(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
