package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-care-keeper/internal/config"
	"github.com/MKhiriev/go-care-keeper/internal/logger"
	"github.com/MKhiriev/go-care-keeper/internal/utils"
	"github.com/MKhiriev/go-care-keeper/models"
)

// tokenService issues HS256 device tokens and verifies them on every request
// to the reference remote store.
type tokenService struct {
	// tokenSignKey is the HMAC secret used to sign and verify tokens.
	tokenSignKey string
	// tokenIssuer is the required "iss" claim.
	tokenIssuer string
	// tokenDuration controls how long an issued token remains valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewTokenService builds a [TokenService] from the application config.
func NewTokenService(cfg config.App, logger *logger.Logger) TokenService {
	return &tokenService{
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		logger:        logger,
	}
}

func (t *tokenService) IssueToken(ctx context.Context, deviceID string) (models.Token, error) {
	token, err := utils.GenerateJWTToken(t.tokenIssuer, deviceID, t.tokenDuration, t.tokenSignKey)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("device_id", deviceID).Msg("error issuing device token")
		return models.Token{}, fmt.Errorf("error issuing device token: %w", err)
	}
	return token, nil
}

func (t *tokenService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, t.tokenSignKey, t.tokenIssuer)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return token, nil
}
