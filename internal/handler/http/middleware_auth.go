package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-care-keeper/internal/logger"
	"github.com/MKhiriev/go-care-keeper/internal/utils"
)

// auth is an HTTP middleware that enforces device token authentication.
//
// It reads the bearer token from the "Authorization" header, verifies it via
// [service.TokenService.ParseToken] and stores the device id in the request
// context under [utils.DeviceIDCtxKey]. The request logger is annotated with
// the device id as well.
//
// Requests are rejected with 401 Unauthorized when the header is absent
// ([ErrEmptyAuthorizationHeader]), malformed ([ErrInvalidAuthorizationHeader])
// or carries a token that fails verification.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			utils.WriteError(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrInvalidAuthorizationHeader, err)
			log.Err(err).Send()
			utils.WriteError(w, ErrInvalidAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		token, err := h.services.TokenService.ParseToken(ctx, tokenString)
		if err != nil {
			log.Err(err).Msg("error occurred during parsing token")
			utils.WriteError(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		log.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("device_id", token.DeviceID)
		})
		ctx = log.WithContext(ctx)
		ctx = context.WithValue(ctx, utils.DeviceIDCtxKey, token.DeviceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
