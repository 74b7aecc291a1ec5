// Command tokengen issues a device token for the reference remote store.
//
// The token subject is the configured owner id:
//
//	tokengen -owner caregiver-1 -token-sign-key secret -token-issuer care
//
// The signed token is printed to stdout and is meant to be used as the
// client's remote store API key.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-care-keeper/internal/config"
	"github.com/MKhiriev/go-care-keeper/internal/logger"
	"github.com/MKhiriev/go-care-keeper/internal/service"
)

func main() {
	log := logger.NewClientLogger("go-care-tokengen", "")

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	if cfg.App.OwnerID == "" || cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" {
		fmt.Fprintln(os.Stderr, "owner id, token sign key and token issuer are required")
		os.Exit(2)
	}
	if cfg.App.TokenDuration == 0 {
		cfg.App.TokenDuration = config.DefaultTokenDuration
	}

	token, err := service.NewTokenService(cfg.App, log).IssueToken(context.Background(), cfg.App.OwnerID)
	if err != nil {
		log.Fatal().Err(err).Msg("error issuing token")
	}

	fmt.Println(token.String())
}
