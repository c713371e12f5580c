// Package main provides the Spotify authentication tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/spotify-csv-export/internal/infra/config"
	"github.com/osa030/spotify-csv-export/internal/infra/logger"
	"github.com/osa030/spotify-csv-export/internal/infra/spotify"
)

var (
	app          = kingpin.New("spotify-auth", "Obtain a Spotify refresh token for spotify-export")
	clientID     = app.Flag("client-id", "Spotify Client ID").Envar("SPOTIFY_CLIENT_ID").Required().String()
	clientSecret = app.Flag("client-secret", "Spotify Client Secret").Envar("SPOTIFY_CLIENT_SECRET").Required().String()
	redirectURI  = app.Flag("redirect-uri", "Redirect URI registered for the app").Envar("SPOTIFY_REDIRECT_URI").Default(config.DefaultRedirectURI).String()
	timeout      = app.Flag("timeout", "How long to wait for the authorization").Default("5m").Duration()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	if _, err := logger.Init(logger.Config{Output: "stderr", Level: "info"}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	auth := spotify.NewAuthenticator(*clientID, *clientSecret, *redirectURI)
	token, err := spotify.Authorize(ctx, auth, *redirectURI, os.Stdout)
	if err != nil {
		zlog.Error().Msgf("Authorization failed: %v", err)
		os.Exit(1)
	}

	fmt.Println("")
	fmt.Println("=== Authorization Successful ===")
	fmt.Println("")
	fmt.Println("Refresh Token:")
	fmt.Println(token.RefreshToken)
	fmt.Println("")
	fmt.Printf("Access token expires at %s\n", token.Expiry.Format(time.RFC3339))
	fmt.Println("")
	fmt.Println("Add this to your config/export.yaml:")
	fmt.Println("")
	fmt.Println("spotify:")
	fmt.Printf("  refresh_token: \"%s\"\n", token.RefreshToken)
	fmt.Println("")
	fmt.Println("Or set as environment variable:")
	fmt.Printf("export SPOTIFY_REFRESH_TOKEN=\"%s\"\n", token.RefreshToken)
}
