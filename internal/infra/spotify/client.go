// Package spotify provides a client for the Spotify API.
package spotify

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/osa030/spotify-csv-export/internal/domain/export"
)

// Scopes are the permissions needed to read the library and playlists.
var Scopes = []string{
	spotifyauth.ScopeUserLibraryRead,
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopePlaylistReadCollaborative,
}

// Client is a Spotify API client.
type Client struct {
	api        *spotify.Client
	market     string
	maxRetries int
	retryDelay time.Duration
}

// Config represents Spotify client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	RefreshToken string    // Skips the interactive flow when set
	Market       string    // Optional ISO 3166-1 alpha-2 market
	Prompt       io.Writer // Receives the authorization URL in the interactive flow (default: stdout)
}

// Authenticate returns a client authorized with the configured credentials.
// A refresh token is exchanged directly; without one the interactive
// authorization code flow is run on the redirect URI.
func Authenticate(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.Mark(errors.New("spotify client id and client secret are required"), export.ErrConfiguration)
	}

	auth := NewAuthenticator(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURI)

	var token *oauth2.Token
	if cfg.RefreshToken != "" {
		t, err := auth.RefreshToken(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "failed to refresh access token"), export.ErrAuth)
		}
		token = t
	} else {
		prompt := cfg.Prompt
		if prompt == nil {
			prompt = os.Stdout
		}
		t, err := Authorize(ctx, auth, cfg.RedirectURI, prompt)
		if err != nil {
			return nil, err
		}
		token = t
	}

	return New(spotify.New(auth.Client(ctx, token)), cfg.Market), nil
}

// NewAuthenticator creates an authenticator requesting Scopes.
func NewAuthenticator(clientID, clientSecret, redirectURI string) *spotifyauth.Authenticator {
	return spotifyauth.New(
		spotifyauth.WithClientID(clientID),
		spotifyauth.WithClientSecret(clientSecret),
		spotifyauth.WithRedirectURL(redirectURI),
		spotifyauth.WithScopes(Scopes...),
	)
}

// New wraps an authenticated API client.
func New(api *spotify.Client, market string) *Client {
	return &Client{
		api:        api,
		market:     market,
		maxRetries: 3,
		retryDelay: time.Second,
	}
}

// requestOptions returns the options shared by every request.
func (c *Client) requestOptions(limit int) []spotify.RequestOption {
	opts := []spotify.RequestOption{spotify.Limit(limit)}
	if c.market != "" {
		opts = append(opts, spotify.Market(c.market))
	}
	return opts
}

// retry retries an operation with linear backoff.
func (c *Client) retry(ctx context.Context, fn func() error) error {
	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) {
			return err
		}

		if i < c.maxRetries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(i+1)):
			}
		}
	}
	return errors.Wrap(lastErr, "max retries exceeded")
}

// isRetryable checks if an error is retryable.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr spotify.Error
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		return apiErr.Status == 429 || apiErr.Status >= 500
	}

	// Rate limit errors and server errors are retryable
	errStr := err.Error()
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504")
}
