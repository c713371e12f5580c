package spotify

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/osa030/spotify-csv-export/internal/domain/export"
)

const completePage = `<!DOCTYPE html>
<html>
<head><title>spotify-export - Authorization Complete</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 20vh;">
    <h1>Authorization Complete</h1>
    <p>You can close this window and return to the terminal.</p>
</body>
</html>
`

type authResult struct {
	token *oauth2.Token
	err   error
}

// Authorize runs the authorization code flow: it serves the redirect URI
// locally, prints the authorization URL to out and waits for the callback.
func Authorize(ctx context.Context, auth *spotifyauth.Authenticator, redirectURI string, out io.Writer) (*oauth2.Token, error) {
	u, err := url.Parse(redirectURI)
	if err != nil || u.Host == "" {
		return nil, errors.Mark(errors.Newf("invalid redirect uri %q", redirectURI), export.ErrConfiguration)
	}
	addr := u.Host
	if u.Port() == "" {
		addr = net.JoinHostPort(u.Hostname(), "80")
	}
	path := u.Path
	if path == "" {
		path = "/"
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to listen on %s", addr), export.ErrAuth)
	}

	state := uuid.NewString()
	ch := make(chan authResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		if msg := r.FormValue("error"); msg != "" {
			http.Error(w, "Authorization denied", http.StatusForbidden)
			deliver(ch, authResult{err: errors.Newf("authorization denied: %s", msg)})
			return
		}
		if st := r.FormValue("state"); st != state {
			http.Error(w, "State mismatch", http.StatusForbidden)
			deliver(ch, authResult{err: errors.Newf("state mismatch: %s", st)})
			return
		}

		token, err := auth.Token(r.Context(), state, r)
		if err != nil {
			http.Error(w, "Failed to get token", http.StatusForbidden)
			deliver(ch, authResult{err: errors.Wrap(err, "failed to get token")})
			return
		}

		fmt.Fprint(w, completePage)
		deliver(ch, authResult{token: token})
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			deliver(ch, authResult{err: errors.Wrap(err, "callback server failed")})
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zlog.Warn().Msgf("Failed to shutdown callback server: %v", err)
		}
	}()

	fmt.Fprintln(out, "Please visit the following URL to authorize spotify-export:")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, auth.AuthURL(state))
	fmt.Fprintln(out, "")
	zlog.Info().Msgf("Waiting for authorization callback on %s%s", addr, path)

	select {
	case <-ctx.Done():
		return nil, errors.Mark(errors.Wrap(ctx.Err(), "authorization aborted"), export.ErrAuth)
	case res := <-ch:
		if res.err != nil {
			return nil, errors.Mark(res.err, export.ErrAuth)
		}
		return res.token, nil
	}
}

// deliver sends the first result; later callbacks are dropped.
func deliver(ch chan<- authResult, res authResult) {
	select {
	case ch <- res:
	default:
	}
}
