package spotify

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/spotify-csv-export/internal/domain/export"
)

// promptWriter signals once the authorization URL has been printed.
type promptWriter struct {
	mu    sync.Mutex
	sb    strings.Builder
	ready chan struct{}
}

func (p *promptWriter) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, err := p.sb.Write(b)
	if strings.Contains(p.sb.String(), "https://accounts.spotify.com/authorize") {
		select {
		case <-p.ready:
		default:
			close(p.ready)
		}
	}
	return n, err
}

func (p *promptWriter) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sb.String()
}

func freeRedirectURI(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return fmt.Sprintf("http://%s/callback", addr)
}

func runAuthorize(t *testing.T, ctx context.Context, redirectURI string) (*promptWriter, chan error) {
	t.Helper()
	auth := NewAuthenticator("client-id", "client-secret", redirectURI)
	out := &promptWriter{ready: make(chan struct{})}
	done := make(chan error, 1)
	go func() {
		_, err := Authorize(ctx, auth, redirectURI, out)
		done <- err
	}()
	return out, done
}

func waitResult(t *testing.T, done chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Authorize did not return")
		return nil
	}
}

func TestAuthorize_CallbackErrors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		errMsg string
	}{
		{
			name:   "state mismatch",
			query:  "?state=forged&code=abc",
			errMsg: "state mismatch",
		},
		{
			name:   "user denied access",
			query:  "?error=access_denied",
			errMsg: "authorization denied: access_denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			redirectURI := freeRedirectURI(t)
			out, done := runAuthorize(t, context.Background(), redirectURI)

			select {
			case <-out.ready:
			case <-time.After(5 * time.Second):
				t.Fatal("authorization URL was not printed")
			}
			assert.Contains(t, out.String(), "client_id=client-id")

			resp, err := http.Get(redirectURI + tt.query)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)

			err = waitResult(t, done)
			require.Error(t, err)
			assert.True(t, errors.Is(err, export.ErrAuth))
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestAuthorize_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, done := runAuthorize(t, ctx, freeRedirectURI(t))

	err := waitResult(t, done)
	require.Error(t, err)
	assert.True(t, errors.Is(err, export.ErrAuth))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestAuthorize_InvalidRedirectURI(t *testing.T) {
	auth := NewAuthenticator("client-id", "client-secret", "callback")

	_, err := Authorize(context.Background(), auth, "callback", &strings.Builder{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, export.ErrConfiguration))
}
