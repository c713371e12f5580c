package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/spotify-csv-export/internal/domain/export"
	"github.com/osa030/spotify-csv-export/internal/domain/playlist"
)

// clearEnv unsets every variable read by Load for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SPOTIFY_CLIENT_ID",
		"SPOTIFY_CLIENT_SECRET",
		"SPOTIFY_REDIRECT_URI",
		"SPOTIFY_REFRESH_TOKEN",
		"SPOTIFY_PLAYLIST_IDS",
		"EXPORT_OUTPUT_DIR",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfig_Validate_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid config",
			config: Config{
				Spotify: SpotifyConfig{
					ClientID:     "test-client-id",
					ClientSecret: "test-client-secret",
					RedirectURI:  DefaultRedirectURI,
					Market:       "JP",
				},
			},
			wantErr: false,
		},
		{
			name: "missing spotify client id",
			config: Config{
				Spotify: SpotifyConfig{
					ClientSecret: "test-client-secret",
					RedirectURI:  DefaultRedirectURI,
				},
			},
			wantErr: true,
			errMsg:  "ClientID",
		},
		{
			name: "missing spotify client secret",
			config: Config{
				Spotify: SpotifyConfig{
					ClientID:    "test-client-id",
					RedirectURI: DefaultRedirectURI,
				},
			},
			wantErr: true,
			errMsg:  "ClientSecret",
		},
		{
			name: "invalid redirect uri",
			config: Config{
				Spotify: SpotifyConfig{
					ClientID:     "test-client-id",
					ClientSecret: "test-client-secret",
					RedirectURI:  "not a url",
				},
			},
			wantErr: true,
			errMsg:  "RedirectURI",
		},
		{
			name: "invalid market length",
			config: Config{
				Spotify: SpotifyConfig{
					ClientID:     "test-client-id",
					ClientSecret: "test-client-secret",
					RedirectURI:  DefaultRedirectURI,
					Market:       "JAPAN",
				},
			},
			wantErr: true,
			errMsg:  "Market",
		},
		{
			name: "liked file with path separator",
			config: Config{
				Spotify: SpotifyConfig{
					ClientID:     "test-client-id",
					ClientSecret: "test-client-secret",
					RedirectURI:  DefaultRedirectURI,
				},
				Output: OutputConfig{LikedFile: "../liked.csv"},
			},
			wantErr: true,
			errMsg:  "LikedFile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.wantErr {
				require.Error(t, err, "expected validation to fail")
				assert.Contains(t, err.Error(), tt.errMsg,
					"error message should mention the problematic field")
			} else {
				assert.NoError(t, err, "expected validation to pass")
			}
		})
	}
}

func TestLoad_EnvironmentOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("SPOTIFY_CLIENT_ID", "env-id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "env-secret")
	t.Setenv("SPOTIFY_PLAYLIST_IDS", " p1 , ,p2,")

	cfg, err := Load("", false)
	require.NoError(t, err)

	assert.Equal(t, "env-id", cfg.Spotify.ClientID)
	assert.Equal(t, "env-secret", cfg.Spotify.ClientSecret)
	assert.Equal(t, DefaultRedirectURI, cfg.Spotify.RedirectURI)
	assert.Empty(t, cfg.Spotify.RefreshToken)
	assert.Equal(t, ".", cfg.Output.Dir)
	assert.Equal(t, "liked.csv", cfg.Output.LikedFile)
	assert.Equal(t, []playlist.Spec{{ID: "p1"}, {ID: "p2"}}, cfg.PlaylistSpecs())
}

func TestLoad_FileWithEnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("SPOTIFY_CLIENT_SECRET", "env-secret")
	t.Setenv("SPOTIFY_REFRESH_TOKEN", "env-refresh")

	path := writeConfig(t, `
spotify:
  client_id: file-id
  client_secret: file-secret
  redirect_uri: http://127.0.0.1:9000/cb
playlists:
  - spotify:playlist:first
  - https://open.spotify.com/playlist/second?si=x
output:
  dir: exports
  settings:
    line_ending: lf
`)

	cfg, err := Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, "file-id", cfg.Spotify.ClientID)
	assert.Equal(t, "env-secret", cfg.Spotify.ClientSecret)
	assert.Equal(t, "env-refresh", cfg.Spotify.RefreshToken)
	assert.Equal(t, "http://127.0.0.1:9000/cb", cfg.Spotify.RedirectURI)
	assert.Equal(t, "exports", cfg.Output.Dir)
	assert.Equal(t, map[string]any{"line_ending": "lf"}, cfg.Output.Settings)
	assert.Equal(t, []playlist.Spec{{ID: "first"}, {ID: "second"}}, cfg.PlaylistSpecs())
}

func TestLoad_EnvPlaylistsReplaceFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("SPOTIFY_PLAYLIST_IDS", "env-playlist")

	path := writeConfig(t, `
spotify:
  client_id: id
  client_secret: secret
playlists: [file-playlist]
`)

	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, []playlist.Spec{{ID: "env-playlist"}}, cfg.PlaylistSpecs())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		path     func(t *testing.T) string
		optional bool
	}{
		{
			name:     "missing credentials",
			path:     func(t *testing.T) string { return "" },
			optional: true,
		},
		{
			name:     "missing required file",
			path:     func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.yaml") },
			optional: false,
		},
		{
			name:     "malformed yaml",
			path:     func(t *testing.T) string { return writeConfig(t, "spotify: [unterminated") },
			optional: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			_, err := Load(tt.path(t), tt.optional)
			require.Error(t, err)
			assert.True(t, errors.Is(err, export.ErrConfiguration))
		})
	}
}

func TestLoad_OptionalMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("SPOTIFY_CLIENT_ID", "env-id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "env-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), true)
	require.NoError(t, err)
	assert.Equal(t, "env-id", cfg.Spotify.ClientID)
	assert.Empty(t, cfg.PlaylistSpecs())
}
