// Package config provides configuration loading from YAML files and the environment.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/osa030/spotify-csv-export/internal/domain/export"
	"github.com/osa030/spotify-csv-export/internal/domain/playlist"
)

// DefaultRedirectURI is the OAuth callback used when none is configured.
const DefaultRedirectURI = "http://localhost:8888/callback"

// Config represents the application configuration.
type Config struct {
	Spotify   SpotifyConfig `yaml:"spotify"`
	Playlists []string      `yaml:"playlists"`
	Output    OutputConfig  `yaml:"output"`
}

// SpotifyConfig represents Spotify API configuration.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id" validate:"required"`
	ClientSecret string `yaml:"client_secret" validate:"required"`
	RedirectURI  string `yaml:"redirect_uri" default:"http://localhost:8888/callback" validate:"url"`
	RefreshToken string `yaml:"refresh_token"`
	Market       string `yaml:"market" validate:"omitempty,len=2"`
}

// OutputConfig represents export destination configuration.
type OutputConfig struct {
	Dir       string         `yaml:"dir" default:"."`
	LikedFile string         `yaml:"liked_file" default:"liked.csv" validate:"excludesall=/\\"`
	Settings  map[string]any `yaml:"settings"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
// An empty path or a missing file with optional set yields a configuration built from the environment only.
func Load(path string, optional bool) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, configError(err, "failed to parse config file")
			}
		case optional && errors.Is(err, os.ErrNotExist):
			// environment only
		default:
			return nil, configError(err, "failed to read config file")
		}
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, configError(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_REDIRECT_URI"); v != "" {
		c.Spotify.RedirectURI = v
	}
	if v := os.Getenv("SPOTIFY_REFRESH_TOKEN"); v != "" {
		c.Spotify.RefreshToken = v
	}
	if v := os.Getenv("SPOTIFY_PLAYLIST_IDS"); v != "" {
		c.Playlists = []string{v}
	}
	if v := os.Getenv("EXPORT_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
}

// PlaylistSpecs returns the configured playlists in order.
// Entries may themselves be comma-separated lists, IDs, URIs or URLs.
func (c *Config) PlaylistSpecs() []playlist.Spec {
	specs := make([]playlist.Spec, 0, len(c.Playlists))
	for _, entry := range c.Playlists {
		specs = append(specs, playlist.ParseIDs(entry)...)
	}
	return specs
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

func configError(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), export.ErrConfiguration)
}
