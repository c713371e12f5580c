// Package main provides the export command entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/spotify-csv-export/internal/app/exporter"
	"github.com/osa030/spotify-csv-export/internal/domain/playlist"
	"github.com/osa030/spotify-csv-export/internal/infra/config"
	"github.com/osa030/spotify-csv-export/internal/infra/csvfile"
	"github.com/osa030/spotify-csv-export/internal/infra/logger"
	"github.com/osa030/spotify-csv-export/internal/infra/spotify"
)

const defaultConfigPath = "config/export.yaml"

var (
	app        = kingpin.New("spotify-export", "Export Spotify liked songs and playlists to CSV files")
	configPath = app.Flag("config", "Path to config file").Default(defaultConfigPath).String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stderr)").String()
	outputDir  = app.Flag("output-dir", "Directory the CSV files are written to").String()
	playlists  = app.Flag("playlist", "Playlist ID, URI or URL to export (repeatable)").Strings()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	// Initialize logger
	loggerConfig := logger.Config{
		Output: "stderr",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	closeLog, err := logger.Init(loggerConfig)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	code := 0
	if err := run(); err != nil {
		zlog.Error().Msgf("Error: %v", err)
		code = 1
	}
	_ = closeLog()
	os.Exit(code)
}

// run loads the configuration and performs the export.
func run() error {
	// The default config file is optional; an explicit one must exist.
	optional := *configPath == defaultConfigPath
	zlog.Debug().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath, optional)
	if err != nil {
		return err
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}

	specs := cfg.PlaylistSpecs()
	for _, p := range *playlists {
		specs = append(specs, playlist.ParseIDs(p)...)
	}

	sink, err := csvfile.NewWriter(cfg.Output.Dir, cfg.Output.Settings)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	auth := exporter.AuthenticatorFunc(func(ctx context.Context) (exporter.Library, error) {
		client, err := spotify.Authenticate(ctx, spotify.Config{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			RedirectURI:  cfg.Spotify.RedirectURI,
			RefreshToken: cfg.Spotify.RefreshToken,
			Market:       cfg.Spotify.Market,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	})

	zlog.Info().Msgf("Exporting to %s: liked songs and %d playlists", sink.Dir(), len(specs))
	e := exporter.New(auth, sink, exporter.Options{
		LikedFile: cfg.Output.LikedFile,
		Playlists: specs,
	})

	report, err := e.Run(ctx)
	printReport(report)
	return err
}

// printReport prints the per-source summary to stdout.
func printReport(r *exporter.Report) {
	if r == nil || r.Liked.File == "" {
		return
	}

	fmt.Println("\n=== EXPORT SUMMARY ===")
	fmt.Printf("  %-30s %6d rows -> %s\n", r.Liked.Name, r.Liked.Rows, r.Liked.File)
	for _, p := range r.Playlists {
		if p.Err != nil {
			fmt.Printf("  %-30s FAILED (%s)\n", displayName(p), p.ID)
			continue
		}
		fmt.Printf("  %-30s %6d rows -> %s%s\n", displayName(p), p.Rows, p.File, ownedBy(p))
	}
	if n := r.FailedPlaylists(); n > 0 {
		fmt.Printf("\n%d of %d playlists could not be exported\n", n, len(r.Playlists))
	}
	fmt.Println()
}

func ownedBy(r exporter.Result) string {
	if r.Owner == "" {
		return ""
	}
	return " (by " + r.Owner + ")"
}

func displayName(r exporter.Result) string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}
