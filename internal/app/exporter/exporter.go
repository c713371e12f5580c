// Package exporter sequences the liked songs and playlist exports.
package exporter

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/spotify-csv-export/internal/domain/export"
	"github.com/osa030/spotify-csv-export/internal/domain/playlist"
	"github.com/osa030/spotify-csv-export/internal/domain/track"
)

// DefaultLikedFile is the file liked songs are written to.
const DefaultLikedFile = "liked.csv"

// Library is the music service the entries are read from.
type Library interface {
	LikedSongs(ctx context.Context) ([]track.PlaylistEntry, error)
	Playlist(ctx context.Context, id string) (*playlist.Playlist, error)
	PlaylistEntries(ctx context.Context, id string) ([]track.PlaylistEntry, error)
}

// Authenticator produces an authorized Library.
type Authenticator interface {
	Authenticate(ctx context.Context) (Library, error)
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(ctx context.Context) (Library, error)

// Authenticate calls f(ctx).
func (f AuthenticatorFunc) Authenticate(ctx context.Context) (Library, error) {
	return f(ctx)
}

// Sink writes rows to a named destination and returns the number of rows written.
type Sink interface {
	Write(name string, rows []export.Row) (int, error)
}

// Options configures an Exporter.
type Options struct {
	LikedFile string          // default DefaultLikedFile
	Playlists []playlist.Spec // exported in order after liked songs
}

// Exporter runs one export: authenticate, liked songs, then each playlist.
type Exporter struct {
	auth  Authenticator
	sink  Sink
	opts  Options
	state State
}

// New creates an Exporter.
func New(auth Authenticator, sink Sink, opts Options) *Exporter {
	if opts.LikedFile == "" {
		opts.LikedFile = DefaultLikedFile
	}
	return &Exporter{
		auth:  auth,
		sink:  sink,
		opts:  opts,
		state: StateIdle,
	}
}

// State returns the current state.
func (e *Exporter) State() State {
	return e.state
}

// Run executes the export. Authentication, liked songs and write failures are
// fatal and returned along with the partial report. A playlist that cannot be
// fetched is logged, recorded in the report and skipped.
func (e *Exporter) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	e.transition(StateAuthenticating)
	lib, err := e.auth.Authenticate(ctx)
	if err != nil {
		return report, e.fail(err, "authentication failed")
	}

	e.transition(StateExportingLiked)
	liked, err := e.exportLiked(ctx, lib)
	if err != nil {
		return report, e.fail(err, "liked songs export failed")
	}
	report.Liked = liked

	e.transition(StateExportingPlaylists)
	for i, spec := range e.opts.Playlists {
		if err := ctx.Err(); err != nil {
			return report, e.fail(err, "export canceled")
		}
		zlog.Info().Msgf("Exporting playlist %d/%d: id=%s", i+1, len(e.opts.Playlists), spec.ID)

		result, err := e.exportPlaylist(ctx, lib, spec)
		if err != nil {
			if !errors.Is(err, export.ErrPlaylistFetch) {
				return report, e.fail(err, "playlist export failed")
			}
			zlog.Error().Str("playlist", spec.ID).Msgf("Failed to fetch playlist: %v", err)
		}
		report.Playlists = append(report.Playlists, result)
	}

	e.transition(StateDone)
	zlog.Info().Msgf("All exports completed: liked=%d playlists=%d failed=%d",
		report.Liked.Rows, len(report.Playlists), report.FailedPlaylists())
	return report, nil
}

func (e *Exporter) exportLiked(ctx context.Context, lib Library) (Result, error) {
	zlog.Info().Msg("Fetching liked songs...")
	entries, err := lib.LikedSongs(ctx)
	if err != nil {
		return Result{}, err
	}
	zlog.Info().Msgf("Found %d liked songs", len(entries))

	return e.write(Result{Name: "Liked Songs", File: e.opts.LikedFile, Entries: len(entries)}, entries)
}

// exportPlaylist returns an error marked export.ErrPlaylistFetch when the
// playlist could not be read; the result then carries the error.
func (e *Exporter) exportPlaylist(ctx context.Context, lib Library, spec playlist.Spec) (Result, error) {
	result := Result{ID: spec.ID}

	p, err := lib.Playlist(ctx, spec.ID)
	if err != nil {
		result.Err = errors.Mark(err, export.ErrPlaylistFetch)
		return result, result.Err
	}
	result.Name = p.Name
	result.Owner = p.Owner
	result.File = p.Filename()
	zlog.Info().Msgf("Fetching playlist: %s (%s)...", p.Name, spec.ID)

	entries, err := lib.PlaylistEntries(ctx, spec.ID)
	if err != nil {
		result.Err = errors.Mark(err, export.ErrPlaylistFetch)
		return result, result.Err
	}
	zlog.Info().Msgf("Found %d tracks in %s", len(entries), p.Name)
	result.Entries = len(entries)

	return e.write(result, entries)
}

func (e *Exporter) write(result Result, entries []track.PlaylistEntry) (Result, error) {
	rows := export.ExtractAll(entries)
	n, err := e.sink.Write(result.File, rows)
	if err != nil {
		result.Err = err
		return result, err
	}
	result.Rows = n

	if skipped := result.Entries - n; skipped > 0 {
		zlog.Debug().Msgf("Skipped %d entries without track in %s", skipped, result.File)
	}
	zlog.Info().Msgf("Exported %d tracks to %s", n, result.File)
	return result, nil
}

func (e *Exporter) transition(s State) {
	zlog.Debug().Msgf("Export state: %s -> %s", e.state, s)
	e.state = s
}

func (e *Exporter) fail(err error, msg string) error {
	e.transition(StateFailed)
	return errors.Wrap(err, msg)
}
