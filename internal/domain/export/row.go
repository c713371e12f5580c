// Package export provides the flat CSV row projection of playlist entries.
package export

import (
	"strconv"
	"strings"

	"github.com/osa030/spotify-csv-export/internal/domain/track"
)

// listSeparator joins multi-valued columns (artists).
const listSeparator = ", "

// Columns is the CSV header, in column order.
var Columns = []string{
	"Track URI",
	"Track Name",
	"Artist URI(s)",
	"Artist Name(s)",
	"Album URI",
	"Album Name",
	"Album Artist URI(s)",
	"Album Artist Name(s)",
	"Album Release Date",
	"Album Image URL",
	"Disc Number",
	"Track Number",
	"Track Duration (ms)",
	"Track Preview URL",
	"Explicit",
	"Popularity",
	"ISRC",
	"Added By",
	"Added At",
}

// Row is one exported entry, every column already formatted as text.
type Row struct {
	TrackURI         string
	TrackName        string
	ArtistURIs       string
	ArtistNames      string
	AlbumURI         string
	AlbumName        string
	AlbumArtistURIs  string
	AlbumArtistNames string
	AlbumReleaseDate string
	AlbumImageURL    string
	DiscNumber       string
	TrackNumber      string
	TrackDurationMs  string
	TrackPreviewURL  string
	Explicit         string
	Popularity       string
	ISRC             string
	AddedBy          string
	AddedAt          string
}

// Record returns the row values in the order of Columns.
func (r Row) Record() []string {
	return []string{
		r.TrackURI,
		r.TrackName,
		r.ArtistURIs,
		r.ArtistNames,
		r.AlbumURI,
		r.AlbumName,
		r.AlbumArtistURIs,
		r.AlbumArtistNames,
		r.AlbumReleaseDate,
		r.AlbumImageURL,
		r.DiscNumber,
		r.TrackNumber,
		r.TrackDurationMs,
		r.TrackPreviewURL,
		r.Explicit,
		r.Popularity,
		r.ISRC,
		r.AddedBy,
		r.AddedAt,
	}
}

// Extract converts a playlist entry into a row.
// Returns false if the entry has no track.
func Extract(entry track.PlaylistEntry) (Row, bool) {
	if !entry.HasTrack() {
		return Row{}, false
	}
	t := entry.Track

	return Row{
		TrackURI:         track.URI(track.KindTrack, t.ID),
		TrackName:        t.Name,
		ArtistURIs:       joinURIs(t.Artists),
		ArtistNames:      strings.Join(track.ArtistNames(t.Artists), listSeparator),
		AlbumURI:         track.URI(track.KindAlbum, t.Album.ID),
		AlbumName:        t.Album.Name,
		AlbumArtistURIs:  joinURIs(t.Album.Artists),
		AlbumArtistNames: strings.Join(track.ArtistNames(t.Album.Artists), listSeparator),
		AlbumReleaseDate: t.Album.ReleaseDate,
		AlbumImageURL:    valueOrEmpty(t.Album.ImageURL),
		DiscNumber:       strconv.Itoa(t.DiscNumber),
		TrackNumber:      strconv.Itoa(t.TrackNumber),
		TrackDurationMs:  strconv.Itoa(t.DurationMs),
		TrackPreviewURL:  valueOrEmpty(t.PreviewURL),
		Explicit:         strconv.FormatBool(t.Explicit),
		Popularity:       strconv.Itoa(t.Popularity),
		ISRC:             valueOrEmpty(t.ISRC),
		AddedBy:          valueOrEmpty(entry.AddedBy),
		AddedAt:          valueOrEmpty(entry.AddedAt),
	}, true
}

// ExtractAll converts entries in order, skipping entries without a track.
func ExtractAll(entries []track.PlaylistEntry) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		if row, ok := Extract(e); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func joinURIs(artists []track.Artist) string {
	uris := make([]string, len(artists))
	for i, id := range track.ArtistIDs(artists) {
		uris[i] = track.URI(track.KindArtist, id)
	}
	return strings.Join(uris, listSeparator)
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
