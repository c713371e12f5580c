package spotify

import (
	"github.com/zmb3/spotify/v2"

	"github.com/osa030/spotify-csv-export/internal/domain/track"
)

// convertTrack converts a Spotify FullTrack to domain CatalogTrack.
// Local files are converted too; their ID is empty.
func convertTrack(t *spotify.FullTrack) *track.CatalogTrack {
	if t == nil {
		return nil
	}

	var albumArt *string
	if len(t.Album.Images) > 0 {
		albumArt = optional(t.Album.Images[0].URL)
	}

	return &track.CatalogTrack{
		ID:      string(t.ID),
		Name:    t.Name,
		Artists: convertArtists(t.Artists),
		Album: track.Album{
			ID:          string(t.Album.ID),
			Name:        t.Album.Name,
			Artists:     convertArtists(t.Album.Artists),
			ReleaseDate: t.Album.ReleaseDate,
			ImageURL:    albumArt,
		},
		DiscNumber:  int(t.DiscNumber),
		TrackNumber: int(t.TrackNumber),
		DurationMs:  int(t.Duration),
		PreviewURL:  optional(t.PreviewURL),
		Explicit:    t.Explicit,
		Popularity:  int(t.Popularity),
		ISRC:        optional(t.ExternalIDs["isrc"]),
	}
}

// convertSavedTrack converts a liked song. Liked songs carry no adder.
func convertSavedTrack(saved spotify.SavedTrack) track.PlaylistEntry {
	return track.PlaylistEntry{
		Track:   convertTrack(&saved.FullTrack),
		AddedAt: optional(saved.AddedAt),
	}
}

// convertPlaylistItem converts a playlist item.
// Episodes and removed tracks (null track) yield an entry without track.
func convertPlaylistItem(item spotify.PlaylistItem) track.PlaylistEntry {
	return track.PlaylistEntry{
		Track:   convertTrack(item.Track.Track),
		AddedBy: optional(item.AddedBy.ID),
		AddedAt: optional(item.AddedAt),
	}
}

func convertArtists(artists []spotify.SimpleArtist) []track.Artist {
	result := make([]track.Artist, len(artists))
	for i, a := range artists {
		result[i] = track.Artist{ID: string(a.ID), Name: a.Name}
	}
	return result
}

// optional maps the API's empty string for null to nil.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
