// Package track provides the catalog track and playlist entry entities.
package track

// Kind is the resource type segment of a Spotify URI.
type Kind string

const (
	KindTrack  Kind = "track"
	KindAlbum  Kind = "album"
	KindArtist Kind = "artist"
)

// Artist is an (id, name) pair as listed on a track or album.
type Artist struct {
	ID   string // Spotify Artist ID
	Name string // Artist name
}

// Album represents the album a track appears on.
type Album struct {
	ID          string   // Spotify Album ID
	Name        string   // Album name
	Artists     []Artist // Album artists (may differ from track artists)
	ReleaseDate string   // Release date as reported by Spotify (year, month or day precision)
	ImageURL    *string  // First cover image, nil if the album has none
}

// CatalogTrack represents a Spotify track.
// Contains only information retrieved from Spotify API and is never modified afterwards.
type CatalogTrack struct {
	ID          string   // Spotify Track ID
	Name        string   // Track name
	Artists     []Artist // Track artists
	Album       Album    // Album info
	DiscNumber  int      // Disc number
	TrackNumber int      // Track number on the disc
	DurationMs  int      // Track duration in milliseconds
	PreviewURL  *string  // 30 second preview, nil if unavailable
	Explicit    bool     // Explicit content flag
	Popularity  int      // Popularity score (0-100)
	ISRC        *string  // International Standard Recording Code, nil if not provided
}

// PlaylistEntry represents one item of a playlist or of the liked songs library.
type PlaylistEntry struct {
	Track   *CatalogTrack // nil when the track was removed or the item is an episode
	AddedBy *string       // ID of the user who added the entry, nil for liked songs
	AddedAt *string       // Timestamp as returned by the API (RFC3339)
}

// URI returns the Spotify URI of a resource, e.g. spotify:track:<id>.
func URI(kind Kind, id string) string {
	return "spotify:" + string(kind) + ":" + id
}

// ArtistIDs returns the artist IDs in listed order.
func ArtistIDs(artists []Artist) []string {
	ids := make([]string, len(artists))
	for i, a := range artists {
		ids[i] = a.ID
	}
	return ids
}

// ArtistNames returns the artist names in listed order.
func ArtistNames(artists []Artist) []string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.Name
	}
	return names
}

// HasTrack reports whether the entry carries a usable track.
func (e *PlaylistEntry) HasTrack() bool {
	return e.Track != nil
}
