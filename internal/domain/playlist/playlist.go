// Package playlist provides the Playlist domain entity.
package playlist

import "strings"

// invalidFilenameChars are stripped from playlist names before use as file names.
const invalidFilenameChars = `<>:"/\|?*`

// Spec is a playlist configured by the operator.
type Spec struct {
	ID string // Spotify Playlist ID
}

// Playlist represents Spotify playlist metadata.
type Playlist struct {
	ID    string // Spotify Playlist ID
	Name  string // Playlist name
	Owner string // Owner display name
}

// ParseIDs splits a comma-separated list of playlist IDs, URIs or URLs.
// Whitespace is trimmed and empty entries are dropped.
func ParseIDs(list string) []Spec {
	specs := make([]Spec, 0)
	for _, part := range strings.Split(list, ",") {
		id := NormalizeID(part)
		if id == "" {
			continue
		}
		specs = append(specs, Spec{ID: id})
	}
	return specs
}

// NormalizeID extracts the playlist ID from a Spotify playlist URL or URI.
func NormalizeID(input string) string {
	input = strings.TrimSpace(input)
	// Handle Spotify URI format: spotify:playlist:PLAYLIST_ID
	if strings.HasPrefix(input, "spotify:playlist:") {
		return strings.TrimPrefix(input, "spotify:playlist:")
	}

	// Handle URL format: https://open.spotify.com/playlist/PLAYLIST_ID or https://open.spotify.com/intl-XX/playlist/PLAYLIST_ID
	if strings.Contains(input, "open.spotify.com") && strings.Contains(input, "/playlist/") {
		parts := strings.Split(input, "/playlist/")
		id := strings.Split(parts[len(parts)-1], "?")[0]
		return strings.TrimRight(id, "/")
	}

	return input
}

// SanitizeName removes characters that are not allowed in file names
// and trims surrounding whitespace.
func SanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidFilenameChars, r) {
			return -1
		}
		return r
	}, name)
	return strings.TrimSpace(name)
}

// Filename returns the CSV file name for the playlist.
// Falls back to the playlist ID when the name sanitizes to nothing.
func (p *Playlist) Filename() string {
	name := SanitizeName(p.Name)
	if name == "" {
		name = p.ID
	}
	return name + ".csv"
}
