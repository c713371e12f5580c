package exporter

// Result is the outcome of one exported source.
type Result struct {
	ID      string // Playlist ID, empty for liked songs
	Name    string // Display name
	Owner   string // Playlist owner display name
	File    string // Output file name, empty if the name could not be resolved
	Entries int    // Entries fetched, including entries without track
	Rows    int    // Rows written
	Err     error  // Non-nil if the source was skipped
}

// Report summarizes a run.
type Report struct {
	Liked     Result
	Playlists []Result
}

// FailedPlaylists returns the number of playlists that were skipped.
func (r *Report) FailedPlaylists() int {
	n := 0
	for _, p := range r.Playlists {
		if p.Err != nil {
			n++
		}
	}
	return n
}
