package exporter

// State represents the export run state.
type State int

const (
	StateIdle               State = iota // Run not started
	StateAuthenticating                  // Obtaining an authorized client
	StateExportingLiked                  // Fetching and writing liked songs
	StateExportingPlaylists              // Fetching and writing configured playlists
	StateDone                            // All exports completed
	StateFailed                          // Aborted on a fatal error
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAuthenticating:
		return "authenticating"
	case StateExportingLiked:
		return "exporting_liked"
	case StateExportingPlaylists:
		return "exporting_playlists"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
