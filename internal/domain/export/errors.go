package export

import "github.com/cockroachdb/errors"

// Error categories. Producers mark wrapped errors with errors.Mark so that
// callers can test the category with errors.Is.
var (
	// ErrConfiguration indicates missing or invalid credentials or settings.
	ErrConfiguration = errors.New("configuration error")
	// ErrAuth indicates that the credential exchange failed.
	ErrAuth = errors.New("authentication error")
	// ErrPlaylistFetch indicates that a playlist could not be read.
	ErrPlaylistFetch = errors.New("playlist fetch error")
	// ErrIO indicates that an export destination could not be written.
	ErrIO = errors.New("io error")
)
