package spotify

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"github.com/zmb3/spotify/v2"

	"github.com/osa030/spotify-csv-export/internal/app/pager"
	"github.com/osa030/spotify-csv-export/internal/domain/export"
	"github.com/osa030/spotify-csv-export/internal/domain/playlist"
	"github.com/osa030/spotify-csv-export/internal/domain/track"
)

// API maxima for a single page.
const (
	savedTracksPageSize   = 50
	playlistItemsPageSize = 100
)

// LikedSongs retrieves all tracks saved in the user's library, in library order.
func (c *Client) LikedSongs(ctx context.Context) ([]track.PlaylistEntry, error) {
	entries, err := pager.Collect(ctx, c.savedTracksFetch())
	if err != nil {
		return nil, errors.Wrap(err, "failed to get liked songs")
	}
	return entries, nil
}

// Playlist retrieves playlist metadata.
func (c *Client) Playlist(ctx context.Context, id string) (*playlist.Playlist, error) {
	var result *spotify.FullPlaylist
	err := c.retry(ctx, func() error {
		p, err := c.api.GetPlaylist(ctx, spotify.ID(id))
		if err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to get playlist %s", id), export.ErrPlaylistFetch)
	}

	return &playlist.Playlist{
		ID:    string(result.ID),
		Name:  result.Name,
		Owner: result.Owner.DisplayName,
	}, nil
}

// PlaylistEntries retrieves all items of a playlist, in playlist order.
func (c *Client) PlaylistEntries(ctx context.Context, id string) ([]track.PlaylistEntry, error) {
	entries, err := pager.Collect(ctx, c.playlistItemsFetch(id))
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to get playlist items %s", id), export.ErrPlaylistFetch)
	}
	return entries, nil
}

// savedTracksFetch pages through the user's saved tracks.
// The cursor is the API's next page URL.
func (c *Client) savedTracksFetch() pager.FetchFunc[track.PlaylistEntry] {
	var page *spotify.SavedTrackPage
	return func(ctx context.Context, cursor string) (pager.Page[track.PlaylistEntry], error) {
		err := c.retry(ctx, func() error {
			if cursor == "" {
				p, err := c.api.CurrentUsersTracks(ctx, c.requestOptions(savedTracksPageSize)...)
				if err != nil {
					return err
				}
				page = p
				return nil
			}
			// NextPage clears the page it is given; work on a copy so a retry can reuse the cursor.
			next := *page
			if err := c.api.NextPage(ctx, &next); err != nil {
				return err
			}
			page = &next
			return nil
		})
		if err != nil {
			return pager.Page[track.PlaylistEntry]{}, err
		}

		items := make([]track.PlaylistEntry, len(page.Tracks))
		for i, saved := range page.Tracks {
			items[i] = convertSavedTrack(saved)
		}
		zlog.Debug().Msgf("Fetched liked songs page: offset=%d items=%d total=%d", page.Offset, len(items), page.Total)

		return pager.Page[track.PlaylistEntry]{Items: items, Next: page.Next}, nil
	}
}

// playlistItemsFetch pages through the items of a playlist.
func (c *Client) playlistItemsFetch(id string) pager.FetchFunc[track.PlaylistEntry] {
	var page *spotify.PlaylistItemPage
	return func(ctx context.Context, cursor string) (pager.Page[track.PlaylistEntry], error) {
		err := c.retry(ctx, func() error {
			if cursor == "" {
				p, err := c.api.GetPlaylistItems(ctx, spotify.ID(id), c.requestOptions(playlistItemsPageSize)...)
				if err != nil {
					return err
				}
				page = p
				return nil
			}
			next := *page
			if err := c.api.NextPage(ctx, &next); err != nil {
				return err
			}
			page = &next
			return nil
		})
		if err != nil {
			return pager.Page[track.PlaylistEntry]{}, err
		}

		items := make([]track.PlaylistEntry, len(page.Items))
		for i, item := range page.Items {
			items[i] = convertPlaylistItem(item)
		}
		zlog.Debug().Msgf("Fetched playlist page: playlist=%s offset=%d items=%d total=%d", id, page.Offset, len(items), page.Total)

		return pager.Page[track.PlaylistEntry]{Items: items, Next: page.Next}, nil
	}
}
