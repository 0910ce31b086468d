package spotifetch

import (
	"context"
	"fmt"

	"github.com/avast/retry-go"
	"github.com/zmb3/spotify/v2"
)

// maxWipePasses bounds the remove-then-recheck loop. A playlist that still
// has tracks after this many passes is reported as an error rather than
// looped on forever.
const maxWipePasses = 100

// addChunkSize is the API's limit on tracks per add request.
const addChunkSize = 100

// WipePlaylist removes every track from a playlist, one page per pass,
// rechecking until the playlist reads empty.
func (c *Client) WipePlaylist(ctx context.Context, playlistID string) error {
	for pass := 0; pass < maxWipePasses; pass++ {
		playlist, err := c.getPlaylist(ctx, playlistID)
		if err != nil {
			return err
		}

		var ids []spotify.ID
		for _, item := range playlist.Tracks.Tracks {
			if item.Track.ID != "" {
				ids = append(ids, item.Track.ID)
			}
		}
		if len(ids) == 0 {
			return nil
		}

		err = retry.Do(
			func() error {
				_, err := c.api.RemoveTracksFromPlaylist(ctx, spotify.ID(playlistID), ids...)
				return err
			},
			retry.RetryIf(isTransient),
		)
		if err != nil {
			return fmt.Errorf("removing tracks from playlist %s: %w", playlistID, err)
		}

		c.limiter.Wait(ctx)
	}

	return fmt.Errorf("playlist %s still has tracks after %d wipe passes", playlistID, maxWipePasses)
}

// AddTracks appends tracks to a playlist in order, batching to the API's
// chunk limit.
func (c *Client) AddTracks(ctx context.Context, playlistID string, trackIDs []spotify.ID) error {
	for start := 0; start < len(trackIDs); start += addChunkSize {
		end := start + addChunkSize
		if end > len(trackIDs) {
			end = len(trackIDs)
		}
		chunk := trackIDs[start:end]

		err := retry.Do(
			func() error {
				_, err := c.api.AddTracksToPlaylist(ctx, spotify.ID(playlistID), chunk...)
				return err
			},
			retry.RetryIf(isTransient),
		)
		if err != nil {
			return fmt.Errorf("adding tracks to playlist %s: %w", playlistID, err)
		}

		c.limiter.Wait(ctx)
	}
	return nil
}
