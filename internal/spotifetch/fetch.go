package spotifetch

import (
	"context"
	"fmt"

	"github.com/avast/retry-go"
	"github.com/zmb3/spotify/v2"

	"github.com/ademuri/spotify-history-tools/internal/catalog"
)

// PlaylistTracks fetches every track of a playlist as catalog tracks, paging
// through the whole list. Local files and episode entries are skipped. The
// playlist's name is returned alongside the tracks.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string) ([]catalog.Track, string, error) {
	playlist, err := c.getPlaylist(ctx, playlistID)
	if err != nil {
		return nil, "", err
	}

	var tracks []catalog.Track
	page := playlist.Tracks
	for {
		for _, item := range page.Tracks {
			if item.Track.ID == "" || item.IsLocal {
				continue
			}
			tracks = append(tracks, trackFrom(item.Track))
		}

		if err := c.nextPage(ctx, &page); err != nil {
			if err == spotify.ErrNoMorePages {
				break
			}
			return nil, "", fmt.Errorf("paging playlist %s: %w", playlistID, err)
		}
	}

	return tracks, playlist.Name, nil
}

// PlaylistEntries fetches every track of a playlist with the positional and
// album metadata the playlist mutator needs, in playlist order.
func (c *Client) PlaylistEntries(ctx context.Context, playlistID string) ([]spotify.FullTrack, error) {
	playlist, err := c.getPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	var tracks []spotify.FullTrack
	page := playlist.Tracks
	for {
		for _, item := range page.Tracks {
			if item.Track.ID == "" || item.IsLocal {
				continue
			}
			tracks = append(tracks, item.Track)
		}

		if err := c.nextPage(ctx, &page); err != nil {
			if err == spotify.ErrNoMorePages {
				break
			}
			return nil, fmt.Errorf("paging playlist %s: %w", playlistID, err)
		}
	}

	return tracks, nil
}

// ArtistAlbums fetches the artist's full album list for a market, in the
// order the API returns it.
func (c *Client) ArtistAlbums(ctx context.Context, artistID, market string) ([]spotify.SimpleAlbum, error) {
	var page *spotify.SimpleAlbumPage
	err := retry.Do(
		func() error {
			var err error
			page, err = c.api.GetArtistAlbums(ctx, spotify.ID(artistID), nil,
				spotify.Market(market), spotify.Limit(50))
			return err
		},
		retry.RetryIf(isTransient),
	)
	if err != nil {
		return nil, fmt.Errorf("fetching albums for artist %s: %w", artistID, err)
	}

	var albums []spotify.SimpleAlbum
	for {
		albums = append(albums, page.Albums...)

		c.limiter.Wait(ctx)
		err := c.api.NextPage(ctx, page)
		if err == spotify.ErrNoMorePages {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("paging albums for artist %s: %w", artistID, err)
		}
	}

	return albums, nil
}

// Album fetches one full album, including its track list.
func (c *Client) Album(ctx context.Context, albumID spotify.ID) (*spotify.FullAlbum, error) {
	var album *spotify.FullAlbum
	err := retry.Do(
		func() error {
			var err error
			album, err = c.api.GetAlbum(ctx, albumID)
			return err
		},
		retry.RetryIf(isTransient),
	)
	if err != nil {
		return nil, fmt.Errorf("fetching album %s: %w", albumID, err)
	}
	return album, nil
}

func (c *Client) getPlaylist(ctx context.Context, playlistID string) (*spotify.FullPlaylist, error) {
	var playlist *spotify.FullPlaylist
	err := retry.Do(
		func() error {
			var err error
			playlist, err = c.api.GetPlaylist(ctx, spotify.ID(playlistID))
			return err
		},
		retry.RetryIf(isTransient),
	)
	if err != nil {
		return nil, fmt.Errorf("fetching playlist %s: %w", playlistID, err)
	}
	return playlist, nil
}

func (c *Client) nextPage(ctx context.Context, page *spotify.PlaylistTrackPage) error {
	c.limiter.Wait(ctx)
	return c.api.NextPage(ctx, page)
}

// trackFrom converts an API track to the catalog shape. The track's URI is
// the catalog id, matching the identifier the history export records.
func trackFrom(ft spotify.FullTrack) catalog.Track {
	artists := make([]string, len(ft.Artists))
	for i, a := range ft.Artists {
		artists[i] = a.Name
	}
	return catalog.Track{
		ID:          string(ft.URI),
		Title:       ft.Name,
		Artists:     artists,
		Album:       ft.Album.Name,
		ReleaseDate: ft.Album.ReleaseDate,
	}
}
