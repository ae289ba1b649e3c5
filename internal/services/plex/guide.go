package plex

import (
	"context"
	"fmt"
	"net/url"
)

const (
	providersResource = "media/providers"
	channelsResource  = "tv.plex.providers.epg.xmltv:2/lineups/dvr/channels"
	gridResource      = "tv.plex.providers.epg.xmltv:2/grid"

	libraryProviderIdentifier = "com.plexapp.plugins.library"
)

// GetLibraryDirectories fetches the media provider listing and returns the
// library directories (one per configured library section)
func (c *Client) GetLibraryDirectories(ctx context.Context) ([]LibraryDirectory, error) {
	var response providersResponse
	if err := c.getJSON(ctx, providersResource, nil, &response); err != nil {
		return nil, err
	}

	for _, provider := range response.MediaContainer.MediaProvider {
		if provider.Identifier != libraryProviderIdentifier {
			continue
		}
		if len(provider.Feature) == 0 {
			return nil, fmt.Errorf("plex library provider has no features")
		}
		dirs := provider.Feature[0].Directory
		if len(dirs) == 0 {
			return nil, fmt.Errorf("plex library provider has no directories")
		}
		return dirs, nil
	}

	return nil, fmt.Errorf("plex is missing its library provider")
}

// GetChannels fetches the DVR channel lineup
func (c *Client) GetChannels(ctx context.Context) ([]Channel, error) {
	var response channelsResponse
	if err := c.getJSON(ctx, channelsResource, nil, &response); err != nil {
		return nil, err
	}
	return response.MediaContainer.Channel, nil
}

// GetGrid fetches the guide grid for one channel and one calendar date
// (YYYY-MM-DD). A response without metadata means the guide has nothing for
// that date and yields an empty slice, not an error.
func (c *Client) GetGrid(ctx context.Context, channelID, date string) ([]Broadcast, error) {
	query := url.Values{}
	query.Set("channelGridKey", channelID)
	query.Set("date", date)

	var response gridResponse
	if err := c.getJSON(ctx, gridResource, query, &response); err != nil {
		return nil, err
	}
	return response.MediaContainer.Metadata, nil
}
