package ytmusic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/handiism/ytmusic-finder/internal/httpx"
	"github.com/handiism/ytmusic-finder/internal/model"
)

// searchEndpoint is the internal API endpoint the web player uses.
const searchEndpoint = "https://music.youtube.com/youtubei/v1/search?prettyPrint=false"

// songsFilterParams restricts results to the Songs shelf.
const songsFilterParams = "EgWKAQIIAWoMEA4QChADEAQQCRAF"

// Client queries the YouTube Music catalog.
//
// The web player's internal search API is an unauthenticated JSON POST;
// requests identify themselves as the WEB_REMIX client and carry a
// params blob selecting the Songs shelf.
//
// Example usage:
//
//	client := ytmusic.NewClient()
//	songs, err := client.Search(ctx, "daft punk", 25)
type Client struct {
	http     *httpx.Client
	endpoint string
}

// NewClient creates a catalog client with default transport settings.
func NewClient() *Client {
	return &Client{
		http:     httpx.NewClient(),
		endpoint: searchEndpoint,
	}
}

type searchRequest struct {
	Context searchContext `json:"context"`
	Query   string        `json:"query"`
	Params  string        `json:"params"`
}

type searchContext struct {
	Client clientInfo `json:"client"`
}

type clientInfo struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	HL            string `json:"hl"`
}

// Search queries the catalog and returns up to limit songs.
//
// The API has no result-count parameter, so the limit is applied to the
// parsed, de-duplicated rows. Errors are returned as-is for the caller
// to classify; a response with no song shelf yields an empty slice and
// no error.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]model.Song, error) {
	req := searchRequest{
		Context: searchContext{
			Client: clientInfo{
				ClientName:    "WEB_REMIX",
				ClientVersion: "1.20240101.01.00",
				HL:            "en",
			},
		},
		Query:  query,
		Params: songsFilterParams,
	}

	var raw json.RawMessage
	if err := c.http.PostJSON(ctx, c.endpoint, req, &raw); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	songs, err := ParseSearchResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	if limit > 0 && len(songs) > limit {
		songs = songs[:limit]
	}
	return songs, nil
}
