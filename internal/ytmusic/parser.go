package ytmusic

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/handiism/ytmusic-finder/internal/model"
	"github.com/handiism/ytmusic-finder/internal/ytmusic/dto"
)

// durationRe matches duration fragments like "3:02" or "1:02:03".
var durationRe = regexp.MustCompile(`^(?:(\d+):)?(\d{1,2}):(\d{2})$`)

// pageType values the secondary line links to.
const (
	pageTypeArtist = "MUSIC_PAGE_TYPE_ARTIST"
	pageTypeAlbum  = "MUSIC_PAGE_TYPE_ALBUM"
)

// ParseSearchResponse converts a raw search API response body into songs.
//
// Song rows are read from every music shelf in document order. Rows
// without a video ID (shelf headers, "did you mean" rows) are skipped,
// duplicate video IDs keep their first occurrence.
//
// Returns an error only when the body is not valid JSON; an unexpected
// but well-formed response yields zero songs.
func ParseSearchResponse(body []byte) ([]model.Song, error) {
	var resp dto.SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("malformed search response: %w", err)
	}

	var songs []model.Song
	for _, item := range resp.ListItems() {
		song, ok := parseListItem(item)
		if !ok {
			continue
		}
		songs = append(songs, song)
	}

	return model.Dedupe(songs), nil
}

// parseListItem extracts one song from a result row.
//
// The first flex column holds the title run (with the watch endpoint),
// the second holds "Artist • Album • Duration" runs. Album may be
// absent for standalone singles.
func parseListItem(item *dto.ListItem) (model.Song, bool) {
	videoID := item.PlaylistItemData.VideoID
	var title string

	if len(item.FlexColumns) > 0 {
		for _, run := range item.FlexColumns[0].MusicResponsiveListItemFlexColumnRenderer.Text.Runs {
			if title == "" {
				title = run.Text
			}
			if videoID == "" {
				videoID = run.NavigationEndpoint.WatchEndpoint.VideoID
			}
		}
	}

	if videoID == "" {
		return model.Song{}, false
	}
	if title == "" {
		title = "N/A"
	}

	var artists []string
	var album string
	durationSeconds := 0

	if len(item.FlexColumns) > 1 {
		runs := item.FlexColumns[1].MusicResponsiveListItemFlexColumnRenderer.Text.Runs
		for _, run := range runs {
			text := strings.TrimSpace(run.Text)
			if text == "" || text == "•" {
				continue
			}
			switch run.PageType() {
			case pageTypeArtist:
				artists = append(artists, text)
			case pageTypeAlbum:
				album = text
			default:
				if secs, ok := parseDurationText(text); ok {
					durationSeconds = secs
				} else if len(artists) == 0 {
					// Untyped leading run; the secondary line always
					// starts with the artist.
					artists = append(artists, text)
				}
			}
		}
	}

	artist := strings.Join(artists, ", ")
	if artist == "" {
		artist = "N/A"
	}

	return model.NewSong(videoID, title, artist, album, durationSeconds, item.IsExplicit()), true
}

// parseDurationText converts "m:ss" or "h:mm:ss" into seconds.
func parseDurationText(text string) (int, bool) {
	m := durationRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	hours := 0
	if m[1] != "" {
		hours, _ = strconv.Atoi(m[1])
	}
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])

	return hours*3600 + minutes*60 + seconds, true
}
