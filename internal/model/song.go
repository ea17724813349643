package model

import "fmt"

// WatchURLPrefix is the base for canonical YouTube Music track URLs.
const WatchURLPrefix = "https://music.youtube.com/watch?v="

// Song represents a single track from the music catalog.
//
// Song contains the metadata needed for display, download and the
// local library:
//   - VideoID uniquely identifies the track in the catalog
//   - Title, Artist, Album and Duration for display
//   - Explicit marks tracks carrying the explicit-lyrics badge
//   - URL is the canonical watch URL passed to the downloader
//
// Songs are value types and are never mutated after creation.
type Song struct {
	// VideoID is the catalog track identifier, unique per song.
	VideoID string

	// Title is the track title.
	Title string

	// Artist is the display artist. Multiple artists are joined
	// with ", " when the song is built from a provider response.
	Artist string

	// Album is the album name, or "Single" when the track has none.
	Album string

	// Duration is the track length formatted as mm:ss,
	// or "N/A" when the provider did not report one.
	Duration string

	// Explicit reports whether the track carries the explicit badge.
	Explicit bool

	// URL is the canonical watch URL for the track.
	URL string
}

// NewSong creates a Song with a formatted duration and computed URL.
//
// durationSeconds <= 0 is treated as unknown and rendered as "N/A".
// An empty album becomes "Single", matching how the catalog presents
// standalone tracks.
func NewSong(videoID, title, artist, album string, durationSeconds int, explicit bool) Song {
	if album == "" {
		album = "Single"
	}
	return Song{
		VideoID:  videoID,
		Title:    title,
		Artist:   artist,
		Album:    album,
		Duration: FormatDuration(durationSeconds),
		Explicit: explicit,
		URL:      WatchURLPrefix + videoID,
	}
}

// FormatDuration renders a duration in seconds as mm:ss.
//
// Durations of an hour or more roll into the minutes field ("74:03").
// Non-positive values return "N/A".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Dedupe returns songs with duplicate video IDs removed, keeping the
// first occurrence and the original order.
func Dedupe(songs []Song) []Song {
	seen := make(map[string]struct{}, len(songs))
	out := make([]Song, 0, len(songs))
	for _, s := range songs {
		if s.VideoID == "" {
			continue
		}
		if _, ok := seen[s.VideoID]; ok {
			continue
		}
		seen[s.VideoID] = struct{}{}
		out = append(out, s)
	}
	return out
}
