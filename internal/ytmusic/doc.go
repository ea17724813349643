// Package ytmusic binds the application to the YouTube Music catalog.
//
// # Search API
//
// The web player ships an internal JSON API; searching is a POST with a
// client context and a params blob selecting the Songs shelf. The
// response is a deeply nested renderer tree mirroring the page layout,
// which this package flattens into []model.Song:
//
//	client := ytmusic.NewClient()
//	songs, err := client.Search(ctx, "query", 25)
//
// # Parsing
//
// Wire structures live in the dto subpackage, trimmed to the read
// fields. ParseSearchResponse walks every music shelf, reads the title
// column and the "Artist • Album • Duration" column of each row, and
// de-duplicates by video ID.
//
// The API is unauthenticated and undocumented; when its shape drifts the
// parser degrades to fewer (or zero) results rather than erroring, so a
// partial layout change does not take the whole search down.
package ytmusic
