// Package model defines the core data structures used throughout
// the ytmusic-finder application.
//
// # Song
//
// Song is an immutable record describing one catalog track:
//
//	song := model.NewSong("dQw4w9WgXcQ", "Title", "Artist", "Album", 212, false)
//	fmt.Println(song.URL)      // Canonical watch URL
//	fmt.Println(song.Duration) // "03:32"
//
// Songs are created from provider responses and never mutated. A new
// search replaces the previous result set wholesale.
package model
