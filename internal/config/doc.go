// Package config manages application settings.
//
// Settings are stored as JSON and loaded once at startup:
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// A missing file yields defaults, so the application works without any
// configuration. The loaded value is treated as immutable and shared by
// pointer between components.
//
// # Key Settings
//
//   - search_result_limit: result cap per query (default 25)
//   - search_debounce_ms: quiet typing interval before a search fires (default 300)
//   - download_command: downloader binary resolved via PATH (default "gytmdl")
//   - shutdown_grace_ms: how long quit waits for a running download (default 3000)
//   - library_path: SQLite song library location
package config
