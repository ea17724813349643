package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Settings holds all configuration options.
//
// A Settings value is constructed once at startup (from defaults or a
// JSON file) and passed by pointer to every component that needs it.
// It is never mutated after loading.
type Settings struct {
	// Search settings
	SearchResultLimit int `json:"search_result_limit"`
	SearchDebounceMs  int `json:"search_debounce_ms"`

	// Download settings
	DownloadCommand   string `json:"download_command"`
	DownloadQueueSize int    `json:"download_queue_size"`
	ShutdownGraceMs   int    `json:"shutdown_grace_ms"`

	// Library settings
	LibraryPath   string `json:"library_path"`
	SaveToLibrary bool   `json:"save_to_library"`

	// UI settings
	LogCapacity int `json:"log_capacity"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		SearchResultLimit: 25,
		SearchDebounceMs:  300,

		DownloadCommand:   "gytmdl",
		DownloadQueueSize: 32,
		ShutdownGraceMs:   3000,

		LibraryPath:   filepath.Join(homeDir, ".local", "share", "ytmusic-finder", "library.db"),
		SaveToLibrary: true,

		LogCapacity: 200,
	}
}

// Load reads settings from a JSON file.
//
// A missing file is not an error: defaults are returned so a first run
// needs no setup. Unknown fields in the file are ignored, fields absent
// from the file keep their default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	if err := settings.validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SearchDebounce returns the debounce quiet interval as a Duration.
func (s *Settings) SearchDebounce() time.Duration {
	return time.Duration(s.SearchDebounceMs) * time.Millisecond
}

// ShutdownGrace returns the shutdown grace period as a Duration.
func (s *Settings) ShutdownGrace() time.Duration {
	return time.Duration(s.ShutdownGraceMs) * time.Millisecond
}

func (s *Settings) validate() error {
	if s.SearchResultLimit < 1 {
		return fmt.Errorf("search_result_limit must be at least 1, got %d", s.SearchResultLimit)
	}
	if s.SearchDebounceMs < 0 {
		return fmt.Errorf("search_debounce_ms must not be negative, got %d", s.SearchDebounceMs)
	}
	if s.DownloadCommand == "" {
		return fmt.Errorf("download_command must not be empty")
	}
	if s.DownloadQueueSize < 1 {
		return fmt.Errorf("download_queue_size must be at least 1, got %d", s.DownloadQueueSize)
	}
	if s.LogCapacity < 1 {
		return fmt.Errorf("log_capacity must be at least 1, got %d", s.LogCapacity)
	}
	return nil
}
