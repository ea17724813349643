package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/ytmusic-finder/internal/clipboard"
	"github.com/handiism/ytmusic-finder/internal/config"
	"github.com/handiism/ytmusic-finder/internal/download"
	"github.com/handiism/ytmusic-finder/internal/eventlog"
	"github.com/handiism/ytmusic-finder/internal/library"
	"github.com/handiism/ytmusic-finder/internal/search"
	"github.com/handiism/ytmusic-finder/internal/tui"
	"github.com/handiism/ytmusic-finder/internal/ytmusic"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file")
	flag.Parse()

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	log := eventlog.NewBuffer(settings.LogCapacity)

	coordinator := search.NewCoordinator(ytmusic.NewClient(), settings.SearchResultLimit, settings.SearchDebounce(), log)
	manager := download.NewManager(settings, log)
	clip := clipboard.NewBridge()

	// A broken library is reported in the UI, not fatal.
	lib, err := library.NewStore(settings.LibraryPath)
	if err != nil {
		lib = nil
	}
	defer func() {
		if lib != nil {
			lib.Close()
		}
	}()

	// Only a terminal that cannot initialize is unrecoverable.
	if err := tui.Run(settings, log, coordinator, manager, clip, lib); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
