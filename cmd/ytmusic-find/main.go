package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/ytmusic-finder/internal/config"
	"github.com/handiism/ytmusic-finder/internal/download"
	"github.com/handiism/ytmusic-finder/internal/eventlog"
	"github.com/handiism/ytmusic-finder/internal/library"
	"github.com/handiism/ytmusic-finder/internal/model"
	"github.com/handiism/ytmusic-finder/internal/ytmusic"
)

func main() {
	// Command line flags
	var (
		queryFlag    = flag.String("query", "", "Search query")
		limitFlag    = flag.Int("limit", 0, "Result limit (overrides config)")
		configFlag   = flag.String("config", "", "Path to config file")
		downloadFlag = flag.Bool("download", false, "Download all listed results")
		indexFlag    = flag.Int("index", 0, "Download only the Nth result (1-based)")
	)

	flag.Parse()

	query := *queryFlag
	if query == "" && flag.NArg() > 0 {
		query = flag.Arg(0)
	}
	if query == "" {
		fmt.Println("ytmusic-find - Search YouTube Music and download tracks")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  ytmusic-find -query <text> [options]")
		fmt.Println("  ytmusic-find <text> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: ytmusic-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	limit := settings.SearchResultLimit
	if *limitFlag > 0 {
		limit = *limitFlag
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Search
	client := ytmusic.NewClient()
	songs, err := client.Search(ctx, query, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if len(songs) == 0 {
		fmt.Printf("No music found for %q\n", query)
		return
	}

	fmt.Printf("Found %d results for %q:\n\n", len(songs), query)
	for i, song := range songs {
		explicit := ""
		if song.Explicit {
			explicit = " [E]"
		}
		fmt.Printf("%3d. %s — %s (%s, %s)%s\n", i+1, song.Title, song.Artist, song.Album, song.Duration, explicit)
	}

	toDownload := pickDownloads(songs, *downloadFlag, *indexFlag)

	// Library save and downloads can proceed in parallel; they touch
	// disjoint resources.
	var g errgroup.Group

	g.Go(func() error {
		if !settings.SaveToLibrary {
			return nil
		}
		lib, err := library.NewStore(settings.LibraryPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Library unavailable: %v\n", err)
			return nil // not fatal
		}
		defer lib.Close()

		if added, err := lib.Save(ctx, songs); err == nil && added > 0 {
			fmt.Printf("\nSaved %d new songs to the library.\n", added)
		}
		return nil
	})

	var failed int
	if len(toDownload) > 0 {
		g.Go(func() error {
			failed = runDownloads(ctx, settings, toDownload)
			return nil
		})
	}

	g.Wait()

	if failed > 0 {
		os.Exit(1)
	}
}

// pickDownloads selects which results to download.
func pickDownloads(songs []model.Song, all bool, index int) []model.Song {
	if index > 0 && index <= len(songs) {
		return songs[index-1 : index]
	}
	if all {
		return songs
	}
	return nil
}

// runDownloads feeds songs through the job manager and prints each
// terminal outcome. Returns the number of failed jobs.
func runDownloads(ctx context.Context, settings *config.Settings, songs []model.Song) int {
	log := eventlog.NewBuffer(settings.LogCapacity)
	manager := download.NewManager(settings, log)

	if avail := manager.Availability(); !avail.Found {
		fmt.Fprintf(os.Stderr, "Warning: %q not found on PATH\n", avail.Command)
	}

	fmt.Printf("\nDownloading %d track(s)...\n", len(songs))

	queued := 0
	for _, song := range songs {
		if _, err := manager.Enqueue(song); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot queue %q: %v\n", song.Title, err)
			continue
		}
		queued++
	}

	failed := 0
	done := 0
	for done < queued {
		select {
		case <-ctx.Done():
			manager.Shutdown()
			for _, job := range manager.Jobs() {
				if job.State == download.StateFailed {
					failed++
				}
			}
			return failed
		case job := <-manager.Updates():
			if !job.State.Terminal() {
				continue
			}
			done++
			if job.State == download.StateSucceeded {
				fmt.Printf("✓ %s\n", job.Song.Title)
			} else {
				failed++
				fmt.Printf("✗ %s: %s\n", job.Song.Title, job.Reason)
			}
		}
	}

	manager.Shutdown()
	return failed
}
