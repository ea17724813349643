// Package download supervises external downloader invocations.
//
// # Manager
//
// The Manager owns a FIFO queue of download jobs and a single worker
// that invokes the configured downloader command as a subprocess, one
// job at a time:
//
//	manager := download.NewManager(settings, log)
//
//	job, err := manager.Enqueue(song)
//	if err != nil {
//	    // queue full or shutting down
//	}
//
//	for update := range manager.Updates() {
//	    // Queued -> Running -> Succeeded | Failed snapshots
//	}
//
// # Serialization
//
// Exactly one job is Running at any instant. The downloader and the
// transcoder behind it share temp files and a network rate budget, so
// the queue is never concurrent.
//
// # Command probing
//
// The configured command is resolved via PATH once, at construction.
// Availability() exposes the probe result so the UI can report a
// missing downloader at startup; jobs enqueued anyway fail with a
// command-not-found reason and the queue proceeds.
//
// # Shutdown
//
// Shutdown fails all queued jobs as cancelled and waits a configured
// grace period for a running job, after which the subprocess is killed
// and the job failed as abandoned.
package download
