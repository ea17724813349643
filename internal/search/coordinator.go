// Package search coordinates debounced, cancellable catalog lookups.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/handiism/ytmusic-finder/internal/eventlog"
	"github.com/handiism/ytmusic-finder/internal/model"
)

// Provider is the external catalog search collaborator.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]model.Song, error)
}

// Update is the outcome of one search submission.
//
// Exactly one of the following holds: Err is set (provider failure,
// current results must be kept), or Songs carries the new result set
// (possibly empty). An Update for an empty query has Query == "" and
// no songs, which the consumer treats as a clear.
type Update struct {
	// Seq is the submission's sequence number. Consumers apply an
	// Update only if Seq is the highest they have seen.
	Seq uint64

	// Query is the trimmed query text the update answers.
	Query string

	// Songs is the normalized result set.
	Songs []model.Song

	// Err is the provider error, if any.
	Err error
}

// Coordinator debounces query input and supervises in-flight lookups.
//
// Every submission is stamped with a strictly increasing sequence
// number. A newer submission invalidates any pending debounce timer and
// any in-flight lookup: cancellation is cooperative, the stale lookup
// runs to completion and its result is dropped on arrival because its
// captured sequence number no longer matches the latest.
//
// Updates are delivered on a buffered channel; the consumer re-checks
// Seq before applying, so a slow consumer can never regress results.
type Coordinator struct {
	provider Provider
	limit    int
	quiet    time.Duration
	log      *eventlog.Buffer

	updates chan Update

	mu    sync.Mutex
	seq   uint64
	timer *time.Timer
}

// NewCoordinator creates a Coordinator.
//
// quiet is the debounce interval: a query must remain the latest for
// this long before the provider is called. limit caps results per query.
func NewCoordinator(provider Provider, limit int, quiet time.Duration, log *eventlog.Buffer) *Coordinator {
	return &Coordinator{
		provider: provider,
		limit:    limit,
		quiet:    quiet,
		log:      log,
		updates:  make(chan Update, 8),
	}
}

// Updates returns the channel search outcomes are delivered on.
func (c *Coordinator) Updates() <-chan Update {
	return c.updates
}

// Submit registers new query text, debounced.
//
// The provider is called only if the query is still the latest after
// the quiet interval. An empty (or all-space) query clears results
// immediately without a provider call; the clear still consumes a
// sequence number so a slower in-flight lookup cannot resurrect the
// cleared results.
func (c *Coordinator) Submit(query string) {
	c.submit(query, c.quiet)
}

// SubmitNow behaves like Submit without the quiet interval, for
// explicit submissions (Enter in the search input).
func (c *Coordinator) SubmitNow(query string) {
	c.submit(query, 0)
}

func (c *Coordinator) submit(query string, quiet time.Duration) {
	query = strings.TrimSpace(query)

	c.mu.Lock()
	c.seq++
	seq := c.seq
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if query == "" {
		c.mu.Unlock()
		c.deliver(Update{Seq: seq})
		return
	}
	if quiet <= 0 {
		c.mu.Unlock()
		go c.lookup(seq, query)
		return
	}
	c.timer = time.AfterFunc(quiet, func() {
		c.lookup(seq, query)
	})
	c.mu.Unlock()
}

// Invalidate supersedes any pending or in-flight submission without
// issuing a new lookup, and returns the sequence number it consumed.
// Callers use it when another source (the library view) replaces the
// visible results, so a late-arriving lookup cannot overwrite them.
func (c *Coordinator) Invalidate() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	return c.seq
}

// Seq returns the latest issued sequence number.
func (c *Coordinator) Seq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// lookup calls the provider for a debounced submission. It bails out
// if the submission went stale before the call, and drops the result
// if it went stale during the call.
func (c *Coordinator) lookup(seq uint64, query string) {
	if c.Seq() != seq {
		return
	}

	songs, err := c.provider.Search(context.Background(), query, c.limit)

	if c.Seq() != seq {
		// Superseded while in flight; drop the result.
		return
	}

	if err != nil {
		c.log.Append("search", eventlog.LevelError, fmt.Sprintf("Search for %q failed: %v", query, err))
		c.deliver(Update{Seq: seq, Query: query, Err: err})
		return
	}

	songs = model.Dedupe(songs)
	c.log.Append("search", eventlog.LevelInfo, fmt.Sprintf("Found %d results for %q", len(songs), query))
	c.deliver(Update{Seq: seq, Query: query, Songs: songs})
}

// deliver enqueues an update, discarding the oldest buffered update
// instead of blocking when the consumer lags. The consumer's sequence
// check makes dropping stale buffered updates safe.
func (c *Coordinator) deliver(u Update) {
	for {
		select {
		case c.updates <- u:
			return
		default:
			select {
			case <-c.updates:
			default:
			}
		}
	}
}
