package download

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/handiism/ytmusic-finder/internal/config"
	"github.com/handiism/ytmusic-finder/internal/eventlog"
	"github.com/handiism/ytmusic-finder/internal/model"
)

// State is the lifecycle state of a download job.
type State int

const (
	StateQueued State = iota
	StateRunning
	StateSucceeded
	StateFailed
)

// String returns the display name of the state.
func (s State) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Job is one downloader invocation and its outcome.
//
// Values delivered by the manager are snapshots; the manager owns the
// live record until the job reaches a terminal state.
type Job struct {
	// ID uniquely identifies the job.
	ID string

	// Song is the track being downloaded.
	Song model.Song

	// SubmittedAt is when the job was enqueued.
	SubmittedAt time.Time

	// State is the job's lifecycle state.
	State State

	// Reason holds the failure diagnostic for StateFailed jobs.
	Reason string
}

// Availability is the result of the one-time command probe.
type Availability struct {
	// Command is the configured binary name.
	Command string

	// Path is the resolved absolute path, when found.
	Path string

	// Found reports whether the command resolved via PATH.
	Found bool
}

var (
	// ErrShuttingDown is returned by Enqueue after Shutdown began.
	ErrShuttingDown = errors.New("download manager is shutting down")

	// ErrQueueFull is returned by Enqueue when the queue is at capacity.
	ErrQueueFull = errors.New("download queue is full")
)

// Manager owns the FIFO download queue and its single worker.
//
// Exactly one job runs at any instant: the external downloader (and the
// transcoder it drives) assume exclusive use of temp files and network
// rate budget, so the queue is strictly serialized. Every terminal
// transition emits one log entry and one snapshot on Updates.
type Manager struct {
	settings *config.Settings
	avail    Availability
	log      *eventlog.Buffer

	queue   chan *Job
	updates chan Job

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	jobs    []*Job
	closing bool

	workerDone chan struct{}
}

// NewManager creates a Manager and starts its worker.
//
// The configured command is probed once here; jobs enqueued while the
// command is missing fail immediately with a command-not-found reason
// instead of failing lazily inside the subprocess spawn.
func NewManager(settings *config.Settings, log *eventlog.Buffer) *Manager {
	avail := Availability{Command: settings.DownloadCommand}
	if path, err := exec.LookPath(settings.DownloadCommand); err == nil {
		avail.Path = path
		avail.Found = true
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := &Manager{
		settings:   settings,
		avail:      avail,
		log:        log,
		queue:      make(chan *Job, settings.DownloadQueueSize),
		updates:    make(chan Job, settings.DownloadQueueSize*4),
		ctx:        ctx,
		cancel:     cancel,
		workerDone: make(chan struct{}),
	}

	go m.worker()

	return m
}

// Availability returns the result of the startup command probe.
func (m *Manager) Availability() Availability {
	return m.avail
}

// Updates returns the channel job state snapshots are delivered on.
func (m *Manager) Updates() <-chan Job {
	return m.updates
}

// Enqueue adds a download job for the song and returns its snapshot.
func (m *Manager) Enqueue(song model.Song) (Job, error) {
	m.mu.Lock()
	if m.closing {
		m.mu.Unlock()
		return Job{}, ErrShuttingDown
	}

	job := &Job{
		ID:          uuid.NewString(),
		Song:        song,
		SubmittedAt: time.Now(),
		State:       StateQueued,
	}

	select {
	case m.queue <- job:
	default:
		m.mu.Unlock()
		return Job{}, ErrQueueFull
	}

	m.jobs = append(m.jobs, job)
	snapshot := *job
	m.mu.Unlock()

	m.log.Append("download", eventlog.LevelInfo, fmt.Sprintf("Queued %q", song.Title))
	return snapshot, nil
}

// Jobs returns snapshots of all jobs in submission order.
func (m *Manager) Jobs() []Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Job, len(m.jobs))
	for i, j := range m.jobs {
		out[i] = *j
	}
	return out
}

// Shutdown stops the manager.
//
// All queued jobs are failed as cancelled. A running job is given the
// configured grace period to finish; past it the subprocess is killed
// and the job failed as abandoned. Shutdown is idempotent and safe to
// call from the UI loop.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	if m.closing {
		m.mu.Unlock()
		<-m.workerDone
		return
	}
	m.closing = true
	close(m.queue)
	m.mu.Unlock()

	select {
	case <-m.workerDone:
	case <-time.After(m.settings.ShutdownGrace()):
		// Grace expired: kill the running subprocess.
		m.cancel()
		<-m.workerDone
	}
	m.cancel()
}

// worker is the single serialization point for subprocess invocation.
func (m *Manager) worker() {
	defer close(m.workerDone)

	for job := range m.queue {
		if m.isClosing() {
			m.finish(job, StateFailed, "cancelled at shutdown")
			continue
		}
		m.run(job)
	}
}

func (m *Manager) isClosing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closing
}

// run executes one job from Queued to a terminal state.
func (m *Manager) run(job *Job) {
	m.transition(job, StateRunning, "")
	m.log.Append("download", eventlog.LevelVerbose, fmt.Sprintf("Downloading %q", job.Song.Title))

	if !m.avail.Found {
		m.finish(job, StateFailed, fmt.Sprintf("command %q not found on PATH", m.avail.Command))
		return
	}

	cmd := exec.CommandContext(m.ctx, m.avail.Path, job.Song.URL)
	output, err := cmd.CombinedOutput()

	switch {
	case err == nil:
		m.finish(job, StateSucceeded, "")
	case m.ctx.Err() != nil:
		m.finish(job, StateFailed, "abandoned at shutdown")
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			m.finish(job, StateFailed, fmt.Sprintf("exit status %d: %s", exitErr.ExitCode(), tail(output)))
		} else {
			m.finish(job, StateFailed, fmt.Sprintf("spawn failed: %v", err))
		}
	}
}

// finish moves a job to a terminal state, logging exactly one entry.
func (m *Manager) finish(job *Job, state State, reason string) {
	m.transition(job, state, reason)

	if state == StateSucceeded {
		m.log.Append("download", eventlog.LevelSuccess, fmt.Sprintf("Download complete: %q", job.Song.Title))
	} else {
		m.log.Append("download", eventlog.LevelError, fmt.Sprintf("Download failed: %q: %s", job.Song.Title, reason))
	}
}

// transition updates job state under the lock and delivers a snapshot.
func (m *Manager) transition(job *Job, state State, reason string) {
	m.mu.Lock()
	job.State = state
	job.Reason = reason
	snapshot := *job
	m.mu.Unlock()

	// Drop the oldest buffered snapshot instead of blocking the worker
	// when no consumer is draining updates.
	for {
		select {
		case m.updates <- snapshot:
			return
		default:
			select {
			case <-m.updates:
			default:
			}
		}
	}
}

// tail returns the last portion of captured subprocess output, trimmed
// for a single log line.
func tail(output []byte) string {
	const max = 300

	text := strings.TrimSpace(string(output))
	if text == "" {
		return "no output"
	}
	text = strings.ReplaceAll(text, "\n", " | ")
	if len(text) > max {
		text = "..." + text[len(text)-max:]
	}
	return text
}
