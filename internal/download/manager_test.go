package download

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/handiism/ytmusic-finder/internal/config"
	"github.com/handiism/ytmusic-finder/internal/eventlog"
	"github.com/handiism/ytmusic-finder/internal/model"
)

// writeScript writes an executable shell script and returns its path.
// Tests point DownloadCommand at such scripts to stand in for the real
// downloader binary.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-downloader")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func testSettings(command string) *config.Settings {
	s := config.DefaultSettings()
	s.DownloadCommand = command
	s.DownloadQueueSize = 16
	s.ShutdownGraceMs = 200
	return s
}

func song(id string) model.Song {
	return model.NewSong(id, "Song "+id, "Artist", "Album", 180, false)
}

// waitTerminal drains updates until the job with the given ID reaches a
// terminal state.
func waitTerminal(t *testing.T, m *Manager, id string) Job {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case u := <-m.Updates():
			if u.ID == id && u.State.Terminal() {
				return u
			}
		case <-deadline:
			t.Fatalf("job %s never reached a terminal state", id)
		}
	}
}

func TestJobSucceeds(t *testing.T) {
	script := writeScript(t, "exit 0")
	log := eventlog.NewBuffer(50)
	m := NewManager(testSettings(script), log)
	defer m.Shutdown()

	job, err := m.Enqueue(song("ok"))
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if job.State != StateQueued {
		t.Errorf("initial state = %v, want queued", job.State)
	}

	done := waitTerminal(t, m, job.ID)
	if done.State != StateSucceeded {
		t.Errorf("state = %v (%s), want succeeded", done.State, done.Reason)
	}
}

func TestJobFailsWithExitCode(t *testing.T) {
	script := writeScript(t, "echo boom >&2; exit 3")
	log := eventlog.NewBuffer(50)
	m := NewManager(testSettings(script), log)
	defer m.Shutdown()

	job, _ := m.Enqueue(song("bad"))
	done := waitTerminal(t, m, job.ID)

	if done.State != StateFailed {
		t.Fatalf("state = %v, want failed", done.State)
	}
	if !strings.Contains(done.Reason, "exit status 3") {
		t.Errorf("reason = %q, want the exit code", done.Reason)
	}
	if !strings.Contains(done.Reason, "boom") {
		t.Errorf("reason = %q, want captured stderr", done.Reason)
	}
}

func TestCommandNotFound(t *testing.T) {
	log := eventlog.NewBuffer(50)
	m := NewManager(testSettings("definitely-not-a-real-downloader-xyz"), log)
	defer m.Shutdown()

	if m.Availability().Found {
		t.Fatal("probe found a nonexistent command")
	}

	first, _ := m.Enqueue(song("a"))
	second, _ := m.Enqueue(song("b"))

	doneFirst := waitTerminal(t, m, first.ID)
	if doneFirst.State != StateFailed || !strings.Contains(doneFirst.Reason, "not found") {
		t.Errorf("first job = %v (%s), want not-found failure", doneFirst.State, doneFirst.Reason)
	}

	// The queue keeps processing after a failure.
	doneSecond := waitTerminal(t, m, second.ID)
	if doneSecond.State != StateFailed {
		t.Errorf("second job = %v, queue must proceed past failures", doneSecond.State)
	}
}

func TestSingleJobRunningAtATime(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "trace")
	script := writeScript(t, fmt.Sprintf("echo start >> %s; sleep 0.05; echo end >> %s", marker, marker))

	log := eventlog.NewBuffer(50)
	m := NewManager(testSettings(script), log)
	defer m.Shutdown()

	var ids []string
	for i := 0; i < 4; i++ {
		job, err := m.Enqueue(song(fmt.Sprintf("s%d", i)))
		if err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
		ids = append(ids, job.ID)
	}
	for _, id := range ids {
		waitTerminal(t, m, id)
	}

	data, err := os.ReadFile(marker)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Fields(string(data))
	if len(lines) != 8 {
		t.Fatalf("trace = %v, want 4 start/end pairs", lines)
	}
	for i, line := range lines {
		want := "start"
		if i%2 == 1 {
			want = "end"
		}
		if line != want {
			t.Fatalf("trace = %v: overlapping executions", lines)
		}
	}
}

func TestEveryJobLogsExactlyOneTerminalEntry(t *testing.T) {
	// Alternate success and failure by making the script fail on URLs
	// containing "bad".
	script := writeScript(t, `case "$1" in *bad*) exit 1;; *) exit 0;; esac`)

	log := eventlog.NewBuffer(100)
	m := NewManager(testSettings(script), log)
	defer m.Shutdown()

	const n = 6
	var ids []string
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("good%d", i)
		if i%2 == 1 {
			id = fmt.Sprintf("bad%d", i)
		}
		job, err := m.Enqueue(song(id))
		if err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
		ids = append(ids, job.ID)
	}
	for _, id := range ids {
		waitTerminal(t, m, id)
	}

	terminal := 0
	for _, e := range log.Snapshot() {
		if e.Source == "download" && (e.Level == eventlog.LevelSuccess || e.Level == eventlog.LevelError) {
			terminal++
		}
	}
	if terminal != n {
		t.Errorf("terminal log entries = %d, want exactly %d", terminal, n)
	}
}

func TestShutdownCancelsQueuedJobs(t *testing.T) {
	script := writeScript(t, "sleep 0.2")
	log := eventlog.NewBuffer(50)
	settings := testSettings(script)
	settings.ShutdownGraceMs = 1000
	m := NewManager(settings, log)

	var ids []string
	for i := 0; i < 3; i++ {
		job, _ := m.Enqueue(song(fmt.Sprintf("s%d", i)))
		ids = append(ids, job.ID)
	}

	// Let the first job start, then shut down.
	time.Sleep(50 * time.Millisecond)
	m.Shutdown()

	jobs := m.Jobs()
	if len(jobs) != 3 {
		t.Fatalf("jobs = %d", len(jobs))
	}
	cancelled := 0
	for _, j := range jobs {
		if !j.State.Terminal() {
			t.Errorf("job %s left in state %v after shutdown", j.ID, j.State)
		}
		if j.State == StateFailed && strings.Contains(j.Reason, "cancelled") {
			cancelled++
		}
	}
	if cancelled == 0 {
		t.Error("no queued job was marked cancelled")
	}

	if _, err := m.Enqueue(song("late")); err != ErrShuttingDown {
		t.Errorf("Enqueue after shutdown = %v, want ErrShuttingDown", err)
	}
}

func TestShutdownAbandonsRunningJobPastGrace(t *testing.T) {
	script := writeScript(t, "sleep 10")
	log := eventlog.NewBuffer(50)
	settings := testSettings(script)
	settings.ShutdownGraceMs = 100
	m := NewManager(settings, log)

	job, _ := m.Enqueue(song("stuck"))
	time.Sleep(50 * time.Millisecond)

	start := time.Now()
	m.Shutdown()
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("Shutdown blocked for %v, must not wait out the subprocess", elapsed)
	}

	for _, j := range m.Jobs() {
		if j.ID == job.ID {
			if j.State != StateFailed || !strings.Contains(j.Reason, "abandoned") {
				t.Errorf("job = %v (%s), want abandoned failure", j.State, j.Reason)
			}
		}
	}
}

func TestQueueFull(t *testing.T) {
	script := writeScript(t, "sleep 2")
	settings := testSettings(script)
	settings.DownloadQueueSize = 1
	m := NewManager(settings, eventlog.NewBuffer(50))
	defer m.Shutdown()

	// First job is picked up by the worker, second fills the queue slot.
	m.Enqueue(song("a"))
	time.Sleep(50 * time.Millisecond)
	m.Enqueue(song("b"))

	if _, err := m.Enqueue(song("c")); err != ErrQueueFull {
		t.Errorf("err = %v, want ErrQueueFull", err)
	}
}
