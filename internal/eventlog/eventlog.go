// Package eventlog provides the ordered, append-only event log shared by
// every component and rendered by the TUI.
package eventlog

import (
	"sync"
	"time"
)

// Level indicates the severity/type of a log entry.
type Level int

const (
	LevelInfo Level = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// Entry is a single log line.
//
// Entries are ordered by arrival time: asynchronous operations complete
// out of order, and the log reflects when their outcome landed, not when
// the work was issued.
type Entry struct {
	// Time is when the entry was appended.
	Time time.Time

	// Source names the component that produced the entry
	// ("search", "download", "clipboard", "library").
	Source string

	// Level is the entry severity.
	Level Level

	// Message is the display text.
	Message string
}

// Buffer is a bounded, append-only log accepting concurrent appends.
//
// Appends are serialized by a mutex; once past the configured capacity
// the oldest entries are evicted. Snapshot returns a copy so rendering
// never races with writers.
type Buffer struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
}

// NewBuffer creates a Buffer holding at most capacity entries.
// A capacity below 1 is raised to 1.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
	}
}

// Append adds an entry stamped with the current time.
func (b *Buffer) Append(source string, level Level, message string) {
	b.AppendEntry(Entry{
		Time:    time.Now(),
		Source:  source,
		Level:   level,
		Message: message,
	})
}

// AppendEntry adds a fully formed entry, evicting the oldest entries
// once the buffer is at capacity.
func (b *Buffer) AppendEntry(entry Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, entry)
	if len(b.entries) > b.capacity {
		// Shift instead of reslicing so the backing array cannot
		// grow without bound.
		n := copy(b.entries, b.entries[len(b.entries)-b.capacity:])
		b.entries = b.entries[:n]
	}
}

// Snapshot returns a copy of the current entries in arrival order.
func (b *Buffer) Snapshot() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the current number of stored entries.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
