package eventlog

import (
	"fmt"
	"testing"

	"golang.org/x/sync/errgroup"
)

func TestAppendAndSnapshot(t *testing.T) {
	buf := NewBuffer(10)

	buf.Append("search", LevelInfo, "first")
	buf.Append("download", LevelError, "second")

	got := buf.Snapshot()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Message != "first" || got[1].Message != "second" {
		t.Errorf("order = %q, %q", got[0].Message, got[1].Message)
	}
	if got[1].Source != "download" || got[1].Level != LevelError {
		t.Errorf("entry = %+v", got[1])
	}
}

func TestEviction(t *testing.T) {
	buf := NewBuffer(3)

	for i := 0; i < 5; i++ {
		buf.Append("test", LevelInfo, fmt.Sprintf("msg-%d", i))
	}

	got := buf.Snapshot()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"msg-2", "msg-3", "msg-4"} {
		if got[i].Message != want {
			t.Errorf("entry %d = %q, want %q", i, got[i].Message, want)
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	buf := NewBuffer(10)
	buf.Append("test", LevelInfo, "original")

	snap := buf.Snapshot()
	snap[0].Message = "mutated"

	if got := buf.Snapshot()[0].Message; got != "original" {
		t.Errorf("stored entry = %q, snapshot mutation leaked", got)
	}
}

func TestConcurrentAppends(t *testing.T) {
	const writers = 8
	const perWriter = 200

	buf := NewBuffer(writers * perWriter)

	var g errgroup.Group
	for w := 0; w < writers; w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < perWriter; i++ {
				buf.Append(fmt.Sprintf("writer-%d", w), LevelInfo, fmt.Sprintf("%d/%d", w, i))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	got := buf.Snapshot()
	if len(got) != writers*perWriter {
		t.Fatalf("len = %d, want %d: entries lost under concurrent load", len(got), writers*perWriter)
	}

	// Per-writer order must be preserved even though arrival order
	// interleaves writers.
	next := make(map[string]int)
	for _, e := range got {
		var w, i int
		if _, err := fmt.Sscanf(e.Message, "%d/%d", &w, &i); err != nil {
			t.Fatalf("corrupt entry %q", e.Message)
		}
		if i != next[e.Source] {
			t.Fatalf("writer %d: entry %d arrived before %d", w, i, next[e.Source])
		}
		next[e.Source]++
	}
}

func TestLenMonotonicUntilEviction(t *testing.T) {
	buf := NewBuffer(100)

	last := 0
	for i := 0; i < 50; i++ {
		buf.Append("test", LevelInfo, "x")
		if n := buf.Len(); n < last {
			t.Fatalf("Len decreased from %d to %d before eviction", last, n)
		} else {
			last = n
		}
	}
}
