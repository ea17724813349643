package clipboard

import (
	"testing"

	"github.com/atotto/clipboard"
)

func TestCopyRoundTrip(t *testing.T) {
	bridge := NewBridge()
	if !bridge.Available() {
		t.Skip("no clipboard tool on this system")
	}

	const url = "https://music.youtube.com/watch?v=test123"
	if err := bridge.Copy(url); err != nil {
		t.Fatalf("Copy: %v", err)
	}

	got, err := clipboard.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if got != url {
		t.Errorf("clipboard = %q, want %q", got, url)
	}
}

func TestCopyUnsupportedPlatform(t *testing.T) {
	bridge := NewBridge()
	if bridge.Available() {
		t.Skip("clipboard tool present")
	}

	if err := bridge.Copy("anything"); err == nil {
		t.Error("Copy must fail when no clipboard backend exists")
	}
}
