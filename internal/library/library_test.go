package library

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/handiism/ytmusic-finder/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "nested", "library.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	songs := []model.Song{
		model.NewSong("b1", "Zebra", "Beach House", "Teen Dream", 291, false),
		model.NewSong("a1", "Digital Love", "Daft Punk", "Discovery", 301, false),
		model.NewSong("a2", "Aerodynamic", "Daft Punk", "Discovery", 212, false),
	}

	saved, err := store.Save(ctx, songs)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved != 3 {
		t.Errorf("saved = %d, want 3", saved)
	}

	got, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	// Sorted by artist, album, title.
	if got[0].Title != "Aerodynamic" || got[1].Title != "Digital Love" || got[2].Title != "Zebra" {
		t.Errorf("order = %q, %q, %q", got[0].Title, got[1].Title, got[2].Title)
	}

	if got[0].URL != "https://music.youtube.com/watch?v=a2" {
		t.Errorf("URL = %q, round trip lost the URL", got[0].URL)
	}
}

func TestSaveIgnoresDuplicates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	song := model.NewSong("dup", "Title", "Artist", "Album", 100, true)

	if _, err := store.Save(ctx, []model.Song{song}); err != nil {
		t.Fatal(err)
	}
	saved, err := store.Save(ctx, []model.Song{song})
	if err != nil {
		t.Fatal(err)
	}
	if saved != 0 {
		t.Errorf("saved = %d, want 0 for a known video ID", saved)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestSaveNothing(t *testing.T) {
	store := newTestStore(t)

	saved, err := store.Save(context.Background(), nil)
	if err != nil {
		t.Fatalf("Save(nil): %v", err)
	}
	if saved != 0 {
		t.Errorf("saved = %d, want 0", saved)
	}
}
