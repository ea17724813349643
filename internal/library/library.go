// Package library persists song metadata in a local SQLite database.
package library

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/handiism/ytmusic-finder/internal/model"
	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously
)

// Store is the SQLite-backed song library.
//
// Every successful search is saved into the library (duplicates by
// video ID ignored), and the full library can be loaded back into the
// results view. Only song metadata is stored, never query text.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the library at path and runs the
// schema migration.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create library directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open library db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping library db: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate library db: %w", err)
	}

	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS songs (
			video_id TEXT PRIMARY KEY,
			title    TEXT NOT NULL,
			artist   TEXT NOT NULL,
			album    TEXT,
			duration TEXT,
			url      TEXT UNIQUE NOT NULL,
			explicit BOOLEAN
		)
	`)
	return err
}

// Save inserts songs into the library, ignoring known video IDs.
// Returns the number of newly stored songs.
func (s *Store) Save(ctx context.Context, songs []model.Song) (int, error) {
	if len(songs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO songs
		(video_id, title, artist, album, duration, url, explicit)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare save: %w", err)
	}
	defer stmt.Close()

	saved := 0
	for _, song := range songs {
		res, err := stmt.ExecContext(ctx,
			song.VideoID, song.Title, song.Artist, song.Album,
			song.Duration, song.URL, song.Explicit)
		if err != nil {
			return saved, fmt.Errorf("save song %s: %w", song.VideoID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			saved++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit save: %w", err)
	}
	return saved, nil
}

// LoadAll returns every stored song sorted for display.
func (s *Store) LoadAll(ctx context.Context) ([]model.Song, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT video_id, title, artist, album, duration, url, explicit
		FROM songs
		ORDER BY artist, album, title
	`)
	if err != nil {
		return nil, fmt.Errorf("load library: %w", err)
	}
	defer rows.Close()

	var songs []model.Song
	for rows.Next() {
		var song model.Song
		var album, duration sql.NullString
		if err := rows.Scan(&song.VideoID, &song.Title, &song.Artist,
			&album, &duration, &song.URL, &song.Explicit); err != nil {
			return nil, fmt.Errorf("scan library row: %w", err)
		}
		song.Album = album.String
		song.Duration = duration.String
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

// Count returns the number of stored songs.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`).Scan(&n)
	return n, err
}
