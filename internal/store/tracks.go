package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const trackColumns = `id, track_name, cleaned_name, catalog_code, composer,
	publisher, artist, library, times_seen, created_at, updated_at`

func scanTrack(row patternScanner) (*Track, error) {
	var (
		t                    Track
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&t.ID, &t.TrackName, &t.CleanedName, &t.CatalogCode, &t.Composer,
		&t.Publisher, &t.Artist, &t.Library, &t.TimesSeen, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	t.CreatedAt = parseTimestamp(createdAt)
	t.UpdatedAt = parseTimestamp(updatedAt)
	return &t, nil
}

// UpsertTrack inserts a learned track or refreshes the existing row sharing
// the (cleaned name, catalog code) key. Metadata fields only fill blanks on
// the stored row so repeat sightings never erase learned values.
func (s *Store) UpsertTrack(ctx context.Context, t Track) (*Track, error) {
	t.TrackName = strings.TrimSpace(t.TrackName)
	t.CleanedName = strings.TrimSpace(t.CleanedName)
	t.CatalogCode = strings.TrimSpace(t.CatalogCode)
	if t.CleanedName == "" {
		return nil, errors.New("track requires a cleaned name")
	}
	if t.TrackName == "" {
		t.TrackName = t.CleanedName
	}

	timestamp := nowTimestamp()
	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO tracks (
            track_name, cleaned_name, catalog_code, composer, publisher,
            artist, library, times_seen, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
        ON CONFLICT (cleaned_name, catalog_code) DO UPDATE SET
            composer = CASE WHEN composer = '' THEN excluded.composer ELSE composer END,
            publisher = CASE WHEN publisher = '' THEN excluded.publisher ELSE publisher END,
            artist = CASE WHEN artist = '' THEN excluded.artist ELSE artist END,
            library = CASE WHEN library = '' THEN excluded.library ELSE library END,
            times_seen = times_seen + 1,
            updated_at = excluded.updated_at`,
		t.TrackName, t.CleanedName, t.CatalogCode, t.Composer, t.Publisher,
		t.Artist, t.Library, timestamp, timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert track: %w", err)
	}

	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+trackColumns+` FROM tracks WHERE cleaned_name = ? AND catalog_code = ?`,
		t.CleanedName, t.CatalogCode,
	)
	track, err := scanTrack(row)
	if err != nil {
		return nil, fmt.Errorf("fetch upserted track: %w", err)
	}
	return track, nil
}

// SearchTracks returns tracks whose cleaned name contains every supplied word.
func (s *Store) SearchTracks(ctx context.Context, words []string, limit int) ([]*Track, error) {
	cleaned := make([]string, 0, len(words))
	for _, word := range words {
		if word = strings.TrimSpace(strings.ToLower(word)); word != "" {
			cleaned = append(cleaned, word)
		}
	}
	if len(cleaned) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	var (
		clauses []string
		args    []any
	)
	for _, word := range cleaned {
		clauses = append(clauses, "cleaned_name LIKE ?")
		args = append(args, "%"+word+"%")
	}
	args = append(args, limit)

	query := `SELECT ` + trackColumns + ` FROM tracks WHERE ` +
		strings.Join(clauses, " AND ") +
		` ORDER BY times_seen DESC, id ASC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search tracks: %w", err)
	}
	defer rows.Close()
	return collectTracks(rows)
}

// FindTracksByCatalog returns tracks sharing the supplied catalog code.
func (s *Store) FindTracksByCatalog(ctx context.Context, catalogCode string, limit int) ([]*Track, error) {
	catalogCode = strings.TrimSpace(catalogCode)
	if catalogCode == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+trackColumns+` FROM tracks WHERE catalog_code = ?
         ORDER BY times_seen DESC, id ASC LIMIT ?`,
		catalogCode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("find tracks by catalog: %w", err)
	}
	defer rows.Close()
	return collectTracks(rows)
}

func collectTracks(rows *sql.Rows) ([]*Track, error) {
	var tracks []*Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracks: %w", err)
	}
	return tracks, nil
}
