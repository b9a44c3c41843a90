package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const patternColumns = `id, pattern_type, condition, field, value, confidence,
	times_applied, times_confirmed, created_at, updated_at`

type patternScanner interface {
	Scan(dest ...any) error
}

func scanPattern(row patternScanner) (*Pattern, error) {
	var (
		p                    Pattern
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&p.ID, &p.Type, &p.Condition, &p.Field, &p.Value, &p.Confidence,
		&p.TimesApplied, &p.TimesConfirmed, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	p.CreatedAt = parseTimestamp(createdAt)
	p.UpdatedAt = parseTimestamp(updatedAt)
	return &p, nil
}

func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func nowTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// UpsertPattern inserts a pattern or, when the natural key already exists,
// raises the stored confidence to at least the supplied one. Counters on the
// existing row are preserved.
func (s *Store) UpsertPattern(ctx context.Context, p Pattern) (*Pattern, error) {
	p.Type = strings.TrimSpace(p.Type)
	p.Condition = strings.TrimSpace(p.Condition)
	p.Field = strings.TrimSpace(p.Field)
	p.Value = strings.TrimSpace(p.Value)
	if p.Type == "" || p.Condition == "" || p.Field == "" || p.Value == "" {
		return nil, errors.New("pattern requires type, condition, field, and value")
	}

	timestamp := nowTimestamp()
	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO patterns (
            pattern_type, condition, field, value, confidence,
            times_applied, times_confirmed, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, 0, 0, ?, ?)
        ON CONFLICT (pattern_type, condition, field, value) DO UPDATE SET
            confidence = MAX(confidence, excluded.confidence),
            updated_at = excluded.updated_at`,
		p.Type, p.Condition, p.Field, p.Value, p.Confidence,
		timestamp, timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert pattern: %w", err)
	}
	return s.FindPattern(ctx, p.Type, p.Condition, p.Field, p.Value)
}

// FindPattern fetches a pattern by its natural key.
func (s *Store) FindPattern(ctx context.Context, patternType, condition, field, value string) (*Pattern, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+patternColumns+` FROM patterns
         WHERE pattern_type = ? AND condition = ? AND field = ? AND value = ?`,
		patternType, condition, field, value,
	)
	pattern, err := scanPattern(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find pattern: %w", err)
	}
	return pattern, nil
}

// GetPatternByID fetches a pattern by row identifier.
func (s *Store) GetPatternByID(ctx context.Context, id int64) (*Pattern, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+patternColumns+` FROM patterns WHERE id = ?`, id)
	pattern, err := scanPattern(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pattern: %w", err)
	}
	return pattern, nil
}

// ListPatterns returns all patterns ordered by confidence, highest first.
func (s *Store) ListPatterns(ctx context.Context) ([]*Pattern, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+patternColumns+` FROM patterns ORDER BY confidence DESC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	defer rows.Close()

	var patterns []*Pattern
	for rows.Next() {
		pattern, err := scanPattern(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pattern: %w", err)
		}
		patterns = append(patterns, pattern)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patterns: %w", err)
	}
	return patterns, nil
}

// SetPatternConfidence persists a new confidence for the pattern, optionally
// bumping the confirmation counter.
func (s *Store) SetPatternConfidence(ctx context.Context, id int64, confidence float64, confirmed bool) error {
	confirmedDelta := 0
	if confirmed {
		confirmedDelta = 1
	}
	_, err := s.execWithRetry(
		ctx,
		`UPDATE patterns SET confidence = ?, times_confirmed = times_confirmed + ?, updated_at = ?
         WHERE id = ?`,
		confidence, confirmedDelta, nowTimestamp(), id,
	)
	if err != nil {
		return fmt.Errorf("set pattern confidence: %w", err)
	}
	return nil
}

// IncrementPatternUsage bumps the applied counter after an auto-fill.
func (s *Store) IncrementPatternUsage(ctx context.Context, id int64) error {
	_, err := s.execWithRetry(
		ctx,
		`UPDATE patterns SET times_applied = times_applied + 1, updated_at = ? WHERE id = ?`,
		nowTimestamp(), id,
	)
	if err != nil {
		return fmt.Errorf("increment pattern usage: %w", err)
	}
	return nil
}

// DeletePattern removes a pattern by identifier.
func (s *Store) DeletePattern(ctx context.Context, id int64) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM patterns WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete pattern: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete pattern rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("pattern %d not found", id)
	}
	return nil
}

// AddCorrection records one user correction for later pattern seeding.
func (s *Store) AddCorrection(ctx context.Context, correctionContext, field, value string) error {
	correctionContext = strings.TrimSpace(correctionContext)
	field = strings.TrimSpace(field)
	value = strings.TrimSpace(value)
	if correctionContext == "" || field == "" || value == "" {
		return errors.New("correction requires context, field, and value")
	}
	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO corrections (context, field, value, created_at) VALUES (?, ?, ?, ?)`,
		correctionContext, field, value, nowTimestamp(),
	)
	if err != nil {
		return fmt.Errorf("add correction: %w", err)
	}
	return nil
}

// CountConsistentCorrections returns how many recorded corrections share the
// exact (context, field, value) tuple.
func (s *Store) CountConsistentCorrections(ctx context.Context, correctionContext, field, value string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM corrections WHERE context = ? AND field = ? AND value = ?`,
		correctionContext, field, value,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count corrections: %w", err)
	}
	return count, nil
}
