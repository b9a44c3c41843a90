package store

import "time"

// Pattern is one learned condition-to-action rule. The natural key is the
// full (Type, Condition, Field, Value) tuple so concurrent learners converge
// on a single row instead of duplicating rules.
type Pattern struct {
	ID             int64
	Type           string
	Condition      string
	Field          string
	Value          string
	Confidence     float64
	TimesApplied   int64
	TimesConfirmed int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Correction records a single user correction of an enriched field, used to
// seed new patterns once enough consistent corrections accumulate.
type Correction struct {
	ID        int64
	Context   string
	Field     string
	Value     string
	CreatedAt time.Time
}

// Track is one learned production music track. CleanedName is the normalized
// lookup key; TrackName preserves the display form.
type Track struct {
	ID          int64
	TrackName   string
	CleanedName string
	CatalogCode string
	Composer    string
	Publisher   string
	Artist      string
	Library     string
	TimesSeen   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
