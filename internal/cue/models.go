package cue

import "strings"

// Type categorizes a clip for cue sheet purposes.
type Type string

const (
	TypeMain     Type = "main"
	TypeSFX      Type = "sfx"
	TypeStem     Type = "stem"
	TypeExcluded Type = "excluded"
)

// RawClip is a clip as aggregated from the project timeline. It is immutable
// once emitted by the parser.
//
// TotalTicks is the sum of every placement of the clip; MaxTicks is the
// longest single placement. Both are kept deliberately: duration display and
// stem absorption use MaxTicks (simultaneous stems report the longest
// placement), while TotalTicks is preserved for audit output. Do not collapse
// them into one aggregate.
type RawClip struct {
	ID            string `json:"id"`
	OriginalName  string `json:"original_name"`
	TotalTicks    int64  `json:"total_ticks"`
	MaxTicks      int64  `json:"max_ticks"`
	InstanceCount int    `json:"instance_count"`
}

// Classification is the outcome of exclusion rules plus the filename
// recognizer battery. Type and Confidence are set atomically by the first
// rule that matches; a clip is never classified twice.
type Classification struct {
	Type           Type    `json:"cue_type"`
	Confidence     float64 `json:"confidence"`
	Reason         string  `json:"classification_reason"`
	BaseTrackName  string  `json:"base_track_name"`
	DisplayName    string  `json:"display_name"`
	Library        string  `json:"library,omitempty"`
	CatalogCode    string  `json:"catalog_code,omitempty"`
	IsStem         bool    `json:"is_stem"`
	MatchedPattern string  `json:"matched_pattern,omitempty"`
	LowConfidence  bool    `json:"is_low_confidence"`
}

// ClassifiedClip pairs a raw clip with its classification.
type ClassifiedClip struct {
	RawClip
	Classification
}

// Timing is the tick-derived duration of a clip after the frame rounding
// rule has been applied.
type Timing struct {
	DurationSeconds float64 `json:"duration_seconds"`
	DurationFrames  int     `json:"duration_frames"`
	Formatted       string  `json:"formatted_duration"`
	WasRounded      bool    `json:"was_rounded"`
}

// TimedClip is a classified clip with its converted duration.
type TimedClip struct {
	ClassifiedClip
	Timing
}

// FieldKey names an enrichable metadata field on a cue.
type FieldKey string

const (
	FieldArtist    FieldKey = "artist"
	FieldSource    FieldKey = "source"
	FieldLabel     FieldKey = "label"
	FieldPublisher FieldKey = "publisher"
	FieldComposer  FieldKey = "composer"
)

// EnrichableFields lists every field the enrichment chain may fill, in a
// stable order for rendering.
var EnrichableFields = []FieldKey{
	FieldArtist,
	FieldSource,
	FieldLabel,
	FieldPublisher,
	FieldComposer,
}

// ValueSource identifies which enrichment stage supplied a field value.
type ValueSource string

const (
	SourceFileMetadata     ValueSource = "file_metadata"
	SourceLearnedDB        ValueSource = "learned_db"
	SourcePattern          ValueSource = "pattern"
	SourceRemoteClassifier ValueSource = "remote_classifier"
	SourceDefault          ValueSource = "default"
)

// Field is one enriched metadata value with provenance.
type Field struct {
	Value      string      `json:"value"`
	Source     ValueSource `json:"source"`
	Confidence float64     `json:"confidence"`
}

// Cue is a main or SFX line item on the cue sheet, with any stems it absorbed
// and the per-field enrichment state. Stems are never emitted standalone.
type Cue struct {
	TimedClip
	Stems                []TimedClip        `json:"stems,omitempty"`
	StemDurationAbsorbed bool               `json:"stem_duration_absorbed"`
	IsSynthetic          bool               `json:"is_synthetic"`
	Fields               map[FieldKey]Field `json:"fields,omitempty"`
}

// SetField records value for key unless an earlier stage already filled it.
// Returns true when the value was written. Empty values are never recorded.
func (c *Cue) SetField(key FieldKey, value string, source ValueSource, confidence float64) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	if c.Fields == nil {
		c.Fields = make(map[FieldKey]Field, len(EnrichableFields))
	}
	if existing, ok := c.Fields[key]; ok && existing.Value != "" {
		return false
	}
	c.Fields[key] = Field{Value: value, Source: source, Confidence: confidence}
	return true
}

// FieldValue returns the current value for key, or "" when unset.
func (c *Cue) FieldValue(key FieldKey) string {
	if c.Fields == nil {
		return ""
	}
	return c.Fields[key].Value
}

// HasField reports whether key already carries a value.
func (c *Cue) HasField(key FieldKey) bool {
	return c.FieldValue(key) != ""
}
