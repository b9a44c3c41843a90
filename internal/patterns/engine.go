package patterns

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"cuesheet/internal/cue"
	"cuesheet/internal/logging"
	"cuesheet/internal/store"
)

// Pattern rule types. The condition value is compared against the matching
// element of the clip context.
const (
	TypeLibrary       = "library"
	TypeCatalogPrefix = "catalog-prefix"
	TypeTrackType     = "track-type"
)

const (
	confirmBoost    = 0.03
	confirmCap      = 0.98
	strengthenBoost = 0.05
	strengthenCap   = 0.95
	overridePenalty = 0.05
	seedConfidence  = 0.7

	// A new rule is created once this many corrections agree on the same
	// context, field, and value.
	seedCorrectionCount = 3
)

// Thresholds gate how confidently a rule must score before the engine acts
// on it.
type Thresholds struct {
	AutoFill float64
	Suggest  float64
	Minimum  float64
}

// DefaultThresholds returns the stock gating values.
func DefaultThresholds() Thresholds {
	return Thresholds{AutoFill: 0.85, Suggest: 0.50, Minimum: 0.30}
}

// ClipContext is the condition-matching view of one cue.
type ClipContext struct {
	Library       string
	CatalogPrefix string
	TrackType     string
}

// ContextFor derives the matching context from a cue.
func ContextFor(c *cue.Cue) ClipContext {
	return ClipContext{
		Library:       c.Library,
		CatalogPrefix: catalogPrefix(c.CatalogCode),
		TrackType:     string(c.Type),
	}
}

// Key renders the context as the stable string recorded with corrections.
func (cc ClipContext) Key() string {
	if cc.Library != "" {
		return TypeLibrary + ":" + cc.Library
	}
	if cc.CatalogPrefix != "" {
		return TypeCatalogPrefix + ":" + cc.CatalogPrefix
	}
	return TypeTrackType + ":" + cc.TrackType
}

func catalogPrefix(code string) string {
	code = strings.TrimSpace(code)
	for i, r := range code {
		if r >= '0' && r <= '9' {
			return code[:i]
		}
	}
	return code
}

// Suggestion pairs a matching rule with the field it would fill.
type Suggestion struct {
	Pattern *store.Pattern
	Field   cue.FieldKey
	Value   string
}

// Engine evaluates learned rules against clips and maintains their
// confidence from user feedback.
type Engine struct {
	store      *store.Store
	cache      *cache
	thresholds Thresholds
	logger     *slog.Logger
}

// New constructs an engine over the supplied store.
func New(st *store.Store, thresholds Thresholds, cacheTTLSeconds int, logger *slog.Logger) *Engine {
	if thresholds.AutoFill <= 0 {
		thresholds = DefaultThresholds()
	}
	return &Engine{
		store:      st,
		cache:      newCache(st, cacheTTLSeconds),
		thresholds: thresholds,
		logger:     logging.NewComponentLogger(logger, "patterns"),
	}
}

func (e *Engine) matches(p *store.Pattern, cc ClipContext) bool {
	switch p.Type {
	case TypeLibrary:
		return cc.Library != "" && strings.EqualFold(p.Condition, cc.Library)
	case TypeCatalogPrefix:
		return cc.CatalogPrefix != "" && strings.EqualFold(p.Condition, cc.CatalogPrefix)
	case TypeTrackType:
		return cc.TrackType != "" && strings.EqualFold(p.Condition, cc.TrackType)
	default:
		return false
	}
}

func (e *Engine) matching(ctx context.Context, cc ClipContext, minimum float64) ([]*store.Pattern, error) {
	all, err := e.cache.patterns(ctx)
	if err != nil {
		return nil, err
	}
	var matched []*store.Pattern
	for _, p := range all {
		if p.Confidence < minimum {
			continue
		}
		if e.matches(p, cc) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// AutoFill applies every sufficiently confident matching rule to the cue's
// still-empty fields and bumps usage counters for the rules that landed.
// Returns the number of fields written.
func (e *Engine) AutoFill(ctx context.Context, c *cue.Cue) (int, error) {
	matched, err := e.matching(ctx, ContextFor(c), e.thresholds.AutoFill)
	if err != nil {
		return 0, err
	}
	// Strongest rule wins when several target the same field.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Confidence > matched[j].Confidence
	})

	applied := 0
	for _, p := range matched {
		if !c.SetField(cue.FieldKey(p.Field), p.Value, cue.SourcePattern, p.Confidence) {
			continue
		}
		applied++
		if err := e.store.IncrementPatternUsage(ctx, p.ID); err != nil {
			e.logger.Warn("record pattern usage failed",
				logging.Int64("pattern", p.ID), logging.Error(err))
		}
	}
	return applied, nil
}

// Suggestions returns the rules matching the cue that clear the suggest
// threshold but did not auto-fill, strongest first.
func (e *Engine) Suggestions(ctx context.Context, c *cue.Cue) ([]Suggestion, error) {
	matched, err := e.matching(ctx, ContextFor(c), e.thresholds.Suggest)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Confidence > matched[j].Confidence
	})
	var suggestions []Suggestion
	for _, p := range matched {
		if p.Confidence >= e.thresholds.AutoFill {
			continue
		}
		if c.HasField(cue.FieldKey(p.Field)) {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Pattern: p,
			Field:   cue.FieldKey(p.Field),
			Value:   p.Value,
		})
	}
	return suggestions, nil
}

// Confirm records user acceptance of a suggested value.
func (e *Engine) Confirm(ctx context.Context, id int64) (*store.Pattern, error) {
	p, err := e.store.GetPatternByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("pattern %d not found", id)
	}
	confidence := p.Confidence + confirmBoost
	if confidence > confirmCap {
		confidence = confirmCap
	}
	if err := e.store.SetPatternConfidence(ctx, id, confidence, true); err != nil {
		return nil, err
	}
	e.cache.invalidate()
	return e.store.GetPatternByID(ctx, id)
}

// Override records that the user replaced an auto-filled value, weakening
// the rule that supplied it.
func (e *Engine) Override(ctx context.Context, id int64) (*store.Pattern, error) {
	p, err := e.store.GetPatternByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("pattern %d not found", id)
	}
	confidence := p.Confidence - overridePenalty
	if confidence < 0 {
		confidence = 0
	}
	if err := e.store.SetPatternConfidence(ctx, id, confidence, false); err != nil {
		return nil, err
	}
	e.cache.invalidate()
	return e.store.GetPatternByID(ctx, id)
}

// Delete removes a rule outright.
func (e *Engine) Delete(ctx context.Context, id int64) error {
	if err := e.store.DeletePattern(ctx, id); err != nil {
		return err
	}
	e.cache.invalidate()
	return nil
}

// List returns stored rules at or above the minimum display threshold,
// strongest first. Rules that decayed below it stay in the store so a later
// strengthen can revive them, but they are never shown.
func (e *Engine) List(ctx context.Context) ([]*store.Pattern, error) {
	rules, err := e.store.ListPatterns(ctx)
	if err != nil {
		return nil, err
	}
	visible := rules[:0:0]
	for _, p := range rules {
		if p.Confidence >= e.thresholds.Minimum {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

// RecordCorrection stores one user correction and, once enough consistent
// corrections accumulate for the same context, field, and value, strengthens
// the matching rule or seeds a new one.
func (e *Engine) RecordCorrection(ctx context.Context, cc ClipContext, field cue.FieldKey, value string) error {
	contextKey := cc.Key()
	if err := e.store.AddCorrection(ctx, contextKey, string(field), value); err != nil {
		return err
	}
	count, err := e.store.CountConsistentCorrections(ctx, contextKey, string(field), value)
	if err != nil {
		return err
	}
	if count < seedCorrectionCount {
		return nil
	}

	patternType, condition, ok := strings.Cut(contextKey, ":")
	if !ok {
		return fmt.Errorf("malformed correction context %q", contextKey)
	}
	existing, err := e.store.FindPattern(ctx, patternType, condition, string(field), value)
	if err != nil {
		return err
	}
	if existing != nil {
		confidence := existing.Confidence + strengthenBoost
		if confidence > strengthenCap {
			confidence = strengthenCap
		}
		if err := e.store.SetPatternConfidence(ctx, existing.ID, confidence, false); err != nil {
			return err
		}
		e.cache.invalidate()
		e.logger.Info("pattern strengthened",
			logging.Int64("pattern", existing.ID),
			logging.Float64("confidence", confidence))
		return nil
	}

	seeded, err := e.store.UpsertPattern(ctx, store.Pattern{
		Type:       patternType,
		Condition:  condition,
		Field:      string(field),
		Value:      value,
		Confidence: seedConfidence,
	})
	if err != nil {
		return err
	}
	e.cache.invalidate()
	e.logger.Info("pattern seeded",
		logging.Int64("pattern", seeded.ID),
		logging.String("condition", condition),
		logging.String("field", string(field)))
	return nil
}
