package patterns

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cuesheet/internal/cue"
	"cuesheet/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.Store) {
	t.Helper()
	st, err := store.OpenAt(filepath.Join(t.TempDir(), "cuesheet.db"))
	if err != nil {
		t.Fatalf("OpenAt returned error: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return New(st, DefaultThresholds(), 60, nil), st
}

func bmgCue() *cue.Cue {
	c := &cue.Cue{}
	c.Type = cue.TypeMain
	c.Library = "BMG Production Music"
	c.CatalogCode = "IATS021"
	return c
}

func TestSuggestThenConfirmEnablesAutoFill(t *testing.T) {
	engine, st := newTestEngine(t)
	ctx := context.Background()

	seeded, err := st.UpsertPattern(ctx, store.Pattern{
		Type:       TypeLibrary,
		Condition:  "BMG Production Music",
		Field:      string(cue.FieldPublisher),
		Value:      "BMG Rights Management",
		Confidence: 0.83,
	})
	if err != nil {
		t.Fatalf("UpsertPattern returned error: %v", err)
	}

	first := bmgCue()
	applied, err := engine.AutoFill(ctx, first)
	if err != nil {
		t.Fatalf("AutoFill returned error: %v", err)
	}
	if applied != 0 || first.HasField(cue.FieldPublisher) {
		t.Fatalf("0.83 rule must not auto-fill, applied=%d fields=%v", applied, first.Fields)
	}

	suggestions, err := engine.Suggestions(ctx, first)
	if err != nil {
		t.Fatalf("Suggestions returned error: %v", err)
	}
	if len(suggestions) != 1 || suggestions[0].Pattern.ID != seeded.ID {
		t.Fatalf("expected the rule as top suggestion, got %+v", suggestions)
	}

	confirmed, err := engine.Confirm(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("Confirm returned error: %v", err)
	}
	if got := confirmed.Confidence; got < 0.859 || got > 0.861 {
		t.Fatalf("expected confidence 0.86 after confirmation, got %v", got)
	}
	if confirmed.TimesConfirmed != 1 {
		t.Fatalf("expected times_confirmed 1, got %d", confirmed.TimesConfirmed)
	}

	second := bmgCue()
	applied, err = engine.AutoFill(ctx, second)
	if err != nil {
		t.Fatalf("AutoFill returned error: %v", err)
	}
	if applied != 1 {
		t.Fatalf("expected auto-fill after confirmation, applied=%d", applied)
	}
	field := second.Fields[cue.FieldPublisher]
	if field.Value != "BMG Rights Management" || field.Source != cue.SourcePattern {
		t.Fatalf("unexpected field %+v", field)
	}
}

func TestConfirmCapsAtMaximum(t *testing.T) {
	engine, st := newTestEngine(t)
	ctx := context.Background()

	seeded, err := st.UpsertPattern(ctx, store.Pattern{
		Type: TypeLibrary, Condition: "APM", Field: "label", Value: "APM Music", Confidence: 0.97,
	})
	if err != nil {
		t.Fatalf("UpsertPattern returned error: %v", err)
	}
	confirmed, err := engine.Confirm(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("Confirm returned error: %v", err)
	}
	if confirmed.Confidence != 0.98 {
		t.Fatalf("expected cap 0.98, got %v", confirmed.Confidence)
	}
}

func TestOverrideWeakensRule(t *testing.T) {
	engine, st := newTestEngine(t)
	ctx := context.Background()

	seeded, err := st.UpsertPattern(ctx, store.Pattern{
		Type: TypeLibrary, Condition: "Artlist", Field: "label", Value: "Artlist", Confidence: 0.9,
	})
	if err != nil {
		t.Fatalf("UpsertPattern returned error: %v", err)
	}
	weakened, err := engine.Override(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("Override returned error: %v", err)
	}
	if got := weakened.Confidence; got < 0.849 || got > 0.851 {
		t.Fatalf("expected confidence 0.85 after override, got %v", got)
	}
}

func TestListHidesRulesBelowMinimum(t *testing.T) {
	engine, st := newTestEngine(t)
	ctx := context.Background()

	if _, err := st.UpsertPattern(ctx, store.Pattern{
		Type: TypeLibrary, Condition: "Artlist", Field: "label", Value: "Artlist", Confidence: 0.2,
	}); err != nil {
		t.Fatalf("UpsertPattern returned error: %v", err)
	}
	kept, err := st.UpsertPattern(ctx, store.Pattern{
		Type: TypeLibrary, Condition: "Musicbed", Field: "label", Value: "Musicbed", Confidence: 0.4,
	})
	if err != nil {
		t.Fatalf("UpsertPattern returned error: %v", err)
	}

	rules, err := engine.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(rules) != 1 || rules[0].ID != kept.ID {
		t.Fatalf("expected only the 0.4 rule, got %+v", rules)
	}
}

func TestRecordCorrectionSeedsAfterThree(t *testing.T) {
	engine, st := newTestEngine(t)
	ctx := context.Background()

	cc := ClipContext{Library: "Extreme Music"}
	for i := 0; i < 2; i++ {
		if err := engine.RecordCorrection(ctx, cc, cue.FieldLabel, "Extreme Music"); err != nil {
			t.Fatalf("RecordCorrection returned error: %v", err)
		}
		found, err := st.FindPattern(ctx, TypeLibrary, "Extreme Music", "label", "Extreme Music")
		if err != nil {
			t.Fatalf("FindPattern returned error: %v", err)
		}
		if found != nil {
			t.Fatalf("pattern seeded too early after %d corrections", i+1)
		}
	}

	if err := engine.RecordCorrection(ctx, cc, cue.FieldLabel, "Extreme Music"); err != nil {
		t.Fatalf("RecordCorrection returned error: %v", err)
	}
	seeded, err := st.FindPattern(ctx, TypeLibrary, "Extreme Music", "label", "Extreme Music")
	if err != nil {
		t.Fatalf("FindPattern returned error: %v", err)
	}
	if seeded == nil {
		t.Fatal("expected seeded pattern after third correction")
	}
	if seeded.Confidence > 0.7 {
		t.Fatalf("seed confidence must not exceed 0.7, got %v", seeded.Confidence)
	}
}

func TestRecordCorrectionStrengthensExisting(t *testing.T) {
	engine, st := newTestEngine(t)
	ctx := context.Background()

	existing, err := st.UpsertPattern(ctx, store.Pattern{
		Type: TypeLibrary, Condition: "Epidemic Sound", Field: "label", Value: "Epidemic Sound", Confidence: 0.8,
	})
	if err != nil {
		t.Fatalf("UpsertPattern returned error: %v", err)
	}

	cc := ClipContext{Library: "Epidemic Sound"}
	for i := 0; i < 3; i++ {
		if err := engine.RecordCorrection(ctx, cc, cue.FieldLabel, "Epidemic Sound"); err != nil {
			t.Fatalf("RecordCorrection returned error: %v", err)
		}
	}

	reloaded, err := st.GetPatternByID(ctx, existing.ID)
	if err != nil {
		t.Fatalf("GetPatternByID returned error: %v", err)
	}
	if got := reloaded.Confidence; got < 0.849 || got > 0.851 {
		t.Fatalf("expected strengthened confidence 0.85, got %v", got)
	}
}

func TestAutoFillNeverOverwrites(t *testing.T) {
	engine, st := newTestEngine(t)
	ctx := context.Background()

	if _, err := st.UpsertPattern(ctx, store.Pattern{
		Type: TypeLibrary, Condition: "BMG Production Music", Field: "publisher", Value: "Wrong Publisher", Confidence: 0.95,
	}); err != nil {
		t.Fatalf("UpsertPattern returned error: %v", err)
	}

	c := bmgCue()
	c.SetField(cue.FieldPublisher, "From File Tags", cue.SourceFileMetadata, 1.0)
	applied, err := engine.AutoFill(ctx, c)
	if err != nil {
		t.Fatalf("AutoFill returned error: %v", err)
	}
	if applied != 0 {
		t.Fatalf("expected no fills over existing field, applied=%d", applied)
	}
	if c.FieldValue(cue.FieldPublisher) != "From File Tags" {
		t.Fatalf("existing field overwritten: %+v", c.Fields[cue.FieldPublisher])
	}
}

func TestCatalogPrefixMatching(t *testing.T) {
	engine, st := newTestEngine(t)
	ctx := context.Background()

	if _, err := st.UpsertPattern(ctx, store.Pattern{
		Type: TypeCatalogPrefix, Condition: "IATS", Field: "source", Value: "In All The Silence", Confidence: 0.9,
	}); err != nil {
		t.Fatalf("UpsertPattern returned error: %v", err)
	}

	c := &cue.Cue{}
	c.Type = cue.TypeMain
	c.CatalogCode = "IATS021"
	applied, err := engine.AutoFill(ctx, c)
	if err != nil {
		t.Fatalf("AutoFill returned error: %v", err)
	}
	if applied != 1 || c.FieldValue(cue.FieldSource) != "In All The Silence" {
		t.Fatalf("expected catalog-prefix fill, applied=%d fields=%v", applied, c.Fields)
	}
}

func TestCacheRefreshesAfterTTL(t *testing.T) {
	st, err := store.OpenAt(filepath.Join(t.TempDir(), "cuesheet.db"))
	if err != nil {
		t.Fatalf("OpenAt returned error: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	engine := New(st, DefaultThresholds(), 30, nil)
	now := time.Unix(1000, 0)
	engine.cache.now = func() time.Time { return now }
	ctx := context.Background()

	c := bmgCue()
	if applied, err := engine.AutoFill(ctx, c); err != nil || applied != 0 {
		t.Fatalf("expected empty store, applied=%d err=%v", applied, err)
	}

	// Insert behind the cache's back; a second writer would look like this.
	if _, err := st.UpsertPattern(ctx, store.Pattern{
		Type: TypeLibrary, Condition: "BMG Production Music", Field: "publisher", Value: "BMG Rights Management", Confidence: 0.9,
	}); err != nil {
		t.Fatalf("UpsertPattern returned error: %v", err)
	}

	stale := bmgCue()
	if applied, _ := engine.AutoFill(ctx, stale); applied != 0 {
		t.Fatal("cache served fresh data before TTL expiry")
	}

	now = now.Add(31 * time.Second)
	fresh := bmgCue()
	applied, err := engine.AutoFill(ctx, fresh)
	if err != nil {
		t.Fatalf("AutoFill returned error: %v", err)
	}
	if applied != 1 {
		t.Fatal("cache did not refresh after TTL expiry")
	}
}
