package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenAt(filepath.Join(t.TempDir(), "cuesheet.db"))
	if err != nil {
		t.Fatalf("OpenAt returned error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUpsertPatternIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.UpsertPattern(ctx, Pattern{
		Type:       "library",
		Condition:  "BMG Production Music",
		Field:      "publisher",
		Value:      "BMG Rights Management",
		Confidence: 0.6,
	})
	if err != nil {
		t.Fatalf("UpsertPattern returned error: %v", err)
	}

	second, err := s.UpsertPattern(ctx, Pattern{
		Type:       "library",
		Condition:  "BMG Production Music",
		Field:      "publisher",
		Value:      "BMG Rights Management",
		Confidence: 0.5,
	})
	if err != nil {
		t.Fatalf("second UpsertPattern returned error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected single row, got ids %d and %d", first.ID, second.ID)
	}
	if second.Confidence != 0.6 {
		t.Fatalf("expected confidence kept at 0.6, got %v", second.Confidence)
	}

	patterns, err := s.ListPatterns(ctx)
	if err != nil {
		t.Fatalf("ListPatterns returned error: %v", err)
	}
	if len(patterns) != 1 {
		t.Fatalf("expected 1 pattern, got %d", len(patterns))
	}
}

func TestUpsertPatternRaisesConfidence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.UpsertPattern(ctx, Pattern{
		Type: "library", Condition: "APM", Field: "label", Value: "APM Music", Confidence: 0.5,
	}); err != nil {
		t.Fatalf("UpsertPattern returned error: %v", err)
	}
	updated, err := s.UpsertPattern(ctx, Pattern{
		Type: "library", Condition: "APM", Field: "label", Value: "APM Music", Confidence: 0.7,
	})
	if err != nil {
		t.Fatalf("second UpsertPattern returned error: %v", err)
	}
	if updated.Confidence != 0.7 {
		t.Fatalf("expected confidence raised to 0.7, got %v", updated.Confidence)
	}
}

func TestSetPatternConfidenceAndUsage(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	pattern, err := s.UpsertPattern(ctx, Pattern{
		Type: "catalog-prefix", Condition: "IATS", Field: "source", Value: "In All The Silence", Confidence: 0.83,
	})
	if err != nil {
		t.Fatalf("UpsertPattern returned error: %v", err)
	}
	if err := s.SetPatternConfidence(ctx, pattern.ID, 0.86, true); err != nil {
		t.Fatalf("SetPatternConfidence returned error: %v", err)
	}
	if err := s.IncrementPatternUsage(ctx, pattern.ID); err != nil {
		t.Fatalf("IncrementPatternUsage returned error: %v", err)
	}

	reloaded, err := s.GetPatternByID(ctx, pattern.ID)
	if err != nil {
		t.Fatalf("GetPatternByID returned error: %v", err)
	}
	if reloaded.Confidence != 0.86 {
		t.Fatalf("expected confidence 0.86, got %v", reloaded.Confidence)
	}
	if reloaded.TimesConfirmed != 1 || reloaded.TimesApplied != 1 {
		t.Fatalf("expected counters 1/1, got %d/%d", reloaded.TimesConfirmed, reloaded.TimesApplied)
	}
}

func TestDeletePattern(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	pattern, err := s.UpsertPattern(ctx, Pattern{
		Type: "library", Condition: "Artlist", Field: "label", Value: "Artlist", Confidence: 0.4,
	})
	if err != nil {
		t.Fatalf("UpsertPattern returned error: %v", err)
	}
	if err := s.DeletePattern(ctx, pattern.ID); err != nil {
		t.Fatalf("DeletePattern returned error: %v", err)
	}
	if err := s.DeletePattern(ctx, pattern.ID); err == nil {
		t.Fatal("expected error deleting missing pattern")
	}
	if got, err := s.GetPatternByID(ctx, pattern.ID); err != nil || got != nil {
		t.Fatalf("expected pattern gone, got %v err %v", got, err)
	}
}

func TestCorrectionsCount(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.AddCorrection(ctx, "library:BMG Production Music", "publisher", "BMG Rights Management"); err != nil {
			t.Fatalf("AddCorrection returned error: %v", err)
		}
	}
	if err := s.AddCorrection(ctx, "library:BMG Production Music", "publisher", "Someone Else"); err != nil {
		t.Fatalf("AddCorrection returned error: %v", err)
	}

	count, err := s.CountConsistentCorrections(ctx, "library:BMG Production Music", "publisher", "BMG Rights Management")
	if err != nil {
		t.Fatalf("CountConsistentCorrections returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 consistent corrections, got %d", count)
	}
}

func TestUpsertTrackFillsBlanksOnly(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.UpsertTrack(ctx, Track{
		TrackName:   "Punch Drunk",
		CleanedName: "punch drunk",
		CatalogCode: "IATS021",
		Composer:    "J. Smith",
	})
	if err != nil {
		t.Fatalf("UpsertTrack returned error: %v", err)
	}
	if first.TimesSeen != 1 {
		t.Fatalf("expected times_seen 1, got %d", first.TimesSeen)
	}

	second, err := s.UpsertTrack(ctx, Track{
		TrackName:   "Punch Drunk",
		CleanedName: "punch drunk",
		CatalogCode: "IATS021",
		Composer:    "Different Composer",
		Publisher:   "BMG Rights Management",
	})
	if err != nil {
		t.Fatalf("second UpsertTrack returned error: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected single row, got ids %d and %d", first.ID, second.ID)
	}
	if second.Composer != "J. Smith" {
		t.Fatalf("existing composer should be preserved, got %q", second.Composer)
	}
	if second.Publisher != "BMG Rights Management" {
		t.Fatalf("blank publisher should be filled, got %q", second.Publisher)
	}
	if second.TimesSeen != 2 {
		t.Fatalf("expected times_seen 2, got %d", second.TimesSeen)
	}
}

func TestSearchTracksRequiresAllWords(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	seed := []Track{
		{TrackName: "Punch Drunk", CleanedName: "punch drunk", CatalogCode: "IATS021"},
		{TrackName: "Punch Line", CleanedName: "punch line", CatalogCode: "IATS022"},
		{TrackName: "Drunk Sailor", CleanedName: "drunk sailor"},
	}
	for _, track := range seed {
		if _, err := s.UpsertTrack(ctx, track); err != nil {
			t.Fatalf("UpsertTrack returned error: %v", err)
		}
	}

	tracks, err := s.SearchTracks(ctx, []string{"punch", "drunk"}, 10)
	if err != nil {
		t.Fatalf("SearchTracks returned error: %v", err)
	}
	if len(tracks) != 1 || tracks[0].CleanedName != "punch drunk" {
		t.Fatalf("expected single conjunctive match, got %+v", tracks)
	}

	byCatalog, err := s.FindTracksByCatalog(ctx, "IATS022", 10)
	if err != nil {
		t.Fatalf("FindTracksByCatalog returned error: %v", err)
	}
	if len(byCatalog) != 1 || byCatalog[0].TrackName != "Punch Line" {
		t.Fatalf("expected catalog match, got %+v", byCatalog)
	}
}

func TestSchemaVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cuesheet.db")
	s, err := OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt returned error: %v", err)
	}
	if _, err := s.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	if _, err := OpenAt(path); err == nil {
		t.Fatal("expected schema mismatch error")
	}
}
