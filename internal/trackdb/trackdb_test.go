package trackdb

import (
	"context"
	"path/filepath"
	"testing"

	"cuesheet/internal/store"
)

func newTestLookup(t *testing.T) (*Lookup, *store.Store) {
	t.Helper()
	st, err := store.OpenAt(filepath.Join(t.TempDir(), "cuesheet.db"))
	if err != nil {
		t.Fatalf("OpenAt returned error: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return NewLookup(st, nil), st
}

func TestCleanNameStripsPrefixAndQualifiers(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"mx_BMGPM_Punch_Drunk", "punch drunk"},
		{"Punch_Drunk_Full_Mix", "punch drunk"},
		{"Punch Drunk (Inst)", "punch drunk inst"},
		{"Punch_Drunk_Inst", "punch drunk"},
		{"  Night Drive  ", "night drive"},
	}
	for _, tc := range cases {
		if got := CleanName(tc.in); got != tc.want {
			t.Errorf("CleanName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractCatalog(t *testing.T) {
	if got := ExtractCatalog("mx_BMGPM_IATS021_Punch_Drunk"); got != "IATS021" {
		t.Fatalf("expected IATS021, got %q", got)
	}
	if got := ExtractCatalog("just a track name"); got != "" {
		t.Fatalf("expected no catalog, got %q", got)
	}
}

func TestMatchExactCleanedName(t *testing.T) {
	lookup, st := newTestLookup(t)
	ctx := context.Background()

	if _, err := st.UpsertTrack(ctx, store.Track{
		TrackName:   "Punch Drunk",
		CleanedName: "punch drunk",
		CatalogCode: "IATS021",
		Composer:    "J. Smith",
	}); err != nil {
		t.Fatalf("UpsertTrack returned error: %v", err)
	}

	match, err := lookup.Match(ctx, "Punch_Drunk_Full_Mix")
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}
	if match == nil {
		t.Fatal("expected a match")
	}
	if match.Score != 1.0 {
		t.Fatalf("expected exact score 1.0, got %v", match.Score)
	}
	if match.Track.Composer != "J. Smith" {
		t.Fatalf("unexpected track %+v", match.Track)
	}
}

func TestMatchByCatalogCode(t *testing.T) {
	lookup, st := newTestLookup(t)
	ctx := context.Background()

	if _, err := st.UpsertTrack(ctx, store.Track{
		TrackName:   "Punch Drunk",
		CleanedName: "punch drunk",
		CatalogCode: "IATS021",
	}); err != nil {
		t.Fatalf("UpsertTrack returned error: %v", err)
	}

	match, err := lookup.Match(ctx, "unrelated_title_IATS021")
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}
	if match == nil {
		t.Fatal("expected catalog match")
	}
	if match.Score != 0.95 {
		t.Fatalf("expected catalog score 0.95, got %v", match.Score)
	}
}

func TestMatchFuzzySimilarity(t *testing.T) {
	lookup, st := newTestLookup(t)
	ctx := context.Background()

	if _, err := st.UpsertTrack(ctx, store.Track{
		TrackName:   "Midnight Drive Home",
		CleanedName: "midnight drive home",
	}); err != nil {
		t.Fatalf("UpsertTrack returned error: %v", err)
	}

	match, err := lookup.Match(ctx, "The_Midnight_Drive_Home")
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}
	if match == nil {
		t.Fatal("expected fuzzy match")
	}
	if match.Score < 0.7 || match.Score >= 0.95 {
		t.Fatalf("expected scaled fuzzy score in [0.7, 0.95), got %v", match.Score)
	}
}

func TestMatchRejectsWeakCandidates(t *testing.T) {
	lookup, st := newTestLookup(t)
	ctx := context.Background()

	if _, err := st.UpsertTrack(ctx, store.Track{
		TrackName:   "Midnight Drive",
		CleanedName: "midnight drive",
	}); err != nil {
		t.Fatalf("UpsertTrack returned error: %v", err)
	}

	match, err := lookup.Match(ctx, "Midnight_Picnic_Song")
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}
	if match != nil {
		t.Fatalf("expected no match, got %+v score %v", match.Track, match.Score)
	}
}

func TestMatchEmptyName(t *testing.T) {
	lookup, _ := newTestLookup(t)
	match, err := lookup.Match(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}
	if match != nil {
		t.Fatalf("expected nil match for blank input, got %+v", match)
	}
}

func TestLearnDerivesKeys(t *testing.T) {
	lookup, _ := newTestLookup(t)
	ctx := context.Background()

	saved, err := lookup.Learn(ctx, store.Track{
		TrackName: "mx_BMGPM_IATS021_Punch_Drunk",
		Publisher: "BMG Rights Management",
	})
	if err != nil {
		t.Fatalf("Learn returned error: %v", err)
	}
	if saved.CleanedName != "iats021 punch drunk" {
		t.Fatalf("unexpected cleaned name %q", saved.CleanedName)
	}
	if saved.CatalogCode != "IATS021" {
		t.Fatalf("expected derived catalog code, got %q", saved.CatalogCode)
	}

	match, err := lookup.Match(ctx, "anything_IATS021")
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}
	if match == nil || match.Track.Publisher != "BMG Rights Management" {
		t.Fatalf("expected learned track via catalog, got %+v", match)
	}
}
