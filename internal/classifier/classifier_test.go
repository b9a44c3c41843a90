package classifier

import "testing"

func TestClassifyBMGProductionMusic(t *testing.T) {
	res := Classify("mx_BMGPM_IATS021_Punch_Drunk")
	if res.Library != "BMG Production Music" {
		t.Fatalf("unexpected library: %q", res.Library)
	}
	if res.CatalogCode != "IATS021" {
		t.Fatalf("unexpected catalog code: %q", res.CatalogCode)
	}
	if res.DisplayName != "Punch Drunk" {
		t.Fatalf("unexpected display name: %q", res.DisplayName)
	}
	if res.Confidence != 0.95 {
		t.Fatalf("unexpected confidence: %v", res.Confidence)
	}
	if res.BaseTrackName != "punch drunk" {
		t.Fatalf("unexpected base track name: %q", res.BaseTrackName)
	}
	if res.IsStem {
		t.Fatal("did not expect a stem")
	}
}

func TestClassifyStemSuffix(t *testing.T) {
	res := Classify("mx_BMGPM_IATS021_Punch_Drunk_STEM_Drums.wav")
	if !res.IsStem {
		t.Fatal("expected stem detection")
	}
	if res.BaseTrackName != "punch drunk" {
		t.Fatalf("stem suffix should not leak into base name: %q", res.BaseTrackName)
	}
	if res.Library != "BMG Production Music" {
		t.Fatalf("unexpected library: %q", res.Library)
	}
}

func TestClassifyBareInstrumentStem(t *testing.T) {
	res := Classify("Punch_Drunk_Bass.wav")
	if !res.IsStem {
		t.Fatal("expected stem detection for bare instrument suffix")
	}
	if res.BaseTrackName != "punch drunk" {
		t.Fatalf("unexpected base name: %q", res.BaseTrackName)
	}
}

func TestClassifyOrderSpecificBeforeGeneric(t *testing.T) {
	res := Classify("UPM_ABC123_Skyline_Run.wav")
	if res.MatchedPattern != "universal" {
		t.Fatalf("expected universal recognizer, got %q", res.MatchedPattern)
	}
	if res.CatalogCode != "ABC123" {
		t.Fatalf("unexpected catalog: %q", res.CatalogCode)
	}
	if res.DisplayName != "Skyline Run" {
		t.Fatalf("unexpected display name: %q", res.DisplayName)
	}
}

func TestClassifyAudioNetworkCatalogPrefix(t *testing.T) {
	res := Classify("ANW1234_05_Morning_Light")
	if res.Library != "Audio Network" {
		t.Fatalf("unexpected library: %q", res.Library)
	}
	if res.CatalogCode != "ANW1234" {
		t.Fatalf("unexpected catalog: %q", res.CatalogCode)
	}
}

func TestClassifyArtlistTrailer(t *testing.T) {
	res := Classify("Golden Hour - Artlist.wav")
	if res.Library != "Artlist" {
		t.Fatalf("unexpected library: %q", res.Library)
	}
	if res.DisplayName != "Golden Hour" {
		t.Fatalf("unexpected display name: %q", res.DisplayName)
	}
}

func TestClassifyGenericFallbackBase(t *testing.T) {
	res := Classify("some_track_final.wav")
	if res.MatchedPattern != "generic" {
		t.Fatalf("expected generic fallback, got %q", res.MatchedPattern)
	}
	if res.Confidence != 0.50 {
		t.Fatalf("unexpected confidence: %v", res.Confidence)
	}
	if res.BaseTrackName != "some track" {
		t.Fatalf("expected qualifier suffix stripped, got %q", res.BaseTrackName)
	}
}

func TestClassifyGenericVendorPrefixBoost(t *testing.T) {
	res := Classify("ZQX_mystery_track.wav")
	if res.MatchedPattern != "generic" {
		t.Fatalf("expected generic fallback, got %q", res.MatchedPattern)
	}
	if res.Confidence != 0.70 {
		t.Fatalf("expected vendor-prefix boost to 0.70, got %v", res.Confidence)
	}
}

func TestClassifyGenericCatalogShapeBoost(t *testing.T) {
	res := Classify("track_QRST123_whatever.wav")
	if res.Confidence != 0.75 {
		t.Fatalf("expected catalog-shape boost to 0.75, got %v", res.Confidence)
	}
	if res.CatalogCode != "QRST123" {
		t.Fatalf("expected catalog extraction, got %q", res.CatalogCode)
	}
}

func TestClassifyConfidenceBounds(t *testing.T) {
	names := []string{
		"mx_BMGPM_IATS021_Punch_Drunk",
		"random noise take 3.wav",
		"", "a",
		"KT_10423_17_Desert_Wind",
	}
	for _, name := range names {
		res := Classify(name)
		if res.Confidence < 0 || res.Confidence > 1 {
			t.Fatalf("confidence out of range for %q: %v", name, res.Confidence)
		}
	}
}

func TestHasAudioExtension(t *testing.T) {
	if !HasAudioExtension("track.WAV") {
		t.Fatal("expected .WAV to match")
	}
	if HasAudioExtension("track.mov") {
		t.Fatal("did not expect .mov to match")
	}
}
