package classifier

import (
	"path"
	"regexp"
	"strings"

	"cuesheet/internal/textutil"
)

// Result carries the metadata a recognizer extracted from a filename.
type Result struct {
	BaseTrackName  string
	DisplayName    string
	Library        string
	CatalogCode    string
	IsStem         bool
	Confidence     float64
	MatchedPattern string
}

// Fallback confidence tiers for names no vendor recognizer matched.
const (
	genericConfidence      = 0.50
	vendorPrefixConfidence = 0.70
	catalogShapeConfidence = 0.75
)

var (
	audioExtPattern     = regexp.MustCompile(`(?i)\.(wav|aif|aiff|mp3|m4a|flac|ogg|wma)$`)
	vendorPrefixPattern = regexp.MustCompile(`^[A-Z]{2,5}[_-]`)
	catalogShapePattern = regexp.MustCompile(`(?:^|[^A-Za-z0-9])([A-Z]{2,6}\d{2,4})(?:[^A-Za-z0-9]|$)`)
	genericPrefixes     = []string{"mx_", "mus_", "music_", "cue_", "trk_", "m_"}
	qualifierSuffix     = regexp.MustCompile(`(?i)[_\s-]+(final|master|edit|alt|v\d+|mix(down)?|30s?|60s?|full)$`)
)

// stemSuffixPattern matches isolated-component suffixes. The optional STEM
// marker covers explicit exports; the instrument list covers bare suffixes.
var stemSuffixPattern = regexp.MustCompile(
	`(?i)[_\s-]+(?:stem[_\s-]*)?(drums?|bass|vox|vocals?|perc|percussion|strings|synths?|gtr|guitars?|keys|brass|pads?|no[_\s-]?vox)$`)

// HasAudioExtension reports whether name ends in a recognized audio file
// extension.
func HasAudioExtension(name string) bool {
	return audioExtPattern.MatchString(name)
}

// Classify runs the recognizer battery over name. It always returns a usable
// Result; names nothing vendor-specific matched fall into the generic bucket
// at reduced confidence.
func Classify(name string) Result {
	working := strings.TrimSpace(name)
	working = audioExtPattern.ReplaceAllString(working, "")
	working = path.Base(strings.ReplaceAll(working, "\\", "/"))

	isStem := false
	if loc := stemSuffixPattern.FindStringIndex(working); loc != nil {
		isStem = true
		working = working[:loc[0]]
	}

	for _, rec := range recognizers {
		m := rec.re.FindStringSubmatch(working)
		if m == nil {
			continue
		}
		res := rec.extract(rec, m)
		res.IsStem = isStem
		if res.BaseTrackName == "" {
			res.BaseTrackName = textutil.NormalizeKey(res.DisplayName)
		}
		return res
	}

	return genericResult(working, isStem)
}

func genericResult(working string, isStem bool) Result {
	confidence := genericConfidence
	if vendorPrefixPattern.MatchString(working) {
		confidence = vendorPrefixConfidence
	}
	var catalog string
	if m := catalogShapePattern.FindStringSubmatch(working); m != nil {
		catalog = m[1]
		confidence = catalogShapeConfidence
	}

	stripped := working
	lowered := strings.ToLower(stripped)
	for _, prefix := range genericPrefixes {
		if strings.HasPrefix(lowered, prefix) {
			stripped = stripped[len(prefix):]
			break
		}
	}
	for {
		next := qualifierSuffix.ReplaceAllString(stripped, "")
		if next == stripped {
			break
		}
		stripped = next
	}

	display := DisplayName(stripped)
	return Result{
		BaseTrackName:  textutil.NormalizeKey(stripped),
		DisplayName:    display,
		CatalogCode:    catalog,
		IsStem:         isStem,
		Confidence:     confidence,
		MatchedPattern: "generic",
	}
}
