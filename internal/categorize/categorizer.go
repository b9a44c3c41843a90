// Package categorize applies exclusion rules and the filename classifier to
// raw clips, producing typed, confidence-scored clips for the cue sheet.
package categorize

import (
	"fmt"

	"cuesheet/internal/classifier"
	"cuesheet/internal/cue"
)

// DefaultLowConfidenceThreshold gates the optional remote-classifier pass.
const DefaultLowConfidenceThreshold = 0.80

// exclusionConfidence applies to clips matched by a non-music rule.
const exclusionConfidence = 0.95

// Confidence floors per assigned cue type. Stems and library-backed mains
// never drop below 0.90; mains with no identified library never report above
// the generic floor with false certainty.
const (
	stemFloor        = 0.90
	mainLibraryFloor = 0.90
	mainGenericFloor = 0.60
	sfxConfidence    = 0.90
	sfxMaybe         = 0.80
)

// Categorizer turns RawClips into ClassifiedClips. Construct with New.
type Categorizer struct {
	lowThreshold float64
}

// New returns a Categorizer using threshold to flag low-confidence clips; a
// non-positive threshold falls back to the default.
func New(threshold float64) *Categorizer {
	if threshold <= 0 {
		threshold = DefaultLowConfidenceThreshold
	}
	return &Categorizer{lowThreshold: threshold}
}

// Categorize runs the rule ladder for a single clip. Rules are tried in
// order and the first match decides type and confidence; nothing downstream
// reclassifies the clip.
func (c *Categorizer) Categorize(raw cue.RawClip) cue.ClassifiedClip {
	clip := cue.ClassifiedClip{RawClip: raw}

	if rule := matchFreeSFX(raw.OriginalName); rule != "" {
		clip.Classification = cue.Classification{
			Type:           cue.TypeExcluded,
			Confidence:     exclusionConfidence,
			Reason:         fmt.Sprintf("matched free/excluded SFX marker (%s)", rule),
			MatchedPattern: rule,
		}
		return clip
	}

	if rule := matchNonMusic(raw.OriginalName); rule != nil {
		clip.Classification = cue.Classification{
			Type:           cue.TypeExcluded,
			Confidence:     exclusionConfidence,
			Reason:         fmt.Sprintf("non-music recording: %s", rule.description),
			MatchedPattern: rule.name,
		}
		return clip
	}

	res := classifier.Classify(raw.OriginalName)
	clip.Classification = cue.Classification{
		Confidence:     res.Confidence,
		BaseTrackName:  res.BaseTrackName,
		DisplayName:    res.DisplayName,
		Library:        res.Library,
		CatalogCode:    res.CatalogCode,
		IsStem:         res.IsStem,
		MatchedPattern: res.MatchedPattern,
	}

	switch {
	case res.IsStem:
		clip.Type = cue.TypeStem
		clip.Confidence = floor(res.Confidence, stemFloor)
		clip.Reason = "stem suffix detected"
	case isSFXKeyword(raw.OriginalName):
		clip.Type = cue.TypeSFX
		clip.Confidence = sfxConfidence
		clip.Reason = "sound effect keyword"
	case isSFXMaybe(raw.OriginalName):
		clip.Type = cue.TypeSFX
		clip.Confidence = sfxMaybe
		clip.Reason = "possible sound effect keyword"
	case res.Library != "":
		clip.Type = cue.TypeMain
		clip.Confidence = floor(res.Confidence, mainLibraryFloor)
		clip.Reason = fmt.Sprintf("library naming convention (%s)", res.MatchedPattern)
	default:
		clip.Type = cue.TypeMain
		clip.Confidence = floor(res.Confidence, mainGenericFloor)
		clip.Reason = "generic music clip"
	}

	clip.LowConfidence = clip.Confidence < c.lowThreshold
	return clip
}

func floor(value, min float64) float64 {
	if value < min {
		return min
	}
	return value
}
