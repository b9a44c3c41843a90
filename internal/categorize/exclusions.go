package categorize

import "regexp"

// freeSFXPatterns mark clips from free effect packs that never appear on a
// licensing sheet. Matches are counted by the pipeline, not emitted.
var freeSFXPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"free-sfx", regexp.MustCompile(`(?i)free[_\s-]?sfx`)},
	{"freesound", regexp.MustCompile(`(?i)freesound`)},
	{"stock-fx-pack", regexp.MustCompile(`(?i)stock[_\s-]?fx`)},
}

type nonMusicRule struct {
	name        string
	description string
	re          *regexp.Regexp
}

// nonMusicRules exclude production audio that shares the timeline with music.
// Order matters: camera audio is checked first so mixed markers (an interview
// shot on CAM1) report the camera-audio pattern.
var nonMusicRules = []nonMusicRule{
	{"camera-audio", "camera audio", regexp.MustCompile(`(?i)(cam\d|camera|a7s|fs7|c300|zoom[_\s-]?h\d)`)},
	{"interview", "interview recording", regexp.MustCompile(`(?i)interview`)},
	{"adr", "ADR session", regexp.MustCompile(`(?i)(^|[_\s-])adr([_\s-]|$)`)},
	{"room-tone", "room tone", regexp.MustCompile(`(?i)room[_\s-]?tone`)},
	{"dated-production", "dated production recording", regexp.MustCompile(`\d{2}[._-]\d{2}[._-]\d{4}|\d{4}[._-]\d{2}[._-]\d{2}`)},
}

// sfxKeywords strongly indicate a designed sound effect.
var sfxKeywordPattern = regexp.MustCompile(`(?i)(^|[_\s-])(sfx|whoosh|swoosh|riser|impact|stinger|braam)([_\s.-]|$|\d)`)

// sfxMaybePattern covers weaker effect hints that still usually mean SFX.
var sfxMaybePattern = regexp.MustCompile(`(?i)(^|[_\s-])(hit|boom|sweep|fx|rumble)([_\s.-]|$|\d)`)

func matchFreeSFX(name string) string {
	for _, p := range freeSFXPatterns {
		if p.re.MatchString(name) {
			return p.name
		}
	}
	return ""
}

func matchNonMusic(name string) *nonMusicRule {
	for i := range nonMusicRules {
		if nonMusicRules[i].re.MatchString(name) {
			return &nonMusicRules[i]
		}
	}
	return nil
}

func isSFXKeyword(name string) bool {
	return sfxKeywordPattern.MatchString(name)
}

func isSFXMaybe(name string) bool {
	return sfxMaybePattern.MatchString(name)
}
