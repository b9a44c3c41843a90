package classifier

import "regexp"

// recognizer is one entry in the ordered convention table.
type recognizer struct {
	name       string
	library    string
	confidence float64
	re         *regexp.Regexp
	extract    func(rec recognizer, m []string) Result
}

// recognizers is tried in order; the first match wins. Specific vendor
// conventions come before the looser catalog-shaped ones.
var recognizers = []recognizer{
	{
		name:       "bmgpm",
		library:    "BMG Production Music",
		confidence: 0.95,
		re:         regexp.MustCompile(`(?i)^mx[_\- ]bmgpm[_\- ](?P<code>[A-Za-z]{2,6}\d{2,4})[_\- ](?P<title>.+)$`),
		extract:    extractCodeTitle,
	},
	{
		name:       "universal",
		library:    "Universal Production Music",
		confidence: 0.95,
		re:         regexp.MustCompile(`(?i)^upm[_\- ](?P<code>[A-Za-z]{2,5}\d{2,4})[_\- ](?P<title>.+)$`),
		extract:    extractCodeTitle,
	},
	{
		name:       "warner-chappell",
		library:    "Warner Chappell Production Music",
		confidence: 0.95,
		re:         regexp.MustCompile(`(?i)^wcpm[_\- ](?P<code>[A-Za-z]{2,5}\d{2,4})[_\- ](?P<title>.+)$`),
		extract:    extractCodeTitle,
	},
	{
		name:       "extreme",
		library:    "Extreme Music",
		confidence: 0.95,
		re:         regexp.MustCompile(`(?i)^(?:mx[_\- ])?xts?[_\- ]?(?P<code>xcd\d{3,4})[_\- ]\d{1,2}[_\- ](?P<title>.+)$`),
		extract:    extractCodeTitle,
	},
	{
		name:       "audio-network",
		library:    "Audio Network",
		confidence: 0.90,
		re:         regexp.MustCompile(`(?i)^anw[_\- ]?(?P<code>\d{3,4})[_\- ]\d{1,3}[_\- ](?P<title>.+)$`),
		extract: func(rec recognizer, m []string) Result {
			res := extractCodeTitle(rec, m)
			res.CatalogCode = "ANW" + res.CatalogCode
			return res
		},
	},
	{
		name:       "apm",
		library:    "APM Music",
		confidence: 0.90,
		re:         regexp.MustCompile(`(?i)^(?P<code>(?:kpm|apm|cez)[_\- ]?\d{2,4})[_\- ]\d{1,3}[_\- ](?P<title>.+)$`),
		extract:    extractCodeTitle,
	},
	{
		name:       "killer-tracks",
		library:    "Killer Tracks",
		confidence: 0.90,
		re:         regexp.MustCompile(`(?i)^kt[_\- ](?P<code>\d{3,5})[_\- ]\d{1,3}[_\- ](?P<title>.+)$`),
		extract: func(rec recognizer, m []string) Result {
			res := extractCodeTitle(rec, m)
			res.CatalogCode = "KT" + res.CatalogCode
			return res
		},
	},
	{
		name:       "firstcom",
		library:    "FirstCom Music",
		confidence: 0.90,
		re:         regexp.MustCompile(`(?i)^fc[_\- ](?P<code>[A-Za-z]{2,5}\d{2,4})[_\- ](?P<title>.+)$`),
		extract:    extractCodeTitle,
	},
	{
		name:       "megatrax",
		library:    "Megatrax",
		confidence: 0.90,
		re:         regexp.MustCompile(`(?i)^(?P<code>mtx?\d{3,4})[_\- ]\d{1,3}[_\- ](?P<title>.+)$`),
		extract:    extractCodeTitle,
	},
	{
		name:       "epidemic",
		library:    "Epidemic Sound",
		confidence: 0.90,
		re:         regexp.MustCompile(`(?i)^es[_\- ](?P<title>[^-]+?)(?:\s*-\s*.+)?$`),
		extract:    extractTitleOnly,
	},
	{
		name:       "artlist",
		library:    "Artlist",
		confidence: 0.90,
		re:         regexp.MustCompile(`(?i)^(?P<title>.+?)\s*-\s*artlist$`),
		extract:    extractTitleOnly,
	},
	{
		name:       "musicbed",
		library:    "Musicbed",
		confidence: 0.90,
		re:         regexp.MustCompile(`(?i)^mb\d{2}[_\- ](?P<title>.+)$`),
		extract:    extractTitleOnly,
	},
}

func extractCodeTitle(rec recognizer, m []string) Result {
	code := submatch(rec.re, m, "code")
	title := submatch(rec.re, m, "title")
	return Result{
		DisplayName:    DisplayName(title),
		Library:        rec.library,
		CatalogCode:    normalizeCatalog(code),
		Confidence:     rec.confidence,
		MatchedPattern: rec.name,
	}
}

func extractTitleOnly(rec recognizer, m []string) Result {
	title := submatch(rec.re, m, "title")
	return Result{
		DisplayName:    DisplayName(title),
		Library:        rec.library,
		Confidence:     rec.confidence,
		MatchedPattern: rec.name,
	}
}

func submatch(re *regexp.Regexp, m []string, group string) string {
	for i, name := range re.SubexpNames() {
		if name == group && i < len(m) {
			return m[i]
		}
	}
	return ""
}
