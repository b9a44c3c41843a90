package mediatags

import (
	"context"
	"strings"

	"cuesheet/internal/media/ffprobe"
)

// Tags are the embedded metadata fields the enrichment overlay reads.
type Tags struct {
	Composer  string
	Publisher string
	Artist    string
	Album     string
}

// Empty reports whether no usable tag was found.
func (t Tags) Empty() bool {
	return t.Composer == "" && t.Publisher == "" && t.Artist == "" && t.Album == ""
}

// Reader resolves embedded tags for a media file.
type Reader interface {
	Read(ctx context.Context, path string) (Tags, error)
}

// FFprobeReader reads tags by shelling out to ffprobe.
type FFprobeReader struct {
	binary string
}

// NewFFprobeReader returns a reader using the supplied binary, or nil when
// the binary cannot be resolved so callers skip the overlay stage.
func NewFFprobeReader(binary string) *FFprobeReader {
	if !ffprobe.Available(binary) {
		return nil
	}
	return &FFprobeReader{binary: binary}
}

// Read inspects the file and collects the overlay tags.
func (r *FFprobeReader) Read(ctx context.Context, path string) (Tags, error) {
	result, err := ffprobe.Inspect(ctx, r.binary, path)
	if err != nil {
		return Tags{}, err
	}
	return Tags{
		Composer:  result.Tag("composer"),
		Publisher: result.Tag("publisher"),
		Artist:    result.Tag("artist"),
		Album:     result.Tag("album"),
	}, nil
}

// knownLibraries maps normalized artist-tag spellings to canonical
// production library names. An artist tag naming a library is rights
// metadata, not a performer, and belongs in the label field.
var knownLibraries = map[string]string{
	"bmg production music":             "BMG Production Music",
	"bmgpm":                            "BMG Production Music",
	"universal production music":       "Universal Production Music",
	"warner chappell":                  "Warner Chappell Production Music",
	"warner chappell production music": "Warner Chappell Production Music",
	"extreme music":                    "Extreme Music",
	"audio network":                    "Audio Network",
	"apm":                              "APM Music",
	"apm music":                        "APM Music",
	"killer tracks":                    "Killer Tracks",
	"firstcom":                         "FirstCom Music",
	"firstcom music":                   "FirstCom Music",
	"megatrax":                         "Megatrax",
	"epidemic sound":                   "Epidemic Sound",
	"artlist":                          "Artlist",
	"musicbed":                         "Musicbed",
}

// KnownLibrary reports whether the artist tag names a production music
// library, returning the canonical spelling.
func KnownLibrary(artist string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(artist))
	key = strings.Join(strings.Fields(key), " ")
	canonical, ok := knownLibraries[key]
	return canonical, ok
}
