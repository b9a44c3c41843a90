package trackdb

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"cuesheet/internal/logging"
	"cuesheet/internal/store"
	"cuesheet/internal/textutil"
)

const (
	exactMatchScore   = 1.0
	catalogMatchScore = 0.95
	acceptThreshold   = 0.7

	// Jaccard similarity below this is noise; at or above it, the score is
	// scaled linearly into [0.5, 0.95].
	similarityFloor = 0.6

	queryLimit = 10
)

var (
	vendorPrefixPattern = regexp.MustCompile(`(?i)^(?:mx|sfx|fx)[_\- ]+(?:[a-z]{2,8}[_\- ]+)?`)
	catalogCodePattern  = regexp.MustCompile(`(?:^|[^A-Za-z0-9])([A-Z]{2,6}\d{2,4})(?:[^A-Za-z0-9]|$)`)
	mixQualifierPattern = regexp.MustCompile(`(?i)[_\- ](?:full(?:[_\- ]mix)?|inst(?:rumental)?|no[_\- ]vox|60s?|30s?|15s?|sting(?:er)?|underscore|alt(?:ernate)?\d*|v(?:ersion)?\d+|edit)$`)
)

// Match is an accepted lookup result with its heuristic score.
type Match struct {
	Track *store.Track
	Score float64
}

// Lookup resolves clip names against the learned track database.
type Lookup struct {
	store  *store.Store
	logger *slog.Logger
}

// NewLookup wires a lookup against the supplied store.
func NewLookup(st *store.Store, logger *slog.Logger) *Lookup {
	return &Lookup{
		store:  st,
		logger: logging.NewComponentLogger(logger, "trackdb"),
	}
}

// CleanName strips vendor prefixes and trailing mix qualifiers, then
// normalizes the remainder for use as a lookup key.
func CleanName(name string) string {
	name = strings.TrimSpace(name)
	name = vendorPrefixPattern.ReplaceAllString(name, "")
	for {
		stripped := mixQualifierPattern.ReplaceAllString(name, "")
		if stripped == name {
			break
		}
		name = stripped
	}
	return textutil.NormalizeKey(name)
}

// ExtractCatalog pulls a catalog-code-shaped token out of the raw name.
func ExtractCatalog(name string) string {
	match := catalogCodePattern.FindStringSubmatch(name)
	if match == nil {
		return ""
	}
	return match[1]
}

// Match finds the best learned track for the supplied clip name. It returns
// nil when no candidate reaches the acceptance threshold.
func (l *Lookup) Match(ctx context.Context, name string) (*Match, error) {
	cleaned := CleanName(name)
	catalog := ExtractCatalog(name)
	if cleaned == "" && catalog == "" {
		return nil, nil
	}

	candidates, err := l.gatherCandidates(ctx, cleaned, catalog)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	var best *Match
	for _, candidate := range candidates {
		score := scoreCandidate(cleaned, catalog, candidate)
		if best == nil || score > best.Score {
			best = &Match{Track: candidate, Score: score}
		}
	}
	if best == nil || best.Score < acceptThreshold {
		return nil, nil
	}
	l.logger.Debug("track matched",
		logging.String("name", name),
		logging.String("track", best.Track.TrackName),
		logging.Float64("score", best.Score))
	return best, nil
}

func (l *Lookup) gatherCandidates(ctx context.Context, cleaned, catalog string) ([]*store.Track, error) {
	seen := make(map[int64]bool)
	var candidates []*store.Track

	if words := textutil.SignificantWords(cleaned, 4); len(words) > 0 {
		byWords, err := l.store.SearchTracks(ctx, words, queryLimit)
		if err != nil {
			return nil, fmt.Errorf("search by words: %w", err)
		}
		for _, track := range byWords {
			if !seen[track.ID] {
				seen[track.ID] = true
				candidates = append(candidates, track)
			}
		}
	}

	if catalog != "" {
		byCatalog, err := l.store.FindTracksByCatalog(ctx, catalog, queryLimit)
		if err != nil {
			return nil, fmt.Errorf("search by catalog: %w", err)
		}
		for _, track := range byCatalog {
			if !seen[track.ID] {
				seen[track.ID] = true
				candidates = append(candidates, track)
			}
		}
	}

	return candidates, nil
}

func scoreCandidate(cleaned, catalog string, track *store.Track) float64 {
	if cleaned != "" && cleaned == track.CleanedName {
		return exactMatchScore
	}
	if catalog != "" && catalog == track.CatalogCode {
		return catalogMatchScore
	}
	if cleaned == "" {
		return 0
	}
	similarity := textutil.TrigramJaccard(cleaned, track.CleanedName)
	if similarity < similarityFloor {
		return 0
	}
	scaled := (similarity - similarityFloor) / (1 - similarityFloor)
	return 0.5 + scaled*(catalogMatchScore-0.5)
}

// Learn records a confirmed track so future imports resolve it directly.
func (l *Lookup) Learn(ctx context.Context, track store.Track) (*store.Track, error) {
	if track.CleanedName == "" {
		track.CleanedName = CleanName(track.TrackName)
	}
	if track.CatalogCode == "" {
		track.CatalogCode = ExtractCatalog(track.TrackName)
	}
	saved, err := l.store.UpsertTrack(ctx, track)
	if err != nil {
		return nil, fmt.Errorf("learn track: %w", err)
	}
	return saved, nil
}
