package enrich

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"cuesheet/internal/cue"
	"cuesheet/internal/logging"
	"cuesheet/internal/mediatags"
	"cuesheet/internal/patterns"
	"cuesheet/internal/services"
	"cuesheet/internal/services/llm"
	"cuesheet/internal/trackdb"
)

const defaultConcurrency = 4

// RemoteClassifier is the batched filename classification collaborator.
type RemoteClassifier interface {
	ClassifyFilenames(ctx context.Context, filenames []string) ([]llm.FilenameClassification, error)
}

// StageStats summarizes one enrichment pass for the import summary. Failures
// degrade to empty fields, so Errors is informational, never fatal.
type StageStats struct {
	Name      string
	Processed int
	Filled    int
	Skipped   int
	Errors    int
	Reason    string
}

// Chain runs the ordered, strictly additive enrichment passes. Any nil
// collaborator disables its stage.
type Chain struct {
	tags        mediatags.Reader
	mediaPaths  map[string]string
	trackDB     *trackdb.Lookup
	patterns    *patterns.Engine
	remote      RemoteClassifier
	concurrency int
	timeout     time.Duration
	logger      *slog.Logger
}

// Options configures a Chain.
type Options struct {
	Tags        mediatags.Reader
	MediaPaths  map[string]string
	TrackDB     *trackdb.Lookup
	Patterns    *patterns.Engine
	Remote      RemoteClassifier
	Concurrency int
	Timeout     time.Duration
	Logger      *slog.Logger
}

// New assembles the chain.
func New(opts Options) *Chain {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Chain{
		tags:        opts.Tags,
		mediaPaths:  opts.MediaPaths,
		trackDB:     opts.TrackDB,
		patterns:    opts.Patterns,
		remote:      opts.Remote,
		concurrency: concurrency,
		timeout:     opts.Timeout,
		logger:      logging.NewComponentLogger(opts.Logger, "enrich"),
	}
}

// forEach dispatches fn per cue with bounded concurrency. Enrichment is
// additive and each goroutine owns exactly one cue, so no merge is needed.
// The per-cue context carries the clip identifier for logging.
func (c *Chain) forEach(ctx context.Context, cues []cue.Cue, fn func(ctx context.Context, c *cue.Cue)) {
	sem := make(chan struct{}, c.concurrency)
	var wg sync.WaitGroup
	for i := range cues {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(target *cue.Cue) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(services.WithClip(ctx, target.ID), target)
		}(&cues[i])
	}
	wg.Wait()
}

// mediaPathFor resolves the clip's media file. The path map is keyed by base
// filename with extension; clip names often carry none.
func (c *Chain) mediaPathFor(clip *cue.Cue) string {
	name := clip.OriginalName
	if path, ok := c.mediaPaths[name]; ok {
		return path
	}
	for key, path := range c.mediaPaths {
		base := strings.TrimSuffix(key, filepath.Ext(key))
		if strings.EqualFold(base, name) {
			return path
		}
	}
	return ""
}

// ApplyFileTags overlays embedded media tags onto cues whose files resolved.
func (c *Chain) ApplyFileTags(ctx context.Context, cues []cue.Cue) StageStats {
	stats := StageStats{Name: "file metadata"}
	if c.tags == nil {
		stats.Skipped = len(cues)
		stats.Reason = "tag reader unavailable"
		return stats
	}

	var mu sync.Mutex
	c.forEach(ctx, cues, func(ctx context.Context, clip *cue.Cue) {
		path := c.mediaPathFor(clip)
		if path == "" {
			mu.Lock()
			stats.Skipped++
			mu.Unlock()
			return
		}
		tags, err := c.tags.Read(ctx, path)
		if err != nil {
			logging.WithContext(ctx, c.logger).Debug("tag read failed", logging.Error(err))
			mu.Lock()
			stats.Errors++
			mu.Unlock()
			return
		}

		filled := 0
		if clip.SetField(cue.FieldComposer, tags.Composer, cue.SourceFileMetadata, 1.0) {
			filled++
		}
		if clip.SetField(cue.FieldPublisher, tags.Publisher, cue.SourceFileMetadata, 1.0) {
			filled++
		}
		// An artist tag naming a production library is rights metadata, not
		// a performer.
		if library, ok := mediatags.KnownLibrary(tags.Artist); ok {
			if clip.SetField(cue.FieldLabel, library, cue.SourceFileMetadata, 1.0) {
				filled++
			}
		} else if clip.SetField(cue.FieldArtist, tags.Artist, cue.SourceFileMetadata, 1.0) {
			filled++
		}
		if clip.SetField(cue.FieldSource, tags.Album, cue.SourceFileMetadata, 1.0) {
			filled++
		}

		mu.Lock()
		stats.Processed++
		stats.Filled += filled
		mu.Unlock()
	})
	return stats
}

// ApplyTrackDB fills still-empty fields from the learned track database.
func (c *Chain) ApplyTrackDB(ctx context.Context, cues []cue.Cue) StageStats {
	stats := StageStats{Name: "learned tracks"}
	if c.trackDB == nil {
		stats.Skipped = len(cues)
		stats.Reason = "track database disabled"
		return stats
	}

	var mu sync.Mutex
	c.forEach(ctx, cues, func(ctx context.Context, clip *cue.Cue) {
		match, err := c.trackDB.Match(ctx, clip.OriginalName)
		if err != nil {
			mu.Lock()
			stats.Errors++
			mu.Unlock()
			return
		}
		if match == nil {
			mu.Lock()
			stats.Skipped++
			mu.Unlock()
			return
		}

		filled := 0
		if clip.SetField(cue.FieldComposer, match.Track.Composer, cue.SourceLearnedDB, match.Score) {
			filled++
		}
		if clip.SetField(cue.FieldPublisher, match.Track.Publisher, cue.SourceLearnedDB, match.Score) {
			filled++
		}
		if clip.SetField(cue.FieldArtist, match.Track.Artist, cue.SourceLearnedDB, match.Score) {
			filled++
		}
		if clip.SetField(cue.FieldLabel, match.Track.Library, cue.SourceLearnedDB, match.Score) {
			filled++
		}

		mu.Lock()
		stats.Processed++
		stats.Filled += filled
		mu.Unlock()
	})
	return stats
}

// ApplyPatterns auto-fills fields from learned rules above the auto-fill
// threshold.
func (c *Chain) ApplyPatterns(ctx context.Context, cues []cue.Cue) StageStats {
	stats := StageStats{Name: "learned patterns"}
	if c.patterns == nil {
		stats.Skipped = len(cues)
		stats.Reason = "pattern engine disabled"
		return stats
	}

	var mu sync.Mutex
	c.forEach(ctx, cues, func(ctx context.Context, clip *cue.Cue) {
		applied, err := c.patterns.AutoFill(ctx, clip)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			stats.Errors++
			return
		}
		stats.Processed++
		stats.Filled += applied
	})
	return stats
}

// ApplyRemote sends the still low-confidence cues to the remote classifier
// in one batch and folds the response back in. A transport or decode failure
// discards only this stage's contribution.
func (c *Chain) ApplyRemote(ctx context.Context, cues []cue.Cue) StageStats {
	stats := StageStats{Name: "remote classifier"}
	if c.remote == nil {
		stats.Skipped = len(cues)
		stats.Reason = "remote classifier disabled"
		return stats
	}

	var pending []*cue.Cue
	for i := range cues {
		if cues[i].LowConfidence {
			pending = append(pending, &cues[i])
		}
	}
	if len(pending) == 0 {
		stats.Skipped = len(cues)
		stats.Reason = "no low-confidence clips"
		return stats
	}

	filenames := make([]string, 0, len(pending))
	for _, clip := range pending {
		filenames = append(filenames, clip.OriginalName)
	}

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	results, err := c.remote.ClassifyFilenames(callCtx, filenames)
	if err != nil {
		c.logger.Warn("remote classification failed", logging.Error(err))
		stats.Errors = len(pending)
		stats.Reason = "service unavailable"
		return stats
	}

	byName := make(map[string]llm.FilenameClassification, len(results))
	for _, result := range results {
		byName[strings.ToLower(result.Filename)] = result
	}

	for _, clip := range pending {
		result, ok := byName[strings.ToLower(clip.OriginalName)]
		if !ok {
			stats.Skipped++
			continue
		}
		applyRemoteResult(clip, result)
		stats.Processed++
	}
	return stats
}

func applyRemoteResult(clip *cue.Cue, result llm.FilenameClassification) {
	switch result.Classification {
	case "music":
		clip.Type = cue.TypeMain
	case "sfx":
		clip.Type = cue.TypeSFX
	case "dialogue", "other":
		clip.Type = cue.TypeExcluded
	default:
		return
	}

	if result.Confidence > clip.Confidence {
		clip.Confidence = result.Confidence
		clip.Reason = "remote: " + result.Reasoning
	}
	if result.DisplayName != "" && clip.DisplayName == "" {
		clip.DisplayName = result.DisplayName
	}
	if result.Library != "" && clip.Library == "" {
		clip.Library = result.Library
	}
	if clip.Confidence >= 0.8 {
		clip.LowConfidence = false
	}
}
