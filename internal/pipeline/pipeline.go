package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"cuesheet/internal/categorize"
	"cuesheet/internal/config"
	"cuesheet/internal/cue"
	"cuesheet/internal/enrich"
	"cuesheet/internal/logging"
	"cuesheet/internal/mediatags"
	"cuesheet/internal/patterns"
	"cuesheet/internal/projectxml"
	"cuesheet/internal/services"
	"cuesheet/internal/stems"
	"cuesheet/internal/timecode"
	"cuesheet/internal/trackdb"
)

// TotalSteps is the number of pipeline stages reported through progress
// events.
const TotalSteps = 8

var stepNames = [TotalSteps]struct {
	name        string
	description string
}{
	{"parse", "Reading project file"},
	{"categorize", "Classifying clips"},
	{"durations", "Converting durations"},
	{"stems", "Grouping stems"},
	{"tags", "Reading file metadata"},
	{"trackdb", "Matching learned tracks"},
	{"patterns", "Applying learned patterns"},
	{"remote", "Classifying uncertain clips"},
}

// Progress is emitted at every stage transition.
type Progress struct {
	StepIndex       int     `json:"step_index"`
	TotalSteps      int     `json:"total_steps"`
	StepName        string  `json:"step_name"`
	Description     string  `json:"description"`
	PercentComplete float64 `json:"percent_complete"`
	ItemsProcessed  int     `json:"items_processed"`
}

// ProgressFunc receives progress events. May be nil.
type ProgressFunc func(Progress)

// Summary carries the run's counters. Degraded enrichment stages show up
// here rather than as errors.
type Summary struct {
	RunID            string              `json:"run_id"`
	TotalClips       int                 `json:"total_clips"`
	Cues             int                 `json:"cues"`
	Stems            int                 `json:"stems"`
	Synthesized      int                 `json:"synthesized"`
	ExcludedFreeSFX  int                 `json:"excluded_free_sfx"`
	ExcludedNonMusic int                 `json:"excluded_non_music"`
	ExcludedRemote   int                 `json:"excluded_remote"`
	LowConfidence    int                 `json:"low_confidence"`
	MalformedTags    int                 `json:"malformed_tags"`
	Enrichment       []enrich.StageStats `json:"-"`
}

// Result is the completed import.
type Result struct {
	Cues    []cue.Cue
	Summary Summary
}

// Options wires the pipeline's collaborators. Nil collaborators disable
// their enrichment stage.
type Options struct {
	Config   *config.Config
	Logger   *slog.Logger
	Tags     mediatags.Reader
	TrackDB  *trackdb.Lookup
	Patterns *patterns.Engine
	Remote   enrich.RemoteClassifier
}

// Pipeline converts a project file into an enriched cue list.
type Pipeline struct {
	cfg      *config.Config
	logger   *slog.Logger
	tags     mediatags.Reader
	trackDB  *trackdb.Lookup
	patterns *patterns.Engine
	remote   enrich.RemoteClassifier
}

// New assembles a pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Config == nil {
		return nil, errors.New("pipeline: config required")
	}
	return &Pipeline{
		cfg:      opts.Config,
		logger:   logging.NewComponentLogger(opts.Logger, "pipeline"),
		tags:     opts.Tags,
		trackDB:  opts.TrackDB,
		patterns: opts.Patterns,
		remote:   opts.Remote,
	}, nil
}

type stepper struct {
	progress ProgressFunc
}

func (s stepper) start(index, items int) {
	s.emit(index, float64(index-1)/TotalSteps, items)
}

func (s stepper) done(index, items int) {
	s.emit(index, float64(index)/TotalSteps, items)
}

func (s stepper) emit(index int, percent float64, items int) {
	if s.progress == nil {
		return
	}
	step := stepNames[index-1]
	s.progress(Progress{
		StepIndex:       index,
		TotalSteps:      TotalSteps,
		StepName:        step.name,
		Description:     step.description,
		PercentComplete: percent,
		ItemsProcessed:  items,
	})
}

// Run executes the eight pipeline stages over the project at inputPath.
// Cancellation is honored at stage boundaries; enrichment failures degrade
// to empty fields and surface only in the summary.
func (p *Pipeline) Run(ctx context.Context, inputPath string, progress ProgressFunc) (*Result, error) {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	steps := stepper{progress: progress}
	summary := Summary{RunID: runID}

	// Stage 1: parse.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	steps.start(1, 0)
	parsed, err := projectxml.Parse(inputPath)
	if err != nil {
		return nil, parseFailure(inputPath, err)
	}
	summary.TotalClips = len(parsed.Clips)
	summary.MalformedTags = parsed.MalformedTags
	logging.WithContext(ctx, p.logger).Info("project parsed",
		logging.Int("clips", len(parsed.Clips)),
		logging.Int("malformed_tags", parsed.MalformedTags))
	steps.done(1, len(parsed.Clips))

	// Stage 2: categorize.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	steps.start(2, 0)
	categorizer := categorize.New(p.cfg.Import.LowConfidenceThreshold)
	classified := make([]cue.ClassifiedClip, 0, len(parsed.Clips))
	for _, raw := range parsed.Clips {
		clip := categorizer.Categorize(raw)
		if clip.Type == cue.TypeExcluded {
			if strings.Contains(clip.Reason, "free/excluded SFX") {
				summary.ExcludedFreeSFX++
			} else {
				summary.ExcludedNonMusic++
			}
			continue
		}
		if clip.LowConfidence {
			summary.LowConfidence++
		}
		classified = append(classified, clip)
	}
	steps.done(2, len(classified))

	// Stage 3: durations.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	steps.start(3, 0)
	conv := timecode.New(p.cfg.Import.TicksPerSecond, p.cfg.Import.FPS)
	cues := make([]cue.Cue, 0, len(classified))
	stemCount := 0
	for _, clip := range classified {
		if clip.Type == cue.TypeStem {
			stemCount++
		}
		c := cue.Cue{TimedClip: cue.TimedClip{
			ClassifiedClip: clip,
			Timing:         conv.Convert(clip.MaxTicks),
		}}
		cues = append(cues, c)
	}
	summary.Stems = stemCount
	steps.done(3, len(cues))

	// Stage 4: stem grouping.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	steps.start(4, 0)
	cues = stems.New(conv).Group(cues)
	for i := range cues {
		if cues[i].IsSynthetic {
			summary.Synthesized++
		}
	}
	steps.done(4, len(cues))

	// Stages 5-8: enrichment.
	chain := enrich.New(enrich.Options{
		Tags:        p.tags,
		MediaPaths:  parsed.MediaPaths,
		TrackDB:     p.trackDB,
		Patterns:    p.patterns,
		Remote:      p.remote,
		Concurrency: p.cfg.Enrichment.Concurrency,
		Timeout:     time.Duration(p.cfg.Enrichment.TimeoutSeconds) * time.Second,
		Logger:      p.logger,
	})
	enrichStages := []func(context.Context, []cue.Cue) enrich.StageStats{
		chain.ApplyFileTags,
		chain.ApplyTrackDB,
		chain.ApplyPatterns,
		chain.ApplyRemote,
	}
	for i, stage := range enrichStages {
		index := 5 + i
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		steps.start(index, 0)
		stats := stage(ctx, cues)
		summary.Enrichment = append(summary.Enrichment, stats)
		steps.done(index, stats.Processed)
	}

	// The remote stage may have reclassified clips out of the sheet.
	final := cues[:0:0]
	for _, c := range cues {
		if c.Type == cue.TypeExcluded {
			summary.ExcludedRemote++
			continue
		}
		final = append(final, c)
	}
	summary.Cues = len(final)

	logging.WithContext(ctx, p.logger).Info("import complete",
		logging.Int("cues", summary.Cues),
		logging.Int("excluded", summary.ExcludedFreeSFX+summary.ExcludedNonMusic+summary.ExcludedRemote),
		logging.Int("synthesized", summary.Synthesized))
	return &Result{Cues: final, Summary: summary}, nil
}

// parseFailure turns a stage-1 error into the single actionable message the
// user sees.
func parseFailure(inputPath string, err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return services.Wrap(services.ErrValidation, "parse", "open",
			fmt.Sprintf("cannot read %q; if the project lives on a network share, copy it to a local disk first", inputPath), err)
	}
	if errors.Is(err, projectxml.ErrEmptyProject) {
		return services.Wrap(services.ErrValidation, "parse", "resolve",
			"the project contains no audio clips", err)
	}
	return services.Wrap(services.ErrValidation, "parse", "decode",
		fmt.Sprintf("%q does not look like a gzip-compressed project export", inputPath), err)
}
