package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"cuesheet/internal/cue"
	"cuesheet/internal/logging"
	"cuesheet/internal/mediatags"
	"cuesheet/internal/pipeline"
	"cuesheet/internal/services/llm"
	"cuesheet/internal/store"
	"cuesheet/internal/trackdb"
)

type importOutput struct {
	Summary pipeline.Summary `json:"summary"`
	Cues    []cue.Cue        `json:"cues"`
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "import <project>",
		Short: "Convert a project export into a classified cue list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			absPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			if info, err := os.Stat(absPath); err == nil && info.IsDir() {
				return fmt.Errorf("%s is a directory", absPath)
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			// One import at a time per data directory; concurrent runs would
			// race on the learned-pattern store.
			lock := flock.New(filepath.Join(cfg.Paths.DataDir, "cuesheet.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire import lock: %w", err)
			}
			if !locked {
				return errors.New("another cuesheet import is already running")
			}
			defer lock.Unlock()

			opts := pipeline.Options{Config: cfg, Logger: logger}
			if reader := mediatags.NewFFprobeReader(cfg.Enrichment.FFprobeBinary); reader != nil {
				opts.Tags = reader
			}
			if cfg.TrackDB.Enabled || cfg.Patterns.Enabled {
				st, err := store.Open(cfg)
				if err != nil {
					return err
				}
				defer st.Close()
				if cfg.TrackDB.Enabled {
					opts.TrackDB = trackdb.NewLookup(st, logger)
				}
				if cfg.Patterns.Enabled {
					opts.Patterns = newPatternsEngine(cfg, st)
				}
			}
			if cfg.LLM.Enabled {
				opts.Remote = llm.NewClient(llm.Config{
					APIKey:         cfg.LLM.APIKey,
					BaseURL:        cfg.LLM.BaseURL,
					Model:          cfg.LLM.Model,
					TimeoutSeconds: cfg.LLM.TimeoutSeconds,
				})
			}

			p, err := pipeline.New(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var progress pipeline.ProgressFunc
			if !jsonOut && isTerminal(out) {
				lastStep := 0
				progress = func(event pipeline.Progress) {
					if event.StepIndex == lastStep {
						return
					}
					lastStep = event.StepIndex
					fmt.Fprintf(out, "[%d/%d] %s\n", event.StepIndex, event.TotalSteps, event.Description)
				}
			}

			result, err := p.Run(cmd.Context(), absPath, progress)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, importOutput{Summary: result.Summary, Cues: result.Cues})
			}
			renderImportResult(out, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the cue list as JSON")
	return cmd
}

func renderImportResult(out io.Writer, result *pipeline.Result) {
	if len(result.Cues) > 0 {
		headers := []string{"#", "Title", "Type", "Library", "Catalog", "Duration", "Conf", "Composer", "Publisher"}
		aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft}
		rows := make([][]string, 0, len(result.Cues))
		for i, c := range result.Cues {
			rows = append(rows, []string{
				fmt.Sprintf("%d", i+1),
				cueTitle(c),
				cueTypeLabel(c),
				c.Library,
				c.CatalogCode,
				c.Formatted,
				fmt.Sprintf("%.2f", c.Confidence),
				c.FieldValue(cue.FieldComposer),
				c.FieldValue(cue.FieldPublisher),
			})
		}
		fmt.Fprintln(out, renderTable(headers, rows, aligns))
	}

	s := result.Summary
	fmt.Fprintf(out, "%d clips parsed, %d cues emitted\n", s.TotalClips, s.Cues)
	if excluded := s.ExcludedFreeSFX + s.ExcludedNonMusic + s.ExcludedRemote; excluded > 0 {
		fmt.Fprintf(out, "Excluded: %d free SFX, %d non-music, %d by remote classifier\n",
			s.ExcludedFreeSFX, s.ExcludedNonMusic, s.ExcludedRemote)
	}
	if s.Stems > 0 {
		fmt.Fprintf(out, "Stems: %d grouped, %d parents synthesized\n", s.Stems, s.Synthesized)
	}
	if s.LowConfidence > 0 {
		fmt.Fprintf(out, "Low confidence: %d clips flagged for review\n", s.LowConfidence)
	}
	if s.MalformedTags > 0 {
		fmt.Fprintf(out, "Malformed tags skipped: %d\n", s.MalformedTags)
	}
	for _, stats := range s.Enrichment {
		if stats.Reason != "" {
			fmt.Fprintf(out, "Enrichment %s: %s\n", stats.Name, stats.Reason)
		}
	}
}

func cueTitle(c cue.Cue) string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.OriginalName
}

func cueTypeLabel(c cue.Cue) string {
	label := string(c.Type)
	if len(c.Stems) > 0 {
		label = fmt.Sprintf("%s (+%d stems)", label, len(c.Stems))
	}
	return label
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
