package pipeline

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cuesheet/internal/config"
	"cuesheet/internal/cue"
	"cuesheet/internal/services"
)

const projectDoc = `<?xml version="1.0" encoding="UTF-8"?>
<Project>
  <Timeline>
    <ClipTrackItem>
      <SubClip ObjectRef="sub1"/>
      <Start>0</Start>
      <End>254016000000</End>
    </ClipTrackItem>
    <ClipTrackItem>
      <SubClip ObjectRef="sub2"/>
      <Start>0</Start>
      <End>254016000000</End>
    </ClipTrackItem>
  </Timeline>
  <SubClip ObjectID="sub1">
    <Clip ObjectRef="clip1"/>
  </SubClip>
  <SubClip ObjectID="sub2">
    <Clip ObjectRef="clip2"/>
  </SubClip>
  <Clip ObjectID="clip1">
    <Name>mx_BMGPM_IATS021_Punch_Drunk.wav</Name>
  </Clip>
  <Clip ObjectID="clip2">
    <Name>Interview_CAM1_01.09.2026.wav</Name>
  </Clip>
</Project>`

func writeProject(t *testing.T, doc string) string {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(doc)); err != nil {
		t.Fatalf("compress fixture: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	path := filepath.Join(t.TempDir(), "project.prproj")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	cfg := config.Default()
	p, err := New(Options{Config: &cfg})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return p
}

func TestRunProducesClassifiedCues(t *testing.T) {
	p := newTestPipeline(t)
	path := writeProject(t, projectDoc)

	result, err := p.Run(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if result.Summary.TotalClips != 2 {
		t.Fatalf("expected 2 parsed clips, got %d", result.Summary.TotalClips)
	}
	if result.Summary.ExcludedNonMusic != 1 {
		t.Fatalf("expected camera audio excluded, summary %+v", result.Summary)
	}
	if result.Summary.Cues != 1 || len(result.Cues) != 1 {
		t.Fatalf("expected 1 final cue, got %d", len(result.Cues))
	}

	c := result.Cues[0]
	if c.Library != "BMG Production Music" || c.CatalogCode != "IATS021" {
		t.Fatalf("unexpected classification %+v", c.Classification)
	}
	if c.Type != cue.TypeMain || c.Confidence != 0.95 {
		t.Fatalf("unexpected type/confidence %q/%v", c.Type, c.Confidence)
	}
	if c.Formatted != "0:00:01" {
		t.Fatalf("expected one-second duration, got %q", c.Formatted)
	}
	if result.Summary.RunID == "" {
		t.Fatal("expected a run id")
	}
	if len(result.Summary.Enrichment) != 4 {
		t.Fatalf("expected 4 enrichment stage summaries, got %d", len(result.Summary.Enrichment))
	}
	for _, stats := range result.Summary.Enrichment {
		if stats.Reason == "" {
			t.Fatalf("disabled stage should report a reason: %+v", stats)
		}
	}
}

func TestRunEmitsProgressPerStage(t *testing.T) {
	p := newTestPipeline(t)
	path := writeProject(t, projectDoc)

	var events []Progress
	_, err := p.Run(context.Background(), path, func(event Progress) {
		events = append(events, event)
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(events) != 2*TotalSteps {
		t.Fatalf("expected %d events, got %d", 2*TotalSteps, len(events))
	}
	for i := 0; i < TotalSteps; i++ {
		start, done := events[2*i], events[2*i+1]
		if start.StepIndex != i+1 || done.StepIndex != i+1 {
			t.Fatalf("step %d events out of order: %+v %+v", i+1, start, done)
		}
		wantStart := float64(i) / TotalSteps
		wantDone := float64(i+1) / TotalSteps
		if start.PercentComplete != wantStart || done.PercentComplete != wantDone {
			t.Fatalf("step %d percent wrong: start=%v done=%v", i+1, start.PercentComplete, done.PercentComplete)
		}
		if start.TotalSteps != TotalSteps || start.StepName == "" {
			t.Fatalf("malformed event %+v", start)
		}
	}
	if last := events[len(events)-1]; last.PercentComplete != 1.0 {
		t.Fatalf("final event should be 100%%, got %v", last.PercentComplete)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	p := newTestPipeline(t)
	path := writeProject(t, projectDoc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Run(ctx, path, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunMissingFileIsValidationError(t *testing.T) {
	p := newTestPipeline(t)
	_, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "absent.prproj"), nil)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
}

func TestRunGroupsOrphanStems(t *testing.T) {
	doc := `<Project>
  <Timeline>
    <ClipTrackItem><SubClip ObjectRef="s1"/><Start>0</Start><End>500000000000</End></ClipTrackItem>
    <ClipTrackItem><SubClip ObjectRef="s2"/><Start>0</Start><End>700000000000</End></ClipTrackItem>
  </Timeline>
  <SubClip ObjectID="s1"><Clip ObjectRef="c1"/></SubClip>
  <SubClip ObjectID="s2"><Clip ObjectRef="c2"/></SubClip>
  <Clip ObjectID="c1"><Name>Punch_Drunk_Stem_Drums.wav</Name></Clip>
  <Clip ObjectID="c2"><Name>Punch_Drunk_Stem_Bass.wav</Name></Clip>
</Project>`
	p := newTestPipeline(t)
	path := writeProject(t, doc)

	result, err := p.Run(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Summary.Stems != 2 || result.Summary.Synthesized != 1 {
		t.Fatalf("unexpected stem summary %+v", result.Summary)
	}
	if len(result.Cues) != 1 {
		t.Fatalf("expected single synthesized parent, got %d", len(result.Cues))
	}
	parent := result.Cues[0]
	if !parent.IsSynthetic || len(parent.Stems) != 2 {
		t.Fatalf("unexpected parent %+v", parent)
	}
	if parent.MaxTicks != 700000000000 {
		t.Fatalf("expected absorbed max ticks, got %d", parent.MaxTicks)
	}
}
