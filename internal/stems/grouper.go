// Package stems links isolated stem clips to their parent cues. Stems play
// simultaneously with their parent, so a parent absorbs the longest stem
// duration rather than summing; orphan stems get a synthesized parent so they
// are never lost from the cue sheet.
package stems

import (
	"cuesheet/internal/cue"
	"cuesheet/internal/textutil"
	"cuesheet/internal/timecode"
)

// Grouper attaches stems to parents. It needs the tick converter to reformat
// durations after absorption.
type Grouper struct {
	conv timecode.Converter
}

// New returns a Grouper using conv for duration reformatting.
func New(conv timecode.Converter) *Grouper {
	return &Grouper{conv: conv}
}

// Group partitions cues into parents (main/sfx) and standalone stems, then
// attaches each stem group to the parent sharing its normalized base track
// name, synthesizing a parent when none exists. Stable clip IDs make the
// operation idempotent: running Group on its own output changes nothing.
func (g *Grouper) Group(cues []cue.Cue) []cue.Cue {
	parents := make([]cue.Cue, 0, len(cues))
	var standalone []cue.TimedClip

	for _, c := range cues {
		if c.Type == cue.TypeStem {
			standalone = append(standalone, c.TimedClip)
			continue
		}
		parents = append(parents, c)
	}

	parentIndex := make(map[string]int, len(parents))
	for i := range parents {
		parentIndex[groupKey(parents[i].TimedClip)] = i
	}

	// Group standalone stems by base name, preserving first-seen order.
	groupOrder := make([]string, 0, len(standalone))
	groups := make(map[string][]cue.TimedClip)
	for _, stem := range standalone {
		key := groupKey(stem)
		if _, seen := groups[key]; !seen {
			groupOrder = append(groupOrder, key)
		}
		groups[key] = append(groups[key], stem)
	}

	for _, key := range groupOrder {
		stems := groups[key]
		if idx, ok := parentIndex[key]; ok {
			parents[idx] = g.attach(parents[idx], stems)
			continue
		}
		synthesized := g.synthesize(key, stems)
		parents = append(parents, synthesized)
		parentIndex[key] = len(parents) - 1
	}

	return parents
}

// attach adds stems the parent does not already carry and absorbs the
// longest stem duration. Absorption is one-way: once set, the parent's
// pre-absorption duration is gone.
func (g *Grouper) attach(parent cue.Cue, stems []cue.TimedClip) cue.Cue {
	existing := make(map[string]struct{}, len(parent.Stems))
	for _, s := range parent.Stems {
		existing[s.ID] = struct{}{}
	}

	for _, stem := range stems {
		if _, dup := existing[stem.ID]; dup {
			continue
		}
		parent.Stems = append(parent.Stems, stem)
		existing[stem.ID] = struct{}{}
	}

	maxTicks := parent.MaxTicks
	for _, s := range parent.Stems {
		if s.MaxTicks > maxTicks {
			maxTicks = s.MaxTicks
		}
	}
	if maxTicks != parent.MaxTicks || !parent.StemDurationAbsorbed {
		parent.MaxTicks = maxTicks
		parent.Timing = g.conv.Convert(maxTicks)
		parent.StemDurationAbsorbed = true
	}
	return parent
}

// synthesize builds a parent cue from the first stem of an orphan group.
func (g *Grouper) synthesize(key string, stems []cue.TimedClip) cue.Cue {
	first := stems[0]

	parent := cue.Cue{TimedClip: first, IsSynthetic: true}
	parent.ID = "synthetic:" + key
	parent.Type = cue.TypeMain
	parent.IsStem = false
	parent.Reason = "synthesized from orphan stems"

	maxTicks := int64(0)
	totalTicks := int64(0)
	instances := 0
	for _, s := range stems {
		if s.MaxTicks > maxTicks {
			maxTicks = s.MaxTicks
		}
		totalTicks += s.TotalTicks
		instances += s.InstanceCount
	}
	parent.MaxTicks = maxTicks
	parent.TotalTicks = totalTicks
	parent.InstanceCount = instances
	parent.Timing = g.conv.Convert(maxTicks)
	parent.Stems = append([]cue.TimedClip(nil), stems...)
	parent.StemDurationAbsorbed = true
	return parent
}

func groupKey(clip cue.TimedClip) string {
	key := textutil.NormalizeKey(clip.BaseTrackName)
	if key == "" {
		key = textutil.NormalizeKey(clip.OriginalName)
	}
	return key
}
