// Package timecode converts timeline ticks into rounded cue sheet durations.
package timecode

import (
	"fmt"
	"math"

	"cuesheet/internal/cue"
)

// DefaultTicksPerSecond is the fixed high-resolution timebase of the source
// timeline format.
const DefaultTicksPerSecond int64 = 254016000000

// DefaultFPS is the delivery frame rate assumed when none is configured.
const DefaultFPS = 23.976

// frameRoundUpThreshold is the delivery-spec cut point: at or above this many
// residual frames the duration rounds up to the next whole second. It is a
// fixed contractual value, not derived from the frame rate.
const frameRoundUpThreshold = 12

// Converter turns tick counts into Timing values. The zero value is not
// usable; construct with New.
type Converter struct {
	ticksPerSecond int64
	fps            float64
}

// New returns a Converter for the given timebase and frame rate. Non-positive
// arguments fall back to the defaults.
func New(ticksPerSecond int64, fps float64) Converter {
	if ticksPerSecond <= 0 {
		ticksPerSecond = DefaultTicksPerSecond
	}
	if fps <= 0 {
		fps = DefaultFPS
	}
	return Converter{ticksPerSecond: ticksPerSecond, fps: fps}
}

// Convert applies the tick-to-seconds division, derives the residual frame
// count at the configured fps, and applies the round-up rule. Negative tick
// counts are treated as zero.
func (c Converter) Convert(ticks int64) cue.Timing {
	if ticks < 0 {
		ticks = 0
	}

	seconds := float64(ticks) / float64(c.ticksPerSecond)
	whole := ticks / c.ticksPerSecond
	fractional := seconds - float64(whole)
	frames := int(math.Round(fractional * c.fps))

	rounded := false
	if frames >= frameRoundUpThreshold {
		whole++
		frames = 0
		rounded = true
	}

	return cue.Timing{
		DurationSeconds: seconds,
		DurationFrames:  frames,
		Formatted:       formatSeconds(whole),
		WasRounded:      rounded,
	}
}

func formatSeconds(total int64) string {
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}
