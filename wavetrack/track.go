// SPDX-License-Identifier: EPL-2.0

// Package wavetrack implements WaveTrack: an ordered, non-overlapping set
// of WaveClips sharing a time axis, with the high-level Clear/Paste/Split/
// Merge operations that translate absolute-time edits into per-clip calls.
package wavetrack

import (
	"sort"

	"github.com/ik5/wavecore/dirmanager"
	"github.com/ik5/wavecore/sampleformat"
	"github.com/ik5/wavecore/waveclip"
	"github.com/ik5/wavecore/waveerr"
)

// Channel is the simple stereo-designation fallback used when no routing
// matrix is supplied to the Mixer.
type Channel int

const (
	MonoChannel Channel = iota
	LeftChannel
	RightChannel
)

// Track is an ordered set of non-overlapping clips on a shared time axis.
type Track struct {
	manager          *dirmanager.Manager
	maxDiskBlockSize int64

	rate    float64
	format  sampleformat.Format
	gain    float64
	pan     float64
	channel Channel

	clips []*waveclip.Clip
}

// New creates an empty Track.
func New(manager *dirmanager.Manager, format sampleformat.Format, maxDiskBlockSize int64, rate float64) *Track {
	return &Track{
		manager:          manager,
		maxDiskBlockSize: maxDiskBlockSize,
		rate:             rate,
		format:           format,
		gain:             1.0,
		pan:              0.0,
		channel:          MonoChannel,
	}
}

func (t *Track) Rate() float64               { return t.rate }
func (t *Track) Format() sampleformat.Format { return t.format }
func (t *Track) Gain() float64               { return t.gain }
func (t *Track) SetGain(g float64)           { t.gain = g }
func (t *Track) Pan() float64                { return t.pan }
func (t *Track) SetPan(p float64)            { t.pan = p }
func (t *Track) Channel() Channel            { return t.channel }
func (t *Track) SetChannel(c Channel)        { t.channel = c }
func (t *Track) MaxDiskBlockSize() int64     { return t.maxDiskBlockSize }
func (t *Track) NumClips() int               { return len(t.clips) }
func (t *Track) ClipAt(i int) *waveclip.Clip { return t.clips[i] }

// Clips returns the track's clips ordered by start time.
func (t *Track) Clips() []*waveclip.Clip {
	sorted := append([]*waveclip.Clip(nil), t.clips...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset() < sorted[j].Offset() })
	return sorted
}

// NewClip builds an empty clip at offset, owned by the track's manager/
// format/rate, but does not add it to the track — callers insert it via
// addClip once its content is ready.
func (t *Track) NewClip(offset float64) *waveclip.Clip {
	return waveclip.New(t.manager, t.format, t.maxDiskBlockSize, offset, t.rate)
}

func (t *Track) addClip(c *waveclip.Clip) {
	t.clips = append(t.clips, c)
}

// AddClip appends an already-built, non-overlapping clip to the track.
// Callers that decode audio into a fresh clip (the import pipeline) use
// this to place it; edits within the package use the unexported addClip
// directly since they have already proven non-overlap.
func (t *Track) AddClip(c *waveclip.Clip) error {
	if t.overlapsAny(c.StartTime(), c.EndTime()) {
		return errOverlap("AddClip: would overlap existing clip territory")
	}
	t.addClip(c)
	return nil
}

func (t *Track) removeClip(c *waveclip.Clip) {
	for i, cl := range t.clips {
		if cl == c {
			t.clips = append(t.clips[:i], t.clips[i+1:]...)
			return
		}
	}
}

// EndTime is the track's overall extent: the latest clip end time, or 0 if
// empty.
func (t *Track) EndTime() float64 {
	var end float64
	for _, c := range t.clips {
		if e := c.EndTime(); e > end {
			end = e
		}
	}
	return end
}

// findOverlapping returns the clips whose [StartTime, EndTime) intersects
// [t0, t1).
func (t *Track) findOverlapping(t0, t1 float64) []*waveclip.Clip {
	var out []*waveclip.Clip
	for _, c := range t.clips {
		if c.StartTime() < t1 && c.EndTime() > t0 {
			out = append(out, c)
		}
	}
	return out
}

// clipContaining returns the clip whose [StartTime, EndTime) holds tt, or
// nil.
func (t *Track) clipContaining(tt float64) *waveclip.Clip {
	for _, c := range t.clips {
		if tt >= c.StartTime() && tt < c.EndTime() {
			return c
		}
	}
	return nil
}

// overlapsAny reports whether [s0, s1) intersects any existing clip.
func (t *Track) overlapsAny(s0, s1 float64) bool {
	for _, c := range t.clips {
		if c.StartTime() < s1 && c.EndTime() > s0 {
			return true
		}
	}
	return false
}

func errOverlap(msg string) error { return waveerr.Inconsistency(msg) }
