// SPDX-License-Identifier: EPL-2.0

// Package waveclip implements WaveClip: a Sequence and an Envelope bound
// together at a floating-point offset, an append buffer that absorbs small
// writes before flushing them into the Sequence, and a list of cutline
// clips holding material removed by clear-and-remember edits.
package waveclip

import (
	"github.com/ik5/wavecore/dirmanager"
	"github.com/ik5/wavecore/envelope"
	"github.com/ik5/wavecore/sampleformat"
	"github.com/ik5/wavecore/sequence"
)

// idealAppendFactor sizes the append-buffer flush threshold relative to a
// sequence's maxSamples: small appends accumulate until they would fill a
// block, rather than writing a block file per Append call.
const idealAppendFactor = 1

// Clip binds a Sequence and an Envelope at a floating-point time offset.
type Clip struct {
	offset float64
	rate   float64

	seq *sequence.Sequence
	env *envelope.Envelope

	appendBuffer []float32

	cutLines []*Clip

	isPlaceholder bool
}

// New creates an empty Clip at the given offset/rate.
func New(manager *dirmanager.Manager, format sampleformat.Format, maxDiskBlockSize int64, offset, rate float64) *Clip {
	seq := sequence.New(manager, format, maxDiskBlockSize)
	env := envelope.New(1.0, 0, 2.0, false)
	env.SetOffset(offset)
	return &Clip{
		offset: offset,
		rate:   rate,
		seq:    seq,
		env:    env,
	}
}

func (c *Clip) Offset() float64 { return c.offset }
func (c *Clip) Rate() float64   { return c.rate }

func (c *Clip) SetOffset(t float64) {
	c.offset = t
	c.env.SetOffset(t)
}

func (c *Clip) Sequence() *sequence.Sequence { return c.seq }
func (c *Clip) Envelope() *envelope.Envelope { return c.env }
func (c *Clip) IsPlaceholder() bool          { return c.isPlaceholder }
func (c *Clip) SetPlaceholder(v bool)        { c.isPlaceholder = v }
func (c *Clip) NumCutLines() int             { return len(c.cutLines) }
func (c *Clip) CutLineAt(i int) *Clip        { return c.cutLines[i] }

// RemoveCutLineAt detaches and returns the cutline at index i, for callers
// (WaveTrack's clearAndPaste) that need to temporarily pull cutlines out
// before a region edit and reinsert them afterward.
func (c *Clip) RemoveCutLineAt(i int) *Clip {
	removed := c.cutLines[i]
	c.cutLines = append(c.cutLines[:i], c.cutLines[i+1:]...)
	return removed
}

// AddCutLine appends an already-built cutline Clip.
func (c *Clip) AddCutLine(cl *Clip) { c.cutLines = append(c.cutLines, cl) }

// NumSamples is the clip's committed sample count; the append buffer is not
// counted until flushed.
func (c *Clip) NumSamples() int64 { return c.seq.TotalSamples() }

// StartTime/EndTime are the clip's absolute time bounds.
func (c *Clip) StartTime() float64 { return c.offset }
func (c *Clip) EndTime() float64 {
	return c.offset + float64(c.NumSamples())/c.rate
}

// idealAppendLen is the append-buffer flush threshold: once it holds this
// many samples, Append flushes through the Sequence rather than growing the
// buffer further.
func (c *Clip) idealAppendLen() int64 {
	return idealAppendFactor * c.seq.MaxSamples()
}

// Append buffers src, flushing through the Sequence once the buffer
// reaches idealAppendLen. The envelope's trackLen is extended
// after every call, buffered or not, so time-based queries stay accurate
// even before a flush.
func (c *Clip) Append(src []float32) error {
	c.appendBuffer = append(c.appendBuffer, src...)
	c.env.SetTrackLen(c.env.TrackLen() + float64(len(src))/c.rate)

	if int64(len(c.appendBuffer)) < c.idealAppendLen() {
		return nil
	}
	return c.Flush()
}

// Flush drains the append buffer into the Sequence. The buffer is always
// reset even on error — a failed flush is a partial guarantee, not a
// retryable one.
func (c *Clip) Flush() error {
	if len(c.appendBuffer) == 0 {
		return nil
	}
	buf := c.appendBuffer
	c.appendBuffer = nil
	return c.seq.Append(buf, int64(len(buf)))
}

// Get reads length committed samples starting at local sample index start.
// Unflushed append-buffer contents are not visible until Flush.
func (c *Clip) Get(dst []float32, start, length int64) error {
	return c.seq.Get(dst, start, length)
}

// sampleToTime/timeToSample convert between the clip's local sample index
// and time relative to its own start: sample = round(time * rate).
func (c *Clip) timeToSample(t float64) int64 {
	return int64(t*c.rate + 0.5)
}

func (c *Clip) sampleToTime(s int64) float64 {
	return float64(s) / c.rate
}
