// SPDX-License-Identifier: EPL-2.0

// Package trackcache implements TrackCache: a two-buffer sliding cache
// over contiguous sequential reads on a single WaveTrack. Buffers are
// reused when possible and reallocated only when the requested span
// outgrows them.
package trackcache

import (
	"github.com/ik5/wavecore/sampleformat"
	"github.com/ik5/wavecore/wavetrack"
)

// window is one of the cache's two sliding buffers: [start, end) track-
// absolute sample indices, and the float32 data for that span.
type window struct {
	start, end int64
	data       []float32
	valid      bool
}

// Cache is a TrackCache bound to a single track. Only sampleformat.Float32
// reads are cacheable; any other requested format falls through to the
// track directly.
type Cache struct {
	track    *wavetrack.Track
	maxBlock int64

	buf     [2]window
	overlap []float32
}

// New creates a Cache over track, fetching at most maxBlock samples per
// miss (the track's own maximum disk block size is the natural choice).
func New(track *wavetrack.Track, maxBlock int64) *Cache {
	return &Cache{track: track, maxBlock: maxBlock}
}

// Get returns length samples starting at the track-absolute sample index
// start, in the requested format. For Float32 it serves from the sliding
// windows when possible (no copy when the request lies wholly inside one
// window) and only touches the track on a miss or partial match; for any
// other format it reads straight from the track every call.
func (c *Cache) Get(format sampleformat.Format, start, length int64) ([]float32, error) {
	if format != sampleformat.Float32 {
		dst := make([]float32, length)
		if err := c.track.Get(dst, start, length); err != nil {
			return nil, err
		}
		return dst, nil
	}

	end := start + length

	for i := range c.buf {
		b := &c.buf[i]
		if b.valid && start >= b.start && end <= b.end {
			return b.data[start-b.start : end-b.start], nil
		}
	}

	if c.buf[0].valid && c.buf[1].valid && c.buf[0].end == c.buf[1].start &&
		start >= c.buf[0].start && end <= c.buf[1].end {
		c.overlap = append(c.overlap[:0], c.buf[0].data[start-c.buf[0].start:]...)
		need := end - c.buf[1].start
		c.overlap = append(c.overlap, c.buf[1].data[:need]...)
		return c.overlap, nil
	}

	return c.fetch(start, length)
}

// fetch reads a fresh window of at least length samples starting at start,
// sliding the old current window down to buf[0] only when it remains
// contiguous, preserving buf[0].end == buf[1].start between valid buffers.
func (c *Cache) fetch(start, length int64) ([]float32, error) {
	fetchLen := c.maxBlock
	if fetchLen < length {
		fetchLen = length
	}
	data := make([]float32, fetchLen)
	if err := c.track.Get(data, start, fetchLen); err != nil {
		return nil, err
	}

	if c.buf[1].valid && c.buf[1].end == start {
		c.buf[0] = c.buf[1]
	} else {
		c.buf[0] = window{}
	}
	c.buf[1] = window{start: start, end: start + fetchLen, data: data, valid: true}

	return c.buf[1].data[:length], nil
}
