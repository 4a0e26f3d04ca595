// SPDX-License-Identifier: EPL-2.0

// Package blockfile implements the immutable, content-addressed sample
// chunk at the bottom of the editing engine: a fixed run of samples (or
// silence, or an alias into an external file) plus precomputed min/max/RMS
// summaries at two decimation factors.
package blockfile

import (
	"math"
	"os"

	"github.com/ik5/wavecore/sampleformat"
	"github.com/ik5/wavecore/waveerr"
)

// Ref is the shared-ownership handle a Sequence holds onto a BlockFile.
// Implementations are Simple (owns its data), Silent (returns zeros) or
// Alias (summary on disk, data read from an external, not-owned file).
type Ref interface {
	Len() int64
	Min() float32
	Max() float32
	RMS() float32
	Format() sampleformat.Format
	Path() string // "" for Silent

	// ReadSummary fills out, which must be TotalSummaryBytes(Len()) bytes,
	// with the 1:65536 summary followed by the 1:256 summary. Silent
	// returns zero-fill.
	ReadSummary(out []byte) error

	// ReadData reads length samples starting at start into dst (float32
	// domain). Returns the number actually read. If mayThrow is true and
	// the read comes up short, returns a *waveerr.FileError; otherwise the
	// tail of dst is zero-filled.
	ReadData(dst []float32, start, length int64, mayThrow bool) (int, error)

	// Copy produces an identical BlockFile pointing at newPath (ignored
	// for Silent blocks, which have no path).
	Copy(newPath string) (Ref, error)

	Lock()
	Unlock()
	Locked() bool

	// Close deletes the on-disk file iff the block is unlocked and has a
	// path.
	Close() error
}

type base struct {
	length        int64
	min, max, rms float32
	lockCount     int
	level256      []Triple
	level65536    []Triple
	format        sampleformat.Format
}

func (b *base) Len() int64                  { return b.length }
func (b *base) Min() float32                { return b.min }
func (b *base) Max() float32                { return b.max }
func (b *base) RMS() float32                { return b.rms }
func (b *base) Format() sampleformat.Format { return b.format }
func (b *base) Lock()                       { b.lockCount++ }
func (b *base) Unlock() {
	if b.lockCount > 0 {
		b.lockCount--
	}
}
func (b *base) Locked() bool { return b.lockCount > 0 }

func (b *base) fillSummary(out []byte) {
	off := 0
	buf := make([]byte, 12)
	writeOne := func(t Triple) {
		putFloat32(buf[0:4], t.Min)
		putFloat32(buf[4:8], t.Max)
		putFloat32(buf[8:12], t.RMS)
		copy(out[off:off+12], buf)
		off += 12
	}
	for _, t := range b.level65536 {
		writeOne(t)
	}
	for _, t := range b.level256 {
		writeOne(t)
	}
}

// --- Simple ---

type simpleBlock struct {
	base
	path string
}

// NewSimple writes samples to path in the Simple on-disk layout and returns
// a Ref that owns that file.
func NewSimple(path string, samples []float32, f sampleformat.Format) (Ref, error) {
	level256, level65536, mn, mx, rms := calcSummary(samples)
	if err := writeSimpleFile(path, samples, f); err != nil {
		return nil, err
	}
	return &simpleBlock{
		base: base{
			length:     int64(len(samples)),
			min:        mn,
			max:        mx,
			rms:        rms,
			level256:   level256,
			level65536: level65536,
			format:     f,
		},
		path: path,
	}, nil
}

// openSimple rebuilds a Ref from an existing on-disk Simple block file,
// without re-encoding sample data. No code in the module calls it.
func openSimple(path string, length int64, f sampleformat.Format) (Ref, error) {
	level256, level65536, err := readSummaryFromDisk(path, length)
	if err != nil {
		return nil, err
	}
	bmn, bmx := summaryExtrema(level65536)
	brms := summaryBlockRMS(level65536, length)
	return &simpleBlock{
		base: base{
			length:     length,
			min:        bmn,
			max:        bmx,
			rms:        brms,
			level256:   level256,
			level65536: level65536,
			format:     f,
		},
		path: path,
	}, nil
}

func (s *simpleBlock) Path() string { return s.path }

func (s *simpleBlock) ReadSummary(out []byte) error {
	s.fillSummary(out)
	return nil
}

func (s *simpleBlock) ReadData(dst []float32, start, length int64, mayThrow bool) (int, error) {
	n, err := readSimpleData(s.path, s.format, s.length, start, length, dst)
	if err != nil {
		return 0, err
	}
	if int64(n) < length {
		if mayThrow {
			return n, waveerr.NewFileError(waveerr.OpRead, s.path, errShortRead)
		}
		for i := n; i < len(dst); i++ {
			dst[i] = 0
		}
	}
	return n, nil
}

func (s *simpleBlock) Copy(newPath string) (Ref, error) {
	if err := copyFile(s.path, newPath); err != nil {
		return nil, err
	}
	clone := &simpleBlock{
		base: base{
			length:     s.length,
			min:        s.min,
			max:        s.max,
			rms:        s.rms,
			level256:   s.level256,
			level65536: s.level65536,
			format:     s.format,
		},
		path: newPath,
	}
	return clone, nil
}

func (s *simpleBlock) Close() error {
	if s.Locked() || s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return waveerr.NewFileError(waveerr.OpWrite, s.path, err)
	}
	return nil
}

// --- Silent ---

type silentBlock struct {
	base
}

// NewSilent returns a Ref with no backing file that reads back as zero
// samples.
func NewSilent(length int64, f sampleformat.Format) Ref {
	return &silentBlock{base: base{length: length, format: f}}
}

func (s *silentBlock) Path() string { return "" }

func (s *silentBlock) ReadSummary(out []byte) error {
	for i := range out {
		out[i] = 0
	}
	return nil
}

func (s *silentBlock) ReadData(dst []float32, start, length int64, _ bool) (int, error) {
	n := int(length)
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = 0
	}
	return n, nil
}

func (s *silentBlock) Copy(string) (Ref, error) {
	clone := &silentBlock{
		base: base{
			length:     s.length,
			min:        s.min,
			max:        s.max,
			rms:        s.rms,
			level256:   s.level256,
			level65536: s.level65536,
			format:     s.format,
		},
	}
	return clone, nil
}

func (s *silentBlock) Close() error { return nil }

// --- Alias ---

type aliasBlock struct {
	base
	path      string // path to the on-disk summary (.auf)
	aliasPath string // external, not-owned sample file
	aliasOff  int64  // sample offset into the alias file
}

// NewAlias writes only the summary to path, the sample data is expected to
// live in aliasPath starting at aliasOff (in samples), encoded as f.
func NewAlias(path string, aliasPath string, aliasOff int64, samples []float32, f sampleformat.Format) (Ref, error) {
	level256, level65536, mn, mx, rms := calcSummary(samples)
	file, err := os.Create(path)
	if err != nil {
		return nil, waveerr.NewFileError(waveerr.OpOpen, path, err)
	}
	defer file.Close()
	if _, err := file.WriteString(FileTag); err != nil {
		return nil, waveerr.NewFileError(waveerr.OpWrite, path, err)
	}
	if err := writeTriples(file, level65536); err != nil {
		return nil, waveerr.NewFileError(waveerr.OpWrite, path, err)
	}
	if err := writeTriples(file, level256); err != nil {
		return nil, waveerr.NewFileError(waveerr.OpWrite, path, err)
	}
	return &aliasBlock{
		base: base{
			length:     int64(len(samples)),
			min:        mn,
			max:        mx,
			rms:        rms,
			level256:   level256,
			level65536: level65536,
			format:     f,
		},
		path:      path,
		aliasPath: aliasPath,
		aliasOff:  aliasOff,
	}, nil
}

func (a *aliasBlock) Path() string { return a.path }

func (a *aliasBlock) ReadSummary(out []byte) error {
	a.fillSummary(out)
	return nil
}

func (a *aliasBlock) ReadData(dst []float32, start, length int64, mayThrow bool) (int, error) {
	n, err := readRawData(a.aliasPath, a.format, a.aliasOff+a.length, a.aliasOff+start, length, dst)
	if err != nil {
		return 0, err
	}
	if int64(n) < length {
		if mayThrow {
			return n, waveerr.NewFileError(waveerr.OpRead, a.aliasPath, errShortRead)
		}
		for i := n; i < len(dst); i++ {
			dst[i] = 0
		}
	}
	return n, nil
}

func (a *aliasBlock) Copy(newPath string) (Ref, error) {
	if err := copyFile(a.path, newPath); err != nil {
		return nil, err
	}
	clone := &aliasBlock{
		base: base{
			length:     a.length,
			min:        a.min,
			max:        a.max,
			rms:        a.rms,
			level256:   a.level256,
			level65536: a.level65536,
			format:     a.format,
		},
		path:      newPath,
		aliasPath: a.aliasPath,
		aliasOff:  a.aliasOff,
	}
	return clone, nil
}

func (a *aliasBlock) Close() error {
	if a.Locked() || a.path == "" {
		return nil
	}
	if err := os.Remove(a.path); err != nil && !os.IsNotExist(err) {
		return waveerr.NewFileError(waveerr.OpWrite, a.path, err)
	}
	return nil
}

func putFloat32(dst []byte, v float32) {
	bits := math.Float32bits(v)
	dst[0] = byte(bits)
	dst[1] = byte(bits >> 8)
	dst[2] = byte(bits >> 16)
	dst[3] = byte(bits >> 24)
}

func summaryExtrema(level65536 []Triple) (mn, mx float32) {
	mn, mx = float32(math.Inf(1)), float32(math.Inf(-1))
	for _, t := range level65536 {
		if t.Min < mn {
			mn = t.Min
		}
		if t.Max > mx {
			mx = t.Max
		}
	}
	return mn, mx
}

func summaryBlockRMS(level65536 []Triple, length int64) float32 {
	// Approximation used only by openSimple (rebuilding a Ref without
	// re-reading raw samples): recompute from the 1:65536 RMS entries
	// themselves, weighted evenly. A short final group counts as much as a
	// full one, so the result is inexact for blocks whose last group is
	// short.
	if length == 0 || len(level65536) == 0 {
		return 0
	}
	var sumsq float64
	for _, t := range level65536 {
		sumsq += float64(t.RMS) * float64(t.RMS)
	}
	return float32(math.Sqrt(sumsq / float64(len(level65536))))
}
