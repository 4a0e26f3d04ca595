// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/ik5/wavecore/audio"
	"github.com/jfreymuth/oggvorbis"
)

// pcmReader is the slice of oggvorbis.Reader the source needs; narrowed to
// an interface so tests can substitute a fake.
type pcmReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

// source adapts oggvorbis's float32 API to audio.Source. The library
// already produces interleaved float32 in [-1, 1], so reads pass through
// directly.
type source struct {
	dec        pcmReader
	sampleRate int
	channels   int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	// Hand the reader a whole number of frames; it returns values read.
	usable := len(dst) - len(dst)%s.channels
	if usable == 0 {
		return 0, audio.ErrInvalidDstSize
	}
	return s.dec.Read(dst[:usable])
}

// Decoder wraps github.com/jfreymuth/oggvorbis.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}, nil
}
