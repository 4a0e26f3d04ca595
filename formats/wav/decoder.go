// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/wavecore/audio"
)

// source streams 16-bit PCM frames out of the data chunk that follows the
// canonical 44-byte header.
type source struct {
	r          io.Reader
	sampleRate int
	channels   int
	buf        []byte
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) * 2
	if len(s.buf) < want {
		s.buf = make([]byte, want)
	}
	n, err := io.ReadFull(s.r, s.buf[:want])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, fmt.Errorf("%w", err)
	}

	samples := n / 2
	for i := 0; i < samples; i++ {
		v := int16(binary.LittleEndian.Uint16(s.buf[2*i:]))
		dst[i] = float32(v) / 32768.0
	}
	if samples == 0 {
		return 0, io.EOF
	}
	return samples, nil
}

// Decoder parses canonical PCM16 WAV: RIFF/WAVE, a 16-byte fmt chunk, then
// the data chunk. Extensible headers and non-PCM encodings are rejected.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	header := make([]byte, 44)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	if !bytes.Equal(header[:4], []byte("RIFF")) || !bytes.Equal(header[8:12], []byte("WAVE")) {
		return nil, ErrNotWavFile
	}
	if !bytes.Equal(header[12:16], []byte("fmt ")) {
		return nil, ErrUnsupportedWavLayout
	}

	audioFormat := binary.LittleEndian.Uint16(header[20:22])
	channels := int(binary.LittleEndian.Uint16(header[22:24]))
	sampleRate := int(binary.LittleEndian.Uint32(header[24:28]))
	bitsPerSample := int(binary.LittleEndian.Uint16(header[34:36]))

	if audioFormat != 1 || bitsPerSample != 16 {
		return nil, ErrOnlyPCM16bitSupported
	}
	if !bytes.Equal(header[36:40], []byte("data")) {
		return nil, ErrUnsupportedWavChunks
	}

	return &source{
		r:          r,
		sampleRate: sampleRate,
		channels:   channels,
		buf:        make([]byte, 4096),
	}, nil
}
