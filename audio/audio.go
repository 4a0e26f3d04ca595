// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"sync"
)

// Source is a pull-based stream of decoded PCM audio. The engine's import
// pipeline consumes Sources; the formats subpackages produce them.
type Source interface {
	// SampleRate of the stream in Hz.
	SampleRate() int

	// Channels in the stream (1 = mono, 2 = stereo).
	Channels() int

	// ReadSamples fills dst with interleaved float32 samples in [-1, 1]
	// and returns the number of values written (not frames). n == 0 with
	// err == io.EOF marks the end of the stream.
	ReadSamples(dst []float32) (n int, err error)

	// BufSize is the source's preferred read size in samples.
	BufSize() int

	// Close releases decoder resources.
	Close() error
}

// Decoder turns an encoded byte stream into a Source.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry maps a format key ("wav", "mp3", "ogg", "aiff") to its Decoder.
// Safe for concurrent registration and lookup.
type Registry struct {
	mu     sync.Mutex
	codecs map[string]Decoder
}

func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Decoder)}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[format] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.codecs[format]
	return d, ok
}
