// SPDX-License-Identifier: EPL-2.0

package audio

// MonoMixer wraps a Source and averages its channels down to one. A mono
// source passes straight through.
type MonoMixer struct {
	src Source
	tmp []float32
}

func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{src: src, tmp: make([]float32, 4096)}
}

func (m *MonoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *MonoMixer) Channels() int   { return 1 }
func (m *MonoMixer) BufSize() int    { return m.src.BufSize() }
func (m *MonoMixer) Close() error    { return m.src.Close() }

// ReadSamples fills dst with downmixed frames: each output sample is the
// mean of one interleaved input frame.
func (m *MonoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	channels := m.src.Channels()
	if channels == 1 {
		return m.src.ReadSamples(dst)
	}

	need := len(dst) * channels
	if cap(m.tmp) < need {
		m.tmp = make([]float32, need)
	}
	n, err := m.src.ReadSamples(m.tmp[:need])
	if n == 0 {
		return 0, err
	}

	frames := n / channels
	scale := 1 / float32(channels)
	for f := 0; f < frames; f++ {
		sum := float32(0)
		base := f * channels
		for c := 0; c < channels; c++ {
			sum += m.tmp[base+c]
		}
		dst[f] = sum * scale
	}
	return frames, err
}
