// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"testing"

	"github.com/ik5/wavecore/internal/audiotest"
)

type nopDecoder struct{}

func (nopDecoder) Decode(io.Reader) (Source, error) { return nil, nil }

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	reg.Register("wav", nopDecoder{})

	if _, ok := reg.Get("wav"); !ok {
		t.Fatal("registered decoder not found")
	}
	if _, ok := reg.Get("flac"); ok {
		t.Fatal("unregistered format should not resolve")
	}
}

func TestMonoMixerPassesMonoThrough(t *testing.T) {
	src := audiotest.NewConstantSource(8000, 1, 100, 0.25)
	mix := NewMonoMixer(src)

	if mix.Channels() != 1 {
		t.Fatalf("Channels() = %d, want 1", mix.Channels())
	}
	buf := make([]float32, 100)
	n, err := mix.ReadSamples(buf)
	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples: %v", err)
	}
	if n != 100 {
		t.Fatalf("n = %d, want 100", n)
	}
	for i, v := range buf {
		if v != 0.25 {
			t.Fatalf("buf[%d] = %v, want 0.25", i, v)
		}
	}
}

func TestMonoMixerAveragesStereo(t *testing.T) {
	// Left channel 0.8, right channel 0.2: every downmixed frame is 0.5.
	src := audiotest.NewMockSource(8000, 2, 50, func(_, ch int) float32 {
		if ch == 0 {
			return 0.8
		}
		return 0.2
	})
	mix := NewMonoMixer(src)

	buf := make([]float32, 50)
	n, err := mix.ReadSamples(buf)
	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples: %v", err)
	}
	if n != 50 {
		t.Fatalf("n = %d frames, want 50", n)
	}
	for i := 0; i < n; i++ {
		if d := buf[i] - 0.5; d < -1e-6 || d > 1e-6 {
			t.Fatalf("frame %d = %v, want 0.5", i, buf[i])
		}
	}
}

func TestMonoMixerEmptyDstIsNoOp(t *testing.T) {
	mix := NewMonoMixer(audiotest.NewSilentSource(8000, 2, 10))
	n, err := mix.ReadSamples(nil)
	if n != 0 || err != nil {
		t.Fatalf("ReadSamples(nil) = (%d, %v), want (0, nil)", n, err)
	}
}
