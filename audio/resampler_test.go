// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"testing"

	"github.com/ik5/wavecore/internal/audiotest"
)

func drain(t *testing.T, src Source, chunk int) []float32 {
	t.Helper()
	var out []float32
	buf := make([]float32, chunk)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples: %v", err)
		}
	}
}

func TestResamplerDownsamplesToExpectedLength(t *testing.T) {
	src := audiotest.NewSineSource(16000, 1, 16000, 440)
	r := NewResampler(src, 8000)

	if r.SampleRate() != 8000 {
		t.Fatalf("SampleRate() = %d, want 8000", r.SampleRate())
	}
	out := drain(t, r, 512)
	if len(out) < 7800 || len(out) > 8200 {
		t.Fatalf("output length = %d, want ~8000", len(out))
	}
}

func TestResamplerUpsamplesToExpectedLength(t *testing.T) {
	src := audiotest.NewSineSource(8000, 1, 8000, 200)
	out := drain(t, NewResampler(src, 16000), 512)
	if len(out) < 15600 || len(out) > 16400 {
		t.Fatalf("output length = %d, want ~16000", len(out))
	}
}

func TestResamplerPreservesChannelCount(t *testing.T) {
	src := audiotest.NewConstantSource(16000, 2, 1000, 0.5)
	r := NewResampler(src, 8000)
	if r.Channels() != 2 {
		t.Fatalf("Channels() = %d, want 2", r.Channels())
	}
	out := drain(t, r, 512)
	if len(out)%2 != 0 {
		t.Fatalf("interleaved output length %d is odd", len(out))
	}
}

func TestResamplerRejectsMisalignedDst(t *testing.T) {
	src := audiotest.NewSilentSource(16000, 2, 100)
	r := NewResampler(src, 8000)
	if _, err := r.ReadSamples(make([]float32, 3)); err != ErrInvalidDstSize {
		t.Fatalf("err = %v, want ErrInvalidDstSize", err)
	}
}

func TestResamplerEmptySourceReturnsEOF(t *testing.T) {
	src := audiotest.NewSilentSource(16000, 1, 0)
	r := NewResampler(src, 8000)
	if _, err := r.ReadSamples(make([]float32, 16)); err != io.EOF {
		t.Fatalf("err = %v, want io.EOF", err)
	}
}

func TestResampleToMono16DownmixesAndConverts(t *testing.T) {
	src := audiotest.NewConstantSource(16000, 2, 16000, 0.5)
	pcm16, rate, err := ResampleToMono16(src, 8000, 4096)
	if err != nil && err != io.EOF {
		t.Fatalf("ResampleToMono16: %v", err)
	}
	if rate != 8000 {
		t.Fatalf("rate = %d, want 8000", rate)
	}
	if len(pcm16) < 7800 || len(pcm16) > 8200 {
		t.Fatalf("len = %d, want ~8000", len(pcm16))
	}
	mid := pcm16[len(pcm16)/2]
	if mid < 15000 || mid > 17500 {
		t.Fatalf("mid sample = %d, want ~16384 (0.5 scaled)", mid)
	}
}
