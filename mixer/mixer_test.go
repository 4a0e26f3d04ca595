// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"math"
	"testing"

	"github.com/ik5/wavecore/dirmanager"
	"github.com/ik5/wavecore/sampleformat"
	"github.com/ik5/wavecore/wavetrack"
)

func dcTrack(t *testing.T, rate float64, n int, dc float32) *wavetrack.Track {
	t.Helper()
	m, err := dirmanager.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	trk := wavetrack.New(m, sampleformat.Float32, 1<<20, rate)
	c := trk.NewClip(0)
	data := make([]float32, n)
	for i := range data {
		data[i] = dc
	}
	if err := c.Append(data); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := c.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := trk.AddClip(c); err != nil {
		t.Fatalf("AddClip: %v", err)
	}
	return trk
}

func TestMixdownOfTwoTracksMonoOutputSumsDC(t *testing.T) {
	a := dcTrack(t, 44100, 100, 0.5)
	b := dcTrack(t, 44100, 100, 0.5)

	mx := New([]*wavetrack.Track{a, b}, 0, 100.0/44100, false, 1, true, 44100, sampleformat.Float32, false, nil)
	out, n := mx.Process(100)
	if n != 100 {
		t.Fatalf("n = %d, want 100", n)
	}
	for i, v := range out {
		if math.Abs(float64(v)-1.0) > 1e-5 {
			t.Fatalf("out[%d] = %v, want ~1.0", i, v)
		}
	}
}

func TestMixdownWithPanRoutesChannelsAsymmetrically(t *testing.T) {
	a := dcTrack(t, 44100, 100, 0.5)
	b := dcTrack(t, 44100, 100, 0.5)
	a.SetPan(1.0)

	mx := New([]*wavetrack.Track{a, b}, 0, 100.0/44100, false, 2, true, 44100, sampleformat.Float32, false, nil)
	out, n := mx.Process(100)
	if n != 100 {
		t.Fatalf("n = %d, want 100", n)
	}

	ch0 := out[0]
	ch1 := out[1]

	wantCh0 := float32(0.5 * math.Cos(math.Pi/4)) // track b's equal-power contribution only
	if math.Abs(float64(ch0-wantCh0)) > 1e-4 {
		t.Fatalf("ch0 = %v, want ~%v (track a's pan=1 routes it away from channel 0)", ch0, wantCh0)
	}
	if ch1 <= ch0 {
		t.Fatalf("ch1 = %v should exceed ch0 = %v: channel 1 reads from both tracks", ch1, ch0)
	}
}

func TestVariableRateResampleProducesExpectedLength(t *testing.T) {
	const inLen = 4800
	trk := dcTrack(t, 48000, inLen, 0.25)

	mx := New([]*wavetrack.Track{trk}, 0, float64(inLen)/48000, false, 1, true, 44100, sampleformat.Float32, true, nil)

	var total int
	for {
		out, n := mx.Process(256)
		if n == 0 {
			break
		}
		total += n
		_ = out
	}

	want := int(math.Round(float64(inLen) * 44100 / 48000))
	if diff := total - want; diff < -1 || diff > 1 {
		t.Fatalf("total = %d, want %d ± 1", total, want)
	}
}
