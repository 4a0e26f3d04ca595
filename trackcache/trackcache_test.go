// SPDX-License-Identifier: EPL-2.0

package trackcache

import (
	"testing"

	"github.com/ik5/wavecore/dirmanager"
	"github.com/ik5/wavecore/sampleformat"
	"github.com/ik5/wavecore/wavetrack"
)

func newTestTrack(t *testing.T, n int) *wavetrack.Track {
	t.Helper()
	m, err := dirmanager.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	trk := wavetrack.New(m, sampleformat.Float32, 1<<20, 1.0)
	c := trk.NewClip(0)
	data := make([]float32, n)
	for i := range data {
		data[i] = float32(i)
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

func TestGetServesFromTrackOnMiss(t *testing.T) {
	trk := newTestTrack(t, 100)
	c := New(trk, 16)

	got, err := c.Get(sampleformat.Float32, 0, 8)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	for i, v := range got {
		if v != float32(i) {
			t.Fatalf("got[%d] = %v, want %v", i, v, i)
		}
	}
}

func TestGetServesRepeatRequestFromWindowWithoutTrackFetch(t *testing.T) {
	trk := newTestTrack(t, 100)
	c := New(trk, 32)

	if _, err := c.Get(sampleformat.Float32, 0, 10); err != nil {
		t.Fatalf("Get: %v", err)
	}
	got, err := c.Get(sampleformat.Float32, 2, 5)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	for i, v := range got {
		want := float32(2 + i)
		if v != want {
			t.Fatalf("got[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestGetNonFloatFallsThroughEveryCall(t *testing.T) {
	trk := newTestTrack(t, 50)
	c := New(trk, 16)

	got, err := c.Get(sampleformat.Int16, 0, 4)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("len(got) = %d, want 4", len(got))
	}
	for i, v := range got {
		if v != float32(i) {
			t.Fatalf("got[%d] = %v, want %v", i, v, i)
		}
	}
}

func TestGetReadsZeroInGapPastTrackEnd(t *testing.T) {
	trk := newTestTrack(t, 10)
	c := New(trk, 16)

	got, err := c.Get(sampleformat.Float32, 8, 8)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	for i := 2; i < 8; i++ {
		if got[i] != 0 {
			t.Fatalf("got[%d] = %v, want 0 past track end", i, got[i])
		}
	}
}
