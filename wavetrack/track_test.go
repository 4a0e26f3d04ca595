// SPDX-License-Identifier: EPL-2.0

package wavetrack

import (
	"testing"

	"github.com/ik5/wavecore/dirmanager"
	"github.com/ik5/wavecore/sampleformat"
	"github.com/ik5/wavecore/waveclip"
)

func newManager(t *testing.T) *dirmanager.Manager {
	t.Helper()
	m, err := dirmanager.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func newFilledClip(t *testing.T, trk *Track, offset float64, n int) *waveclip.Clip {
	t.Helper()
	c := trk.NewClip(offset)
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
	return c
}

func TestHandleClearRemovesWhollyContainedClip(t *testing.T) {
	trk := New(newManager(t), sampleformat.Int16, 1<<20, 1.0)
	c := newFilledClip(t, trk, 0, 5)
	trk.addClip(c)

	if err := trk.HandleClear(0, 5, false, false); err != nil {
		t.Fatalf("HandleClear: %v", err)
	}
	if trk.NumClips() != 0 {
		t.Fatalf("NumClips = %d, want 0", trk.NumClips())
	}
}

func TestHandleClearRipplesLaterClipsLeft(t *testing.T) {
	trk := New(newManager(t), sampleformat.Int16, 1<<20, 1.0)
	a := newFilledClip(t, trk, 0, 5)  // [0,5)
	b := newFilledClip(t, trk, 10, 5) // [10,15)
	trk.addClip(a)
	trk.addClip(b)

	if err := trk.HandleClear(5, 8, false, false); err != nil {
		t.Fatalf("HandleClear: %v", err)
	}
	if trk.NumClips() != 2 {
		t.Fatalf("NumClips = %d, want 2", trk.NumClips())
	}
	if b.StartTime() != 7 { // 10 - (8-5)
		t.Fatalf("b.StartTime = %v, want 7", b.StartTime())
	}
}

func TestHandleClearSplitLeavesGapWithoutRipple(t *testing.T) {
	trk := New(newManager(t), sampleformat.Int16, 1<<20, 1.0)
	c := newFilledClip(t, trk, 0, 10) // [0,10)
	trk.addClip(c)

	if err := trk.HandleClear(3, 7, false, true); err != nil {
		t.Fatalf("HandleClear: %v", err)
	}
	if trk.NumClips() != 2 {
		t.Fatalf("NumClips = %d, want 2", trk.NumClips())
	}
	clips := trk.Clips()
	if clips[0].StartTime() != 0 || clips[0].EndTime() != 3 {
		t.Fatalf("left part = [%v,%v), want [0,3)", clips[0].StartTime(), clips[0].EndTime())
	}
	if clips[1].StartTime() != 7 || clips[1].EndTime() != 10 {
		t.Fatalf("right part = [%v,%v), want [7,10)", clips[1].StartTime(), clips[1].EndTime())
	}
}

func TestPasteSingleClipSplicesIntoHost(t *testing.T) {
	trk := New(newManager(t), sampleformat.Int16, 1<<20, 1.0)
	host := newFilledClip(t, trk, 0, 5)
	trk.addClip(host)

	srcTrk := New(newManager(t), sampleformat.Int16, 1<<20, 1.0)
	ins := newFilledClip(t, srcTrk, 0, 2)
	srcTrk.addClip(ins)

	if err := trk.Paste(2, srcTrk); err != nil {
		t.Fatalf("Paste: %v", err)
	}
	if trk.NumClips() != 1 {
		t.Fatalf("NumClips = %d, want 1 (spliced into host)", trk.NumClips())
	}
	if trk.clips[0].NumSamples() != 7 {
		t.Fatalf("host NumSamples = %d, want 7", trk.clips[0].NumSamples())
	}
}

func TestPasteMultiClipInsertsNewClips(t *testing.T) {
	trk := New(newManager(t), sampleformat.Int16, 1<<20, 1.0)

	srcTrk := New(newManager(t), sampleformat.Int16, 1<<20, 1.0)
	a := newFilledClip(t, srcTrk, 0, 3)
	b := newFilledClip(t, srcTrk, 10, 3)
	srcTrk.addClip(a)
	srcTrk.addClip(b)

	if err := trk.Paste(5, srcTrk); err != nil {
		t.Fatalf("Paste: %v", err)
	}
	if trk.NumClips() != 2 {
		t.Fatalf("NumClips = %d, want 2", trk.NumClips())
	}
	clips := trk.Clips()
	if clips[0].StartTime() != 5 {
		t.Fatalf("clip0 start = %v, want 5", clips[0].StartTime())
	}
	if clips[1].StartTime() != 15 {
		t.Fatalf("clip1 start = %v, want 15", clips[1].StartTime())
	}
}

func TestSplitAtDividesClipInTwo(t *testing.T) {
	trk := New(newManager(t), sampleformat.Int16, 1<<20, 1.0)
	c := newFilledClip(t, trk, 0, 10)
	trk.addClip(c)

	if err := trk.SplitAt(4); err != nil {
		t.Fatalf("SplitAt: %v", err)
	}
	if trk.NumClips() != 2 {
		t.Fatalf("NumClips = %d, want 2", trk.NumClips())
	}
	clips := trk.Clips()
	if clips[0].NumSamples() != 4 {
		t.Fatalf("left NumSamples = %d, want 4", clips[0].NumSamples())
	}
	if clips[1].NumSamples() != 6 {
		t.Fatalf("right NumSamples = %d, want 6", clips[1].NumSamples())
	}
	if clips[1].StartTime() != 4 {
		t.Fatalf("right StartTime = %v, want 4", clips[1].StartTime())
	}
}

func TestClearAndPasteReplacesRegion(t *testing.T) {
	trk := New(newManager(t), sampleformat.Float32, 1<<20, 1.0)
	c := newFilledClip(t, trk, 0, 10) // [0,10)
	trk.addClip(c)

	srcTrk := New(newManager(t), sampleformat.Float32, 1<<20, 1.0)
	repl := newFilledClip(t, srcTrk, 0, 4)
	srcTrk.addClip(repl)

	if err := trk.ClearAndPaste(2, 6, srcTrk, false, true, nil); err != nil {
		t.Fatalf("ClearAndPaste: %v", err)
	}

	// 10 original - 4 cleared + 4 pasted = 10 samples of track extent.
	if got := trk.EndTime(); got != 10 {
		t.Fatalf("EndTime = %v, want 10", got)
	}
	buf := make([]float32, 10)
	if err := trk.Get(buf, 0, 10); err != nil {
		t.Fatalf("Get: %v", err)
	}
	// Samples 0-1 and 6-9 come from the original ramp, 2-5 from the
	// replacement ramp.
	if buf[0] != 0 || buf[1] != 1 {
		t.Fatalf("prefix = %v %v, want 0 1", buf[0], buf[1])
	}
	for i := 0; i < 4; i++ {
		if buf[2+i] != float32(i) {
			t.Fatalf("pasted sample %d = %v, want %v", i, buf[2+i], float32(i))
		}
	}
	for i := 6; i < 10; i++ {
		if buf[i] != float32(i) {
			t.Fatalf("suffix sample %d = %v, want %v", i, buf[i], float32(i))
		}
	}
}

func TestHandleClearHeadOfClipMovesTailToRegionStart(t *testing.T) {
	trk := New(newManager(t), sampleformat.Int16, 1<<20, 1.0)
	c := newFilledClip(t, trk, 4, 6) // [4,10)
	trk.addClip(c)

	// Clear [2,6): the clip's first two samples go away, the surviving four
	// land at t=2 once the ripple closes the gap.
	if err := trk.HandleClear(2, 6, false, false); err != nil {
		t.Fatalf("HandleClear: %v", err)
	}
	if trk.NumClips() != 1 {
		t.Fatalf("NumClips = %d, want 1", trk.NumClips())
	}
	got := trk.Clips()[0]
	if got.StartTime() != 2 {
		t.Fatalf("StartTime = %v, want 2", got.StartTime())
	}
	if got.NumSamples() != 4 {
		t.Fatalf("NumSamples = %d, want 4", got.NumSamples())
	}
}

func TestMergeClipsAppendsAndRemoves(t *testing.T) {
	trk := New(newManager(t), sampleformat.Int16, 1<<20, 1.0)
	a := newFilledClip(t, trk, 0, 5)
	b := newFilledClip(t, trk, 5, 3)
	trk.addClip(a)
	trk.addClip(b)

	if err := trk.mergeClips(0, 1); err != nil {
		t.Fatalf("mergeClips: %v", err)
	}
	if trk.NumClips() != 1 {
		t.Fatalf("NumClips = %d, want 1", trk.NumClips())
	}
	if trk.clips[0].NumSamples() != 8 {
		t.Fatalf("merged NumSamples = %d, want 8", trk.clips[0].NumSamples())
	}
}
