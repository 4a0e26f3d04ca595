// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
)

// fakeReader feeds canned 16-bit little-endian PCM bytes the way go-mp3's
// Decoder does.
type fakeReader struct {
	sampleRate int
	data       []byte
	offset     int
}

func (f *fakeReader) SampleRate() int { return f.sampleRate }

func (f *fakeReader) Read(p []byte) (int, error) {
	if f.offset >= len(f.data) {
		return 0, io.EOF
	}
	n := copy(p, f.data[f.offset:])
	f.offset += n
	return n, nil
}

func pcm16Bytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func TestSourceConvertsPCMBytes(t *testing.T) {
	src := &source{
		dec:        &fakeReader{sampleRate: 44100, data: pcm16Bytes([]int16{0, 16384, -16384, -32768})},
		sampleRate: 44100,
		buf:        make([]byte, 16),
	}

	if src.Channels() != 2 {
		t.Fatalf("Channels() = %d, want 2 (go-mp3 always decodes to stereo)", src.Channels())
	}

	buf := make([]float32, 4)
	n, err := src.ReadSamples(buf)
	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples: %v", err)
	}
	if n != 4 {
		t.Fatalf("n = %d, want 4", n)
	}
	want := []float32{0, 0.5, -0.5, -1}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}

	if n, err := src.ReadSamples(buf); n != 0 || err != io.EOF {
		t.Fatalf("read past end = (%d, %v), want (0, EOF)", n, err)
	}
}

func TestDecodeRejectsNonMP3(t *testing.T) {
	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("definitely not an mp3 stream"))); err == nil {
		t.Fatal("junk input: want error, got nil")
	}
}
