// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	goawav "github.com/go-audio/wav"
)

func encode(t *testing.T, sampleRate int, samples []int16) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	if err := WriteWAV16(buf, sampleRate, samples); err != nil {
		t.Fatalf("WriteWAV16: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeReadsBackWrittenSamples(t *testing.T) {
	samples := []int16{0, 1000, -1000, 32767, -32768}
	src, err := Decoder{}.Decode(bytes.NewReader(encode(t, 8000, samples)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	defer src.Close()

	if src.SampleRate() != 8000 {
		t.Fatalf("SampleRate() = %d, want 8000", src.SampleRate())
	}
	if src.Channels() != 1 {
		t.Fatalf("Channels() = %d, want 1", src.Channels())
	}

	buf := make([]float32, len(samples))
	n, err := src.ReadSamples(buf)
	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples: %v", err)
	}
	if n != len(samples) {
		t.Fatalf("n = %d, want %d", n, len(samples))
	}
	for i, want := range samples {
		got := buf[i] * 32768.0
		if math.Abs(float64(got)-float64(want)) > 0.5 {
			t.Fatalf("sample %d = %v, want %d", i, got, want)
		}
	}

	if n, err := src.ReadSamples(buf); n != 0 || err != io.EOF {
		t.Fatalf("read past end = (%d, %v), want (0, EOF)", n, err)
	}
}

func TestDecodeRejectsNonWav(t *testing.T) {
	junk := append([]byte("not an audio file"), make([]byte, 44)...)
	if _, err := (Decoder{}).Decode(bytes.NewReader(junk)); !errors.Is(err, ErrNotWavFile) {
		t.Fatalf("err = %v, want ErrNotWavFile", err)
	}
}

func TestDecodeRejectsNonPCM16(t *testing.T) {
	data := encode(t, 8000, []int16{0, 0})
	data[34] = 8 // bits-per-sample
	if _, err := (Decoder{}).Decode(bytes.NewReader(data)); !errors.Is(err, ErrOnlyPCM16bitSupported) {
		t.Fatalf("err = %v, want ErrOnlyPCM16bitSupported", err)
	}
}

func TestDecodeRejectsTruncatedHeader(t *testing.T) {
	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("RIFF"))); err == nil {
		t.Fatal("truncated header: want error, got nil")
	}
}

func TestWriteWAV16Layout(t *testing.T) {
	data := encode(t, 44100, []int16{1, 2, 3})
	if len(data) != 44+6 {
		t.Fatalf("file length = %d, want 50", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" || string(data[36:40]) != "data" {
		t.Fatalf("bad chunk layout: % x", data[:44])
	}
}

func TestWriteWAV16ParsesWithIndependentDecoder(t *testing.T) {
	// Cross-check the writer against go-audio/wav, a parser that shares no
	// code with this package.
	samples := []int16{0, 1000, -1000, 2000}
	dec := goawav.NewDecoder(bytes.NewReader(encode(t, 44100, samples)))
	if !dec.IsValidFile() {
		t.Fatal("go-audio/wav rejects WriteWAV16 output")
	}
	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer: %v", err)
	}
	if dec.SampleRate != 44100 || dec.NumChans != 1 || dec.BitDepth != 16 {
		t.Fatalf("parsed header = %d Hz, %d ch, %d bit; want 44100/1/16",
			dec.SampleRate, dec.NumChans, dec.BitDepth)
	}
	if len(pcm.Data) != len(samples) {
		t.Fatalf("decoded %d samples, want %d", len(pcm.Data), len(samples))
	}
	for i, want := range samples {
		if pcm.Data[i] != int(want) {
			t.Fatalf("sample %d = %d, want %d", i, pcm.Data[i], want)
		}
	}
}

func TestWriteWAV16EmptyStream(t *testing.T) {
	data := encode(t, 8000, nil)
	if len(data) != 44 {
		t.Fatalf("empty stream file length = %d, want header only (44)", len(data))
	}
}
