// SPDX-License-Identifier: EPL-2.0

package wavecore

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/ik5/wavecore/audio"
	"github.com/ik5/wavecore/dirmanager"
	"github.com/ik5/wavecore/formats/aiff"
	"github.com/ik5/wavecore/formats/mp3"
	"github.com/ik5/wavecore/formats/vorbis"
	"github.com/ik5/wavecore/formats/wav"
	"github.com/ik5/wavecore/mixer"
	"github.com/ik5/wavecore/sampleformat"
	"github.com/ik5/wavecore/waveerr"
	"github.com/ik5/wavecore/wavetrack"
)

// importMaxBlockSize is the 1MiB default block-file byte budget, which
// yields a 262144-sample maxSamples at float32.
const importMaxBlockSize = 1 << 20

// importBufSize is the chunk size Import reads decoded samples in before
// handing them to the clip's append buffer.
const importBufSize = 4096

func defaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	return reg
}

// Import decodes r (format one of "wav", "mp3", "ogg", "aiff") into a
// fresh mono WaveTrack: multi-channel sources are averaged to mono at
// decode time via audio.MonoMixer, then appended into a single clip backed
// by a new on-disk block-file directory.
func Import(r io.Reader, format string) (*wavetrack.Track, error) {
	reg := defaultRegistry()
	dec, ok := reg.Get(format)
	if !ok {
		return nil, fmt.Errorf("wavecore: unsupported import format %q", format)
	}

	src, err := dec.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("wavecore: decode: %w", err)
	}
	defer src.Close()

	return trackFromSource(src)
}

// trackFromSource drains a decoded Source into a fresh single-clip mono
// WaveTrack at the source's own rate.
func trackFromSource(src audio.Source) (*wavetrack.Track, error) {
	mono := audio.NewMonoMixer(src)

	dataDir, err := os.MkdirTemp("", "wavecore-import-*")
	if err != nil {
		return nil, err
	}
	manager, err := dirmanager.NewManager(dataDir)
	if err != nil {
		return nil, err
	}

	trk := wavetrack.New(manager, sampleformat.Float32, importMaxBlockSize, float64(mono.SampleRate()))
	clip := trk.NewClip(0)

	buf := make([]float32, importBufSize)
	for {
		n, readErr := mono.ReadSamples(buf)
		if n > 0 {
			if err := clip.Append(buf[:n]); err != nil {
				return nil, err
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("wavecore: decode: %w", readErr)
		}
	}
	if err := clip.Flush(); err != nil {
		return nil, err
	}
	if clip.NumSamples() > 0 {
		if err := trk.AddClip(clip); err != nil {
			return nil, err
		}
	}
	return trk, nil
}

// Export mixes t through a single-track Mixer at its own native rate and
// encodes the result. format is currently limited to "wav", the one encode
// path formats/wav implements.
func Export(w io.Writer, t *wavetrack.Track, format string) error {
	if format != "wav" {
		return fmt.Errorf("wavecore: unsupported export format %q", format)
	}

	end := t.EndTime()
	total := int64(math.Round(end * t.Rate()))
	mx := mixer.New([]*wavetrack.Track{t}, 0, end, false, 1, true, t.Rate(), sampleformat.Int16, true, nil)

	const chunkFrames = 4096
	raw := make([]byte, chunkFrames*sampleformat.BytesPerSample(sampleformat.Int16))
	samples := make([]int16, 0, total)
	for {
		n := mx.ProcessEncoded(chunkFrames, raw)
		if n == 0 {
			break
		}
		for i := 0; i < n; i++ {
			v := int16(binary.LittleEndian.Uint16(raw[i*2:]))
			samples = append(samples, v)
		}
	}
	return wav.WriteWAV16(w, int(t.Rate()), samples)
}

// NoiseReduce is the programmatic host entry point for batch processing:
// Import the profile and source, validate the profile window, and Export
// the source. The Reduce stage is an identity pass-through; the function
// carries the full Import/Profile/Reduce/Export shape so the DSP can slot
// in without changing callers.
func NoiseReduce(profile io.Reader, profileStart, profileEnd float64, src io.Reader, noiseGain, sensitivity, smoothing float64, dst io.Writer) waveerr.Progress {
	_, _, _ = noiseGain, sensitivity, smoothing // plumbed through, unused by the identity Reduce stage

	profileTrack, err := Import(profile, "wav")
	if err != nil {
		return waveerr.Failed
	}
	if profileEnd <= profileStart || profileStart < 0 || profileEnd > profileTrack.EndTime() {
		return waveerr.Failed
	}

	srcTrack, err := Import(src, "wav")
	if err != nil {
		return waveerr.Failed
	}

	if err := Export(dst, srcTrack, "wav"); err != nil {
		return waveerr.Failed
	}
	return waveerr.Success
}
