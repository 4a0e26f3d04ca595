// SPDX-License-Identifier: EPL-2.0

package blockfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/ik5/wavecore/sampleformat"
	"github.com/ik5/wavecore/waveerr"
)

// FileTag is the 20-byte ASCII header every on-disk block file begins with.
const FileTag = "AudacityBlockFile112"

// simpleMagic identifies the Simple variant's local container header,
// written after the two summary sections and before the sample data.
const simpleMagic uint32 = 0x2E736E64

// encoding values stored in the Simple container header.
const (
	encInt16   uint32 = 3
	encInt24   uint32 = 4
	encFloat32 uint32 = 6
)

func encodingFor(f sampleformat.Format) uint32 {
	switch f {
	case sampleformat.Int16:
		return encInt16
	case sampleformat.Int24:
		return encInt24
	default:
		return encFloat32
	}
}

func formatForEncoding(enc uint32) (sampleformat.Format, error) {
	switch enc {
	case encInt16:
		return sampleformat.Int16, nil
	case encInt24:
		return sampleformat.Int24, nil
	case encFloat32:
		return sampleformat.Float32, nil
	default:
		return 0, fmt.Errorf("blockfile: unknown encoding %d", enc)
	}
}

// simpleContainerHeaderSize is the 24-byte header prepended to sample data
// in a Simple block file.
const simpleContainerHeaderSize = 24

// writeTriples writes a slice of Triple as 3 native-endian (little-endian)
// float32 each.
func writeTriples(w io.Writer, triples []Triple) error {
	buf := make([]byte, 12)
	for _, t := range triples {
		binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(t.Min))
		binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(t.Max))
		binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(t.RMS))
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func readTriples(r io.Reader, count int64) ([]Triple, error) {
	out := make([]Triple, count)
	buf := make([]byte, 12)
	for i := range out {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		out[i] = Triple{
			Min: math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4])),
			Max: math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8])),
			RMS: math.Float32frombits(binary.LittleEndian.Uint32(buf[8:12])),
		}
	}
	return out, nil
}

// writeSimpleFile writes a complete Simple block file: tag, 1:65536
// summary, 1:256 summary, the 24-byte container header, then the sample
// data encoded in format f.
func writeSimpleFile(path string, samples []float32, f sampleformat.Format) error {
	file, err := os.Create(path)
	if err != nil {
		return waveerr.NewFileError(waveerr.OpOpen, path, err)
	}
	defer file.Close()

	level256, level65536, _, _, _ := calcSummary(samples)

	if _, err := file.WriteString(FileTag); err != nil {
		return waveerr.NewFileError(waveerr.OpWrite, path, err)
	}
	if err := writeTriples(file, level65536); err != nil {
		return waveerr.NewFileError(waveerr.OpWrite, path, err)
	}
	if err := writeTriples(file, level256); err != nil {
		return waveerr.NewFileError(waveerr.OpWrite, path, err)
	}

	header := make([]byte, simpleContainerHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], simpleMagic)
	binary.LittleEndian.PutUint32(header[4:8], uint32(simpleContainerHeaderSize))
	binary.LittleEndian.PutUint32(header[8:12], 0xFFFFFFFF) // dataSize sentinel
	binary.LittleEndian.PutUint32(header[12:16], encodingFor(f))
	binary.LittleEndian.PutUint32(header[16:20], 44100)
	binary.LittleEndian.PutUint32(header[20:24], 1)
	if _, err := file.Write(header); err != nil {
		return waveerr.NewFileError(waveerr.OpWrite, path, err)
	}

	data := make([]byte, len(samples)*sampleformat.BytesPerSample(f))
	sampleformat.Encode(data, samples, f)
	if _, err := file.Write(data); err != nil {
		return waveerr.NewFileError(waveerr.OpWrite, path, err)
	}
	return nil
}

// readSummaryFromDisk reads both summary sections from a block file,
// skipping the leading tag.
func readSummaryFromDisk(path string, n int64) (level256, level65536 []Triple, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, waveerr.NewFileError(waveerr.OpOpen, path, err)
	}
	defer file.Close()

	if _, err := file.Seek(int64(len(FileTag)), io.SeekStart); err != nil {
		return nil, nil, waveerr.NewFileError(waveerr.OpRead, path, err)
	}
	level65536, err = readTriples(file, ceilDiv(n, Decimation65536))
	if err != nil {
		return nil, nil, waveerr.NewFileError(waveerr.OpRead, path, err)
	}
	level256, err = readTriples(file, ceilDiv(n, Decimation256))
	if err != nil {
		return nil, nil, waveerr.NewFileError(waveerr.OpRead, path, err)
	}
	return level256, level65536, nil
}

// sampleDataOffset returns the byte offset of the sample data section for a
// Simple block file of n samples.
func sampleDataOffset(n int64) int64 {
	return int64(len(FileTag)) + TotalSummaryBytes(n) + simpleContainerHeaderSize
}

// readSimpleData reads length samples starting at sample index start from a
// Simple block file into dst (float32 domain). Returns the number actually
// read.
func readSimpleData(path string, f sampleformat.Format, totalLen, start, length int64, dst []float32) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, waveerr.NewFileError(waveerr.OpOpen, path, err)
	}
	defer file.Close()

	bps := int64(sampleformat.BytesPerSample(f))
	offset := sampleDataOffset(totalLen) + start*bps

	avail := totalLen - start
	if avail < 0 {
		avail = 0
	}
	toRead := length
	if toRead > avail {
		toRead = avail
	}
	if toRead <= 0 {
		return 0, nil
	}

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return 0, waveerr.NewFileError(waveerr.OpRead, path, err)
	}
	buf := make([]byte, toRead*bps)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return 0, waveerr.NewFileError(waveerr.OpRead, path, err)
	}
	samplesRead := int64(n) / bps
	sampleformat.Decode(dst[:samplesRead], buf[:samplesRead*bps], f)
	return int(samplesRead), nil
}

// readRawData reads length samples at sample index start from an external
// headerless file holding totalLen samples encoded as f — the read path of
// the Alias variant, whose sample data is not wrapped in the block-file
// layout.
func readRawData(path string, f sampleformat.Format, totalLen, start, length int64, dst []float32) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, waveerr.NewFileError(waveerr.OpOpen, path, err)
	}
	defer file.Close()

	bps := int64(sampleformat.BytesPerSample(f))
	avail := totalLen - start
	if avail < 0 {
		avail = 0
	}
	toRead := length
	if toRead > avail {
		toRead = avail
	}
	if toRead <= 0 {
		return 0, nil
	}

	if _, err := file.Seek(start*bps, io.SeekStart); err != nil {
		return 0, waveerr.NewFileError(waveerr.OpRead, path, err)
	}
	buf := make([]byte, toRead*bps)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return 0, waveerr.NewFileError(waveerr.OpRead, path, err)
	}
	samplesRead := int64(n) / bps
	sampleformat.Decode(dst[:samplesRead], buf[:samplesRead*bps], f)
	return int(samplesRead), nil
}

// copyFile duplicates the on-disk bytes of src into dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return waveerr.NewFileError(waveerr.OpOpen, src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return waveerr.NewFileError(waveerr.OpOpen, dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return waveerr.NewFileError(waveerr.OpWrite, dst, err)
	}
	return nil
}
