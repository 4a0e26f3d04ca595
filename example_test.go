// SPDX-License-Identifier: EPL-2.0

package wavecore_test

import (
	"bytes"
	"fmt"

	"github.com/ik5/wavecore"
	"github.com/ik5/wavecore/formats/wav"
)

// Example demonstrates the import → edit → export round trip at the heart
// of the engine.
func Example() {
	samples := []int16{100, -100, 200, -200, 300, -300, 400, -400}
	in := new(bytes.Buffer)
	wav.WriteWAV16(in, 8000, samples)

	trk, err := wavecore.Import(in, "wav")
	if err != nil {
		fmt.Println("import:", err)
		return
	}

	// Cut the middle two samples out; later audio ripples left.
	if err := trk.HandleClear(3.0/8000, 5.0/8000, false, false); err != nil {
		fmt.Println("clear:", err)
		return
	}

	out := new(bytes.Buffer)
	if err := wavecore.Export(out, trk, "wav"); err != nil {
		fmt.Println("export:", err)
		return
	}

	fmt.Printf("%d samples in, %d out\n", len(samples), (out.Len()-44)/2)
	// Output: 8 samples in, 6 out
}

// ExampleImportResampled brings a file in at a different rate than it was
// recorded at.
func ExampleImportResampled() {
	samples := make([]int16, 16000)
	in := new(bytes.Buffer)
	wav.WriteWAV16(in, 16000, samples)

	trk, err := wavecore.ImportResampled(in, "wav", 8000)
	if err != nil {
		fmt.Println("import:", err)
		return
	}

	fmt.Printf("track rate: %v Hz\n", trk.Rate())
	// Output: track rate: 8000 Hz
}
