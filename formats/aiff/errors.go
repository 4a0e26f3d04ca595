// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	// ErrNotAiffFile marks input without a FORM/AIFF signature.
	ErrNotAiffFile = errors.New("not an AIFF file")
	// ErrOnlyPCM16bitSupported marks streams at any other bit depth.
	ErrOnlyPCM16bitSupported = errors.New("only 16-bit PCM AIFF is supported")
	// ErrUnsupportedAiffLayout marks a file whose format chunk is missing.
	ErrUnsupportedAiffLayout = errors.New("unsupported AIFF layout")
)
