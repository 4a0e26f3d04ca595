// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

// ErrInvalidDstSize is returned by interleaved readers when the destination
// length is not a multiple of the channel count.
var ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
