// SPDX-License-Identifier: EPL-2.0

package blockfile

import "errors"

var errShortRead = errors.New("short read")
