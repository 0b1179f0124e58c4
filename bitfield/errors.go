// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bitfield

import (
	"errors"
	"fmt"
)

var (
	// ErrRange reports a value that does not fit in the bits of its field.
	ErrRange = errors.New("bitfield: value exceeds field width")

	// ErrIndex reports an array index outside [0, Len).
	ErrIndex = errors.New("bitfield: index out of range")

	// ErrCapability reports an operation forbidden by the access mode of a
	// field whose mode is known only at run time.
	ErrCapability = errors.New("bitfield: operation not allowed by access mode")

	// ErrLayout reports an invalid static layout given to a constructor.
	ErrLayout = errors.New("bitfield: invalid layout")
)

var errNilReg = fmt.Errorf("%w: nil register", ErrLayout)
