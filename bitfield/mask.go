// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bitfield

import (
	"fmt"
	"math/bits"
	"unsafe"

	"github.com/embeddedgo/bitreg/mmio"
	"golang.org/x/exp/constraints"
)

// Value is the set of types a field can be read as and written from.
// Enumerations declared as named integer types qualify.
type Value interface {
	constraints.Integer
}

// Index is the set of types an array can be indexed with.
type Index interface {
	constraints.Integer
}

// Width returns the number of bits in the storage word type W.
func Width[W mmio.Word]() uint {
	return uint(bits.OnesCount64(uint64(^W(0))))
}

// Mask returns a word with exactly the bits [pos, pos+n) set. The caller
// guarantees pos+n <= Width[W]().
func Mask[W mmio.Word](pos, n uint) W {
	return (W(1)<<n - 1) << pos
}

// CheckWidth returns ErrRange if v does not fit in n bits.
func CheckWidth[W mmio.Word](v W, n uint) error {
	if v>>n != 0 {
		return fmt.Errorf("%w: %#x does not fit in %d bits", ErrRange, v, n)
	}
	return nil
}

// checkValue is CheckWidth for values of any integer type. It is done in
// 64 bits so wide or negative values are never truncated into range.
func checkValue[V Value](v V, n uint) error {
	if v < 0 || uint64(v)>>n != 0 {
		return fmt.Errorf("%w: %d does not fit in %d bits", ErrRange, v, n)
	}
	return nil
}

func checkField[W mmio.Word](pos, n uint) error {
	w := Width[W]()
	switch {
	case n == 0:
		return fmt.Errorf("%w: zero length field", ErrLayout)
	case pos >= w || n > w-pos:
		return fmt.Errorf(
			"%w: bits %d..%d exceed %d-bit word", ErrLayout, pos, pos+n-1, w,
		)
	}
	return nil
}

// checkValueType returns ErrLayout if V cannot hold every n-bit value. A
// signed V needs one more bit for the sign.
func checkValueType[V Value](n uint) error {
	var zero V
	w := uint(unsafe.Sizeof(zero)) * 8
	if ^zero < 0 {
		w--
	}
	if n > w {
		return fmt.Errorf(
			"%w: %d-bit field read as %d-bit value type", ErrLayout, n, w,
		)
	}
	return nil
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
