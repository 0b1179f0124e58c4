// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bitfield

import (
	"fmt"
	"iter"

	"github.com/embeddedgo/bitreg/mmio"
)

// RegArray is a sequence of identical registers placed every stride bytes.
// R is typically a struct of fields built over one register window.
type RegArray[R any] struct {
	elems  []R
	stride uintptr
}

// NewRegArray builds n registers from w. The i-th register is created by mk
// from the stride bytes of w that start at i*stride. All registers are built
// before NewRegArray returns.
func NewRegArray[R any](w *mmio.Window, n int, stride uintptr, mk func(*mmio.Window) (R, error)) (*RegArray[R], error) {
	if n < 0 || stride == 0 {
		return nil, fmt.Errorf("%w: %d registers, stride %d", ErrLayout, n, stride)
	}
	if uintptr(n) > w.Size()/stride {
		return nil, fmt.Errorf(
			"%w: %d registers of %d bytes in %d byte window",
			ErrLayout, n, stride, w.Size(),
		)
	}
	a := &RegArray[R]{elems: make([]R, n), stride: stride}
	for i := range a.elems {
		sw, err := w.Sub(uintptr(i)*stride, stride)
		if err != nil {
			return nil, err
		}
		if a.elems[i], err = mk(sw); err != nil {
			return nil, fmt.Errorf("register %d: %w", i, err)
		}
	}
	return a, nil
}

// Len returns the number of registers.
func (a *RegArray[R]) Len() int { return len(a.elems) }

// Stride returns the distance between the registers in bytes.
func (a *RegArray[R]) Stride() uintptr { return a.stride }

// At returns the register i.
func (a *RegArray[R]) At(i int) (*R, error) {
	k, err := index(i, uint(len(a.elems)))
	if err != nil {
		return nil, err
	}
	return &a.elems[k], nil
}

// All returns an iterator over the registers and their indices.
func (a *RegArray[R]) All() iter.Seq2[int, *R] {
	return func(yield func(int, *R) bool) {
		for i := range a.elems {
			if !yield(i, &a.elems[i]) {
				return
			}
		}
	}
}
